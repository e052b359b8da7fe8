// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaat-ai/knowledge-engine/internal/index"
)

var loadCmd = &cobra.Command{
	Use:   "load [dir]",
	Short: "Load YAML item files and report what the engine accepted",
	Long: `Load reads every YAML file in the items directory (or the given
directory), runs each item through verification and trust scoring, and
prints a summary. Items that fail verification or the trust floor are
skipped and counted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("items-dir")
	if len(args) > 0 {
		dir = args[0]
	}

	e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	summary, err := e.LoadItems(context.Background(), dir)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d items from %d files (%d skipped)\n",
		summary.Added, summary.Files, summary.Skipped)

	stats, err := e.Stats(context.Background())
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}

// loadedEngine builds an engine and fills it from the items directory.
// Commands that operate on loaded knowledge start here.
func loadedEngine(cmd *cobra.Command) (*index.Engine, error) {
	e, err := newEngine(cmd)
	if err != nil {
		return nil, err
	}

	dir, _ := cmd.Flags().GetString("items-dir")
	if _, err := e.LoadItems(context.Background(), dir); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
