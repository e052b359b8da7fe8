// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export loaded knowledge to YAML or JSON",
	Long: `Export loads the items directory and writes every accepted item to
stdout, or to a file with --out, in the chosen format.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	e, err := loadedEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "yaml", "":
		if err := e.ExportYAML(context.Background(), w); err != nil {
			return err
		}
	case "json":
		if err := e.ExportJSON(context.Background(), w); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	if out != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", out)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("out", "", "write to a file instead of stdout")

	rootCmd.AddCommand(exportCmd)
}
