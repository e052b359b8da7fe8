// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jaat-ai/knowledge-engine/internal/index"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the loaded knowledge",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadedEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		stats, err := e.Stats(context.Background())
		if err != nil {
			return err
		}
		printStats(stats)
		return nil
	},
}

func printStats(stats index.Statistics) {
	fmt.Fprintf(os.Stdout, "Items:            %d (%d verified)\n", stats.TotalItems, stats.VerifiedItems)
	fmt.Fprintf(os.Stdout, "Average trust:    %.2f\n", stats.AverageTrustScore)
	fmt.Fprintf(os.Stdout, "Sources:          %d (%d trusted)\n", stats.SourceCount, stats.TrustedSourceCount)
	fmt.Fprintf(os.Stdout, "Taxonomy nodes:   %d\n", stats.TaxonomyNodes)
	fmt.Fprintf(os.Stdout, "Graph:            %d nodes, %d edges\n", stats.GraphNodes, stats.GraphEdges)

	for _, section := range []struct {
		name   string
		counts map[string]int
	}{
		{"By type", stats.ItemsByType},
		{"By category", stats.ItemsByCategory},
	} {
		if len(section.counts) == 0 {
			continue
		}
		keys := make([]string, 0, len(section.counts))
		for k := range section.counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(os.Stdout, "%s:\n", section.name)
		for _, k := range keys {
			fmt.Fprintf(os.Stdout, "  %-20s %d\n", k, section.counts[k])
		}
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
