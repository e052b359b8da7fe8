// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaat-ai/knowledge-engine/internal/graph"
	"github.com/jaat-ai/knowledge-engine/internal/index"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Query the knowledge graph (node, path, search, related)",
	Long: `Graph runs read queries against the relation graph built from the
loaded items. Node ids and knowledge item ids are both accepted where a
node is expected.`,
}

var graphNodeCmd = &cobra.Command{
	Use:   "node [id]",
	Short: "Show a node's neighborhood",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		depth, _ := cmd.Flags().GetInt("depth")
		return runGraphQuery(cmd, index.GraphQuery{Type: "node", NodeID: args[0], Depth: depth})
	},
}

var graphPathCmd = &cobra.Command{
	Use:   "path [from] [to]",
	Short: "Find the shortest path between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGraphQuery(cmd, index.GraphQuery{Type: "path", From: args[0], To: args[1]})
	},
}

var graphSearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Find nodes by label, name, or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		q := index.GraphQuery{Type: "search", Term: args[0]}
		if kind != "" {
			q.Kinds = []graph.NodeKind{graph.NodeKind(kind)}
		}
		return runGraphQuery(cmd, q)
	},
}

var graphRelatedCmd = &cobra.Command{
	Use:   "related [item-id]",
	Short: "Find knowledge items related to an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGraphQuery(cmd, index.GraphQuery{Type: "related", ItemID: args[0]})
	},
}

func runGraphQuery(cmd *cobra.Command, q index.GraphQuery) error {
	e, err := loadedEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.QueryGraph(context.Background(), q)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return formatGraphResult(res)
}

func formatGraphResult(res index.GraphResult) error {
	switch {
	case res.Subgraph != nil:
		for _, n := range res.Subgraph.Nodes {
			fmt.Fprintf(os.Stdout, "node %-12s %-10s %s\n", shortID(n.ID), n.Kind, n.Label)
		}
		for _, e := range res.Subgraph.Edges {
			fmt.Fprintf(os.Stdout, "edge %s -[%s]-> %s\n", shortID(e.Source), e.Kind, shortID(e.Target))
		}
		fmt.Fprintf(os.Stdout, "\n%d nodes, %d edges\n", len(res.Subgraph.Nodes), len(res.Subgraph.Edges))

	case res.Path != nil:
		if !res.Path.PathFound {
			fmt.Println("No path found.")
			return nil
		}
		for i, n := range res.Path.Nodes {
			if i > 0 {
				fmt.Fprintf(os.Stdout, "  -[%s]->\n", res.Path.Edges[i-1].Kind)
			}
			fmt.Fprintf(os.Stdout, "%s (%s)\n", n.Label, n.Kind)
		}

	case res.Related != nil:
		for i, r := range res.Related {
			fmt.Fprintf(os.Stdout, "%-4d  %-6.2f  %-10s  %s\n", i+1, r.Score, r.Via, r.Item.Title)
		}
		fmt.Fprintf(os.Stdout, "\n%d related items\n", len(res.Related))

	default:
		fmt.Println("No results.")
	}
	return nil
}

// shortID trims generated node and edge ids for table display.
func shortID(id string) string {
	if len(id) > 13 {
		return id[:13]
	}
	return id
}

func init() {
	graphNodeCmd.Flags().Int("depth", 1, "traversal depth")
	graphSearchCmd.Flags().String("kind", "", "restrict to a node kind: concept, entity, event, fact, category")
	graphCmd.PersistentFlags().Bool("json", false, "output results as JSON")

	graphCmd.AddCommand(graphNodeCmd)
	graphCmd.AddCommand(graphPathCmd)
	graphCmd.AddCommand(graphSearchCmd)
	graphCmd.AddCommand(graphRelatedCmd)

	rootCmd.AddCommand(graphCmd)
}
