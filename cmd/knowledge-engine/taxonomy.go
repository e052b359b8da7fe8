// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaat-ai/knowledge-engine/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect and edit the category hierarchy",
}

var taxonomyShowCmd = &cobra.Command{
	Use:   "show [node-id]",
	Short: "Print the taxonomy tree, optionally from a subtree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadedEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		node, err := e.Taxonomy(id)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(node)
		}
		printTaxonomy(node, 0)
		return nil
	},
}

func printTaxonomy(node *taxonomy.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	suffix := ""
	if node.Meta.ItemCount > 0 {
		suffix = fmt.Sprintf(" (%d items)", node.Meta.ItemCount)
	}
	fmt.Fprintf(os.Stdout, "%s%s [%s]%s\n", indent, node.Name, node.ID, suffix)
	for _, child := range node.Children {
		printTaxonomy(child, depth+1)
	}
}

var taxonomyAddCmd = &cobra.Command{
	Use:   "add [parent-id] [id] [name]",
	Short: "Add a category under a parent node",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadedEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		description, _ := cmd.Flags().GetString("description")
		node, err := e.AddTaxonomyNode(args[0], args[1], args[2], description)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s under %s\n", node.ID, args[0])
		return nil
	},
}

var taxonomyRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a category; its items and children move up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadedEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.RemoveTaxonomyNode(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

func init() {
	taxonomyAddCmd.Flags().String("description", "", "category description")
	taxonomyShowCmd.Flags().Bool("json", false, "output the tree as JSON")

	taxonomyCmd.AddCommand(taxonomyShowCmd)
	taxonomyCmd.AddCommand(taxonomyAddCmd)
	taxonomyCmd.AddCommand(taxonomyRemoveCmd)

	rootCmd.AddCommand(taxonomyCmd)
}
