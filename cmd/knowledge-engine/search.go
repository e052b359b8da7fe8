// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaat-ai/knowledge-engine/internal/index"
	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search loaded knowledge by keyword or embedding similarity",
	Long: `Search loads the items directory and scores every item against the
query. Scoring uses embedding similarity when semantic search is enabled,
lexical overlap otherwise. Filters narrow by type, tag, category, trust,
and verification outcome.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := loadedEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := searchOptsFromFlags(cmd)
	resp, err := e.Search(context.Background(), strings.Join(args, " "), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(resp, jsonOutput)
}

func searchOptsFromFlags(cmd *cobra.Command) index.SearchOptions {
	itemType, _ := cmd.Flags().GetString("type")
	tag, _ := cmd.Flags().GetString("tag")
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	minScore, _ := cmd.Flags().GetFloat64("min-score")

	opts := index.SearchOptions{
		Limit:    limit,
		Offset:   offset,
		MinScore: minScore,
		Filters:  index.SearchFilters{Type: types.KnowledgeItemType(itemType)},
	}
	if tag != "" {
		opts.Tags = []string{tag}
	}
	if category != "" {
		opts.Categories = []string{category}
	}
	if cmd.Flags().Changed("min-trust") {
		minTrust, _ := cmd.Flags().GetFloat64("min-trust")
		opts.Filters.MinTrustScore = &minTrust
	}
	if cmd.Flags().Changed("verified") {
		verified, _ := cmd.Flags().GetBool("verified")
		opts.Filters.Verified = &verified
	}
	if cmd.Flags().Changed("semantic") {
		semantic, _ := cmd.Flags().GetBool("semantic")
		opts.UseSemanticSearch = &semantic
	}
	return opts
}

func formatSearchOutput(resp index.SearchResponse, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if len(resp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	mode := "keyword"
	if resp.Semantic {
		mode = "semantic"
	}
	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-8s  %-40s  %-50s\n",
		"Rank", "Score", "Type", "Title", "Content")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 116))

	for i, r := range resp.Results {
		content := r.Item.Content
		if len(content) > 50 {
			content = content[:47] + "..."
		}
		title := r.Item.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-6.2f  %-8s  %-40s  %-50s\n",
			i+1, r.Score, r.Item.Type, title, content)
	}

	fmt.Fprintf(os.Stdout, "\n%d of %d results (%s)\n", len(resp.Results), resp.TotalResults, mode)
	return nil
}

func init() {
	searchCmd.Flags().String("type", "", "filter by item type: concept, entity, event, fact, category")
	searchCmd.Flags().String("tag", "", "filter by tag")
	searchCmd.Flags().String("category", "", "filter by category")
	searchCmd.Flags().Float64("min-trust", 0, "minimum trust score")
	searchCmd.Flags().Bool("verified", false, "filter by fact verification outcome")
	searchCmd.Flags().Bool("semantic", false, "force semantic (true) or keyword (false) scoring")
	searchCmd.Flags().Float64("min-score", 0, "relevance cutoff (0 = configured default)")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = configured default)")
	searchCmd.Flags().Int("offset", 0, "skip this many results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
