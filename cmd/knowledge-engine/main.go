// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the knowledge-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jaat-ai/knowledge-engine/internal/embed"
	"github.com/jaat-ai/knowledge-engine/internal/index"
	"github.com/jaat-ai/knowledge-engine/internal/secrets"
	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the knowledge-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "knowledge-engine",
	Short: "In-memory knowledge index with search, graph, and taxonomy",
	Long: `knowledge-engine manages an in-process knowledge index: items are
loaded from YAML, verified, trust-scored, and made searchable by keyword or
embedding similarity. A typed relation graph and a hierarchical taxonomy are
maintained alongside the index.

Nothing persists between runs; each command loads its items, performs the
operation, and exits.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./knowledge-engine.yaml or ~/.config/knowledge-engine/config.yaml)")
	rootCmd.PersistentFlags().String("items-dir", "knowledge/items", "directory of YAML item files loaded before each command")
	rootCmd.PersistentFlags().Bool("verbose", false, "log engine progress to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("knowledge-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "knowledge-engine"))
		}
	}

	viper.SetEnvPrefix("KNOWLEDGE_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("storage_provider", string(types.StorageMemory))
	viper.SetDefault("vector_dimensions", 1536)
	viper.SetDefault("max_results", 10)
	viper.SetDefault("min_relevance_score", 0.7)
	viper.SetDefault("minimum_trust_score", 0.6)
	viper.SetDefault("enable_semantic_search", true)
	viper.SetDefault("enable_fact_verification", true)
	viper.SetDefault("enable_source_tracking", true)
	viper.SetDefault("enable_knowledge_graph", true)
	viper.SetDefault("enable_hierarchical_taxonomy", true)
	viper.SetDefault("require_source_verification", true)
	viper.SetDefault("enforce_trust_scores", true)
	viper.SetDefault("embedding_model", "text-embedding-3-small")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the engine configuration from viper.
func engineConfig() types.Config {
	return types.Config{
		StorageProvider:            types.StorageProvider(viper.GetString("storage_provider")),
		VectorDimensions:           viper.GetInt("vector_dimensions"),
		MaxResults:                 viper.GetInt("max_results"),
		MinRelevanceScore:          viper.GetFloat64("min_relevance_score"),
		MinimumTrustScore:          viper.GetFloat64("minimum_trust_score"),
		EnableSemanticSearch:       viper.GetBool("enable_semantic_search"),
		EnableFactVerification:     viper.GetBool("enable_fact_verification"),
		EnableSourceTracking:       viper.GetBool("enable_source_tracking"),
		EnableKnowledgeGraph:       viper.GetBool("enable_knowledge_graph"),
		EnableHierarchicalTaxonomy: viper.GetBool("enable_hierarchical_taxonomy"),
		RequireSourceVerification:  viper.GetBool("require_source_verification"),
		EnforceTrustScores:         viper.GetBool("enforce_trust_scores"),
	}
}

// newEngine builds the engine. With the embedding-api-key secret present
// the HTTP embedding backend is used; otherwise embeddings come from the
// deterministic local provider.
func newEngine(cmd *cobra.Command) (*index.Engine, error) {
	cfg := engineConfig()

	var provider embed.Provider
	if key := loadedSecrets["embedding-api-key"]; key != "" {
		provider = embed.NewHTTPProvider(key, viper.GetString("embedding_model"), cfg.VectorDimensions)
	}

	logw := os.Stderr
	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
		return index.New(cfg, provider, nil)
	}
	return index.New(cfg, provider, logw)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
