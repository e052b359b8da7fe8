// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StorageProvider selects where knowledge items and embeddings are kept.
// All providers behave identically from the caller's point of view; the
// engine holds no on-disk state.
type StorageProvider string

const (
	// StorageMemory keeps items in an in-process map.
	StorageMemory StorageProvider = "memory"

	// StorageDatabase keeps items in an in-memory SQLite database.
	StorageDatabase StorageProvider = "database"

	// StorageVectorDB keeps items in a map and embeddings in a separate
	// per-id vector map instead of the parallel search index arrays.
	StorageVectorDB StorageProvider = "vector-db"
)

// Config holds the knowledge engine settings.
type Config struct {
	// StorageProvider selects the item storage backend (default memory).
	StorageProvider StorageProvider `json:"storage_provider" yaml:"storage_provider"`

	// VectorDimensions is the embedding length (default 1536).
	VectorDimensions int `json:"vector_dimensions" yaml:"vector_dimensions"`

	// MaxResults caps search results per page (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MinRelevanceScore is the default search score cutoff (default 0.7).
	MinRelevanceScore float64 `json:"min_relevance_score" yaml:"min_relevance_score"`

	// Feature switches. All default to on.
	EnableSemanticSearch       bool `json:"enable_semantic_search" yaml:"enable_semantic_search"`
	EnableFactVerification     bool `json:"enable_fact_verification" yaml:"enable_fact_verification"`
	EnableSourceTracking       bool `json:"enable_source_tracking" yaml:"enable_source_tracking"`
	EnableKnowledgeGraph       bool `json:"enable_knowledge_graph" yaml:"enable_knowledge_graph"`
	EnableHierarchicalTaxonomy bool `json:"enable_hierarchical_taxonomy" yaml:"enable_hierarchical_taxonomy"`

	// RequireSourceVerification makes fact verification fail items that
	// carry no source URL (default on).
	RequireSourceVerification bool `json:"require_source_verification" yaml:"require_source_verification"`

	// EnforceTrustScores rejects items whose trust score falls below
	// MinimumTrustScore (default on).
	EnforceTrustScores bool `json:"enforce_trust_scores" yaml:"enforce_trust_scores"`

	// MinimumTrustScore is the trust floor for enforcement (default 0.6).
	MinimumTrustScore float64 `json:"minimum_trust_score" yaml:"minimum_trust_score"`
}

// DefaultConfig returns the standard configuration with every feature
// enabled.
func DefaultConfig() Config {
	return Config{
		StorageProvider:            StorageMemory,
		VectorDimensions:           1536,
		MaxResults:                 10,
		MinRelevanceScore:          0.7,
		EnableSemanticSearch:       true,
		EnableFactVerification:     true,
		EnableSourceTracking:       true,
		EnableKnowledgeGraph:       true,
		EnableHierarchicalTaxonomy: true,
		RequireSourceVerification:  true,
		EnforceTrustScores:         true,
		MinimumTrustScore:          0.6,
	}
}

// WithDefaults fills zero-valued numeric fields from DefaultConfig. Boolean
// switches are taken as-is: callers building a Config by hand start from
// DefaultConfig and flip what they need.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.StorageProvider == "" {
		c.StorageProvider = d.StorageProvider
	}
	if c.VectorDimensions <= 0 {
		c.VectorDimensions = d.VectorDimensions
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	if c.MinRelevanceScore <= 0 {
		c.MinRelevanceScore = d.MinRelevanceScore
	}
	if c.MinimumTrustScore <= 0 {
		c.MinimumTrustScore = d.MinimumTrustScore
	}
	return c
}
