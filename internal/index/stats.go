// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
)

// Statistics summarizes the engine's contents.
type Statistics struct {
	TotalItems      int            `json:"total_items" yaml:"total_items"`
	ItemsByType     map[string]int `json:"items_by_type" yaml:"items_by_type"`
	ItemsByCategory map[string]int `json:"items_by_category" yaml:"items_by_category"`

	// VerifiedItems counts items whose fact verification passed.
	VerifiedItems int `json:"verified_items" yaml:"verified_items"`

	// AverageTrustScore is the mean trust across all items, 0 when empty.
	AverageTrustScore float64 `json:"average_trust_score" yaml:"average_trust_score"`

	SourceCount        int `json:"source_count" yaml:"source_count"`
	TrustedSourceCount int `json:"trusted_source_count" yaml:"trusted_source_count"`

	TaxonomyNodes int `json:"taxonomy_nodes" yaml:"taxonomy_nodes"`
	GraphNodes    int `json:"graph_nodes" yaml:"graph_nodes"`
	GraphEdges    int `json:"graph_edges" yaml:"graph_edges"`
}

// Stats computes a snapshot of engine statistics.
func (e *Engine) Stats(ctx context.Context) (Statistics, error) {
	if err := e.ready(); err != nil {
		return Statistics{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.items.All(ctx)
	if err != nil {
		return Statistics{}, fmt.Errorf("listing items: %w", err)
	}

	stats := Statistics{
		TotalItems:      len(items),
		ItemsByType:     make(map[string]int),
		ItemsByCategory: make(map[string]int),
	}

	var trustSum float64
	for _, item := range items {
		stats.ItemsByType[string(item.Type)]++
		stats.ItemsByCategory[item.Category]++
		if item.Verified != nil && item.Verified.Verified {
			stats.VerifiedItems++
		}
		trustSum += item.TrustScore
	}
	if len(items) > 0 {
		stats.AverageTrustScore = trustSum / float64(len(items))
	}

	stats.SourceCount = e.sources.Count()
	stats.TrustedSourceCount = e.sources.TrustedCount()
	if e.tree != nil {
		stats.TaxonomyNodes = e.tree.CountNodes()
	}
	if e.kg != nil {
		stats.GraphNodes = e.kg.NodeCount()
		stats.GraphEdges = e.kg.EdgeCount()
	}
	return stats, nil
}
