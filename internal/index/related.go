// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jaat-ai/knowledge-engine/internal/graph"
	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// GraphQuery selects one of the graph read operations.
type GraphQuery struct {
	// Type is the operation: "node", "path", "search", or "related".
	Type string

	// NodeID and Depth drive a node neighborhood query. NodeID accepts
	// either a graph node id or a knowledge item id.
	NodeID string
	Depth  int

	// From and To are the endpoints of a path query, same id rules as
	// NodeID.
	From, To string

	// Term and Kinds drive a node search.
	Term  string
	Kinds []graph.NodeKind

	// ItemID names the anchor of a related-items query.
	ItemID string
}

// RelatedItem is a knowledge item scored by its closeness to the anchor.
// Via reports which mechanism found it: "graph" or "metadata".
type RelatedItem struct {
	Item  types.KnowledgeItem `json:"item" yaml:"item"`
	Score float64             `json:"score" yaml:"score"`
	Via   string              `json:"via" yaml:"via"`
}

// GraphResult carries the outcome of a graph query; the field matching
// the query type is populated.
type GraphResult struct {
	Subgraph *graph.Subgraph   `json:"subgraph,omitempty" yaml:"subgraph,omitempty"`
	Path     *graph.PathResult `json:"path,omitempty" yaml:"path,omitempty"`
	Related  []RelatedItem     `json:"related,omitempty" yaml:"related,omitempty"`
}

// QueryGraph dispatches a graph read. Node, path, and search queries need
// the graph feature enabled; related-item queries work regardless because
// they can fall back to metadata similarity.
func (e *Engine) QueryGraph(ctx context.Context, q GraphQuery) (GraphResult, error) {
	if err := e.ready(); err != nil {
		return GraphResult{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch q.Type {
	case "node":
		if e.kg == nil {
			return GraphResult{}, fmt.Errorf("knowledge graph: %w", types.ErrFeatureDisabled)
		}
		depth := q.Depth
		if depth <= 0 {
			depth = 1
		}
		sub, err := e.kg.Neighborhood(e.resolveNodeID(q.NodeID), depth)
		if err != nil {
			return GraphResult{}, err
		}
		return GraphResult{Subgraph: &sub}, nil

	case "path":
		if e.kg == nil {
			return GraphResult{}, fmt.Errorf("knowledge graph: %w", types.ErrFeatureDisabled)
		}
		path, err := e.kg.ShortestPath(e.resolveNodeID(q.From), e.resolveNodeID(q.To))
		if err != nil {
			return GraphResult{}, err
		}
		return GraphResult{Path: &path}, nil

	case "search":
		if e.kg == nil {
			return GraphResult{}, fmt.Errorf("knowledge graph: %w", types.ErrFeatureDisabled)
		}
		sub := e.kg.SearchNodes(q.Term, q.Kinds)
		return GraphResult{Subgraph: &sub}, nil

	case "related":
		related, err := e.findRelated(ctx, q.ItemID)
		if err != nil {
			return GraphResult{}, err
		}
		return GraphResult{Related: related}, nil

	default:
		return GraphResult{}, fmt.Errorf("graph query type %q: %w", q.Type, types.ErrInvalidArgument)
	}
}

// resolveNodeID maps a knowledge item id to its graph node id. Ids that
// already name a graph node, or match nothing, pass through unchanged and
// fail later with the graph's own not-found error.
func (e *Engine) resolveNodeID(id string) string {
	if _, ok := e.kg.Node(id); ok {
		return id
	}
	if node := e.kg.FindByItem(id); node != nil {
		return node.ID
	}
	return id
}

// RelatedItems returns the items most related to the anchor item. Callers
// hold no lock; this is the exported form of findRelated.
func (e *Engine) RelatedItems(ctx context.Context, itemID string) ([]RelatedItem, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findRelated(ctx, itemID)
}

// findRelated walks the graph two hops out from the anchor's node and
// collects every item-backed node found, scoring one-hop neighbors above
// two-hop ones. When the graph is disabled, or holds no connections for
// the anchor, metadata similarity takes over: same category scores 0.5,
// each shared tag 0.2, and only scores above 0.2 are kept.
func (e *Engine) findRelated(ctx context.Context, itemID string) ([]RelatedItem, error) {
	anchor, ok, err := e.items.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading item %s: %w", itemID, err)
	}
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, types.ErrNotFound)
	}

	var related []RelatedItem
	if e.kg != nil {
		related, err = e.relatedViaGraph(ctx, itemID)
		if err != nil {
			return nil, err
		}
	}
	if len(related) == 0 {
		related, err = e.relatedViaMetadata(ctx, anchor)
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Score > related[j].Score
	})
	return related, nil
}

func (e *Engine) relatedViaGraph(ctx context.Context, itemID string) ([]RelatedItem, error) {
	node := e.kg.FindByItem(itemID)
	if node == nil {
		return nil, nil
	}

	sub, err := e.kg.Neighborhood(node.ID, 2)
	if err != nil {
		return nil, err
	}

	// One-hop item nodes score full, two-hop ones half. Hop distance is
	// recovered from the neighborhood by re-walking one level.
	oneHop := map[string]bool{}
	for _, edge := range sub.Edges {
		if edge.Source == node.ID {
			oneHop[edge.Target] = true
		}
		if edge.Target == node.ID {
			oneHop[edge.Source] = true
		}
	}

	var out []RelatedItem
	for _, n := range sub.Nodes {
		backing := n.Properties.KnowledgeItemID
		if backing == "" || backing == itemID {
			continue
		}
		item, ok, err := e.items.Get(ctx, backing)
		if err != nil {
			return nil, fmt.Errorf("loading related item %s: %w", backing, err)
		}
		if !ok {
			continue
		}
		score := 0.5
		if oneHop[n.ID] {
			score = 1.0
		}
		out = append(out, RelatedItem{Item: item, Score: score, Via: "graph"})
	}
	return out, nil
}

func (e *Engine) relatedViaMetadata(ctx context.Context, anchor types.KnowledgeItem) ([]RelatedItem, error) {
	items, err := e.items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	var out []RelatedItem
	for _, item := range items {
		if item.ID == anchor.ID {
			continue
		}
		score := metadataSimilarity(anchor, item)
		if score > 0.2 {
			out = append(out, RelatedItem{Item: item, Score: score, Via: "metadata"})
		}
	}
	return out, nil
}

func metadataSimilarity(a, b types.KnowledgeItem) float64 {
	var score float64
	if a.Category != "" && strings.EqualFold(a.Category, b.Category) {
		score += 0.5
	}
	for _, ta := range a.Tags {
		for _, tb := range b.Tags {
			if strings.EqualFold(ta, tb) {
				score += 0.2
				break
			}
		}
	}
	return score
}
