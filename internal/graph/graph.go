// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph implements the directed labeled graph connecting knowledge
// items, categories, and tags through typed relations.
package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// NodeKind classifies a graph vertex. The vocabulary is closed; unknown
// kinds fall back to KindConcept on insert.
type NodeKind string

const (
	KindConcept  NodeKind = "concept"
	KindEntity   NodeKind = "entity"
	KindEvent    NodeKind = "event"
	KindFact     NodeKind = "fact"
	KindCategory NodeKind = "category"
)

// Valid reports whether k is a recognized node kind.
func (k NodeKind) Valid() bool {
	switch k {
	case KindConcept, KindEntity, KindEvent, KindFact, KindCategory:
		return true
	}
	return false
}

// PropertyNames returns the declared property schema for the kind.
func (k NodeKind) PropertyNames() []string {
	switch k {
	case KindConcept:
		return []string{"name", "description", "examples"}
	case KindEntity:
		return []string{"name", "description", "category", "aliases"}
	case KindEvent:
		return []string{"name", "description", "date", "location", "participants"}
	case KindFact:
		return []string{"statement", "truth", "confidence", "sources"}
	case KindCategory:
		return []string{"name", "description", "parent"}
	}
	return nil
}

// EdgeKind classifies a graph relation.
type EdgeKind string

const (
	EdgeIsA       EdgeKind = "isA"
	EdgeHasPart   EdgeKind = "hasPart"
	EdgeRelatedTo EdgeKind = "relatedTo"
	EdgeCauses    EdgeKind = "causes"
	EdgeSynonym   EdgeKind = "synonym"
)

// Valid reports whether k is a recognized edge kind.
func (k EdgeKind) Valid() bool {
	switch k {
	case EdgeIsA, EdgeHasPart, EdgeRelatedTo, EdgeCauses, EdgeSynonym:
		return true
	}
	return false
}

// Bidirectional reports whether the relation reads the same both ways.
// Only relatedTo and synonym do; isA, hasPart, and causes are directional.
func (k EdgeKind) Bidirectional() bool {
	return k == EdgeRelatedTo || k == EdgeSynonym
}

// Properties holds the declared node fields.
type Properties struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`

	// KnowledgeItemID back-references the mirrored knowledge item, when
	// the node represents one.
	KnowledgeItemID string `json:"knowledge_item_id,omitempty" yaml:"knowledge_item_id,omitempty"`

	// IsTag distinguishes tag nodes from ordinary concept nodes.
	IsTag bool `json:"is_tag,omitempty" yaml:"is_tag,omitempty"`
}

// Node is a typed graph vertex.
type Node struct {
	ID         string     `json:"id" yaml:"id"`
	Kind       NodeKind   `json:"kind" yaml:"kind"`
	Label      string     `json:"label" yaml:"label"`
	Properties Properties `json:"properties" yaml:"properties"`
}

// Edge is a typed directed relation between two nodes.
type Edge struct {
	ID        string    `json:"id" yaml:"id"`
	Source    string    `json:"source" yaml:"source"`
	Target    string    `json:"target" yaml:"target"`
	Kind      EdgeKind  `json:"kind" yaml:"kind"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Graph is the mutable node and edge store.
type Graph struct {
	nodes map[string]*Node
	edges map[string]*Edge

	// edgeOrder preserves insertion order for deterministic traversal.
	edgeOrder []string
	nodeOrder []string

	createdAt time.Time
	updatedAt time.Time
	now       func() time.Time
}

// New returns an empty graph.
func New(now func() time.Time) *Graph {
	if now == nil {
		now = time.Now
	}
	ts := now()
	return &Graph{
		nodes:     make(map[string]*Node),
		edges:     make(map[string]*Edge),
		createdAt: ts,
		updatedAt: ts,
		now:       now,
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// AddNode inserts a node of the given kind. An unrecognized kind falls
// back to concept so unexpected item types still get represented.
func (g *Graph) AddNode(kind NodeKind, label string, props Properties) *Node {
	if !kind.Valid() {
		kind = KindConcept
	}
	if props.CreatedAt.IsZero() {
		props.CreatedAt = g.now()
	}

	node := &Node{
		ID:         "node_" + uuid.NewString(),
		Kind:       kind,
		Label:      label,
		Properties: props,
	}
	g.nodes[node.ID] = node
	g.nodeOrder = append(g.nodeOrder, node.ID)
	g.updatedAt = g.now()
	return node
}

// AddEdge inserts a typed edge between two existing nodes. Both endpoints
// must exist; a missing endpoint fails with ErrNotFound so the graph can
// never hold a dangling edge.
func (g *Graph) AddEdge(sourceID, targetID string, kind EdgeKind) (*Edge, error) {
	if _, ok := g.nodes[sourceID]; !ok {
		return nil, fmt.Errorf("edge source %s: %w", sourceID, types.ErrNotFound)
	}
	if _, ok := g.nodes[targetID]; !ok {
		return nil, fmt.Errorf("edge target %s: %w", targetID, types.ErrNotFound)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("edge kind %q: %w", kind, types.ErrInvalidArgument)
	}

	edge := &Edge{
		ID:        "edge_" + uuid.NewString(),
		Source:    sourceID,
		Target:    targetID,
		Kind:      kind,
		CreatedAt: g.now(),
	}
	g.edges[edge.ID] = edge
	g.edgeOrder = append(g.edgeOrder, edge.ID)
	g.updatedAt = g.now()
	return edge, nil
}

// RemoveNode deletes the node and every edge touching it. Reports false
// when the node does not exist; absence is expected for best-effort
// cleanup calls.
func (g *Graph) RemoveNode(id string) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}

	kept := g.edgeOrder[:0]
	for _, edgeID := range g.edgeOrder {
		edge := g.edges[edgeID]
		if edge.Source == id || edge.Target == id {
			delete(g.edges, edgeID)
			continue
		}
		kept = append(kept, edgeID)
	}
	g.edgeOrder = kept

	delete(g.nodes, id)
	for i, nodeID := range g.nodeOrder {
		if nodeID == id {
			g.nodeOrder = append(g.nodeOrder[:i], g.nodeOrder[i+1:]...)
			break
		}
	}
	g.updatedAt = g.now()
	return true
}

// FindByItem returns the node mirroring the given knowledge item, or nil.
func (g *Graph) FindByItem(itemID string) *Node {
	for _, id := range g.nodeOrder {
		if g.nodes[id].Properties.KnowledgeItemID == itemID {
			return g.nodes[id]
		}
	}
	return nil
}

// ConnectToCategory links nodeID to the category node named categoryName
// with an isA edge, creating the category node on first use. Category
// names match case-insensitively.
func (g *Graph) ConnectToCategory(nodeID, categoryName string) error {
	var category *Node
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if n.Kind == KindCategory && strings.EqualFold(n.Properties.Name, categoryName) {
			category = n
			break
		}
	}
	if category == nil {
		category = g.AddNode(KindCategory, categoryName, Properties{
			Name:        categoryName,
			Description: "Category: " + categoryName,
		})
	}

	_, err := g.AddEdge(nodeID, category.ID, EdgeIsA)
	return err
}

// ConnectToTags links nodeID to a tag node per tag with relatedTo edges,
// creating tag nodes on first use. Tag nodes are concept nodes flagged
// IsTag, matched case-insensitively and kept distinct from ordinary
// concepts.
func (g *Graph) ConnectToTags(nodeID string, tags []string) error {
	for _, tag := range tags {
		var tagNode *Node
		for _, id := range g.nodeOrder {
			n := g.nodes[id]
			if n.Kind == KindConcept && n.Properties.IsTag && strings.EqualFold(n.Properties.Name, tag) {
				tagNode = n
				break
			}
		}
		if tagNode == nil {
			tagNode = g.AddNode(KindConcept, tag, Properties{
				Name:        tag,
				Description: "Tag: " + tag,
				IsTag:       true,
			})
		}

		if _, err := g.AddEdge(nodeID, tagNode.ID, EdgeRelatedTo); err != nil {
			return err
		}
	}
	return nil
}
