// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"fmt"
	"strings"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// Subgraph is a node set plus the edges connecting it, as returned by
// traversal and search queries.
type Subgraph struct {
	Nodes []*Node `json:"nodes" yaml:"nodes"`
	Edges []*Edge `json:"edges" yaml:"edges"`

	// Root is the starting node of a neighborhood query.
	Root string `json:"root_node,omitempty" yaml:"root_node,omitempty"`
}

// PathResult is the outcome of a shortest-path query. PathFound false with
// empty slices means the endpoints live in disconnected components, which
// is an expected condition rather than a failure.
type PathResult struct {
	Nodes     []*Node `json:"nodes" yaml:"nodes"`
	Edges     []*Edge `json:"edges" yaml:"edges"`
	PathFound bool    `json:"path_found" yaml:"path_found"`
}

// incident returns the edges touching node id in insertion order.
// Traversal ignores stored direction: relations are navigable both ways
// when walking the neighborhood, whatever their declared directionality.
func (g *Graph) incident(id string) []*Edge {
	var out []*Edge
	for _, edgeID := range g.edgeOrder {
		edge := g.edges[edgeID]
		if edge.Source == id || edge.Target == id {
			out = append(out, edge)
		}
	}
	return out
}

func (e *Edge) otherEnd(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Neighborhood collects all nodes within depth hops of startID, plus the
// edges used to reach them, breadth-first. Each edge appears at most once.
// Depth 0 returns just the starting node.
func (g *Graph) Neighborhood(startID string, depth int) (Subgraph, error) {
	start, ok := g.nodes[startID]
	if !ok {
		return Subgraph{}, fmt.Errorf("graph node %s: %w", startID, types.ErrNotFound)
	}

	result := Subgraph{Nodes: []*Node{start}, Root: startID}
	visitedNodes := map[string]bool{startID: true}
	visitedEdges := map[string]bool{}

	type entry struct {
		id    string
		level int
	}
	queue := []entry{{startID, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.level >= depth {
			continue
		}

		for _, edge := range g.incident(cur.id) {
			if visitedEdges[edge.ID] {
				continue
			}
			visitedEdges[edge.ID] = true
			result.Edges = append(result.Edges, edge)

			next := edge.otherEnd(cur.id)
			if visitedNodes[next] {
				continue
			}
			visitedNodes[next] = true
			result.Nodes = append(result.Nodes, g.nodes[next])
			queue = append(queue, entry{next, cur.level + 1})
		}
	}

	return result, nil
}

// ShortestPath finds a minimum-hop path between two nodes via BFS and
// returns the full node and edge sequence. Both endpoints must exist.
func (g *Graph) ShortestPath(fromID, toID string) (PathResult, error) {
	if _, ok := g.nodes[fromID]; !ok {
		return PathResult{}, fmt.Errorf("path source %s: %w", fromID, types.ErrNotFound)
	}
	if _, ok := g.nodes[toID]; !ok {
		return PathResult{}, fmt.Errorf("path target %s: %w", toID, types.ErrNotFound)
	}

	type entry struct {
		id    string
		nodes []string
		edges []string
	}

	visited := map[string]bool{fromID: true}
	queue := []entry{{id: fromID}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.id == toID {
			result := PathResult{PathFound: true}
			for _, id := range append(cur.nodes, cur.id) {
				result.Nodes = append(result.Nodes, g.nodes[id])
			}
			for _, id := range cur.edges {
				result.Edges = append(result.Edges, g.edges[id])
			}
			return result, nil
		}

		for _, edge := range g.incident(cur.id) {
			next := edge.otherEnd(cur.id)
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, entry{
				id:    next,
				nodes: append(append([]string{}, cur.nodes...), cur.id),
				edges: append(append([]string{}, cur.edges...), edge.ID),
			})
		}
	}

	return PathResult{PathFound: false}, nil
}

// SearchNodes matches term case-insensitively against node labels, names,
// and descriptions, optionally restricted to the given kinds. The result
// includes the induced edges: those whose endpoints both matched.
func (g *Graph) SearchNodes(term string, kinds []NodeKind) Subgraph {
	needle := strings.ToLower(term)

	var result Subgraph
	matched := map[string]bool{}

	for _, id := range g.nodeOrder {
		node := g.nodes[id]

		if len(kinds) > 0 {
			found := false
			for _, k := range kinds {
				if node.Kind == k {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}

		if !strings.Contains(strings.ToLower(node.Label), needle) &&
			!strings.Contains(strings.ToLower(node.Properties.Name), needle) &&
			!strings.Contains(strings.ToLower(node.Properties.Description), needle) {
			continue
		}

		result.Nodes = append(result.Nodes, node)
		matched[id] = true
	}

	if len(result.Nodes) > 1 {
		for _, edgeID := range g.edgeOrder {
			edge := g.edges[edgeID]
			if matched[edge.Source] && matched[edge.Target] {
				result.Edges = append(result.Edges, edge)
			}
		}
	}

	return result
}
