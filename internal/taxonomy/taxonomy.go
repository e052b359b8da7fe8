// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy maintains the hierarchical category tree knowledge items
// are filed into. The tree is strict: every node has exactly one parent and
// node ids are unique across the whole tree.
package taxonomy

import (
	"fmt"
	"strings"
	"time"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// RootID is the fixed id of the tree root. The root cannot be removed.
const RootID = "root"

const generalID = "general"

// ItemRef is a non-owning reference to a knowledge item filed under a node.
type ItemRef struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// NodeMeta carries per-node bookkeeping.
type NodeMeta struct {
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// ItemCount always equals len(Items) on the owning node.
	ItemCount int `json:"item_count" yaml:"item_count"`
}

// Node is a category in the tree. Children are owned exclusively by their
// parent; Items are weak references into the knowledge store.
type Node struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Children    []*Node   `json:"children" yaml:"children"`
	Items       []ItemRef `json:"items,omitempty" yaml:"items,omitempty"`
	Meta        NodeMeta  `json:"metadata" yaml:"metadata"`
}

// Tree is the mutable category hierarchy.
type Tree struct {
	root *Node
	now  func() time.Time
}

// seedCategories are the default top- and second-level categories created
// with a new tree.
var seedCategories = []struct {
	parent, id, name, description string
}{
	{RootID, "science", "Science", "Scientific knowledge and concepts"},
	{RootID, "technology", "Technology", "Technology and computing concepts"},
	{RootID, "arts", "Arts & Culture", "Arts, culture, and humanities"},
	{RootID, "society", "Society", "Society, social sciences, and human interactions"},
	{"science", "physics", "Physics", "Physical sciences"},
	{"science", "biology", "Biology", "Life sciences"},
	{"technology", "computers", "Computers", "Computer science and hardware"},
	{"technology", "software", "Software", "Software and applications"},
}

// NewTree returns a tree seeded with the default category hierarchy.
func NewTree(now func() time.Time) *Tree {
	if now == nil {
		now = time.Now
	}
	ts := now()
	t := &Tree{
		root: &Node{
			ID:          RootID,
			Name:        "Knowledge Root",
			Description: "Root of the knowledge taxonomy",
			Meta:        NodeMeta{CreatedAt: ts, UpdatedAt: ts},
		},
		now: now,
	}
	for _, c := range seedCategories {
		node := &Node{ID: c.id, Name: c.name, Description: c.description}
		if err := t.AddNode(c.parent, node); err != nil {
			// Seed data is static; a failure here is a programming error.
			panic(fmt.Sprintf("taxonomy seed: %v", err))
		}
	}
	return t
}

// Root returns the tree root.
func (t *Tree) Root() *Node { return t.root }

// Find returns the node with the given id, or nil. Absence is an expected
// outcome for this read query, not an error.
func (t *Tree) Find(id string) *Node {
	return findNode(t.root, id)
}

func findNode(n *Node, id string) *Node {
	if n.ID == id {
		return n
	}
	for _, child := range n.Children {
		if found := findNode(child, id); found != nil {
			return found
		}
	}
	return nil
}

// FindParent returns the parent of the node with the given id and the
// node's index among its siblings, or (nil, -1).
func (t *Tree) FindParent(id string) (*Node, int) {
	return findParent(t.root, id)
}

func findParent(n *Node, id string) (*Node, int) {
	for i, child := range n.Children {
		if child.ID == id {
			return n, i
		}
		if parent, idx := findParent(child, id); parent != nil {
			return parent, idx
		}
	}
	return nil, -1
}

// AddNode appends node as a child of parentID. The node id must be unique
// across the whole tree.
func (t *Tree) AddNode(parentID string, node *Node) error {
	parent := t.Find(parentID)
	if parent == nil {
		return fmt.Errorf("taxonomy parent %s: %w", parentID, types.ErrNotFound)
	}
	if t.Find(node.ID) != nil {
		return fmt.Errorf("taxonomy node %s: %w", node.ID, types.ErrConflict)
	}

	ts := t.now()
	node.Meta.CreatedAt = ts
	node.Meta.UpdatedAt = ts
	parent.Children = append(parent.Children, node)
	parent.Meta.UpdatedAt = ts
	return nil
}

// UpdateNode applies non-empty name and description changes to the node.
func (t *Tree) UpdateNode(id, name, description string) (*Node, error) {
	node := t.Find(id)
	if node == nil {
		return nil, fmt.Errorf("taxonomy node %s: %w", id, types.ErrNotFound)
	}
	if name != "" {
		node.Name = name
	}
	if description != "" {
		node.Description = description
	}
	node.Meta.UpdatedAt = t.now()
	return node, nil
}

// RemoveNode deletes the node with the given id. Its item references move
// to its parent — or to a lazily-created General node when the parent is
// the root, to keep loose items off the root. Its children are reparented
// one level up. The root cannot be removed.
func (t *Tree) RemoveNode(id string) error {
	if id == RootID {
		return fmt.Errorf("cannot remove taxonomy root: %w", types.ErrInvalidArgument)
	}

	parent, idx := t.FindParent(id)
	if parent == nil {
		return fmt.Errorf("taxonomy node %s: %w", id, types.ErrNotFound)
	}

	node := parent.Children[idx]
	ts := t.now()

	if len(node.Items) > 0 {
		target := parent
		if parent.ID == RootID {
			target = t.generalNode()
		}
		target.Items = append(target.Items, node.Items...)
		target.Meta.ItemCount += len(node.Items)
		target.Meta.UpdatedAt = ts
	}

	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	parent.Children = append(parent.Children, node.Children...)
	parent.Meta.UpdatedAt = ts
	return nil
}

// AttachItem files an item reference under the node named by the
// slash-separated category path, walking child names case-insensitively
// from the root. An unresolvable path files the item under the General
// node instead. Returns the node the item was filed under.
func (t *Tree) AttachItem(categoryPath, itemID, title string) *Node {
	node := t.resolvePath(categoryPath)
	if node == nil {
		node = t.generalNode()
	}

	node.Items = append(node.Items, ItemRef{ID: itemID, Title: title})
	node.Meta.ItemCount++
	node.Meta.UpdatedAt = t.now()
	return node
}

// DetachItem removes an item reference filed under categoryPath. It
// reports false when the category or the reference cannot be found; the
// item may simply never have been filed.
func (t *Tree) DetachItem(categoryPath, itemID string) bool {
	node := t.resolvePath(categoryPath)
	if node == nil {
		return false
	}

	for i, ref := range node.Items {
		if ref.ID == itemID {
			node.Items = append(node.Items[:i], node.Items[i+1:]...)
			node.Meta.ItemCount--
			node.Meta.UpdatedAt = t.now()
			return true
		}
	}
	return false
}

// CountNodes returns the total number of nodes including the root.
func (t *Tree) CountNodes() int {
	return countNodes(t.root)
}

func countNodes(n *Node) int {
	count := 1
	for _, child := range n.Children {
		count += countNodes(child)
	}
	return count
}

// resolvePath walks a slash-separated category path by child name,
// case-insensitively, starting at the root. Returns nil when any segment
// fails to resolve.
func (t *Tree) resolvePath(path string) *Node {
	current := t.root
	for _, segment := range strings.Split(path, "/") {
		var next *Node
		for _, child := range current.Children {
			if strings.EqualFold(child.Name, segment) {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// generalNode returns the General category directly under the root,
// creating it on first use.
func (t *Tree) generalNode() *Node {
	for _, child := range t.root.Children {
		if child.ID == generalID {
			return child
		}
	}

	ts := t.now()
	general := &Node{
		ID:          generalID,
		Name:        "General",
		Description: "General uncategorized knowledge",
		Meta:        NodeMeta{CreatedAt: ts, UpdatedAt: ts},
	}
	t.root.Children = append(t.root.Children, general)
	t.root.Meta.UpdatedAt = ts
	return general
}
