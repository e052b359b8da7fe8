// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"fmt"

	"github.com/jaat-ai/knowledge-engine/internal/taxonomy"
	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// Taxonomy returns the subtree rooted at the given node id, or the whole
// tree when id is empty.
func (e *Engine) Taxonomy(id string) (*taxonomy.Node, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if e.tree == nil {
		return nil, fmt.Errorf("hierarchical taxonomy: %w", types.ErrFeatureDisabled)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if id == "" {
		return e.tree.Root(), nil
	}
	node := e.tree.Find(id)
	if node == nil {
		return nil, fmt.Errorf("taxonomy node %s: %w", id, types.ErrNotFound)
	}
	return node, nil
}

// AddTaxonomyNode creates a category under the given parent.
func (e *Engine) AddTaxonomyNode(parentID, id, name, description string) (*taxonomy.Node, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if e.tree == nil {
		return nil, fmt.Errorf("hierarchical taxonomy: %w", types.ErrFeatureDisabled)
	}
	if id == "" || name == "" {
		return nil, fmt.Errorf("taxonomy node id and name required: %w", types.ErrInvalidArgument)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	node := &taxonomy.Node{ID: id, Name: name, Description: description}
	if err := e.tree.AddNode(parentID, node); err != nil {
		return nil, err
	}
	fmt.Fprintf(e.log, "added taxonomy node %s under %s\n", id, parentID)
	return node, nil
}

// UpdateTaxonomyNode renames or re-describes a category. Empty fields are
// left unchanged.
func (e *Engine) UpdateTaxonomyNode(id, name, description string) (*taxonomy.Node, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if e.tree == nil {
		return nil, fmt.Errorf("hierarchical taxonomy: %w", types.ErrFeatureDisabled)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.UpdateNode(id, name, description)
}

// RemoveTaxonomyNode deletes a category; its items and children move up
// per the tree's reparenting rules.
func (e *Engine) RemoveTaxonomyNode(id string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.tree == nil {
		return fmt.Errorf("hierarchical taxonomy: %w", types.ErrFeatureDisabled)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tree.RemoveNode(id); err != nil {
		return err
	}
	fmt.Fprintf(e.log, "removed taxonomy node %s\n", id)
	return nil
}
