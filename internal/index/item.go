// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jaat-ai/knowledge-engine/internal/graph"
	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// AddItem validates, verifies, scores, and stores a knowledge item,
// mirroring it into the search index, graph, and taxonomy. The returned
// item carries the assigned id, defaults, verification outcome, and trust
// score. On any rejection nothing is written anywhere.
func (e *Engine) AddItem(ctx context.Context, item types.KnowledgeItem) (types.KnowledgeItem, error) {
	if err := e.ready(); err != nil {
		return types.KnowledgeItem{}, err
	}
	if item.Content == "" {
		return types.KnowledgeItem{}, fmt.Errorf("item content required: %w", types.ErrInvalidArgument)
	}
	if item.Type == "" {
		item.Type = types.ItemFact
	}
	if !item.Type.Valid() {
		return types.KnowledgeItem{}, fmt.Errorf("item type %q: %w", item.Type, types.ErrInvalidArgument)
	}
	if item.TrustScore < 0 || item.TrustScore > 1 {
		return types.KnowledgeItem{}, fmt.Errorf("trust score %.2f out of range [0,1]: %w",
			item.TrustScore, types.ErrInvalidArgument)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	} else if _, exists, err := e.items.Get(ctx, item.ID); err != nil {
		return types.KnowledgeItem{}, fmt.Errorf("checking item %s: %w", item.ID, err)
	} else if exists {
		return types.KnowledgeItem{}, fmt.Errorf("item %s: %w", item.ID, types.ErrConflict)
	}

	now := e.now()
	if item.Title == "" {
		item.Title = "Item " + item.ID
	}
	if item.Category == "" {
		item.Category = "general"
	}
	item.Metadata.CreatedAt = now
	item.Metadata.UpdatedAt = now
	if item.Metadata.CreatedBy == "" {
		item.Metadata.CreatedBy = "system"
	}

	if item.Source != nil {
		normalized := e.sources.Register(*item.Source)
		item.Source = &normalized
	}

	if e.cfg.EnableFactVerification && item.Type == types.ItemFact {
		verification := e.verifyFact(&item)
		item.Verified = &verification
	}

	if item.TrustScore == 0 {
		item.TrustScore = trustScore(&item)
	}
	if e.cfg.EnforceTrustScores && item.TrustScore < e.cfg.MinimumTrustScore {
		return types.KnowledgeItem{}, fmt.Errorf("item %s scored %.2f, minimum %.2f: %w",
			item.ID, item.TrustScore, e.cfg.MinimumTrustScore, types.ErrLowTrust)
	}

	var vector []float64
	if e.cfg.EnableSemanticSearch {
		var err error
		vector, err = e.embedder.Embed(ctx, item.Content)
		if err != nil {
			return types.KnowledgeItem{}, fmt.Errorf("embedding item %s: %w", item.ID, err)
		}
	}

	if err := e.items.Put(ctx, item); err != nil {
		return types.KnowledgeItem{}, fmt.Errorf("storing item %s: %w", item.ID, err)
	}
	if vector != nil {
		e.storeVector(item.ID, vector)
	}
	e.mirrorToGraph(&item)
	if e.tree != nil {
		e.tree.AttachItem(item.Category, item.ID, item.Title)
	}

	fmt.Fprintf(e.log, "added item %s (%s) trust=%.2f\n", item.ID, item.Type, item.TrustScore)
	e.emit(Event{Kind: EventKnowledgeAdded, Item: &item})
	return item, nil
}

// mirrorToGraph creates the graph node for an item and links it to its
// category and tags. No-op when the graph feature is off.
func (e *Engine) mirrorToGraph(item *types.KnowledgeItem) {
	if e.kg == nil {
		return
	}

	node := e.kg.AddNode(graph.NodeKind(item.Type), item.Title, graph.Properties{
		Name:            item.Title,
		Description:     item.Content,
		KnowledgeItemID: item.ID,
	})
	if err := e.kg.ConnectToCategory(node.ID, item.Category); err != nil {
		fmt.Fprintf(e.log, "linking item %s to category: %v\n", item.ID, err)
	}
	if err := e.kg.ConnectToTags(node.ID, item.Tags); err != nil {
		fmt.Fprintf(e.log, "linking item %s to tags: %v\n", item.ID, err)
	}
}

// GetItem returns the stored item by id.
func (e *Engine) GetItem(ctx context.Context, id string) (types.KnowledgeItem, error) {
	if err := e.ready(); err != nil {
		return types.KnowledgeItem{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok, err := e.items.Get(ctx, id)
	if err != nil {
		return types.KnowledgeItem{}, fmt.Errorf("loading item %s: %w", id, err)
	}
	if !ok {
		return types.KnowledgeItem{}, fmt.Errorf("item %s: %w", id, types.ErrNotFound)
	}
	return item, nil
}

// UpdateItem applies a partial update. Content or source changes trigger
// re-verification and a fresh trust score, and the trust gate applies to
// the prospective item: a failing update leaves the stored item untouched.
// Content changes also refresh the embedding.
func (e *Engine) UpdateItem(ctx context.Context, id string, patch types.ItemPatch) (types.KnowledgeItem, error) {
	if err := e.ready(); err != nil {
		return types.KnowledgeItem{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok, err := e.items.Get(ctx, id)
	if err != nil {
		return types.KnowledgeItem{}, fmt.Errorf("loading item %s: %w", id, err)
	}
	if !ok {
		return types.KnowledgeItem{}, fmt.Errorf("item %s: %w", id, types.ErrNotFound)
	}

	next := prev
	contentChanged := false
	sourceChanged := false

	if patch.Content != nil && *patch.Content != next.Content {
		if *patch.Content == "" {
			return types.KnowledgeItem{}, fmt.Errorf("item content required: %w", types.ErrInvalidArgument)
		}
		next.Content = *patch.Content
		contentChanged = true
	}
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return types.KnowledgeItem{}, fmt.Errorf("item type %q: %w", *patch.Type, types.ErrInvalidArgument)
		}
		next.Type = *patch.Type
	}
	if patch.Tags != nil {
		next.Tags = patch.Tags
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Source != nil {
		normalized := e.sources.Register(*patch.Source)
		next.Source = &normalized
		sourceChanged = true
	}
	if len(patch.Metadata) > 0 {
		if next.Metadata.Extra == nil {
			next.Metadata.Extra = make(map[string]string, len(patch.Metadata))
		}
		for k, v := range patch.Metadata {
			next.Metadata.Extra[k] = v
		}
	}
	next.Metadata.UpdatedAt = e.now()

	if contentChanged || sourceChanged {
		if e.cfg.EnableFactVerification && next.Type == types.ItemFact {
			verification := e.verifyFact(&next)
			next.Verified = &verification
		}
		if patch.TrustScore == nil {
			next.TrustScore = trustScore(&next)
		}
	}
	if patch.TrustScore != nil {
		if *patch.TrustScore < 0 || *patch.TrustScore > 1 {
			return types.KnowledgeItem{}, fmt.Errorf("trust score %.2f out of range [0,1]: %w",
				*patch.TrustScore, types.ErrInvalidArgument)
		}
		next.TrustScore = *patch.TrustScore
	}
	if e.cfg.EnforceTrustScores && next.TrustScore < e.cfg.MinimumTrustScore {
		return types.KnowledgeItem{}, fmt.Errorf("item %s scored %.2f, minimum %.2f: %w",
			id, next.TrustScore, e.cfg.MinimumTrustScore, types.ErrLowTrust)
	}

	var vector []float64
	if contentChanged && e.cfg.EnableSemanticSearch {
		vector, err = e.embedder.Embed(ctx, next.Content)
		if err != nil {
			return types.KnowledgeItem{}, fmt.Errorf("embedding item %s: %w", id, err)
		}
	}

	if err := e.items.Put(ctx, next); err != nil {
		return types.KnowledgeItem{}, fmt.Errorf("storing item %s: %w", id, err)
	}
	if vector != nil {
		e.storeVector(id, vector)
	}

	if e.kg != nil {
		if node := e.kg.FindByItem(id); node != nil {
			node.Label = next.Title
			node.Properties.Name = next.Title
			node.Properties.Description = next.Content
		} else {
			e.mirrorToGraph(&next)
		}
	}
	if e.tree != nil && next.Category != prev.Category {
		e.tree.DetachItem(prev.Category, id)
		e.tree.AttachItem(next.Category, id, next.Title)
	}

	fmt.Fprintf(e.log, "updated item %s\n", id)
	e.emit(Event{Kind: EventKnowledgeUpdated, Item: &next, Previous: &prev})
	return next, nil
}

// RemoveItem deletes an item and every trace of it: search index entry,
// graph node with its edges, and taxonomy reference.
func (e *Engine) RemoveItem(ctx context.Context, id string) error {
	if err := e.ready(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok, err := e.items.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading item %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("item %s: %w", id, types.ErrNotFound)
	}

	if err := e.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	e.dropVector(id)
	if e.kg != nil {
		if node := e.kg.FindByItem(id); node != nil {
			e.kg.RemoveNode(node.ID)
		}
	}
	if e.tree != nil {
		e.tree.DetachItem(item.Category, id)
	}

	fmt.Fprintf(e.log, "removed item %s\n", id)
	e.emit(Event{Kind: EventKnowledgeRemoved, Item: &item})
	return nil
}
