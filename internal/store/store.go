// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store provides the knowledge item storage backends. All backends
// are in-process and hold no state beyond the lifetime of the engine; the
// database provider exists for callers that want SQL-shaped storage
// semantics without on-disk persistence.
package store

import (
	"context"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// ItemStore holds knowledge items keyed by id. Implementations preserve
// insertion order in All so search tie-breaking stays deterministic.
type ItemStore interface {
	Put(ctx context.Context, item types.KnowledgeItem) error
	Get(ctx context.Context, id string) (types.KnowledgeItem, bool, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]types.KnowledgeItem, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// New returns the store for the configured provider. The memory and
// vector-db providers share the map-backed store; vector-db differs only
// in where the engine keeps embeddings, which is not this package's
// concern.
func New(provider types.StorageProvider) (ItemStore, error) {
	switch provider {
	case types.StorageDatabase:
		return newSQLiteStore()
	case types.StorageMemory, types.StorageVectorDB, "":
		return newMemoryStore(), nil
	default:
		// Unknown providers fall back to memory, matching the engine's
		// permissive configuration policy.
		return newMemoryStore(), nil
	}
}

// memoryStore keeps items in a map plus an insertion-order index.
type memoryStore struct {
	items map[string]types.KnowledgeItem
	order []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: make(map[string]types.KnowledgeItem)}
}

func (s *memoryStore) Put(_ context.Context, item types.KnowledgeItem) error {
	if _, exists := s.items[item.ID]; !exists {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (types.KnowledgeItem, bool, error) {
	item, ok := s.items[id]
	return item, ok, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memoryStore) All(_ context.Context) ([]types.KnowledgeItem, error) {
	out := make([]types.KnowledgeItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *memoryStore) Count(_ context.Context) (int, error) {
	return len(s.items), nil
}

func (s *memoryStore) Close() error { return nil }
