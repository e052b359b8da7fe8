// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

func providers(t *testing.T) map[string]ItemStore {
	t.Helper()
	out := make(map[string]ItemStore)
	for _, provider := range []types.StorageProvider{types.StorageMemory, types.StorageDatabase} {
		s, err := New(provider)
		if err != nil {
			t.Fatalf("New(%s): %v", provider, err)
		}
		t.Cleanup(func() { s.Close() })
		out[string(provider)] = s
	}
	return out
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range providers(t) {
		t.Run(name, func(t *testing.T) {
			item := types.KnowledgeItem{
				ID:       "item-1",
				Title:    "Gravity",
				Content:  "Masses attract each other.",
				Type:     types.ItemFact,
				Tags:     []string{"physics"},
				Category: "science",
			}
			if err := s.Put(ctx, item); err != nil {
				t.Fatalf("Put: %v", err)
			}

			got, ok, err := s.Get(ctx, "item-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !ok {
				t.Fatal("expected item to exist")
			}
			if got.Title != item.Title || got.Content != item.Content || got.Type != item.Type {
				t.Errorf("round trip mismatch: got %+v", got)
			}
			if len(got.Tags) != 1 || got.Tags[0] != "physics" {
				t.Errorf("tags not preserved: %v", got.Tags)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range providers(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "no-such-item")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if ok {
				t.Error("expected missing item")
			}
		})
	}
}

func TestPutReplacesKeepingOrder(t *testing.T) {
	ctx := context.Background()
	for name, s := range providers(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"a", "b", "c"} {
				if err := s.Put(ctx, types.KnowledgeItem{ID: id, Content: id}); err != nil {
					t.Fatalf("Put %s: %v", id, err)
				}
			}
			// Replacing the first item must not move it to the end.
			if err := s.Put(ctx, types.KnowledgeItem{ID: "a", Content: "updated"}); err != nil {
				t.Fatalf("Put replace: %v", err)
			}

			all, err := s.All(ctx)
			if err != nil {
				t.Fatalf("All: %v", err)
			}
			want := []string{"a", "b", "c"}
			if len(all) != len(want) {
				t.Fatalf("got %d items, want %d", len(all), len(want))
			}
			for i, id := range want {
				if all[i].ID != id {
					t.Errorf("position %d: got %s, want %s", i, all[i].ID, id)
				}
			}
			if all[0].Content != "updated" {
				t.Errorf("replace did not take: %q", all[0].Content)
			}
		})
	}
}

func TestDeleteAndCount(t *testing.T) {
	ctx := context.Background()
	for name, s := range providers(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"a", "b"} {
				if err := s.Put(ctx, types.KnowledgeItem{ID: id}); err != nil {
					t.Fatalf("Put %s: %v", id, err)
				}
			}
			if err := s.Delete(ctx, "a"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			// Deleting a missing id is a no-op.
			if err := s.Delete(ctx, "a"); err != nil {
				t.Fatalf("Delete again: %v", err)
			}

			n, err := s.Count(ctx)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if n != 1 {
				t.Errorf("count = %d, want 1", n)
			}
			if _, ok, _ := s.Get(ctx, "a"); ok {
				t.Error("deleted item still present")
			}
		})
	}
}

func TestUnknownProviderFallsBackToMemory(t *testing.T) {
	s, err := New(types.StorageProvider("bogus"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*memoryStore); !ok {
		t.Errorf("got %T, want *memoryStore", s)
	}
}
