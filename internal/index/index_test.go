// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/jaat-ai/knowledge-engine/internal/store"
	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

func newTestEngine(t *testing.T, mutate func(*types.Config)) *Engine {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.VectorDimensions = 8
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(cfg, nil, io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

// sourcedItem builds an item that passes verification and the trust gate.
func sourcedItem(content string) types.KnowledgeItem {
	return types.KnowledgeItem{
		Content: content,
		Source: &types.Source{
			URL:  "https://example.org/ref",
			Name: "Example Reference",
			Type: "website",
		},
	}
}

func TestAddItemDefaults(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	item, err := e.AddItem(ctx, sourcedItem("Water boils at 100C at sea level."))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if item.ID == "" {
		t.Error("expected assigned id")
	}
	if item.Type != types.ItemFact {
		t.Errorf("type = %s, want fact", item.Type)
	}
	if item.Title != "Item "+item.ID {
		t.Errorf("title = %q", item.Title)
	}
	if item.Category != "general" {
		t.Errorf("category = %q, want general", item.Category)
	}
	if item.Metadata.CreatedBy != "system" {
		t.Errorf("created by = %q, want system", item.Metadata.CreatedBy)
	}
	if item.Metadata.CreatedAt.IsZero() {
		t.Error("created at not set")
	}
	if item.Verified == nil || !item.Verified.Verified {
		t.Errorf("verification = %+v, want passed", item.Verified)
	}
	if item.TrustScore < 0.6 {
		t.Errorf("trust score = %.2f, want >= 0.6", item.TrustScore)
	}
}

func TestAddItemValidation(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	if _, err := e.AddItem(ctx, types.KnowledgeItem{}); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("empty content: got %v, want ErrInvalidArgument", err)
	}

	bad := sourcedItem("Some content.")
	bad.Type = "opinion"
	if _, err := e.AddItem(ctx, bad); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("bad type: got %v, want ErrInvalidArgument", err)
	}
}

func TestAddItemDuplicateID(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	first := sourcedItem("First statement.")
	first.ID = "fixed-id"
	if _, err := e.AddItem(ctx, first); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	second := sourcedItem("Second statement.")
	second.ID = "fixed-id"
	if _, err := e.AddItem(ctx, second); !errors.Is(err, types.ErrConflict) {
		t.Errorf("duplicate id: got %v, want ErrConflict", err)
	}
}

func TestTrustGateRejectsWithoutWriting(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	// No source: verification fails, trust stays at the 0.5 base, below
	// the 0.6 floor.
	_, err := e.AddItem(ctx, types.KnowledgeItem{Content: "An unsupported claim."})
	if !errors.Is(err, types.ErrLowTrust) {
		t.Fatalf("got %v, want ErrLowTrust", err)
	}

	stats, err := e.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalItems != 0 {
		t.Errorf("items stored = %d, want 0", stats.TotalItems)
	}
	if stats.GraphNodes != 0 {
		t.Errorf("graph nodes = %d, want 0", stats.GraphNodes)
	}
}

func TestTrustGateHonorsCallerScore(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	item := types.KnowledgeItem{Content: "An unsupported claim.", TrustScore: 0.9}
	added, err := e.AddItem(ctx, item)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if added.TrustScore != 0.9 {
		t.Errorf("trust score = %.2f, want 0.9", added.TrustScore)
	}
}

func TestCallerTrustScoreOutOfRange(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	item := sourcedItem("A claim.")
	item.TrustScore = 5.0
	if _, err := e.AddItem(ctx, item); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("AddItem with trust 5.0: got %v, want ErrInvalidArgument", err)
	}

	item = sourcedItem("Another claim.")
	item.TrustScore = -0.2
	if _, err := e.AddItem(ctx, item); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("AddItem with trust -0.2: got %v, want ErrInvalidArgument", err)
	}

	added, err := e.AddItem(ctx, sourcedItem("A sound claim."))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	bad := 1.5
	if _, err := e.UpdateItem(ctx, added.ID, types.ItemPatch{TrustScore: &bad}); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("UpdateItem with trust 1.5: got %v, want ErrInvalidArgument", err)
	}
	got, err := e.GetItem(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.TrustScore != added.TrustScore {
		t.Errorf("stored trust score = %.2f, want %.2f untouched", got.TrustScore, added.TrustScore)
	}
}

func TestTrustGateDisabled(t *testing.T) {
	e := newTestEngine(t, func(cfg *types.Config) {
		cfg.EnforceTrustScores = false
	})

	added, err := e.AddItem(context.Background(), types.KnowledgeItem{Content: "An unsupported claim."})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if added.TrustScore >= 0.6 {
		t.Errorf("trust score = %.2f, expected below the floor", added.TrustScore)
	}
}

func TestFactVerificationFlagsAbsoluteTerms(t *testing.T) {
	e := newTestEngine(t, nil)

	item, err := e.AddItem(context.Background(), sourcedItem("This always works 100% of the time."))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if item.Verified == nil {
		t.Fatal("expected a verification result")
	}
	if item.Verified.Verified {
		t.Error("overclaiming content passed verification")
	}
	if item.Verified.Method != "pattern_match" {
		t.Errorf("method = %q, want pattern_match", item.Verified.Method)
	}
	if !strings.Contains(item.Verified.Reason, "always") {
		t.Errorf("reason = %q, want mention of the flagged term", item.Verified.Reason)
	}
	if item.Verified.Confidence != 0.4 {
		t.Errorf("confidence = %.2f, want 0.4", item.Verified.Confidence)
	}
}

func TestFactVerificationNoSource(t *testing.T) {
	e := newTestEngine(t, func(cfg *types.Config) {
		cfg.EnforceTrustScores = false
	})

	item, err := e.AddItem(context.Background(), types.KnowledgeItem{Content: "A sourced-free statement."})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Verified == nil || item.Verified.Verified {
		t.Fatalf("verification = %+v, want failed", item.Verified)
	}
	if item.Verified.Method != "source_check" {
		t.Errorf("method = %q, want source_check", item.Verified.Method)
	}
	if item.Verified.Reason != "No source provided" {
		t.Errorf("reason = %q", item.Verified.Reason)
	}
}

func TestNonFactItemsSkipVerification(t *testing.T) {
	e := newTestEngine(t, nil)

	item := sourcedItem("The concept of entropy.")
	item.Type = types.ItemConcept
	added, err := e.AddItem(context.Background(), item)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if added.Verified != nil {
		t.Errorf("concept item got verification %+v", added.Verified)
	}
}

func TestUpdateItem(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	added, err := e.AddItem(ctx, sourcedItem("Original content."))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	title := "Renamed"
	content := "Replacement content."
	updated, err := e.UpdateItem(ctx, added.ID, types.ItemPatch{
		Title:    &title,
		Content:  &content,
		Metadata: map[string]string{"reviewer": "alice"},
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	if updated.Title != "Renamed" || updated.Content != "Replacement content." {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.Metadata.Extra["reviewer"] != "alice" {
		t.Errorf("metadata not merged: %v", updated.Metadata.Extra)
	}
	if !updated.Metadata.UpdatedAt.After(added.Metadata.UpdatedAt) && !updated.Metadata.UpdatedAt.Equal(added.Metadata.UpdatedAt) {
		t.Error("updated at not refreshed")
	}

	got, err := e.GetItem(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Content != "Replacement content." {
		t.Errorf("stored content = %q", got.Content)
	}
}

func TestUpdateItemTrustGateLeavesStoredItemIntact(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	added, err := e.AddItem(ctx, sourcedItem("Original content."))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	low := 0.1
	_, err = e.UpdateItem(ctx, added.ID, types.ItemPatch{TrustScore: &low})
	if !errors.Is(err, types.ErrLowTrust) {
		t.Fatalf("got %v, want ErrLowTrust", err)
	}

	got, err := e.GetItem(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.TrustScore != added.TrustScore {
		t.Errorf("stored trust changed: %.2f -> %.2f", added.TrustScore, got.TrustScore)
	}
}

// faultyStore fails every Put once armed, leaving reads untouched.
type faultyStore struct {
	store.ItemStore
	failPuts bool
}

func (s *faultyStore) Put(ctx context.Context, item types.KnowledgeItem) error {
	if s.failPuts {
		return errors.New("store unavailable")
	}
	return s.ItemStore.Put(ctx, item)
}

func TestUpdateFailureLeavesEmbeddingIntact(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	added, err := e.AddItem(ctx, sourcedItem("Original content."))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	before := e.vectorFor(added.ID)
	if before == nil {
		t.Fatal("expected stored vector")
	}

	e.items = &faultyStore{ItemStore: e.items, failPuts: true}

	content := "Replacement content."
	if _, err := e.UpdateItem(ctx, added.ID, types.ItemPatch{Content: &content}); err == nil {
		t.Fatal("expected update to fail")
	}

	if after := e.vectorFor(added.ID); !reflect.DeepEqual(before, after) {
		t.Error("embedding replaced despite failed store write")
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.UpdateItem(context.Background(), "missing", types.ItemPatch{}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRemoveItemCascades(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	item := sourcedItem("The sky appears blue due to Rayleigh scattering.")
	item.Category = "science/physics"
	item.Tags = []string{"optics"}
	added, err := e.AddItem(ctx, item)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	before, _ := e.Stats(ctx)
	if before.GraphNodes == 0 {
		t.Fatal("expected graph nodes after add")
	}

	if err := e.RemoveItem(ctx, added.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}

	if _, err := e.GetItem(ctx, added.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("GetItem after remove: %v, want ErrNotFound", err)
	}
	after, _ := e.Stats(ctx)
	if after.TotalItems != 0 {
		t.Errorf("items = %d, want 0", after.TotalItems)
	}
	// Category and tag nodes survive; only the item node and its edges go.
	if after.GraphNodes != before.GraphNodes-1 {
		t.Errorf("graph nodes = %d, want %d", after.GraphNodes, before.GraphNodes-1)
	}
	if after.GraphEdges != 0 {
		t.Errorf("graph edges = %d, want 0 dangling edges", after.GraphEdges)
	}
}

func TestRemoveItemNotFound(t *testing.T) {
	e := newTestEngine(t, nil)
	if err := e.RemoveItem(context.Background(), "missing"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestZeroEngineNotInitialized(t *testing.T) {
	var e Engine
	if _, err := e.AddItem(context.Background(), sourcedItem("x")); !errors.Is(err, types.ErrNotInitialized) {
		t.Errorf("AddItem: %v, want ErrNotInitialized", err)
	}
	if _, err := e.Search(context.Background(), "x", SearchOptions{}); !errors.Is(err, types.ErrNotInitialized) {
		t.Errorf("Search: %v, want ErrNotInitialized", err)
	}
}

func TestEmbedderDimensionMismatch(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.VectorDimensions = 8
	_, err := New(cfg, newFixedDimProvider(4), io.Discard)
	if !errors.Is(err, types.ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

type fixedDimProvider struct{ dims int }

func newFixedDimProvider(dims int) *fixedDimProvider { return &fixedDimProvider{dims: dims} }

func (p *fixedDimProvider) Dimensions() int { return p.dims }

func (p *fixedDimProvider) Embed(_ context.Context, _ string) ([]float64, error) {
	return make([]float64, p.dims), nil
}
