// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index implements the knowledge engine: a store of verified,
// trust-scored knowledge items with keyword and semantic search, a typed
// relation graph, a hierarchical taxonomy, and source tracking. All state
// is in-process; nothing survives the engine.
package index

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jaat-ai/knowledge-engine/internal/embed"
	"github.com/jaat-ai/knowledge-engine/internal/graph"
	"github.com/jaat-ai/knowledge-engine/internal/source"
	"github.com/jaat-ai/knowledge-engine/internal/store"
	"github.com/jaat-ai/knowledge-engine/internal/taxonomy"
	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// searchEntry pairs an item id with its embedding in the in-process search
// index. Entries keep insertion order so equal-score results stay stable.
type searchEntry struct {
	id     string
	vector []float64
}

// Engine is the knowledge engine. Construct with New; the zero value is
// unusable and every method on it fails with ErrNotInitialized.
type Engine struct {
	mu sync.Mutex

	cfg      types.Config
	log      io.Writer
	now      func() time.Time
	embedder embed.Provider

	items   store.ItemStore
	sources *source.Registry

	// tree and kg are nil when the corresponding feature is disabled.
	tree *taxonomy.Tree
	kg   *graph.Graph

	// entries is the embedding index for the memory and database
	// providers; vectors replaces it under the vector-db provider.
	entries []searchEntry
	vectors map[string][]float64

	subs *subscribers
}

// New constructs an engine from the given configuration. Zero-valued
// numeric settings fall back to defaults; a nil embedder gets the
// deterministic local provider, and a nil log discards progress output.
func New(cfg types.Config, embedder embed.Provider, logw io.Writer) (*Engine, error) {
	cfg = cfg.WithDefaults()

	if logw == nil {
		logw = io.Discard
	}
	if embedder == nil {
		embedder = embed.NewDeterministic(cfg.VectorDimensions)
	}
	if embedder.Dimensions() != cfg.VectorDimensions {
		return nil, fmt.Errorf("embedder produces %d dimensions, configured for %d: %w",
			embedder.Dimensions(), cfg.VectorDimensions, types.ErrDimensionMismatch)
	}

	items, err := store.New(cfg.StorageProvider)
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}

	e := &Engine{
		cfg:      cfg,
		log:      logw,
		now:      time.Now,
		embedder: embedder,
		items:    items,
		sources:  source.NewRegistry(cfg.EnableSourceTracking, nil),
		subs:     newSubscribers(logw),
	}
	if cfg.EnableHierarchicalTaxonomy {
		e.tree = taxonomy.NewTree(nil)
	}
	if cfg.EnableKnowledgeGraph {
		e.kg = graph.New(nil)
	}
	if cfg.StorageProvider == types.StorageVectorDB {
		e.vectors = make(map[string][]float64)
	}

	fmt.Fprintf(logw, "knowledge engine initialized: provider=%s dimensions=%d\n",
		cfg.StorageProvider, cfg.VectorDimensions)
	return e, nil
}

// Close releases the underlying item store.
func (e *Engine) Close() error {
	if e.items == nil {
		return nil
	}
	return e.items.Close()
}

// ready guards against use of a zero-valued Engine.
func (e *Engine) ready() error {
	if e == nil || e.items == nil {
		return types.ErrNotInitialized
	}
	return nil
}

// Configuration returns a copy of the effective configuration.
func (e *Engine) Configuration() types.Config {
	return e.cfg
}

// storeVector records an item embedding under whichever structure the
// configured provider uses.
func (e *Engine) storeVector(id string, vec []float64) {
	if e.vectors != nil {
		e.vectors[id] = vec
		return
	}
	for i := range e.entries {
		if e.entries[i].id == id {
			e.entries[i].vector = vec
			return
		}
	}
	e.entries = append(e.entries, searchEntry{id: id, vector: vec})
}

func (e *Engine) vectorFor(id string) []float64 {
	if e.vectors != nil {
		return e.vectors[id]
	}
	for i := range e.entries {
		if e.entries[i].id == id {
			return e.entries[i].vector
		}
	}
	return nil
}

func (e *Engine) dropVector(id string) {
	if e.vectors != nil {
		delete(e.vectors, id)
		return
	}
	for i := range e.entries {
		if e.entries[i].id == id {
			e.entries = append(e.entries[:i], e.entries[i+1:]...)
			return
		}
	}
}
