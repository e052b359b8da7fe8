// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed defines the embedding capability consumed by the knowledge
// index and two implementations: a deterministic local provider used when no
// embedding API is configured, and an HTTP backend for a real model.
package embed

import (
	"context"
	"hash/fnv"
	"math/rand"
)

// Provider turns text into a fixed-length numeric vector. The index is
// agnostic to how vectors are produced; implementations own their own
// timeout and retry policy and surface failures as errors.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimensions() int
}

// Deterministic produces pseudo-embeddings seeded by a hash of the input
// text, so identical texts always map to identical vectors. Not suitable
// for real semantic similarity; it exists so the engine runs and tests
// reproduce without network access.
type Deterministic struct {
	dims int
}

// NewDeterministic returns a Deterministic provider emitting vectors of
// the given length.
func NewDeterministic(dims int) *Deterministic {
	return &Deterministic{dims: dims}
}

// Dimensions returns the configured vector length.
func (d *Deterministic) Dimensions() int { return d.dims }

// Embed returns a pseudo-random vector with components in [-1,1), seeded
// by text. Never fails.
func (d *Deterministic) Embed(_ context.Context, text string) ([]float64, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float64, d.dims)
	for i := range vec {
		vec[i] = rng.Float64()*2 - 1
	}
	return vec, nil
}
