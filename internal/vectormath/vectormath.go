// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectormath provides the numeric helpers behind semantic search.
package vectormath

import (
	"fmt"
	"math"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1,1]. Vectors of different lengths fail with ErrDimensionMismatch.
// A zero-magnitude vector yields 0 rather than dividing by zero.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", types.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}
