// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectormath

import (
	"errors"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

func TestCosineSimilarityIdentical(t *testing.T) {
	v := []float64{0.3, -1.2, 4.5, 0.01}
	got, err := CosineSimilarity(v, v)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("cosine(v, v) = %v, want 1", got)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	got, err := CosineSimilarity([]float64{1, 0}, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got) > 1e-9 {
		t.Errorf("cosine of orthogonal vectors = %v, want 0", got)
	}
}

func TestCosineSimilarityOpposite(t *testing.T) {
	got, err := CosineSimilarity([]float64{2, 3}, []float64{-2, -3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got+1) > 1e-9 {
		t.Errorf("cosine of opposite vectors = %v, want -1", got)
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	got, err := CosineSimilarity([]float64{0, 0, 0}, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("cosine with zero vector = %v, want 0", got)
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3})
	if !errors.Is(err, types.ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestCosineSimilarityProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "n")
		elem := rapid.Float64Range(-100, 100)
		a := make([]float64, n)
		b := make([]float64, n)
		for i := range a {
			a[i] = elem.Draw(t, "a")
			b[i] = elem.Draw(t, "b")
		}

		ab, err := CosineSimilarity(a, b)
		if err != nil {
			t.Fatal(err)
		}
		ba, err := CosineSimilarity(b, a)
		if err != nil {
			t.Fatal(err)
		}

		// Symmetric and bounded.
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("cosine not symmetric: %v vs %v", ab, ba)
		}
		if ab < -1-1e-9 || ab > 1+1e-9 {
			t.Fatalf("cosine out of range: %v", ab)
		}

		// Self-similarity is 1 for nonzero vectors.
		var mag float64
		for _, x := range a {
			mag += x * x
		}
		if mag > 0 {
			aa, err := CosineSimilarity(a, a)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(aa-1) > 1e-9 {
				t.Fatalf("cosine(a, a) = %v, want 1", aa)
			}
		}
	})
}
