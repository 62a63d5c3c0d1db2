//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package segment

import (
	"math/rand"
	"testing"
)

// blobs generates n points around each of the given centers with a small
// deterministic jitter.
func blobs(centers [][]float64, n int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	points := make([][]float64, 0, len(centers)*n)
	for _, c := range centers {
		for i := 0; i < n; i++ {
			p := make([]float64, len(c))
			for d := range c {
				p[d] = c[d] + rng.NormFloat64()*0.1
			}
			points = append(points, p)
		}
	}
	return points
}

func TestKMeansSeparatedBlobs(t *testing.T) {
	centers := [][]float64{{0, 0, 0}, {10, 10, 10}, {-10, 5, 0}}
	points := blobs(centers, 20, 7)

	result := KMeans(points, 3, 42)

	if len(result.Labels) != len(points) {
		t.Fatalf("Expected %d labels, got %d", len(points), len(result.Labels))
	}
	for i, label := range result.Labels {
		if label < 0 || label >= 3 {
			t.Fatalf("Label %d out of range at point %d", label, i)
		}
	}

	// Every blob maps to exactly one cluster.
	for b := 0; b < 3; b++ {
		first := result.Labels[b*20]
		for i := b * 20; i < (b+1)*20; i++ {
			if result.Labels[i] != first {
				t.Errorf("Blob %d split across clusters at point %d", b, i)
			}
		}
	}

	// Well-separated blobs with tight jitter keep SSE small.
	if result.SSE > 10 {
		t.Errorf("Expected small SSE for separated blobs, got %v", result.SSE)
	}
}

func TestKMeansDeterministic(t *testing.T) {
	points := blobs([][]float64{{0, 0, 0}, {5, 5, 5}}, 25, 3)

	a := KMeans(points, 4, 42)
	b := KMeans(points, 4, 42)

	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			t.Fatalf("Same seed produced different labels at point %d", i)
		}
	}
	if a.SSE != b.SSE {
		t.Errorf("Same seed produced different SSE: %v vs %v", a.SSE, b.SSE)
	}
}

func TestKMeansSingleCluster(t *testing.T) {
	points := blobs([][]float64{{1, 2, 3}}, 10, 1)

	result := KMeans(points, 1, 42)
	for i, label := range result.Labels {
		if label != 0 {
			t.Errorf("Expected label 0 at point %d, got %d", i, label)
		}
	}
}

func TestKMeansMoreClustersThanPoints(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}}

	result := KMeans(points, 5, 42)
	if len(result.Centroids) != 2 {
		t.Errorf("Expected K clamped to 2 centroids, got %d", len(result.Centroids))
	}
	for i, label := range result.Labels {
		if label < 0 || label >= 2 {
			t.Errorf("Label %d out of range at point %d", label, i)
		}
	}
}

func TestKMeansDegenerateInputs(t *testing.T) {
	if result := KMeans(nil, 3, 42); result.Labels != nil {
		t.Error("Expected empty result for no points")
	}
	if result := KMeans([][]float64{{1, 2}}, 0, 42); result.Labels != nil {
		t.Error("Expected empty result for k < 1")
	}

	// Identical points cannot split, but must not hang or panic.
	same := [][]float64{{2, 2}, {2, 2}, {2, 2}, {2, 2}}
	result := KMeans(same, 2, 42)
	if len(result.Labels) != 4 {
		t.Fatalf("Expected 4 labels, got %d", len(result.Labels))
	}
	if result.SSE != 0 {
		t.Errorf("Expected zero SSE for identical points, got %v", result.SSE)
	}
}

func TestSSECurveMonotoneOnBlobs(t *testing.T) {
	points := blobs([][]float64{{0, 0, 0}, {8, 8, 8}, {-8, 8, 0}, {0, -8, 8}}, 15, 5)

	curve := SSECurve(points, 1, 6, 42)
	if len(curve) != 6 {
		t.Fatalf("Expected 6 candidates, got %d", len(curve))
	}
	for i, c := range curve {
		if c.K != i+1 {
			t.Errorf("Expected K %d at index %d, got %d", i+1, i, c.K)
		}
	}

	// SSE at the true cluster count is far below SSE at K=1.
	if curve[3].SSE >= curve[0].SSE/10 {
		t.Errorf("Expected sharp SSE drop by K=4: K=1 %v, K=4 %v", curve[0].SSE, curve[3].SSE)
	}
}

func TestKSelectors(t *testing.T) {
	curve := []CandidateK{
		{K: 1, SSE: 1000},
		{K: 2, SSE: 400},
		{K: 3, SSE: 150},
		{K: 4, SSE: 140},
		{K: 5, SSE: 135},
	}

	if got := (FixedK{K: 4}).SelectK(curve); got != 4 {
		t.Errorf("Expected FixedK to return 4, got %d", got)
	}
	// Drops: 60%, 62.5%, then 6.7% which is below the 10% threshold.
	if got := (MaxDrop{}).SelectK(curve); got != 3 {
		t.Errorf("Expected MaxDrop to pick 3, got %d", got)
	}
	if got := (MaxDrop{}).SelectK(nil); got != 1 {
		t.Errorf("Expected MaxDrop default 1 for empty curve, got %d", got)
	}
}
