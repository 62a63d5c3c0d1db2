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
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// kmeansMaxIter bounds Lloyd iterations, matching the reference fit.
const kmeansMaxIter = 300

// KMeansResult holds one fitted partitioning.
type KMeansResult struct {
	// Labels assigns each input point a centroid index in [0, K).
	Labels []int

	// Centroids are the final cluster centers.
	Centroids [][]float64

	// SSE is the within-cluster sum of squared distances (inertia).
	SSE float64
}

// KMeans fits a centroid-based partitioning with k-means++ seeding.
// Initialization draws from the given seed only, so the same seed and
// input always yield identical labels.
func KMeans(points [][]float64, k int, seed int64) KMeansResult {
	if len(points) == 0 || k < 1 {
		return KMeansResult{}
	}
	if k > len(points) {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)
	labels := make([]int, len(points))

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := assign(points, centroids, labels)
		update(points, centroids, labels, rng)
		if !changed && iter > 0 {
			break
		}
	}

	var sse float64
	for i, p := range points {
		d := floats.Distance(p, centroids[labels[i]], 2)
		sse += d * d
	}

	return KMeansResult{Labels: labels, Centroids: centroids, SSE: sse}
}

// seedCentroids implements k-means++: the first center is uniform, each
// further center is drawn proportionally to squared distance from the
// nearest chosen center.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := points[rng.Intn(len(points))]
	centroids = append(centroids, append([]float64(nil), first...))

	dist2 := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			best := math.Inf(1)
			for _, c := range centroids {
				d := floats.Distance(p, c, 2)
				if d*d < best {
					best = d * d
				}
			}
			dist2[i] = best
			total += best
		}

		if total == 0 {
			// All remaining points coincide with a center.
			p := points[rng.Intn(len(points))]
			centroids = append(centroids, append([]float64(nil), p...))
			continue
		}

		target := rng.Float64() * total
		var acc float64
		idx := len(points) - 1
		for i, d := range dist2 {
			acc += d
			if acc >= target {
				idx = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), points[idx]...))
	}
	return centroids
}

func assign(points, centroids [][]float64, labels []int) bool {
	changed := false
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for j, c := range centroids {
			if d := floats.Distance(p, c, 2); d < bestDist {
				best, bestDist = j, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

func update(points, centroids [][]float64, labels []int, rng *rand.Rand) {
	dims := len(centroids[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for j := range sums {
		sums[j] = make([]float64, dims)
	}

	for i, p := range points {
		counts[labels[i]]++
		floats.Add(sums[labels[i]], p)
	}

	for j := range centroids {
		if counts[j] == 0 {
			// An emptied cluster restarts at a random point.
			p := points[rng.Intn(len(points))]
			copy(centroids[j], p)
			continue
		}
		for d := 0; d < dims; d++ {
			centroids[j][d] = sums[j][d] / float64(counts[j])
		}
	}
}
