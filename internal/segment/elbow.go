//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package segment

import "github.com/quantalytics/retail-dw/internal/logging"

// CandidateK is one point on the SSE curve.
type CandidateK struct {
	K   int
	SSE float64
}

// SSECurve fits the partitioning at every candidate K in [kMin, kMax]
// and records the within-cluster sum of squared distances. The curve is
// what an elbow estimator (or an operator reading the logs) selects from.
func SSECurve(points [][]float64, kMin, kMax int, seed int64) []CandidateK {
	curve := make([]CandidateK, 0, kMax-kMin+1)
	for k := kMin; k <= kMax; k++ {
		result := KMeans(points, k, seed)
		curve = append(curve, CandidateK{K: k, SSE: result.SSE})
		logging.Debug().
			Int("k", k).
			Float64("sse", result.SSE).
			Msg("Elbow candidate")
	}
	return curve
}

// KSelector chooses a cluster count from an SSE curve. It is an
// interface so the fixed default can be swapped for a real curvature
// estimator without touching the clustering contract.
type KSelector interface {
	SelectK(curve []CandidateK) int
}

// FixedK always returns a constant. K=4 is the documented default: a
// domain-standard retail segmentation size used when automatic elbow
// detection is not confidently resolved.
type FixedK struct {
	K int
}

func (s FixedK) SelectK(curve []CandidateK) int {
	return s.K
}

// MaxDrop picks the last K whose step still removes a meaningful share
// of the remaining SSE: the smallest K after which every further cluster
// reduces SSE by less than 10%. A crude curvature stand-in, but an
// honest automatic one.
type MaxDrop struct{}

func (s MaxDrop) SelectK(curve []CandidateK) int {
	if len(curve) == 0 {
		return 1
	}
	chosen := curve[0].K
	for i := 1; i < len(curve); i++ {
		prev, cur := curve[i-1].SSE, curve[i].SSE
		if prev <= 0 {
			break
		}
		if (prev-cur)/prev < 0.10 {
			break
		}
		chosen = curve[i].K
	}
	return chosen
}
