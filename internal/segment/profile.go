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
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// SegmentProfile summarizes one cluster by its mean RFM values.
type SegmentProfile struct {
	Cluster       int
	Customers     int
	MeanRecency   float64
	MeanFrequency float64
	MeanMonetary  float64
	Name          string
}

// segmentNames in descending mean-monetary order, for a four-segment
// retail split. Larger K falls back to numbered segments.
var segmentNames = []string{
	"Champions",
	"Loyal_Customers",
	"Potential_Loyalists",
	"At_Risk",
}

// NamedRow is one customer with its named segment, the final profiling
// output.
type NamedRow struct {
	CustomerID  int64   `csv:"customer_id"`
	Recency     int     `csv:"recency"`
	Frequency   int     `csv:"frequency"`
	Monetary    float64 `csv:"monetary"`
	SegmentName string  `csv:"Segment_Name"`
}

// Profile computes mean R/F/M per cluster and names each segment by its
// monetary rank: the highest-spending cluster is named first. Means are
// rounded to 0/1/2 decimals respectively for display parity with the
// reference output.
func Profile(rows []ClusteredRow) []SegmentProfile {
	type acc struct {
		n         int
		recency   float64
		frequency float64
		monetary  float64
	}
	byCluster := make(map[int]*acc)
	for _, row := range rows {
		a, ok := byCluster[row.Cluster]
		if !ok {
			a = &acc{}
			byCluster[row.Cluster] = a
		}
		a.n++
		a.recency += float64(row.Recency)
		a.frequency += float64(row.Frequency)
		a.monetary += row.Monetary
	}

	profiles := make([]SegmentProfile, 0, len(byCluster))
	for cluster, a := range byCluster {
		n := float64(a.n)
		profiles = append(profiles, SegmentProfile{
			Cluster:       cluster,
			Customers:     a.n,
			MeanRecency:   math.Round(a.recency / n),
			MeanFrequency: roundTo(a.frequency/n, 1),
			MeanMonetary:  roundTo(a.monetary/n, 2),
		})
	}

	// Name by monetary rank, then present in cluster order.
	ranked := make([]int, len(profiles))
	for i := range profiles {
		ranked[i] = i
	}
	sort.Slice(ranked, func(a, b int) bool {
		return profiles[ranked[a]].MeanMonetary > profiles[ranked[b]].MeanMonetary
	})
	for rank, idx := range ranked {
		name := fmt.Sprintf("Segment_%d", rank+1)
		if rank < len(segmentNames) {
			name = segmentNames[rank]
		}
		profiles[idx].Name = fmt.Sprintf("%02d_%s", rank+1, name)
	}

	sort.Slice(profiles, func(a, b int) bool {
		return profiles[a].Cluster < profiles[b].Cluster
	})
	return profiles
}

// WriteNamed writes the final per-customer segment table using the names
// assigned by Profile.
func WriteNamed(path string, rows []ClusteredRow, profiles []SegmentProfile) error {
	names := make(map[int]string, len(profiles))
	for _, p := range profiles {
		names[p.Cluster] = p.Name
	}

	named := make([]NamedRow, len(rows))
	for i, row := range rows {
		named[i] = NamedRow{
			CustomerID:  row.CustomerID,
			Recency:     row.Recency,
			Frequency:   row.Frequency,
			Monetary:    row.Monetary,
			SegmentName: names[row.Cluster],
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create segment file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&named, f); err != nil {
		return fmt.Errorf("failed to write segment file: %w", err)
	}
	return nil
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
