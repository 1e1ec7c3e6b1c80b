//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"math"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
)

// MeanSilhouette - the mean silhouette width of a partition over all points.
// For a point: a = mean distance to its co-members, b = the smallest mean
// distance to any other cluster, s = (b-a)/max(a,b). A singleton has no a and
// contributes a neutral 0. One condensed-matrix sweep fills the per-point
// per-cluster sums, so the cost is one pass over the N(N-1)/2 pairs plus
// O(N·K) scratch.
func MeanSilhouette(p *Partition, dm *DistanceMatrix) float64 {
	n := dm.N
	k := p.K
	sizes := p.Sizes()

	// sums[i*k + (c-1)] = total distance from row i to the members of cluster c
	sums := make([]float64, n*k)

	idx := 0
	for i := 0; i < n; i++ {
		ci := p.Assign[i]
		for j := i + 1; j < n; j++ {
			d := dm.Cond[idx]
			idx++
			sums[i*k+p.Assign[j]-1] += d
			sums[j*k+ci-1] += d
		}
	}

	total := 0.0
	for i := 0; i < n; i++ {
		ci := p.Assign[i]
		if sizes[ci] < 2 {
			continue
		}
		a := sums[i*k+ci-1] / float64(sizes[ci]-1)
		b := math.Inf(1)
		for c := 1; c <= k; c++ {
			if c == ci {
				continue
			}
			m := sums[i*k+c-1] / float64(sizes[c])
			if m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			// k == 1: no other cluster to compare against
			continue
		}
		if den := math.Max(a, b); den > 0 {
			total += (b - a) / den
		}
	}

	return total / float64(n)
}

// WCSS - within-cluster sum of squared deviations from each cluster's centroid.
// Only meaningful under Euclidean geometry; cosine runs skip it. Feeds the
// elbow heuristic, which is diagnostic output and never decides k.
func WCSS(p *Partition, lm *str.LemmaMatrix) float64 {
	d := lm.Dim
	sizes := p.Sizes()

	cent := make([]float64, (p.K+1)*d)
	for row, c := range p.Assign {
		base := c * d
		for j, v := range lm.Row(row) {
			cent[base+j] += v
		}
	}
	for c := 1; c <= p.K; c++ {
		if sizes[c] == 0 {
			continue
		}
		base := c * d
		for j := 0; j < d; j++ {
			cent[base+j] /= float64(sizes[c])
		}
	}

	total := 0.0
	for row, c := range p.Assign {
		base := c * d
		for j, v := range lm.Row(row) {
			diff := v - cent[base+j]
			total += diff * diff
		}
	}

	return total
}
