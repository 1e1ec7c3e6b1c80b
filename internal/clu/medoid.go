//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"fmt"
	"math"
)

// Medoid - the representative member of a cluster: an actual data point, not a centroid
type Medoid struct {
	Lemma string
	Index int // original row
}

// FindMedoids - for every cluster pick the member with the smallest mean
// distance to its co-members under the run metric. A singleton is its own
// medoid; a distance tie goes to the earliest row in the original ordering.
// O(size²) per cluster, which is cheap because clusters are small next to N.
func FindMedoids(p *Partition, dm *DistanceMatrix) (map[int]Medoid, error) {
	const (
		FAIL1 = "medoid finder: cluster %d has no members: %w"
	)

	members := p.Members()
	medoids := make(map[int]Medoid, p.K)

	for c := 1; c <= p.K; c++ {
		rows := members[c]
		if len(rows) == 0 {
			return nil, fmt.Errorf(FAIL1, c, ErrInconsistentPartition)
		}
		if len(rows) == 1 {
			medoids[c] = Medoid{Lemma: dm.Lemmata[rows[0]], Index: rows[0]}
			continue
		}

		// rows ascend, so a strict < keeps the earliest row on ties
		best := rows[0]
		bestmean := math.Inf(1)
		for _, r := range rows {
			sum := 0.0
			for _, o := range rows {
				if o == r {
					continue
				}
				sum += dm.At(r, o)
			}
			mean := sum / float64(len(rows)-1)
			if mean < bestmean {
				bestmean = mean
				best = r
			}
		}
		medoids[c] = Medoid{Lemma: dm.Lemmata[best], Index: best}
	}

	return medoids, nil
}
