//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"fmt"
	"math"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"gonum.org/v1/gonum/floats"
)

// FitScores - how central every member is inside its own cluster
type FitScores struct {
	ByRow       []float64       // fit percentage per original row, one decimal
	ClusterMean map[int]float64 // raw id -> arithmetic mean of its members' fits, one decimal
}

// ScoreFit - percentile-rank every member by its mean Euclidean distance to
// its co-members. The Euclidean distances are recomputed locally from the
// embedding rows no matter which metric drove the clustering. Competition
// ranking: ties share the better rank, and fit = (count-rank)/(count-1)·100,
// so the closest member always lands on 100.0 and a two-member cluster is a
// mutual tie at 100.0. A singleton scores 100.0 outright.
func ScoreFit(p *Partition, lm *str.LemmaMatrix) (*FitScores, error) {
	const (
		FAIL1 = "fit scorer: cluster %d has no members: %w"
	)

	members := p.Members()
	fs := &FitScores{
		ByRow:       make([]float64, lm.N()),
		ClusterMean: make(map[int]float64, p.K),
	}

	for c := 1; c <= p.K; c++ {
		rows := members[c]
		if len(rows) == 0 {
			return nil, fmt.Errorf(FAIL1, c, ErrInconsistentPartition)
		}
		if len(rows) == 1 {
			fs.ByRow[rows[0]] = 100.0
			fs.ClusterMean[c] = 100.0
			continue
		}

		count := len(rows)
		means := make([]float64, count)
		for a, r := range rows {
			sum := 0.0
			for b, o := range rows {
				if a == b {
					continue
				}
				sum += floats.Distance(lm.Row(r), lm.Row(o), 2)
			}
			means[a] = sum / float64(count-1)
		}

		total := 0.0
		for a, r := range rows {
			rank := 1
			for b := range rows {
				if means[b] < means[a] {
					rank++
				}
			}
			fit := round1(float64(count-rank) / float64(count-1) * 100)
			fs.ByRow[r] = fit
			total += fit
		}
		fs.ClusterMean[c] = round1(total / float64(count))
	}

	return fs, nil
}

func round1(v float64) float64 {
	p := math.Pow10(vv.FITDECIMALS)
	return math.Round(v*p) / p
}
