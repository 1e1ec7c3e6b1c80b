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

// DistanceMatrix - every pairwise distance for one run, packed upper-triangular.
// N(N-1)/2 float64 is the single largest allocation in the pipeline and the
// selector workers all read it concurrently, so it is built once and never mutated.
type DistanceMatrix struct {
	N       int
	Metric  string
	Lemmata []string
	Cond    []float64 // pair (i,j) with i<j lives at CondensedIndex(N, i, j)
}

// CondensedIndex - where the unordered pair (i,j) lives in the packed upper triangle
func CondensedIndex(n, i, j int) int {
	if i > j {
		i, j = j, i
	}
	return n*i - i*(i+1)/2 + j - i - 1
}

// At - the metric distance between rows i and j
func (dm *DistanceMatrix) At(i, j int) float64 {
	if i == j {
		return 0
	}
	return dm.Cond[CondensedIndex(dm.N, i, j)]
}

// NewDistanceMatrix - validate the embedding matrix and compute all pairwise distances.
// This is the input-validation boundary: NaN/Inf cells, N < 2 and D < 1 are rejected
// here so that nothing downstream ever sees them. Supported metrics are "euclidean"
// (plain L2) and "cosine" (1 - dot of the L2-normalized rows; a zero-norm row cannot
// be normalized and is a DegenerateVector failure naming the offending lemma).
func NewDistanceMatrix(lm *str.LemmaMatrix, metric string) (*DistanceMatrix, error) {
	const (
		FAIL1 = "distance engine: matrix has %d row(s) but needs at least 2: %w"
		FAIL2 = "distance engine: matrix dimension is %d but needs at least 1: %w"
		FAIL3 = "distance engine: row %d ('%s') holds a non-finite value: %w"
		FAIL4 = "distance engine: row %d ('%s') has zero norm under the cosine metric: %w"
		FAIL5 = "distance engine: unknown metric '%s': %w"
	)

	n := lm.N()
	if n < 2 {
		return nil, fmt.Errorf(FAIL1, n, ErrInvalidInput)
	}
	if lm.Dim < 1 {
		return nil, fmt.Errorf(FAIL2, lm.Dim, ErrInvalidInput)
	}

	for i := 0; i < n; i++ {
		r := lm.Row(i)
		for _, v := range r {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf(FAIL3, i, lm.Lemmata[i], ErrInvalidInput)
			}
		}
	}

	dm := &DistanceMatrix{
		N:       n,
		Metric:  metric,
		Lemmata: lm.Lemmata,
		Cond:    make([]float64, n*(n-1)/2),
	}

	switch metric {
	case vv.METRICEUCLIDEAN:
		idx := 0
		for i := 0; i < n; i++ {
			ri := lm.Row(i)
			for j := i + 1; j < n; j++ {
				dm.Cond[idx] = floats.Distance(ri, lm.Row(j), 2)
				idx++
			}
		}
	case vv.METRICCOSINE:
		norms := make([]float64, n)
		for i := 0; i < n; i++ {
			norms[i] = floats.Norm(lm.Row(i), 2)
			if norms[i] == 0 {
				return nil, fmt.Errorf(FAIL4, i, lm.Lemmata[i], ErrDegenerateVector)
			}
		}
		idx := 0
		for i := 0; i < n; i++ {
			ri := lm.Row(i)
			for j := i + 1; j < n; j++ {
				d := 1 - floats.Dot(ri, lm.Row(j))/(norms[i]*norms[j])
				// identical rows can yield -1e-16 via rounding; a distance is never negative
				if d < 0 {
					d = 0
				}
				dm.Cond[idx] = d
				idx++
			}
		}
	default:
		return nil, fmt.Errorf(FAIL5, metric, ErrInvalidInput)
	}

	return dm, nil
}
