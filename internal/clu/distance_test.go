//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"gonum.org/v1/gonum/mat"
)

// testmatrix - pack the rows into a LemmaMatrix with generated lemma names
func testmatrix(rows [][]float64) *str.LemmaMatrix {
	d := len(rows[0])
	lemmata := make([]string, len(rows))
	flat := make([]float64, 0, len(rows)*d)
	for i, r := range rows {
		lemmata[i] = fmt.Sprintf("λέξιϲ%d", i)
		flat = append(flat, r...)
	}
	return &str.LemmaMatrix{Lemmata: lemmata, Dim: d, Mtx: mat.NewDense(len(rows), d, flat)}
}

func TestEuclideanDistances(t *testing.T) {
	// a 3-4-5 triangle: the expected distances are exact
	lm := testmatrix([][]float64{{0, 0}, {3, 0}, {3, 4}})

	dm, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{3, 5, 4} // pairs (0,1), (0,2), (1,2)
	for i, w := range want {
		if dm.Cond[i] != w {
			t.Errorf("Cond[%d] = %f, want %f", i, dm.Cond[i], w)
		}
	}
}

func TestCosineDistances(t *testing.T) {
	// orthogonal rows are 1.0 apart; parallel rows are 0.0 apart whatever their length
	lm := testmatrix([][]float64{{1, 0}, {0, 1}, {2, 0}})

	dm, err := NewDistanceMatrix(lm, vv.METRICCOSINE)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(dm.At(0, 1)-1.0) > 1e-12 {
		t.Errorf("orthogonal cosine distance = %f, want 1.0", dm.At(0, 1))
	}
	if math.Abs(dm.At(0, 2)) > 1e-12 {
		t.Errorf("parallel cosine distance = %f, want 0.0", dm.At(0, 2))
	}
	if math.Abs(dm.At(1, 2)-1.0) > 1e-12 {
		t.Errorf("orthogonal cosine distance = %f, want 1.0", dm.At(1, 2))
	}
}

func TestDistanceSymmetryAndDiagonal(t *testing.T) {
	lm := testmatrix([][]float64{{0, 0}, {3, 0}, {3, 4}, {1, 1}})

	dm, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < dm.N; i++ {
		if dm.At(i, i) != 0 {
			t.Errorf("At(%d,%d) = %f, want 0", i, i, dm.At(i, i))
		}
		for j := i + 1; j < dm.N; j++ {
			if dm.At(i, j) != dm.At(j, i) {
				t.Errorf("At(%d,%d) != At(%d,%d)", i, j, j, i)
			}
		}
	}
}

func TestCondensedIndexCoversAllPairs(t *testing.T) {
	n := 7
	seen := make(map[int]bool)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			idx := CondensedIndex(n, i, j)
			if idx < 0 || idx >= n*(n-1)/2 {
				t.Fatalf("CondensedIndex(%d,%d,%d) = %d out of range", n, i, j, idx)
			}
			if seen[idx] {
				t.Fatalf("CondensedIndex(%d,%d,%d) = %d collides", n, i, j, idx)
			}
			seen[idx] = true
			if idx != CondensedIndex(n, j, i) {
				t.Errorf("CondensedIndex is not symmetric for (%d,%d)", i, j)
			}
		}
	}
	if len(seen) != n*(n-1)/2 {
		t.Errorf("covered %d slots, want %d", len(seen), n*(n-1)/2)
	}
}

func TestTooFewRowsIsInvalidInput(t *testing.T) {
	lm := testmatrix([][]float64{{1, 2}})

	_, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("single row: got %v, want ErrInvalidInput", err)
	}
}

func TestNonFiniteCellIsInvalidInput(t *testing.T) {
	lm := testmatrix([][]float64{{1, 2}, {math.NaN(), 0}, {3, 4}})

	_, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("NaN cell: got %v, want ErrInvalidInput", err)
	}
	if !strings.Contains(err.Error(), "λέξιϲ1") {
		t.Errorf("error %q does not name the offending lemma", err)
	}

	lm = testmatrix([][]float64{{1, 2}, {math.Inf(1), 0}})
	_, err = NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Inf cell: got %v, want ErrInvalidInput", err)
	}
}

func TestZeroNormRowUnderCosine(t *testing.T) {
	lm := testmatrix([][]float64{{1, 2}, {0, 0}, {3, 4}})

	// cosine cannot normalize a zero row
	_, err := NewDistanceMatrix(lm, vv.METRICCOSINE)
	if !errors.Is(err, ErrDegenerateVector) {
		t.Fatalf("zero row under cosine: got %v, want ErrDegenerateVector", err)
	}
	if !strings.Contains(err.Error(), "λέξιϲ1") {
		t.Errorf("error %q does not name the offending lemma", err)
	}

	// the same row is fine under euclidean
	if _, err = NewDistanceMatrix(lm, vv.METRICEUCLIDEAN); err != nil {
		t.Errorf("zero row under euclidean: got %v, want success", err)
	}
}

func TestUnknownMetricIsInvalidInput(t *testing.T) {
	lm := testmatrix([][]float64{{1, 2}, {3, 4}})

	_, err := NewDistanceMatrix(lm, "manhattan")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown metric: got %v, want ErrInvalidInput", err)
	}
}
