//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
)

// twoblobs - x = 0,1,2 and x = 20,21,22: the obviously right answer is k=2
func twoblobs(t *testing.T) (*Dendrogram, *DistanceMatrix, *str.LemmaMatrix) {
	t.Helper()
	lm := testmatrix([][]float64{{0}, {1}, {2}, {20}, {21}, {22}})
	dm, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dend, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return dend, dm, lm
}

func TestSelectKPicksTheObviousSplit(t *testing.T) {
	dend, dm, lm := twoblobs(t)

	sel, err := SelectK(dend, dm, lm, 2, 4, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sel.ChosenK != 2 {
		t.Errorf("chose k=%d, want 2", sel.ChosenK)
	}

	// hand-computed mean width at k=2 over the six points
	want := (19.5/21 + 19.0/20 + 17.5/19) / 3
	if math.Abs(sel.ChosenSilhouette()-want) > 1e-12 {
		t.Errorf("silhouette at chosen k = %.15f, want %.15f", sel.ChosenSilhouette(), want)
	}
}

func TestSelectKSeriesIsComplete(t *testing.T) {
	dend, dm, lm := twoblobs(t)

	sel, err := SelectK(dend, dm, lm, 2, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sel.Series) != 3 {
		t.Fatalf("series holds %d records, want 3", len(sel.Series))
	}
	for i, d := range sel.Series {
		if d.K != 2+i {
			t.Errorf("series[%d].K = %d, want %d", i, d.K, 2+i)
		}
		if !d.HasWCSS {
			t.Errorf("series[%d] lacks WCSS on a euclidean run", i)
		}
	}

	// the cuts are {0,1,2|3,4,5}, {0,1,2|3,4|5} and {0,1|2|3,4|5}
	wantwcss := []float64{4.0, 2.5, 1.0}
	for i, w := range wantwcss {
		if math.Abs(sel.Series[i].WCSS-w) > 1e-12 {
			t.Errorf("series[%d].WCSS = %f, want %f", i, sel.Series[i].WCSS, w)
		}
	}

	if sel.ElbowK != 3 {
		t.Errorf("elbow at k=%d, want 3", sel.ElbowK)
	}
}

func TestSelectKIsDeterministic(t *testing.T) {
	lm := testmatrix(scatter(25, 4))
	dm, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dend, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the workers race each other but the collated outcome may not vary
	first, err := SelectK(dend, dm, lm, 2, 12, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := SelectK(dend, dm, lm, 2, 12, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("worker count changed the selection outcome")
	}
}

func TestSelectKTieFallsToSmallerK(t *testing.T) {
	// four coincident points: every cut scores a neutral 0, so the tie
	// rule has to surface the smallest candidate
	lm := testmatrix([][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}})
	dm, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dend, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sel, err := SelectK(dend, dm, lm, 2, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.ChosenK != 2 {
		t.Errorf("chose k=%d on a full tie, want 2", sel.ChosenK)
	}
}

func TestSelectKRejectsBadRanges(t *testing.T) {
	dend, dm, lm := twoblobs(t)

	cases := []struct {
		label      string
		kmin, kmax int
	}{
		{"kmin below 2", 1, 4},
		{"kmax at n", 2, 6},
		{"inverted", 4, 3},
	}

	for _, c := range cases {
		_, err := SelectK(dend, dm, lm, c.kmin, c.kmax, 2)
		if !errors.Is(err, ErrEmptyRange) {
			t.Errorf("%s: got %v, want ErrEmptyRange", c.label, err)
		}
	}
}

func TestSelectKCosineCarriesNoWCSS(t *testing.T) {
	lm := testmatrix([][]float64{{1, 0.01}, {1, 0.02}, {0.01, 1}, {0.02, 1}})
	dm, err := NewDistanceMatrix(lm, vv.METRICCOSINE)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dend, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sel, err := SelectK(dend, dm, lm, 2, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, d := range sel.Series {
		if d.HasWCSS || d.WCSS != 0 {
			t.Errorf("series[%d] carries WCSS on a cosine run", i)
		}
	}
	if sel.ElbowK != 0 {
		t.Errorf("elbow k = %d on a cosine run, want 0", sel.ElbowK)
	}
	if sel.ChosenK != 2 {
		t.Errorf("chose k=%d, want 2", sel.ChosenK)
	}
}
