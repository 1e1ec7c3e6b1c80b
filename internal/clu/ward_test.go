//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"math"
	"reflect"
	"testing"

	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
)

func TestWardThreePointsOnALine(t *testing.T) {
	// x = 0, 1, 5: first the near pair at height 1, then the third point joins;
	// the Lance-Williams recurrence puts that second merge at sqrt(27)
	lm := testmatrix([][]float64{{0}, {1}, {5}})
	dm, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dend, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dend.Merges) != 2 {
		t.Fatalf("got %d merges, want 2", len(dend.Merges))
	}

	m0 := dend.Merges[0]
	if m0.Left != 0 || m0.Right != 1 || m0.Size != 2 {
		t.Errorf("first merge = %+v, want leaves 0 and 1 at size 2", m0)
	}
	if math.Abs(m0.Height-1.0) > 1e-12 {
		t.Errorf("first height = %f, want 1.0", m0.Height)
	}

	m1 := dend.Merges[1]
	if m1.Left != 2 || m1.Right != 3 || m1.Size != 3 {
		t.Errorf("second merge = %+v, want leaf 2 with node 3 at size 3", m1)
	}
	if math.Abs(m1.Height-math.Sqrt(27)) > 1e-12 {
		t.Errorf("second height = %f, want sqrt(27) = %f", m1.Height, math.Sqrt(27))
	}
}

func TestWardUnitSquareTies(t *testing.T) {
	// all four sides tie at distance 1; the lowest-index rule must pair (0,1)
	// and (2,3) and then join the pairs at the diagonal of the square
	lm := testmatrix([][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}})
	dm, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dend, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Merge{
		{Left: 0, Right: 1, Height: 1, Size: 2},
		{Left: 2, Right: 3, Height: 1, Size: 2},
		{Left: 4, Right: 5, Height: math.Sqrt2, Size: 4},
	}
	for i, w := range want {
		g := dend.Merges[i]
		if g.Left != w.Left || g.Right != w.Right || g.Size != w.Size {
			t.Errorf("merge %d = %+v, want %+v", i, g, w)
		}
		if math.Abs(g.Height-w.Height) > 1e-12 {
			t.Errorf("merge %d height = %f, want %f", i, g.Height, w.Height)
		}
	}
}

func TestWardStructuralInvariants(t *testing.T) {
	lm := testmatrix(scatter(40, 5))
	dm, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dend, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := dend.N
	if len(dend.Merges) != n-1 {
		t.Fatalf("got %d merges, want %d", len(dend.Merges), n-1)
	}

	used := make(map[int]bool)
	for s, m := range dend.Merges {
		if m.Left >= m.Right {
			t.Errorf("merge %d: left %d is not below right %d", s, m.Left, m.Right)
		}
		if m.Right >= n+s {
			t.Errorf("merge %d: child %d does not predate its parent %d", s, m.Right, n+s)
		}
		if used[m.Left] || used[m.Right] {
			t.Errorf("merge %d reuses an absorbed node", s)
		}
		used[m.Left] = true
		used[m.Right] = true
		if s > 0 && m.Height < dend.Merges[s-1].Height {
			t.Errorf("merge %d height %f undercuts merge %d", s, m.Height, s-1)
		}
	}

	if dend.Merges[n-2].Size != n {
		t.Errorf("final merge size = %d, want %d", dend.Merges[n-2].Size, n)
	}
}

func TestWardIsDeterministic(t *testing.T) {
	lm := testmatrix(scatter(30, 8))
	dm, err := NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two agglomerations of the same matrix disagree")
	}
}

func TestWardUnderCosine(t *testing.T) {
	// two directional bundles: the final merge must span them
	lm := testmatrix([][]float64{{1, 0.01}, {1, 0.02}, {0.01, 1}, {0.02, 1}})
	dm, err := NewDistanceMatrix(lm, vv.METRICCOSINE)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dend, err := WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := dend.Merges[len(dend.Merges)-1]
	if last.Size != 4 {
		t.Errorf("final merge size = %d, want 4", last.Size)
	}
	p, err := CutDendrogram(dend, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Assign[0] != p.Assign[1] || p.Assign[2] != p.Assign[3] || p.Assign[0] == p.Assign[2] {
		t.Errorf("cut at 2 = %v, want the bundles separated", p.Assign)
	}
}

// scatter - deterministic pseudo-random rows from a hand-rolled LCG; no test
// may depend on the global rand state
func scatter(n, d int) [][]float64 {
	seed := uint64(2024)
	next := func() float64 {
		seed = seed*6364136223846793005 + 1442695040888963407
		return float64(seed>>11) / float64(1<<53)
	}
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, d)
		for j := range rows[i] {
			rows[i][j] = next() * 10
		}
	}
	return rows
}
