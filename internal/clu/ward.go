//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"fmt"
	"math"
	"sort"
)

// Merge - one agglomeration event; leaves are 0..N-1 and the merge at step s creates id N+s
type Merge struct {
	Left   int
	Right  int
	Height float64
	Size   int
}

// Dendrogram - the full merge history: N-1 events with non-decreasing heights
type Dendrogram struct {
	N      int
	Merges []Merge
}

// WardLinkage - agglomerate under Ward's minimum-variance criterion via the
// nearest-neighbor-chain algorithm: follow nearest neighbors from any live
// cluster until two clusters are mutually nearest, merge them, update the
// condensed structure with the Lance-Williams recurrence
//
//	d(new,i) = ((nx+ni)·d(x,i) + (ny+ni)·d(y,i) - ni·d(x,y)) / (nx+ny+ni)
//
// and resume from the remainder of the chain. O(N²) time and O(N) space beyond
// the mutable copy of the condensed matrix. The recurrence runs on squared
// distances; a reported height is the square root of its merge value. Every
// nearest-neighbor tie resolves to the lowest live slot, which fixes the merge
// order and makes reruns reproducible.
func WardLinkage(dm *DistanceMatrix) (*Dendrogram, error) {
	const (
		FAIL1 = "agglomeration: %d row(s) cannot be clustered: %w"
		FAIL2 = "agglomeration: merge %d produced a non-finite or negative height: %w"
		FAIL3 = "agglomeration: merge %d height %f undercuts merge %d height %f: %w"
	)

	n := dm.N
	if n < 2 {
		return nil, fmt.Errorf(FAIL1, n, ErrInvalidInput)
	}

	w := make([]float64, len(dm.Cond))
	for i, d := range dm.Cond {
		w[i] = d * d
	}

	// size doubles as the liveness marker: 0 means the slot was absorbed
	size := make([]int, n)
	for i := range size {
		size[i] = 1
	}

	type rawmerge struct {
		x, y int     // slots, not dendrogram ids
		wd   float64 // squared merge distance
		sz   int
	}
	raw := make([]rawmerge, 0, n-1)
	chain := make([]int, 0, n)

	for len(raw) < n-1 {
		if len(chain) == 0 {
			for i := 0; i < n; i++ {
				if size[i] > 0 {
					chain = append(chain, i)
					break
				}
			}
		}

		var x, y int
		var cur float64
		for {
			x = chain[len(chain)-1]

			// seed with the previous chain element so that a tie with it
			// registers as reciprocity and the walk cannot cycle
			y = -1
			cur = math.Inf(1)
			if len(chain) > 1 {
				y = chain[len(chain)-2]
				cur = w[CondensedIndex(n, x, y)]
			}

			for i := 0; i < n; i++ {
				if size[i] == 0 || i == x {
					continue
				}
				d := w[CondensedIndex(n, x, i)]
				if d < cur {
					cur = d
					y = i
				}
			}

			if len(chain) > 1 && y == chain[len(chain)-2] {
				break
			}
			chain = append(chain, y)
		}

		// x and y are mutually nearest: merge them and drop both from the chain
		chain = chain[:len(chain)-2]

		if math.IsNaN(cur) || math.IsInf(cur, 0) || cur < 0 {
			return nil, fmt.Errorf(FAIL2, len(raw), ErrInconsistentPartition)
		}

		if x > y {
			x, y = y, x
		}
		nx := size[x]
		ny := size[y]
		raw = append(raw, rawmerge{x: x, y: y, wd: cur, sz: nx + ny})

		// slot y carries the merged cluster from here on; slot x dies
		size[x] = 0
		size[y] = nx + ny

		for i := 0; i < n; i++ {
			ni := size[i]
			if ni == 0 || i == y {
				continue
			}
			dxi := w[CondensedIndex(n, x, i)]
			dyi := w[CondensedIndex(n, y, i)]
			fx, fy, fi := float64(nx), float64(ny), float64(ni)
			w[CondensedIndex(n, y, i)] = ((fx+fi)*dxi + (fy+fi)*dyi - fi*cur) / (fx + fy + fi)
		}
	}

	// the chain discovers merges out of height order: stable-sort by height,
	// then resolve slots to dendrogram ids with a union-find so that merge s
	// creates id n+s and children always predate their parent
	sort.SliceStable(raw, func(a, b int) bool { return raw[a].wd < raw[b].wd })

	parent := make([]int, 2*n-1)
	for i := range parent {
		parent[i] = i
	}
	find := func(s int) int {
		r := s
		for parent[r] != r {
			r = parent[r]
		}
		for parent[s] != r {
			s, parent[s] = parent[s], r
		}
		return r
	}

	merges := make([]Merge, n-1)
	for i, rm := range raw {
		rx := find(rm.x)
		ry := find(rm.y)
		if rx > ry {
			rx, ry = ry, rx
		}
		merges[i] = Merge{Left: rx, Right: ry, Height: math.Sqrt(rm.wd), Size: rm.sz}
		parent[rx] = n + i
		parent[ry] = n + i
	}

	// Ward linkage is monotone; a decreasing height means the arithmetic above broke
	for i := 1; i < len(merges); i++ {
		if merges[i].Height < merges[i-1].Height {
			return nil, fmt.Errorf(FAIL3, i, merges[i].Height, i-1, merges[i-1].Height, ErrInconsistentPartition)
		}
	}

	return &Dendrogram{N: n, Merges: merges}, nil
}
