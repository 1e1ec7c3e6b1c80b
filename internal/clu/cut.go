//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"fmt"
)

// Partition - a flat cluster assignment; Assign[row] holds a raw id in 1..K.
// Raw ids are an internal detail: only the canonical, size-ordered ids from
// Renumber() ever reach an export.
type Partition struct {
	Assign []int
	K      int
}

// Sizes - member count per raw id; index 0 is unused
func (p *Partition) Sizes() []int {
	sizes := make([]int, p.K+1)
	for _, c := range p.Assign {
		if c >= 1 && c <= p.K {
			sizes[c]++
		}
	}
	return sizes
}

// Members - rows per raw id in ascending row order; index 0 is unused
func (p *Partition) Members() [][]int {
	members := make([][]int, p.K+1)
	for row, c := range p.Assign {
		if c >= 1 && c <= p.K {
			members[c] = append(members[c], row)
		}
	}
	return members
}

// CutDendrogram - materialize the k-cluster partition by discarding the k-1
// highest merges and labeling the components that remain. Raw ids are handed
// out by first appearance in row order, so the labeling is reproducible.
func CutDendrogram(dend *Dendrogram, k int) (*Partition, error) {
	const (
		FAIL1 = "cut: k=%d is outside [1, %d]: %w"
	)

	n := dend.N
	if k < 1 || k > n {
		return nil, fmt.Errorf(FAIL1, k, n, ErrEmptyRange)
	}

	// replay the n-k lowest merges; merge s created id n+s
	parent := make([]int, 2*n-1)
	for i := range parent {
		parent[i] = i
	}
	for s, m := range dend.Merges[:n-k] {
		parent[m.Left] = n + s
		parent[m.Right] = n + s
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

	assign := make([]int, n)
	rawof := make(map[int]int)
	next := 1
	for row := 0; row < n; row++ {
		root := find(row)
		id, seen := rawof[root]
		if !seen {
			id = next
			rawof[root] = id
			next++
		}
		assign[row] = id
	}

	return &Partition{Assign: assign, K: next - 1}, nil
}

// VerifyPartition - enforce the partition invariants: every row carries exactly
// one id, ids are contiguous 1..K, no cluster is empty, sizes sum to n. A
// failure here is a logic defect and the caller must abort rather than export.
func VerifyPartition(p *Partition, n int) error {
	const (
		FAIL1 = "partition covers %d row(s) but the input has %d: %w"
		FAIL2 = "partition claims %d cluster(s): %w"
		FAIL3 = "row %d carries cluster id %d outside 1..%d: %w"
		FAIL4 = "cluster %d has no members: %w"
	)

	if len(p.Assign) != n {
		return fmt.Errorf(FAIL1, len(p.Assign), n, ErrInconsistentPartition)
	}
	if p.K < 1 || p.K > n {
		return fmt.Errorf(FAIL2, p.K, ErrInconsistentPartition)
	}

	sizes := make([]int, p.K+1)
	for row, c := range p.Assign {
		if c < 1 || c > p.K {
			return fmt.Errorf(FAIL3, row, c, p.K, ErrInconsistentPartition)
		}
		sizes[c]++
	}
	for c := 1; c <= p.K; c++ {
		if sizes[c] == 0 {
			return fmt.Errorf(FAIL4, c, ErrInconsistentPartition)
		}
	}

	return nil
}
