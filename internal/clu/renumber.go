//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"fmt"
	"slices"
)

// Renumber - map the raw ids onto the canonical export ids: 1..K ordered by
// descending cluster size, with size ties falling back to ascending raw id.
// The result is a bijection and every downstream record goes through it.
func Renumber(p *Partition) (map[int]int, error) {
	const (
		FAIL1 = "renumberer: cluster %d has no members: %w"
	)

	sizes := p.Sizes()
	ids := make([]int, 0, p.K)
	for c := 1; c <= p.K; c++ {
		if sizes[c] == 0 {
			return nil, fmt.Errorf(FAIL1, c, ErrInconsistentPartition)
		}
		ids = append(ids, c)
	}

	slices.SortFunc(ids, func(a, b int) int {
		if sizes[a] != sizes[b] {
			return sizes[b] - sizes[a]
		}
		return a - b
	})

	canon := make(map[int]int, p.K)
	for i, raw := range ids {
		canon[raw] = i + 1
	}

	return canon, nil
}
