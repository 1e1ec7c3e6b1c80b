//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import (
	"gonum.org/v1/gonum/mat"
)

// LemmaMatrix - the embedding matrix for one run: row i holds the vector for Lemmata[i].
// The matrix is read-only once built; every downstream stage shares it.
type LemmaMatrix struct {
	Lemmata []string
	Dim     int
	Mtx     *mat.Dense
}

func (lm *LemmaMatrix) N() int {
	return len(lm.Lemmata)
}

// Row - the raw backing slice for row i; callers must not modify it
func (lm *LemmaMatrix) Row(i int) []float64 {
	return lm.Mtx.RawRowView(i)
}
