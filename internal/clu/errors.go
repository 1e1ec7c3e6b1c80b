//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"errors"
)

// the error taxonomy for the whole pipeline; stages wrap these with fmt.Errorf("...: %w", ...)
// so that callers can test them with errors.Is() while still seeing stage + lemma context

var (
	// ErrInvalidInput - malformed or missing embedding data: NaN/Inf cells, ragged rows, an empty matrix
	ErrInvalidInput = errors.New("invalid embedding input")

	// ErrDegenerateVector - a zero-norm row under the cosine metric
	ErrDegenerateVector = errors.New("degenerate zero-norm vector")

	// ErrEmptyRange - the cluster-count search range is invalid or empty
	ErrEmptyRange = errors.New("empty cluster-count range")

	// ErrInconsistentPartition - an internal invariant broke: this is a defect, not bad input, and is never recovered
	ErrInconsistentPartition = errors.New("inconsistent partition")
)
