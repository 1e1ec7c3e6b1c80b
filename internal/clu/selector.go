//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"fmt"
	"math"
	"sync"

	"github.com/e-gun/HipparchiaGoClusterer/internal/mm"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
)

// KSelection - the outcome of the per-k sweep
type KSelection struct {
	ChosenK int
	ElbowK  int // the sharpest WCSS bend; informational only, never decides k
	Series  []str.KDiagnostic
}

// ChosenSilhouette - the mean silhouette width at the chosen k
func (ks *KSelection) ChosenSilhouette() float64 {
	if len(ks.Series) == 0 {
		return 0
	}
	return ks.Series[ks.ChosenK-ks.Series[0].K].Silhouette
}

type kresult struct {
	k    int
	diag str.KDiagnostic
	err  error
}

// SelectK - evaluate every candidate count in [kmin, kmax] and choose the one
// with the highest mean silhouette width; a tie goes to the smaller k. Every k
// is independent of every other, so the sweep fans out: a feeder emits counts,
// each worker cuts and scores against the shared read-only distance matrix and
// returns an immutable per-k record, and the records are collated into a
// k-ordered series at the end. There is no shared mutable state between the
// workers. This sweep dominates the runtime of the whole pipeline.
func SelectK(dend *Dendrogram, dm *DistanceMatrix, lm *str.LemmaMatrix, kmin, kmax, workers int) (*KSelection, error) {
	const (
		FAIL1 = "selector: range [%d, %d] is invalid for n=%d: %w"
	)

	n := dm.N
	if kmin < vv.MINCLUSTERCOUNT || kmax >= n || kmin > kmax {
		return nil, fmt.Errorf(FAIL1, kmin, kmax, n, ErrEmptyRange)
	}
	if workers < 1 {
		workers = 1
	}

	// [a] load the candidate counts into a channel
	kchan := kfeeder(kmin, kmax, workers)

	// [b] fan out to score the candidates in parallel
	evalchannels := make([]<-chan kresult, workers)
	for i := 0; i < workers; i++ {
		evalchannels[i] = kevaluator(kchan, dend, dm, lm)
	}

	// [c] fan in to gather the per-k records into a single channel
	results := kaggregator(evalchannels...)

	// [d] collate the records into a k-ordered series
	series := make([]str.KDiagnostic, kmax-kmin+1)
	var firsterr error
	for r := range results {
		if r.err != nil {
			if firsterr == nil {
				firsterr = r.err
			}
			continue
		}
		series[r.k-kmin] = r.diag
	}
	if firsterr != nil {
		return nil, firsterr
	}

	best := series[0]
	for _, d := range series[1:] {
		if d.Silhouette > best.Silhouette {
			best = d
		}
	}

	return &KSelection{ChosenK: best.K, ElbowK: elbowk(series), Series: series}, nil
}

// kfeeder - emit the candidate counts; they will be consumed by the kevaluator workers
func kfeeder(kmin, kmax, workers int) <-chan int {
	emit := make(chan int, workers)

	feed := func() {
		defer close(emit)
		for k := kmin; k <= kmax; k++ {
			emit <- k
		}
	}

	go feed()

	return emit
}

// kevaluator - grab a candidate count; cut, verify and score it; emit the record
func kevaluator(kchan <-chan int, dend *Dendrogram, dm *DistanceMatrix, lm *str.LemmaMatrix) <-chan kresult {
	out := make(chan kresult)

	consume := func() {
		defer close(out)
		euclid := dm.Metric == vv.METRICEUCLIDEAN
		for k := range kchan {
			r := kresult{k: k}
			p, err := CutDendrogram(dend, k)
			if err == nil {
				err = VerifyPartition(p, dm.N)
			}
			if err != nil {
				r.err = err
			} else {
				r.diag = str.KDiagnostic{K: k, Silhouette: MeanSilhouette(p, dm)}
				if euclid {
					r.diag.WCSS = WCSS(p, lm)
					r.diag.HasWCSS = true
				}
			}
			out <- r
			mm.StageTick(vv.STAGESWEEP)
		}
	}

	go consume()

	return out
}

// kaggregator - gather all per-k records from the worker channels into one place
func kaggregator(evalchannels ...<-chan kresult) <-chan kresult {
	var wg sync.WaitGroup
	merged := make(chan kresult)

	broadcast := func(ch <-chan kresult) {
		defer wg.Done()
		for r := range ch {
			merged <- r
		}
	}

	wg.Add(len(evalchannels))
	for _, ch := range evalchannels {
		go broadcast(ch)
	}

	go func() {
		wg.Wait()
		close(merged)
	}()

	return merged
}

// elbowk - the k at the sharpest bend of the WCSS curve via the largest second
// difference; 0 when the series is too short or carries no WCSS
func elbowk(series []str.KDiagnostic) int {
	if len(series) < 3 || !series[0].HasWCSS {
		return 0
	}
	elbow := 0
	sharpest := math.Inf(-1)
	for i := 1; i < len(series)-1; i++ {
		d2 := series[i-1].WCSS - 2*series[i].WCSS + series[i+1].WCSS
		if d2 > sharpest {
			sharpest = d2
			elbow = series[i].K
		}
	}
	return elbow
}
