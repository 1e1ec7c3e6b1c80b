//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clu

import (
	"fmt"

	"github.com/e-gun/HipparchiaGoClusterer/internal/lnch"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var Msg = lnch.NewMessageMakerWithDefaults()

// PipelineOutcome - everything one batch run derives from the lemma matrix;
// the exporter assembles its bundle from this and nothing else
type PipelineOutcome struct {
	LM        *str.LemmaMatrix
	DM        *DistanceMatrix
	Dend      *Dendrogram
	Selection *KSelection
	Partition *Partition
	Medoids   map[int]Medoid
	Fits      *FitScores
	Canon     map[int]int
	KMin      int
	KMax      int
}

// EffectiveKRange - the [kmin, kmax] this configuration will actually evaluate
// for n lemmas; a pinned "-kk" collapses the range to a single value and the
// zero-value flags auto-range to [2, min(cap, n-1)]
func EffectiveKRange(n int) (int, int) {
	cfg := lnch.Config
	if kk := cfg.ClusterExact; kk > 0 {
		return kk, kk
	}
	kmin, kmax := cfg.ClusterKMin, cfg.ClusterKMax
	if kmin == 0 {
		kmin = vv.MINCLUSTERCOUNT
	}
	if kmax == 0 {
		kmax = n - 1
		if kmax > vv.DEFAULTKRANGECAP {
			kmax = vv.DEFAULTKRANGECAP
		}
	}
	return kmin, kmax
}

// RunPipeline - the full batch: distances, Ward agglomeration, k selection
// (or the pinned k), the cut, medoids, fit scores and canonical renumbering.
// The inputs are immutable and everything is recomputed from scratch, so two
// runs over the same matrix under the same configuration agree exactly.
func RunPipeline(lm *str.LemmaMatrix) (*PipelineOutcome, error) {
	const (
		MSG1  = "clustering %d lemmas of dimension %d under the %s metric"
		MSG2  = "sweeping k across [%d, %d] with %d workers"
		MSG3  = "chose k=%d with mean silhouette %.4f (elbow diagnostic: k=%d)"
		MSG4  = "cutting at the pinned k=%d (mean silhouette %.4f)"
		FAIL1 = "pipeline: pinned k=%d is outside [%d, %d]: %w"
	)

	cfg := lnch.Config
	n := lm.N()
	pr := message.NewPrinter(language.English)

	Msg.NOTE(pr.Sprintf(MSG1, n, lm.Dim, cfg.Metric))

	dm, err := NewDistanceMatrix(lm, cfg.Metric)
	if err != nil {
		return nil, err
	}
	Msg.LogStage(vv.STAGEDIST)

	dend, err := WardLinkage(dm)
	if err != nil {
		return nil, err
	}
	Msg.LogStage(vv.STAGEWARD)

	out := &PipelineOutcome{LM: lm, DM: dm, Dend: dend}

	if kk := cfg.ClusterExact; kk > 0 {
		// "-kk" pins the count: skip the sweep but still score the one cut
		if kk < vv.MINCLUSTERCOUNT || kk > n {
			return nil, fmt.Errorf(FAIL1, kk, vv.MINCLUSTERCOUNT, n, ErrEmptyRange)
		}
		p, err := CutDendrogram(dend, kk)
		if err != nil {
			return nil, err
		}
		if err = VerifyPartition(p, n); err != nil {
			return nil, err
		}
		diag := str.KDiagnostic{K: kk, Silhouette: MeanSilhouette(p, dm)}
		if dm.Metric == vv.METRICEUCLIDEAN {
			diag.WCSS = WCSS(p, lm)
			diag.HasWCSS = true
		}
		out.Selection = &KSelection{ChosenK: kk, Series: []str.KDiagnostic{diag}}
		out.Partition = p
		out.KMin, out.KMax = kk, kk
		Msg.NOTE(fmt.Sprintf(MSG4, kk, diag.Silhouette))
	} else {
		kmin, kmax := EffectiveKRange(n)
		Msg.NOTE(fmt.Sprintf(MSG2, kmin, kmax, cfg.WorkerCount))
		sel, err := SelectK(dend, dm, lm, kmin, kmax, cfg.WorkerCount)
		if err != nil {
			return nil, err
		}
		p, err := CutDendrogram(dend, sel.ChosenK)
		if err != nil {
			return nil, err
		}
		if err = VerifyPartition(p, n); err != nil {
			return nil, err
		}
		out.Selection = sel
		out.Partition = p
		out.KMin, out.KMax = kmin, kmax
		Msg.NOTE(fmt.Sprintf(MSG3, sel.ChosenK, sel.ChosenSilhouette(), sel.ElbowK))
	}

	out.Medoids, err = FindMedoids(out.Partition, dm)
	if err != nil {
		return nil, err
	}
	out.Fits, err = ScoreFit(out.Partition, lm)
	if err != nil {
		return nil, err
	}
	out.Canon, err = Renumber(out.Partition)
	if err != nil {
		return nil, err
	}
	Msg.LogStage(vv.STAGESCORE)

	return out, nil
}
