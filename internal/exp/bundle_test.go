//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package exp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/e-gun/HipparchiaGoClusterer/internal/clu"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"gonum.org/v1/gonum/mat"
)

// pairandtriple - a 2-lemma cluster at x = 0,1 and a 3-lemma cluster at
// x = 10,11,12; the triple must take canonical id 1
func pairandtriple(t *testing.T) *clu.PipelineOutcome {
	t.Helper()

	rows := [][]float64{{0}, {1}, {10}, {11}, {12}}
	lemmata := make([]string, len(rows))
	flat := make([]float64, 0, len(rows))
	for i, r := range rows {
		lemmata[i] = fmt.Sprintf("λέξιϲ%d", i)
		flat = append(flat, r...)
	}
	lm := &str.LemmaMatrix{Lemmata: lemmata, Dim: 1, Mtx: mat.NewDense(len(rows), 1, flat)}

	dm, err := clu.NewDistanceMatrix(lm, vv.METRICEUCLIDEAN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dend, err := clu.WardLinkage(dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := clu.CutDendrogram(dend, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	medoids, err := clu.FindMedoids(p, dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fits, err := clu.ScoreFit(p, lm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	canon, err := clu.Renumber(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sel := &clu.KSelection{
		ChosenK: 2,
		ElbowK:  3,
		Series: []str.KDiagnostic{
			{K: 2, Silhouette: 0.925, WCSS: 4, HasWCSS: true},
			{K: 3, Silhouette: 0.55, WCSS: 2.5, HasWCSS: true},
			{K: 4, Silhouette: 0.25, WCSS: 1, HasWCSS: true},
		},
	}

	return &clu.PipelineOutcome{
		LM: lm, DM: dm, Dend: dend,
		Selection: sel, Partition: p,
		Medoids: medoids, Fits: fits, Canon: canon,
		KMin: 2, KMax: 4,
	}
}

func testbundle(t *testing.T) *str.ClusterBundle {
	t.Helper()
	return BuildBundle(pairandtriple(t), "d1e8f7a2b3c44d5e", "ab12cd34ef56ab78")
}

func TestBuildBundleCanonicalOrder(t *testing.T) {
	b := testbundle(t)

	if b.K != 2 || b.N != 5 || b.Dim != 1 {
		t.Fatalf("bundle shape K=%d N=%d Dim=%d, want 2/5/1", b.K, b.N, b.Dim)
	}

	// the triple outnumbers the pair and takes id 1
	if b.Summaries[0].Size != 3 || b.Summaries[1].Size != 2 {
		t.Errorf("summary sizes = %d, %d, want 3, 2", b.Summaries[0].Size, b.Summaries[1].Size)
	}
	if b.Summaries[0].Medoid != "λέξιϲ3" || b.Summaries[0].MedoidIndex != 3 {
		t.Errorf("cluster 1 medoid = %s/%d, want λέξιϲ3/3", b.Summaries[0].Medoid, b.Summaries[0].MedoidIndex)
	}
	if b.Summaries[0].MeanFit != 66.7 {
		t.Errorf("cluster 1 mean fit = %.1f, want 66.7", b.Summaries[0].MeanFit)
	}
	if b.Summaries[1].Medoid != "λέξιϲ0" || b.Summaries[1].MeanFit != 100.0 {
		t.Errorf("cluster 2 = %+v, want medoid λέξιϲ0 at 100.0", b.Summaries[1])
	}
}

func TestBuildBundleMemberOrdering(t *testing.T) {
	b := testbundle(t)

	// fit descending, then lemma ascending inside the tie
	want1 := []string{"λέξιϲ3", "λέξιϲ2", "λέξιϲ4"}
	for i, w := range want1 {
		if b.Members[1][i].Lemma != w {
			t.Errorf("members[1][%d] = %s, want %s", i, b.Members[1][i].Lemma, w)
		}
	}
	if b.Members[1][0].Fit != 100.0 || b.Members[1][1].Fit != 50.0 {
		t.Errorf("members[1] fits = %v", b.Members[1])
	}

	// the flat table walks the same order cluster by cluster
	wantflat := []string{"λέξιϲ3", "λέξιϲ2", "λέξιϲ4", "λέξιϲ0", "λέξιϲ1"}
	for i, w := range wantflat {
		if b.Assignments[i].Lemma != w {
			t.Errorf("assignments[%d] = %s, want %s", i, b.Assignments[i].Lemma, w)
		}
	}
	if b.Assignments[0].ClusterSize != 3 || b.Assignments[3].ClusterSize != 2 {
		t.Errorf("assignment sizes = %d, %d, want 3, 2",
			b.Assignments[0].ClusterSize, b.Assignments[3].ClusterSize)
	}
}

func TestVerifyBundleAcceptsAHealthyBundle(t *testing.T) {
	if err := VerifyBundle(testbundle(t)); err != nil {
		t.Errorf("healthy bundle rejected: %v", err)
	}
}

func TestVerifyBundleCatchesTampering(t *testing.T) {
	cases := []struct {
		label  string
		tamper func(*str.ClusterBundle)
	}{
		{"size lie", func(b *str.ClusterBundle) { b.Summaries[0].Size = 4 }},
		{"alien medoid", func(b *str.ClusterBundle) { b.Summaries[1].Medoid = "ϲοφία" }},
		{"dropped assignment", func(b *str.ClusterBundle) { b.Assignments = b.Assignments[:4] }},
		{"duplicated lemma", func(b *str.ClusterBundle) { b.Assignments[1].Lemma = b.Assignments[0].Lemma }},
		{"unsorted summaries", func(b *str.ClusterBundle) {
			b.Summaries[0], b.Summaries[1] = b.Summaries[1], b.Summaries[0]
		}},
		{"diagnostics disorder", func(b *str.ClusterBundle) {
			b.Diagnostics[0], b.Diagnostics[2] = b.Diagnostics[2], b.Diagnostics[0]
		}},
		{"broken raw map", func(b *str.ClusterBundle) { b.RawToCanon[1] = 2; b.RawToCanon[2] = 2 }},
		{"medoid off the top fit", func(b *str.ClusterBundle) {
			b.Summaries[0].Medoid = "λέξιϲ2" // a member, but not the 100.0 one
		}},
	}

	for _, c := range cases {
		b := testbundle(t)
		c.tamper(b)
		if err := VerifyBundle(b); !errors.Is(err, clu.ErrInconsistentPartition) {
			t.Errorf("%s: got %v, want ErrInconsistentPartition", c.label, err)
		}
	}
}
