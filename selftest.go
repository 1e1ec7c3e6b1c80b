//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/e-gun/HipparchiaGoClusterer/internal/clu"
	"github.com/e-gun/HipparchiaGoClusterer/internal/exp"
	"github.com/e-gun/HipparchiaGoClusterer/internal/lnch"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vec"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// runselftests - loop selftestsuite() as many times as "-st" was repeated
func runselftests() {
	const (
		MSG = "Running the self-test suite: pass %d of %d"
	)

	for i := 0; i < lnch.Config.SelfTest; i++ {
		Msg.MAND(fmt.Sprintf(MSG, i+1, lnch.Config.SelfTest))
		selftestsuite()
	}
}

// planted - a synthetic matrix of three tight blobs at 0, 40 and 100; any
// sane sweep has to find the three of them
func planted() *str.LemmaMatrix {
	const (
		PERBLOB = 4
		DIM     = 3
	)

	centers := []float64{0.0, 40.0, 100.0}
	n := PERBLOB * len(centers)

	lemmata := make([]string, 0, n)
	flat := make([]float64, 0, n*DIM)
	for b, c := range centers {
		for j := 0; j < PERBLOB; j++ {
			i := b*PERBLOB + j
			lemmata = append(lemmata, fmt.Sprintf("λῆμμα%02d", i))
			jit := 0.1 * float64(j)
			flat = append(flat, c+jit, c-jit, c+jit/2)
		}
	}

	return &str.LemmaMatrix{
		Lemmata: lemmata,
		Dim:     DIM,
		Mtx:     mat.NewDense(n, DIM, flat),
	}
}

// twopairs - the canonical 4-lemma scenario: two pairs split by a wide gap
func twopairs() *str.LemmaMatrix {
	lemmata := []string{"ἀρετή", "ϲοφία", "πόλεμοϲ", "μάχη"}
	flat := []float64{
		0.0, 0.0,
		1.0, 0.0,
		10.0, 0.0,
		11.0, 0.0,
	}
	return &str.LemmaMatrix{
		Lemmata: lemmata,
		Dim:     2,
		Mtx:     mat.NewDense(4, 2, flat),
	}
}

// selftestsuite - run the pipeline's promised properties once against synthetic
// matrices; the first failure aborts the program
func selftestsuite() {
	const (
		TOTAL = 8
		OK    = "[%d of %d] %s"
		BAD   = "SELF-TEST FAILURE: %s"
	)

	// the suite reconfigures the run; put everything back afterwards
	saved := *lnch.Config
	defer func() {
		*lnch.Config = saved
	}()

	fail := func(s string) {
		Msg.MAND(fmt.Sprintf(BAD, s))
		Msg.ExitOrHang(1)
	}

	good := func(i int, s string) {
		Msg.NOTE(fmt.Sprintf(OK, i, TOTAL, s))
	}

	lnch.Config.Metric = vv.METRICEUCLIDEAN
	lnch.Config.ClusterExact = 0
	lnch.Config.ClusterKMin = 0
	lnch.Config.ClusterKMax = 0

	lm := planted()
	n := lm.N()

	// [1] the sweep finds the planted k and the planted membership

	out, err := clu.RunPipeline(lm)
	if err != nil {
		fail(err.Error())
		return
	}
	if out.Selection.ChosenK != 3 {
		fail(fmt.Sprintf("the sweep chose k=%d on three planted blobs", out.Selection.ChosenK))
	}
	if len(out.Selection.Series) != n-2 {
		fail(fmt.Sprintf("the sweep evaluated %d candidates, not %d", len(out.Selection.Series), n-2))
	}
	want := []int{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}
	if !reflect.DeepEqual(out.Partition.Assign, want) {
		fail(fmt.Sprintf("the cut separated the blobs as %v", out.Partition.Assign))
	}
	good(1, "the silhouette sweep recovered three planted blobs")

	// [2] the bundle passes every consistency check

	klow, khigh := clu.EffectiveKRange(n)
	runfp := vec.RunFingerprint("selftest", lnch.Config.Metric, klow, khigh, lm.Lemmata)
	runid := strings.Replace(uuid.New().String(), "-", "", -1)

	b := exp.BuildBundle(out, runid, runfp)
	if err = exp.VerifyBundle(b); err != nil {
		fail(err.Error())
	}
	good(2, "the exported bundle is internally consistent")

	// [3] a rerun yields byte-identical artifacts

	out2, err := clu.RunPipeline(lm)
	if err != nil {
		fail(err.Error())
		return
	}
	b2 := exp.BuildBundle(out2, runid, runfp)

	dir1, err := os.MkdirTemp("", "hgc-selftest-")
	if err != nil {
		fail(err.Error())
		return
	}
	defer func() {
		_ = os.RemoveAll(dir1)
	}()
	dir2, err := os.MkdirTemp("", "hgc-selftest-")
	if err != nil {
		fail(err.Error())
		return
	}
	defer func() {
		_ = os.RemoveAll(dir2)
	}()

	if err = exp.WriteArtifacts(b, dir1); err != nil {
		fail(err.Error())
	}
	if err = exp.WriteArtifacts(b2, dir2); err != nil {
		fail(err.Error())
	}
	for _, name := range []string{vv.FLATTABLEFILE, vv.SUMMARYFILE, vv.NESTEDFILE, vv.DIAGNOSTICFILE} {
		f1, e1 := os.ReadFile(filepath.Join(dir1, name))
		f2, e2 := os.ReadFile(filepath.Join(dir2, name))
		if e1 != nil || e2 != nil {
			fail(fmt.Sprintf("could not reread '%s'", name))
		}
		if !bytes.Equal(f1, f2) {
			fail(fmt.Sprintf("'%s' differs between two identical runs", name))
		}
	}
	good(3, "two identical runs wrote byte-identical artifacts")

	// [4] the sqlite copy round-trips

	sq := filepath.Join(dir1, vv.SQLITEFILE)
	if err = exp.WriteSQLite(b, sq); err != nil {
		fail(err.Error())
	}
	rb, err := exp.ReadSQLite(sq)
	if err != nil {
		fail(err.Error())
		return
	}
	if rb.K != b.K || rb.N != b.N || rb.Silhouette != b.Silhouette {
		fail("the sqlite run row does not match the bundle")
	}
	if !reflect.DeepEqual(rb.Summaries, b.Summaries) ||
		!reflect.DeepEqual(rb.Assignments, b.Assignments) ||
		!reflect.DeepEqual(rb.Members, b.Members) ||
		!reflect.DeepEqual(rb.Diagnostics, b.Diagnostics) {
		fail("the sqlite tables do not reproduce the bundle")
	}
	good(4, "the sqlite copy reproduces membership and scores exactly")

	// [5] the two-pair scenario: k=2, sizes 2+2, one medoid per pair, mutual 100.0 fits

	lnch.Config.ClusterExact = 2
	pout, err := clu.RunPipeline(twopairs())
	if err != nil {
		fail(err.Error())
		return
	}
	pb := exp.BuildBundle(pout, runid, runfp)
	if pb.K != 2 || pb.Summaries[0].Size != 2 || pb.Summaries[1].Size != 2 {
		fail("the two-pair scenario did not split into two pairs")
	}
	for _, row := range pb.Assignments {
		if row.Fit != 100.0 {
			fail(fmt.Sprintf("pair member %s has fit %.1f, not 100.0", row.Lemma, row.Fit))
		}
	}
	good(5, "the two-pair scenario splits 2+2 with mutual 100.0 fits")

	// [6] k=n: every lemma is its own medoid at fit 100.0

	lnch.Config.ClusterExact = n
	sout, err := clu.RunPipeline(lm)
	if err != nil {
		fail(err.Error())
		return
	}
	sb := exp.BuildBundle(sout, runid, runfp)
	for _, s := range sb.Summaries {
		if s.Size != 1 || s.MeanFit != 100.0 {
			fail(fmt.Sprintf("singleton cluster %d has size %d and mean fit %.1f", s.ID, s.Size, s.MeanFit))
		}
	}
	good(6, "a k=n cut yields all-singleton clusters at fit 100.0")

	// [7] out-of-range k values are refused

	for _, kk := range []int{1, n + 1} {
		lnch.Config.ClusterExact = kk
		if _, err = clu.RunPipeline(lm); !errors.Is(err, clu.ErrEmptyRange) {
			fail(fmt.Sprintf("a pinned k=%d was not refused", kk))
		}
	}
	lnch.Config.ClusterExact = 0
	lnch.Config.ClusterKMin = 5
	lnch.Config.ClusterKMax = 3
	if _, err = clu.RunPipeline(lm); !errors.Is(err, clu.ErrEmptyRange) {
		fail("an inverted sweep range was not refused")
	}
	good(7, "out-of-range k values are refused with the empty-range error")

	// [8] the cosine metric runs and carries no centroid diagnostics

	lnch.Config.Metric = vv.METRICCOSINE
	lnch.Config.ClusterExact = 3
	lnch.Config.ClusterKMin = 0
	lnch.Config.ClusterKMax = 0
	cout, err := clu.RunPipeline(lm)
	if err != nil {
		fail(err.Error())
		return
	}
	for _, d := range cout.Selection.Series {
		if d.HasWCSS {
			fail("a cosine run carried centroid diagnostics")
		}
	}
	good(8, "the cosine metric runs without centroid diagnostics")

	Msg.MAND("self-test suite: every check passed")
}
