//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/e-gun/HipparchiaGoClusterer/internal/clu"
	"github.com/e-gun/HipparchiaGoClusterer/internal/db"
	"github.com/e-gun/HipparchiaGoClusterer/internal/exp"
	"github.com/e-gun/HipparchiaGoClusterer/internal/gen"
	"github.com/e-gun/HipparchiaGoClusterer/internal/lnch"
	"github.com/e-gun/HipparchiaGoClusterer/internal/mm"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vec"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"github.com/e-gun/HipparchiaGoClusterer/internal/web"
	"github.com/e-gun/wego/pkg/embedding"
	"github.com/google/uuid"
)

var (
	Msg = lnch.NewMessageMakerWithDefaults()
)

func main() {
	const (
		DISABLING = "PostgreSQL is unreachable; continuing without the caches"
	)

	lnch.LookForConfigFile()
	lnch.ConfigAtLaunch()

	// every package keeps its own MessageMaker; sync them all to the chosen flags
	Msg = lnch.NewMessageMakerConfigured()
	for _, m := range []*mm.MessageMaker{clu.Msg, db.Msg, exp.Msg, vec.Msg, web.Msg} {
		lnch.UpdateMessageMakerWithConfig(m)
	}

	if !lnch.Config.QuietStart {
		lnch.PrintVersion(*lnch.Config)
		lnch.PrintBuildInfo(*lnch.Config)
		lnch.PrintCopyright()
	}

	go mm.StageInfoHub()
	go Msg.Ticker(vv.TICKERDELAY)

	if lnch.Config.ProfileCPU {
		startcpuprofile()
		defer pprof.StopCPUProfile()
	}

	if !lnch.Config.DbDisabled {
		db.SQLPool = db.FillDBConnectionPool(*lnch.Config)
		if !db.PostgresIsReady() {
			Msg.CRIT(DISABLING)
			lnch.Config.DbDisabled = true
		}
	}

	if lnch.Config.WipeCaches {
		wipecachesandexit()
	}

	if lnch.Config.SelfTest > 0 {
		runselftests()
		os.Exit(0)
	}

	if lnch.Config.ServeResults {
		// the batch runs behind the server; "/ws" reports its progress and the
		// artifact routes come alive once the bundle is published
		go clusterandexport()
		web.StartEchoServer()
	} else {
		clusterandexport()
	}
}

// clusterandexport - the batch: acquire the matrix, run the pipeline, write every artifact
func clusterandexport() {
	const (
		NOEMB     = "no embedding file was given; use '-ef <file>' to name one"
		MSGA1     = "%d embeddings acquired"
		MSGA2     = "lemma matrix built: %d rows of dimension %d"
		MSGB1     = "pipeline complete: k=%d"
		MSGCACHED = "an identical run is already stored (%s); serving the cached bundle"
	)

	cfg := lnch.Config
	start := time.Now()
	previous := time.Now()

	// [a] acquire the embeddings: the parse cache saves rereading a big file
	if cfg.EmbFile == "" {
		Msg.MAND(NOEMB)
		Msg.ExitOrHang(0)
	}

	srcfp, err := vec.SourceFingerprint(cfg.EmbFile)
	Msg.EC(err)

	var embs embedding.Embeddings
	if !cfg.DbDisabled && !cfg.Recompute && db.EmbDBCheck(srcfp) {
		embs = db.EmbDBFetch(srcfp)
	} else {
		embs, err = vec.LoadEmbeddings(cfg.EmbFile)
		Msg.EC(err)
		if !cfg.DbDisabled {
			db.EmbDBAdd(srcfp, embs)
		}
	}
	Msg.LogStage(vv.STAGEACQUIRE)
	Msg.Timer("A1", fmt.Sprintf(MSGA1, len(embs)), start, previous)
	previous = time.Now()

	// [b] build the lemma matrix: a restriction list retains; the stoplist drops
	var retain map[string]struct{}
	if cfg.RestrFile != "" {
		words, e := vec.ReadRestriction(cfg.RestrFile)
		Msg.EC(e)
		retain = gen.ToSet(words)
	}

	lm, err := vec.BuildLemmaMatrix(embs, retain)
	Msg.EC(err)
	Msg.Timer("A2", fmt.Sprintf(MSGA2, lm.N(), lm.Dim), start, previous)
	previous = time.Now()

	// [c] an identical finished run can be served straight from the bundle cache
	klow, khigh := clu.EffectiveKRange(lm.N())
	runfp := vec.RunFingerprint(srcfp, cfg.Metric, klow, khigh, lm.Lemmata)

	if !cfg.DbDisabled && !cfg.Recompute && db.BundleDBCheck(runfp) {
		b := db.BundleDBFetch(runfp)
		Msg.NOTE(fmt.Sprintf(MSGCACHED, runfp))
		finishrun(b, start, previous)
		return
	}

	// [d] the pipeline
	out, err := clu.RunPipeline(lm)
	Msg.EC(err)
	Msg.Timer("B1", fmt.Sprintf(MSGB1, out.Selection.ChosenK), start, previous)
	previous = time.Now()

	// [e] bundle and store
	runid := strings.Replace(uuid.New().String(), "-", "", -1)
	b := exp.BuildBundle(out, runid, runfp)
	if !cfg.DbDisabled {
		db.BundleDBAdd(b)
		db.BundleDBSize(mm.MSGPEEK)
	}

	finishrun(b, start, previous)
}

// finishrun - write the file artifacts and the sqlite copy, then publish to the server side
func finishrun(b *str.ClusterBundle, start time.Time, previous time.Time) {
	const (
		MSGC1 = "artifacts for run %s written to '%s'"
	)

	cfg := lnch.Config

	err := exp.WriteArtifacts(b, cfg.OutDir)
	Msg.EC(err)

	err = exp.WriteSQLite(b, filepath.Join(cfg.OutDir, vv.SQLITEFILE))
	Msg.EC(err)

	Msg.Timer("C1", fmt.Sprintf(MSGC1, b.RunID, cfg.OutDir), start, previous)

	web.PublishBundle(b)

	if cfg.ProfileMEM {
		writememprofile()
	}
}

// wipecachesandexit - "-00": drop the postgres cache tables and quit
func wipecachesandexit() {
	const (
		NODB = "'-00' needs the postgres caches, but they are disabled or unreachable"
	)

	if lnch.Config.DbDisabled {
		Msg.MAND(NODB)
		Msg.ExitOrHang(1)
	}
	db.BundleDBCount(mm.MSGNOTE)
	db.WipeCaches()
	os.Exit(0)
}

// startcpuprofile - "-pc": collect a cpu profile for this run
func startcpuprofile() {
	const (
		MSG  = "logging cpu profiling data to '%s'"
		FAIL = "failed to create '%s'"
	)

	p := filepath.Join(lnch.Config.OutDir, vv.CPUPROFILEFILE)
	f, err := os.Create(p)
	if err != nil {
		Msg.MAND(fmt.Sprintf(FAIL, p))
		Msg.EC(err)
	}
	Msg.MAND(fmt.Sprintf(MSG, p))
	e := pprof.StartCPUProfile(f)
	Msg.EC(e)
}

// writememprofile - "-pm": dump the heap once the batch completes
func writememprofile() {
	const (
		MSG  = "logging memory profiling data to '%s'"
		FAIL = "failed to create '%s'"
	)

	p := filepath.Join(lnch.Config.OutDir, vv.MEMPROFILEFILE)
	f, err := os.Create(p)
	if err != nil {
		Msg.MAND(fmt.Sprintf(FAIL, p))
		Msg.EC(err)
	}
	e := pprof.WriteHeapProfile(f)
	Msg.EC(e)
	_ = f.Close()
	Msg.MAND(fmt.Sprintf(MSG, p))
}
