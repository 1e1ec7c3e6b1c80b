//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"net/http"

	"github.com/e-gun/HipparchiaGoClusterer/internal/db"
	"github.com/e-gun/HipparchiaGoClusterer/internal/exp"
	"github.com/e-gun/HipparchiaGoClusterer/internal/gen"
	"github.com/e-gun/HipparchiaGoClusterer/internal/lnch"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/labstack/echo/v4"
)

//
// the artifact routes re-serialize the published bundle on every request; the
// writers are cheap next to the pipeline and this keeps the served bytes and
// the exported files coming from the same code path
//

const (
	CSVMIME = "text/csv; charset=utf-8"
)

// stillrunning - the batch has not published a bundle yet
func stillrunning(c echo.Context) error {
	const (
		RUNNING = "the cluster run is still in flight; connect to /ws for progress\n"
	)
	return c.String(http.StatusServiceUnavailable, RUNNING)
}

// RtClustersFlat - the per-lemma assignment table as csv
func RtClustersFlat(c echo.Context) error {
	b := publishedbundle()
	if b == nil {
		return stillrunning(c)
	}

	var buf bytes.Buffer
	if err := exp.WriteFlatCSV(&buf, b); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, CSVMIME, buf.Bytes())
}

// RtClustersSummary - the per-cluster summary table as csv
func RtClustersSummary(c echo.Context) error {
	b := publishedbundle()
	if b == nil {
		return stillrunning(c)
	}

	var buf bytes.Buffer
	if err := exp.WriteSummaryCSV(&buf, b); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, CSVMIME, buf.Bytes())
}

// RtClustersNested - the nested artifact; already-ordered json bytes, so no re-marshaling
func RtClustersNested(c echo.Context) error {
	b := publishedbundle()
	if b == nil {
		return stillrunning(c)
	}

	var buf bytes.Buffer
	if err := exp.WriteNestedJSON(&buf, b); err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, buf.Bytes())
}

// RtClustersDiagnostics - the per-k diagnostic table as csv
func RtClustersDiagnostics(c echo.Context) error {
	b := publishedbundle()
	if b == nil {
		return stillrunning(c)
	}

	var buf bytes.Buffer
	if err := exp.WriteDiagnosticsCSV(&buf, b); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, CSVMIME, buf.Bytes())
}

// RtClustersRuns - list what the postgres bundle cache is holding
func RtClustersRuns(c echo.Context) error {
	if lnch.Config.DbDisabled {
		return gen.JSONresponse(c, []str.StoredRun{})
	}
	return gen.JSONresponse(c, db.BundleDBList())
}
