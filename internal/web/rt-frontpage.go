//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"github.com/labstack/echo/v4"
)

// RtFrontpage - send the html for "/"
func RtFrontpage(c echo.Context) error {
	const (
		UPSTR = "uptime: %v"
		READY = "the latest run is ready"
		BUSY  = "a run is in flight; connect to /ws for progress"
		FPHTM = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<h2>%s (v.%s)</h2>
<p>%s; %s</p>
<ul>
<li><a href="/clusters/flat">/clusters/flat</a> (csv: lemma, cluster_id, cluster_size, fit)</li>
<li><a href="/clusters/summary">/clusters/summary</a> (csv: cluster_id, size, medoid, medoid_index, mean_fit)</li>
<li><a href="/clusters/nested">/clusters/nested</a> (json: one object per cluster)</li>
<li><a href="/clusters/diagnostics">/clusters/diagnostics</a> (csv: k, silhouette, wcss)</li>
<li><a href="/clusters/runs">/clusters/runs</a> (json: the stored runs)</li>
</ul>
</body>
</html>`
	)

	st := BUSY
	if publishedbundle() != nil {
		st = READY
	}

	up := fmt.Sprintf(UPSTR, time.Since(vv.LaunchTime).Truncate(time.Second))
	htm := fmt.Sprintf(FPHTM, vv.MYNAME, vv.MYNAME, vv.VERSION, up, st)
	return c.HTML(http.StatusOK, htm)
}
