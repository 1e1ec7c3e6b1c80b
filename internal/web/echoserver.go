//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/e-gun/HipparchiaGoClusterer/internal/lnch"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var (
	Msg = lnch.NewMessageMakerWithDefaults()

	// the routes serve whatever run was published last; nil until the batch finishes
	pub   *str.ClusterBundle
	pubmu sync.RWMutex
)

// PublishBundle - hand a finished run to the server side; until then the artifact routes return 503
func PublishBundle(b *str.ClusterBundle) {
	pubmu.Lock()
	defer pubmu.Unlock()
	pub = b
}

func publishedbundle() *str.ClusterBundle {
	pubmu.RLock()
	defer pubmu.RUnlock()
	return pub
}

// StartEchoServer - start serving; this blocks and does not return while the program remains alive
func StartEchoServer() {
	const (
		LLOGFMT = "r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
		RLOGFMT = "${remote_ip}\t${custom}\t${status}\t${bytes_out}\t${uri}\n"
	)

	// ctf - a CustomTagFunc to log a short user agent
	ctf := func(c echo.Context, buf *bytes.Buffer) (int, error) {
		ua := strings.Split(c.Request().UserAgent(), " ")
		if len(ua) == 0 {
			return 0, nil
		} else {
			last := ua[len(ua)-1]
			buf.Write([]byte(last))
			return 1, nil
		}
	}

	//
	// SETUP
	//

	e := echo.New()

	// the nested artifact for a big run is not small; give slow clients time to drain it
	e.Server.ReadTimeout = vv.TIMEOUTRD
	e.Server.WriteTimeout = vv.TIMEOUTWR

	switch lnch.Config.EchoLog {
	case 3:
		e.Use(middleware.Logger())
	case 2:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: RLOGFMT, CustomTagFunc: ctf}))
	case 1:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: LLOGFMT}))
	default:
		// do nothing
	}

	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(vv.MAXECHOREQPERSECONDPERIP)))

	e.Use(middleware.Recover())

	if lnch.Config.Gzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	}

	//
	// CLUSTERER ROUTES
	//

	//
	// [a] the frontpage ("rt-frontpage.go")
	//

	e.GET("/", RtFrontpage)

	//
	// [b] the artifacts ("rt-clusters.go")
	//

	e.GET("/clusters/flat", RtClustersFlat)               // the per-lemma assignment table as csv
	e.GET("/clusters/summary", RtClustersSummary)         // the per-cluster summary table as csv
	e.GET("/clusters/nested", RtClustersNested)           // the nested artifact as json
	e.GET("/clusters/diagnostics", RtClustersDiagnostics) // the per-k diagnostic table as csv

	//
	// [c] the stored runs ("rt-clusters.go")
	//

	e.GET("/clusters/runs", RtClustersRuns) // what the postgres cache is holding

	//
	// [d] websocket ("rt-websocket.go")
	//

	e.GET("/ws", RtWebsocket) // progress snapshots while the batch is in flight

	e.HideBanner = true
	e.HidePort = false
	e.Debug = false
	e.DisableHTTP2 = true
	e.Logger.Fatal(e.Start(fmt.Sprintf("%s:%d", lnch.Config.HostIP, lnch.Config.HostPort)))
}
