//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/e-gun/HipparchiaGoClusterer/internal/mm"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var (
	Upgrader = websocket.Upgrader{}
)

//
// THE ROUTE
//

// RtWebsocket - stage progress for a run in flight (multiple clients at a time)
func RtWebsocket(c echo.Context) error {
	// each snapshot reports the stage counters the pipeline has been ticking:
	//	{"elapsed": "12.0s", "stages": {"distance engine": 1, "silhouette sweep": 184}, "done": false}
	// the final snapshot carries "done": true and then the server closes the socket

	const (
		FAILCON = "RtWebsocket(): ws connection failed"
		FAILWR  = "RtWebsocket(): ws failed to write: breaking"
		POLL    = time.Second
	)

	type ReplyJS struct {
		Elapsed string         `json:"elapsed"`
		Stages  map[string]int `json:"stages"`
		Done    bool           `json:"done"`
	}

	ws, err := Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		Msg.NOTE(FAILCON)
		return nil
	}
	defer func() {
		_ = ws.Close()
	}()

	for {
		responder := mm.NewSIReply()
		mm.SIRequest <- responder
		ctr := responder.Answer()

		r := ReplyJS{
			Elapsed: fmt.Sprintf("%.1fs", time.Since(vv.LaunchTime).Seconds()),
			Stages:  ctr,
			Done:    publishedbundle() != nil,
		}

		js, e := json.Marshal(r)
		Msg.EC(e)

		if e = ws.WriteMessage(websocket.TextMessage, js); e != nil {
			Msg.NOTE(FAILWR)
			break
		}

		if r.Done {
			break
		}
		time.Sleep(POLL)
	}
	return nil
}
