//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"runtime"
)

//
// CHANNEL-BASED STAGEINFO REPORTING TO COMMUNICATE PROGRESS BETWEEN ROUTINES
//

// SIReply - StageInfoHub helper struct for returning the stage counters
type SIReply struct {
	req      bool
	response chan map[string]int
}

var (
	SIUpdate  = make(chan string, 2*runtime.NumCPU())
	SIRequest = make(chan SIReply)
)

// NewSIReply - build the request struct that StageInfoHub answers
func NewSIReply() SIReply {
	return SIReply{req: true, response: make(chan map[string]int)}
}

// StageTick - register one completed unit of work for a stage; if the hub is
// not draining, the tick is dropped rather than allowed to block the pipeline
func StageTick(stage string) {
	select {
	case SIUpdate <- stage:
	default:
	}
}

// Answer - the counter map for a request sent into SIRequest
func (r SIReply) Answer() map[string]int {
	return <-r.response
}

// StageInfoHub - tally the stage completions sent via StageTick and MessageMaker.LogStage
func StageInfoHub() {
	var (
		StagesHit = make(map[string]int)
	)

	increm := func(p string) {
		if _, ok := StagesHit[p]; ok {
			StagesHit[p]++
		} else {
			StagesHit[p] = 1
		}
	}

	// the main loop; it will never exit
	for {
		select {
		case upd := <-SIUpdate:
			increm(upd)
		case req := <-SIRequest:
			cp := make(map[string]int)
			for k, v := range StagesHit {
				cp[k] = v
			}
			req.response <- cp
		}
	}
}
