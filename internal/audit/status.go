// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package audit

import (
	"github.com/rs/zerolog/log"
	"sync/atomic"
	"time"
)

// status logs the progress of an audit about every 5% of the work.
type status struct {
	workCount uint64
	doneCount uint64
	step      uint64
	start     time.Time
}

func newStatus(work uint64) *status {
	step := work / 20
	if step == 0 {
		step = 1
	}
	return &status{workCount: work, step: step, start: time.Now()}
}

func (s *status) printStatus(done uint64) {
	elapsed := time.Since(s.start)
	var perSecond float64
	if elapsed > 0 {
		perSecond = float64(done) / elapsed.Seconds()
	}
	log.Info().Msgf("audit: %d of %d, %.2f%%, %.0f/s", done, s.workCount,
		float64(done)/float64(s.workCount)*100, perSecond)
}

func (s *status) Incr() {
	done := atomic.AddUint64(&s.doneCount, 1)
	if done%s.step == 0 || done == s.workCount {
		s.printStatus(done)
	}
}

func (s *status) Done() time.Duration {
	elapsed := time.Since(s.start)
	log.Info().Msgf("audit complete in %v", elapsed)
	return elapsed
}
