// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	DefaultDebounce            = 320 * time.Millisecond
	DefaultConnectivityMessage = "Unable to reach the analysis backend. Start the evaluator on localhost:8000"
)

type Options struct {
	// Debounce is the quiet period after the last keystroke before a value is submitted.
	Debounce time.Duration
	// Clock drives the debounce timer. Defaults to the wall clock.
	Clock clock.Clock
	// ConnectivityMessage is the banner text shown when a request fails.
	ConnectivityMessage string
}

// Pipeline turns raw keystrokes into analysis requests and owns the resulting State.
//
// Every event (keystroke, debounce elapsed, response) is handled under one lock, which gives the
// same ordering as a single threaded event loop. Each request carries a sequence number and only
// the response to the most recently issued request is applied.
type Pipeline struct {
	analyzer Analyzer
	clock    clock.Clock
	debounce time.Duration
	message  string

	mu    sync.Mutex
	state State
	// closed is set by Close, nothing mutates state afterwards.
	closed bool

	timer    *clock.Timer
	timerGen uint64

	seq    uint64
	cancel context.CancelFunc

	submitted    string
	hasSubmitted bool

	updates chan State
	ctx     context.Context
	stop    context.CancelFunc
}

func New(analyzer Analyzer, opts Options) *Pipeline {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.ConnectivityMessage == "" {
		opts.ConnectivityMessage = DefaultConnectivityMessage
	}

	ctx, stop := context.WithCancel(context.Background())
	return &Pipeline{
		analyzer: analyzer,
		clock:    opts.Clock,
		debounce: opts.Debounce,
		message:  opts.ConnectivityMessage,
		updates:  make(chan State, 1),
		ctx:      ctx,
		stop:     stop,
	}
}

// State returns a snapshot of the current state. The Result it points to is never mutated.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Updates delivers state changes. It only ever holds the newest state: a slow reader skips
// intermediate states, never sees them out of order. Closed by Close.
func (p *Pipeline) Updates() <-chan State {
	return p.updates
}

// Input records a raw input value and (re)arms the debounce timer. No request is issued here.
func (p *Pipeline) Input(value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.state.RawInput = value
	p.publishLocked()
	p.armLocked()
}

// Retry submits the current input right away, even if it was the last submitted value.
func (p *Pipeline) Retry() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.state.RawInput == "" {
		return
	}

	p.stopTimerLocked()
	p.hasSubmitted = false
	p.submitLocked(p.state.RawInput)
}

// Close stops the debounce timer and drops interest in any in-flight request. After Close
// returns the state never changes again. Safe to call more than once.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true
	p.stopTimerLocked()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.stop()
	close(p.updates)
	log.Debug().Msgf("input pipeline closed after %d requests", p.seq)
}

func (p *Pipeline) armLocked() {
	p.stopTimerLocked()

	gen := p.timerGen
	if p.debounce == 0 {
		p.submitLocked(p.state.RawInput)
		return
	}

	// Stop can lose against a timer that already fired, the generation catches that case.
	p.timer = p.clock.AfterFunc(p.debounce, func() {
		p.elapsed(gen)
	})
}

func (p *Pipeline) stopTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.timerGen++
}

func (p *Pipeline) elapsed(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || gen != p.timerGen {
		return
	}

	p.timer = nil
	p.submitLocked(p.state.RawInput)
}

func (p *Pipeline) submitLocked(value string) {
	if p.hasSubmitted && value == p.submitted {
		log.Debug().Msg("debounced value unchanged, request suppressed")
		return
	}

	p.submitted = value
	p.hasSubmitted = true

	// Whatever is in flight is superseded from here on.
	p.seq++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	if value == "" {
		p.state.Result = nil
		p.state.Error = ""
		p.state.Loading = false
		p.state.Stale = false
		p.publishLocked()
		return
	}

	ctx, cancel := context.WithCancel(p.ctx)
	p.cancel = cancel

	p.state.Loading = true
	p.state.Error = ""
	p.publishLocked()

	id := p.seq
	log.Debug().Msgf("analysis request %d issued for %d characters", id, utf8.RuneCountInString(value))
	go p.run(ctx, id, value)
}

func (p *Pipeline) run(ctx context.Context, id uint64, value string) {
	res, err := p.analyze(ctx, value)
	p.settle(id, res, err)
}

func (p *Pipeline) analyze(ctx context.Context, value string) (res *analysis.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("analyzer panicked: %v", r)
		}
	}()

	return p.analyzer.Analyze(ctx, value)
}

func (p *Pipeline) settle(id uint64, res *analysis.Result, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || id != p.seq {
		log.Debug().Msgf("analysis response %d discarded, current request is %d", id, p.seq)
		return
	}

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	if err == nil && res == nil {
		err = errors.New("analyzer returned neither a result nor an error")
	}

	p.state.Loading = false
	if err != nil {
		log.Debug().Err(err).Msgf("analysis request %d failed", id)
		p.state.Error = p.message
		p.state.Stale = p.state.Result != nil
		// A failed value may be submitted again.
		p.hasSubmitted = false
	} else {
		log.Debug().Msgf("analysis request %d settled with level %s", id, res.Level)
		p.state.Result = res
		p.state.Error = ""
		p.state.Stale = false
	}
	p.publishLocked()
}

func (p *Pipeline) publishLocked() {
	s := p.state
	// Only writers hold the lock, so after draining the single slot the send cannot block.
	select {
	case <-p.updates:
	default:
	}
	select {
	case p.updates <- s:
	default:
	}
}
