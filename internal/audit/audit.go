// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package audit runs a list of passwords through the evaluator and summarizes the outcome without
// ever echoing a password back. Entries are referred to by their line number.
package audit

import (
	"bufio"
	"context"
	"fmt"
	"github.com/alvinbaena/pwd-meter/internal/pipeline"
	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/jfcg/sorty/v2"
	"github.com/rs/zerolog/log"
	"github.com/thinhdanggroup/executor"
	"io"
	"math"
	"os"
	"runtime"
	"sync"
	"time"
)

// Every loaded entry costs its bytes plus the line bookkeeping and the kept score.
const bytesPerEntryOverhead = 64

type entry struct {
	line     int
	password string
}

// Failure is an entry the evaluator could not analyze.
type Failure struct {
	Line int
	Err  error
}

// Summary is the aggregated outcome of an audit.
type Summary struct {
	Total    int
	Analyzed int
	Levels   map[analysis.Level]int
	// Weak lists the lines rated critical or weak, ascending.
	Weak     []int
	Failures []Failure
	Mean     float64
	Median   float64
	P90      float64
	Elapsed  time.Duration
}

type Auditor struct {
	analyzer pipeline.Analyzer
	workers  int
}

// New returns an Auditor analyzing with workers concurrent requests, 0 picks a default from the
// CPU count.
func New(analyzer pipeline.Analyzer, workers int) *Auditor {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	return &Auditor{analyzer: analyzer, workers: workers}
}

// ReadEntries reads one password per line. Blank lines are skipped, entries keep the line number
// they were read from.
func ReadEntries(r io.Reader) ([]entry, error) {
	var entries []entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		entries = append(entries, entry{line: line, password: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading passwords after line %d: %w", line, err)
	}

	return entries, nil
}

// AuditFile audits the passwords in fileName, making sure there is memory to hold them first.
func (a *Auditor) AuditFile(ctx context.Context, fileName string) (*Summary, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if fi, err := f.Stat(); err == nil {
		// Worst case one character per line.
		if err = util.CheckMemory(uint64(fi.Size()) * bytesPerEntryOverhead); err != nil {
			return nil, err
		}
	}

	return a.Audit(ctx, f)
}

// Audit analyzes every password read from r. It stops early when ctx is done, returning what was
// gathered so far along with the context error.
func (a *Auditor) Audit(ctx context.Context, r io.Reader) (*Summary, error) {
	s := util.Stats()
	defer s()

	entries, err := ReadEntries(r)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(entries), Levels: make(map[analysis.Level]int)}
	if len(entries) == 0 {
		return summary, nil
	}

	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * a.workers,
		NumWorkers:    a.workers,
	})
	if err != nil {
		return nil, err
	}
	defer tasks.Close()

	log.Info().Msgf("auditing %d passwords with %d workers", len(entries), a.workers)
	stat := newStatus(uint64(len(entries)))

	var mu sync.Mutex
	var pcts []float64
	process := func(e entry) {
		defer stat.Incr()
		if ctx.Err() != nil {
			return
		}

		res, err := a.analyzer.Analyze(ctx, e.password)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			log.Debug().Msgf("line %d failed: %v", e.line, err)
			summary.Failures = append(summary.Failures, Failure{Line: e.line, Err: err})
			return
		}

		summary.Analyzed++
		summary.Levels[res.Level]++
		pcts = append(pcts, res.Percentage)
		if res.Level == analysis.LevelCritical || res.Level == analysis.LevelWeak {
			summary.Weak = append(summary.Weak, e.line)
		}
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		if err = tasks.Publish(process, e); err != nil {
			log.Panic().Err(err).Msgf("there is a programming error here.")
		}
	}

	tasks.Wait()
	summary.Elapsed = stat.Done()

	sorty.SortSlice(summary.Weak)
	failures := summary.Failures
	sorty.Sort(len(failures), func(i, k, r, s int) bool {
		if failures[i].Line < failures[k].Line {
			if r != s {
				failures[r], failures[s] = failures[s], failures[r]
			}
			return true
		}
		return false
	})
	summary.Mean, summary.Median, summary.P90 = distribution(pcts)

	return summary, ctx.Err()
}

// distribution returns the mean, median and 90th percentile of pcts, sorting it in place.
func distribution(pcts []float64) (mean, median, p90 float64) {
	if len(pcts) == 0 {
		return
	}

	sorty.SortSlice(pcts)

	var sum float64
	for _, p := range pcts {
		sum += p
	}
	mean = math.Round(sum/float64(len(pcts))*10) / 10

	return mean, percentile(pcts, 0.5), percentile(pcts, 0.9)
}

// percentile is the nearest rank percentile of an ascending slice.
func percentile(sorted []float64, p float64) float64 {
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}
