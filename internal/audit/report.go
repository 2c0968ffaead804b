// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package audit

import (
	"fmt"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"io"
	"strings"
	"time"
)

// Lines listed per group before the rest is summarized as a count.
const maxListedLines = 25

var levelOrder = []analysis.Level{
	analysis.LevelCritical,
	analysis.LevelWeak,
	analysis.LevelFair,
	analysis.LevelGood,
	analysis.LevelStrong,
}

// Print writes a human readable report of s to w.
func (s *Summary) Print(w io.Writer) error {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	_, _ = p.Fprintf(&b, "Audited %d passwords in %v, %d analyzed, %d failed\n",
		s.Total, s.Elapsed.Round(time.Millisecond), s.Analyzed, len(s.Failures))

	if s.Analyzed > 0 {
		b.WriteString("\nLevels\n")
		for _, level := range levelOrder {
			count := s.Levels[level]
			_, _ = p.Fprintf(&b, "  %-8s %8d  %5.1f%%\n", level, count, float64(count)*100/float64(s.Analyzed))
		}
		_, _ = p.Fprintf(&b, "\nScore  mean %.1f%%  median %.1f%%  p90 %.1f%%\n", s.Mean, s.Median, s.P90)
	}

	if len(s.Weak) > 0 {
		_, _ = p.Fprintf(&b, "\nCritical or weak passwords on lines: %s\n", listLines(s.Weak))
	}

	if len(s.Failures) > 0 {
		lines := make([]int, len(s.Failures))
		for i, f := range s.Failures {
			lines[i] = f.Line
		}
		_, _ = p.Fprintf(&b, "\nNot analyzed, evaluator unavailable, on lines: %s\n", listLines(lines))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func listLines(lines []int) string {
	shown := lines
	if len(shown) > maxListedLines {
		shown = shown[:maxListedLines]
	}

	parts := make([]string, len(shown))
	for i, l := range shown {
		parts[i] = fmt.Sprint(l)
	}

	out := strings.Join(parts, ", ")
	if rest := len(lines) - len(shown); rest > 0 {
		out += fmt.Sprintf(" and %d more", rest)
	}
	return out
}
