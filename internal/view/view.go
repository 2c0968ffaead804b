// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package view

import (
	"fmt"
	"github.com/alvinbaena/pwd-meter/internal/pipeline"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"math"
)

// Panel is the primary block shown below the input. Only one is visible at a time.
type Panel int

const (
	// PanelNone shows nothing, e.g. while the first keystrokes are still being debounced.
	PanelNone Panel = iota
	PanelEmpty
	PanelResults
	PanelLoading
	PanelError
)

func (p Panel) String() string {
	switch p {
	case PanelEmpty:
		return "empty"
	case PanelResults:
		return "results"
	case PanelLoading:
		return "loading"
	case PanelError:
		return "error"
	}
	return "none"
}

// StalePolicy decides what happens to the previous result once a newer attempt failed.
type StalePolicy string

const (
	// StaleDim keeps the previous result on screen, dimmed, under the error banner.
	StaleDim StalePolicy = "dim"
	// StaleHide only shows the error banner.
	StaleHide StalePolicy = "hide"
)

// View is everything a renderer needs, derived from a pipeline.State. Never cache one across
// state changes, derive again.
type View struct {
	Panel  Panel
	Banner string
	Level  analysis.LevelConfig

	// Result is nil unless there is a result to show, in the results panel or dimmed.
	Result *analysis.Result
	// Dimmed is set when Result is a stale result shown under the banner.
	Dimmed bool

	Percentage      float64
	Checks          []CheckView
	Recommendations []string
}

// CheckView is the display treatment of a single check card.
type CheckView struct {
	ID          string
	Label       string
	Description string
	NistRef     string
	Passed      bool
	Icon        string
	Color       string
	Border      string
	Background  string
	BarWidth    float64
}

type severityStyle struct {
	color      string
	border     string
	background string
}

var (
	passStyle = severityStyle{color: "#00ff9f", border: "rgba(0,255,159,0.18)", background: "rgba(0,255,159,0.02)"}

	severityStyles = map[analysis.Severity]severityStyle{
		analysis.SeverityCritical: {color: "#ff2d55", border: "rgba(255,45,85,0.4)", background: "rgba(255,45,85,0.05)"},
		analysis.SeverityWarning:  {color: "#ff6b35", border: "rgba(255,107,53,0.3)", background: "rgba(255,107,53,0.03)"},
		analysis.SeverityInfo:     {color: "#64d2ff", border: "rgba(100,210,255,0.3)", background: "rgba(100,210,255,0.03)"},
	}
)

// Derive computes the view for a state.
func Derive(state pipeline.State, policy StalePolicy) View {
	v := View{
		Panel: PanelFor(state),
		Level: LevelConfigFor(state.Result),
	}

	if v.Panel == PanelError {
		v.Banner = state.Error
	}

	switch {
	case state.Result == nil:
	case v.Panel == PanelResults:
		v.Result = state.Result
	case v.Panel == PanelError && policy != StaleHide:
		v.Result = state.Result
		v.Dimmed = true
	}

	if v.Result != nil {
		v.Percentage = Clamp(v.Result.Percentage)
		v.Checks = make([]CheckView, 0, len(v.Result.Checks))
		for _, c := range v.Result.Checks {
			v.Checks = append(v.Checks, CheckDisplay(c))
		}
		v.Recommendations = v.Result.Recommendations
	}

	return v
}

// PanelFor applies the visibility priority: error, loading, results, empty.
func PanelFor(state pipeline.State) Panel {
	switch {
	case state.HasError():
		return PanelError
	case state.Loading:
		return PanelLoading
	case state.Result != nil:
		return PanelResults
	case state.RawInput == "":
		return PanelEmpty
	}
	return PanelNone
}

// LevelConfigFor returns the level treatment of a result, or the neutral one.
func LevelConfigFor(res *analysis.Result) analysis.LevelConfig {
	if res == nil {
		return analysis.NeutralLevelConfig
	}
	if cfg, ok := analysis.LevelConfigFor(res.Level); ok {
		return cfg
	}
	return analysis.NeutralLevelConfig
}

// CheckDisplay derives icon and colors of a check. A passed check always gets the pass
// treatment, whatever its severity says.
func CheckDisplay(c analysis.CheckResult) CheckView {
	style, icon := passStyle, analysis.PassIcon
	if !c.Passed {
		style = severityStyles[analysis.SeverityWarning]
		if s, ok := severityStyles[c.Severity]; ok {
			style = s
		}
		icon = analysis.SeverityIcons[analysis.SeverityWarning]
		if i, ok := analysis.SeverityIcons[c.Severity]; ok {
			icon = i
		}
	}

	return CheckView{
		ID:          c.ID,
		Label:       c.Label,
		Description: c.Description,
		NistRef:     c.NistRef,
		Passed:      c.Passed,
		Icon:        icon,
		Color:       style.color,
		Border:      style.border,
		Background:  style.background,
		BarWidth:    BarWidth(c.Score, c.MaxScore),
	}
}

// BarWidth is the fill of a check bar in percent.
func BarWidth(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return Clamp(100 * score / maxScore)
}

// Clamp bounds a percentage to [0,100]. NaN is 0.
func Clamp(pct float64) float64 {
	switch {
	case math.IsNaN(pct), pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// ParseStalePolicy accepts "dim" and "hide".
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch StalePolicy(s) {
	case StaleDim, StaleHide:
		return StalePolicy(s), nil
	}
	return "", fmt.Errorf("unknown stale result policy %q", s)
}
