// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package view

import (
	"github.com/alvinbaena/pwd-meter/internal/pipeline"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/stretchr/testify/assert"
	"math"
	"testing"
)

func fairResult() *analysis.Result {
	return &analysis.Result{
		Percentage: 42,
		Level:      analysis.LevelFair,
		LevelLabel: "FAIR",
		Checks: []analysis.CheckResult{
			{ID: "length", Passed: true, Score: 1.5, MaxScore: 3, Severity: analysis.SeverityCritical},
			{ID: "no_keyboard_walk", Passed: false, Score: 0, MaxScore: 1.5, Severity: analysis.SeverityWarning},
		},
		Recommendations: []string{"Use at least 15 characters"},
	}
}

func TestPanelFor_Priority(t *testing.T) {
	res := fairResult()
	cases := []struct {
		name  string
		state pipeline.State
		want  Panel
	}{
		{"nothing typed", pipeline.State{}, PanelEmpty},
		{"typing before debounce", pipeline.State{RawInput: "ab"}, PanelNone},
		{"loading", pipeline.State{RawInput: "ab", Loading: true}, PanelLoading},
		{"loading hides result", pipeline.State{RawInput: "ab", Loading: true, Result: res}, PanelLoading},
		{"result", pipeline.State{RawInput: "ab", Result: res}, PanelResults},
		{"error beats everything", pipeline.State{RawInput: "ab", Loading: true, Result: res, Error: "down"}, PanelError},
		{"cleared input keeps result panel", pipeline.State{Result: res}, PanelResults},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PanelFor(tc.state))
		})
	}
}

func TestDerive_FairScenario(t *testing.T) {
	v := Derive(pipeline.State{RawInput: "Password1", Result: fairResult()}, StaleDim)

	assert.Equal(t, PanelResults, v.Panel)
	assert.Equal(t, analysis.LevelConfigs[analysis.LevelFair], v.Level)
	assert.Equal(t, 42.0, v.Percentage)
	assert.False(t, v.Dimmed)
	assert.Len(t, v.Checks, 2)
	assert.Equal(t, 50.0, v.Checks[0].BarWidth)
	assert.Equal(t, []string{"Use at least 15 characters"}, v.Recommendations)
}

func TestDerive_NoResultIsNeutral(t *testing.T) {
	v := Derive(pipeline.State{}, StaleDim)

	assert.Equal(t, PanelEmpty, v.Panel)
	assert.Equal(t, analysis.NeutralLevelConfig, v.Level)
	assert.Nil(t, v.Result)
	assert.Empty(t, v.Checks)
}

func TestDerive_UnknownLevelIsNeutral(t *testing.T) {
	res := fairResult()
	res.Level = "legendary"

	assert.Equal(t, analysis.NeutralLevelConfig, LevelConfigFor(res))
}

func TestDerive_StalePolicy(t *testing.T) {
	state := pipeline.State{RawInput: "abc!", Result: fairResult(), Error: "backend down", Stale: true}

	dim := Derive(state, StaleDim)
	assert.Equal(t, PanelError, dim.Panel)
	assert.Equal(t, "backend down", dim.Banner)
	assert.True(t, dim.Dimmed)
	assert.NotNil(t, dim.Result)

	hide := Derive(state, StaleHide)
	assert.Equal(t, PanelError, hide.Panel)
	assert.Nil(t, hide.Result)
	assert.Empty(t, hide.Checks)
}

func TestDerive_LoadingHidesResults(t *testing.T) {
	v := Derive(pipeline.State{RawInput: "abc", Loading: true, Result: fairResult()}, StaleDim)

	assert.Equal(t, PanelLoading, v.Panel)
	assert.Nil(t, v.Result)
}

func TestCheckDisplay(t *testing.T) {
	cases := []struct {
		check analysis.CheckResult
		icon  string
		color string
	}{
		{analysis.CheckResult{Passed: true, Severity: analysis.SeverityCritical}, analysis.PassIcon, "#00ff9f"},
		{analysis.CheckResult{Passed: true, Severity: analysis.SeverityInfo}, analysis.PassIcon, "#00ff9f"},
		{analysis.CheckResult{Passed: false, Severity: analysis.SeverityCritical}, "◈", "#ff2d55"},
		{analysis.CheckResult{Passed: false, Severity: analysis.SeverityWarning}, "◆", "#ff6b35"},
		{analysis.CheckResult{Passed: false, Severity: analysis.SeverityInfo}, "◇", "#64d2ff"},
	}

	for _, tc := range cases {
		got := CheckDisplay(tc.check)
		assert.Equal(t, tc.icon, got.Icon, "icon for passed=%v severity=%s", tc.check.Passed, tc.check.Severity)
		assert.Equal(t, tc.color, got.Color, "color for passed=%v severity=%s", tc.check.Passed, tc.check.Severity)
	}
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 0.0, BarWidth(1, 0))
	assert.Equal(t, 0.0, BarWidth(1, -2))
	assert.Equal(t, 50.0, BarWidth(1.5, 3))
	assert.Equal(t, 100.0, BarWidth(3, 3))
	assert.Equal(t, 100.0, BarWidth(4, 3))
	assert.Equal(t, 0.0, BarWidth(-1, 3))
	assert.Equal(t, 0.0, Clamp(math.NaN()))
}

func TestParseStalePolicy(t *testing.T) {
	p, err := ParseStalePolicy("hide")
	assert.NoError(t, err)
	assert.Equal(t, StaleHide, p)

	_, err = ParseStalePolicy("blink")
	assert.Error(t, err)
}
