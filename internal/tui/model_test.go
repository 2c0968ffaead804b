// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package tui

import (
	"github.com/alvinbaena/pwd-meter/internal/pipeline"
	"github.com/alvinbaena/pwd-meter/internal/view"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type fakeSource struct {
	inputs  []string
	retries int
	closed  bool
	updates chan pipeline.State
}

func newFakeSource() *fakeSource {
	return &fakeSource{updates: make(chan pipeline.State, 1)}
}

func (f *fakeSource) Input(value string) { f.inputs = append(f.inputs, value) }
func (f *fakeSource) Retry() { f.retries++ }
func (f *fakeSource) State() pipeline.State { return pipeline.State{} }
func (f *fakeSource) Updates() <-chan pipeline.State { return f.updates }
func (f *fakeSource) Close() { f.closed = true }

func fairResult() *analysis.Result {
	return &analysis.Result{
		PasswordLength:     9,
		EntropyBits:        28.53,
		CharsetSize:        62,
		EstimatedCrackTime: "3 hours",
		Percentage:         42,
		Level:              analysis.LevelFair,
		LevelLabel:         "FAIR",
		Checks: []analysis.CheckResult{
			{ID: "length", Label: "Password length", Description: "9 characters", Passed: true,
				Score: 1.5, MaxScore: 3, NistRef: "NIST SP 800-63B §5.1.1.1", Severity: analysis.SeverityCritical},
			{ID: "no_contextual", Label: "No context specific words", Description: "Contains words tied to the service",
				MaxScore: 1, Severity: analysis.SeverityWarning},
		},
		Recommendations: []string{"Raise the length to 15 characters or more"},
	}
}

func newModel(t *testing.T, policy view.StalePolicy) (Model, *fakeSource, *clock.Mock) {
	t.Helper()
	src := newFakeSource()
	mock := clock.NewMock()
	m := New(src, Options{StalePolicy: policy, AnimationDuration: 100 * time.Millisecond, Clock: mock})
	return m, src, mock
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestView_Empty(t *testing.T) {
	m, _, _ := newModel(t, view.StaleDim)

	out := m.View()
	assert.Contains(t, out, "PWD METER")
	assert.Contains(t, out, "Start typing to analyze a password")
	assert.NotContains(t, out, "ENTROPY")
	assert.NotContains(t, out, "SCORE")
}

func TestUpdate_TypingFeedsSource(t *testing.T) {
	m, src, _ := newModel(t, view.StaleDim)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, []string{"a", "ab", "a"}, src.inputs)
}

func TestUpdate_ToggleMask(t *testing.T) {
	m, src, _ := newModel(t, view.StaleDim)
	assert.Equal(t, textinput.EchoPassword, m.input.EchoMode)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, textinput.EchoNormal, m.input.EchoMode)
	assert.Contains(t, m.View(), "hide")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, textinput.EchoPassword, m.input.EchoMode)
	assert.Empty(t, src.inputs)
}

func TestUpdate_Quit(t *testing.T) {
	m, src, _ := newModel(t, view.StaleDim)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, src.closed)
}

func TestUpdate_RetryOnlyAfterError(t *testing.T) {
	m, src, _ := newModel(t, view.StaleDim)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, 0, src.retries)

	m, _ = update(t, m, stateMsg{RawInput: "abc", Error: "backend down"})
	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, 1, src.retries)
}

func TestUpdate_ResultAnimates(t *testing.T) {
	m, _, mock := newModel(t, view.StaleDim)

	m, cmd := update(t, m, stateMsg{RawInput: "Password1", Result: fairResult()})
	assert.NotNil(t, cmd)
	assert.True(t, m.score.Running())
	assert.True(t, m.entropy.Running())
	assert.Equal(t, "0", m.score.Text())

	out := m.View()
	assert.Contains(t, out, "FAIR")
	assert.Contains(t, out, "3 hours")
	assert.Contains(t, out, "Password length")
	assert.Contains(t, out, "Raise the length to 15 characters or more")
	assert.Contains(t, out, "CHARSET 62")

	mock.Add(50 * time.Millisecond)
	m, cmd = update(t, m, frameMsg{slot: slotScore, tag: 1})
	assert.NotNil(t, cmd, "a running animation schedules its next frame")
	assert.Equal(t, "37", m.score.Text())

	mock.Add(50 * time.Millisecond)
	m, cmd = update(t, m, frameMsg{slot: slotScore, tag: 1})
	assert.Nil(t, cmd)
	assert.Equal(t, "42", m.score.Text())

	m, _ = update(t, m, frameMsg{slot: slotEntropy, tag: 1})
	assert.Equal(t, "28.5", m.entropy.Text())
	assert.Contains(t, m.View(), "SCORE 42%")
}

func TestUpdate_NewResultRestartsAnimation(t *testing.T) {
	m, _, mock := newModel(t, view.StaleDim)

	m, _ = update(t, m, stateMsg{RawInput: "a", Result: fairResult()})
	mock.Add(100 * time.Millisecond)
	m, _ = update(t, m, frameMsg{slot: slotScore, tag: 1})
	assert.Equal(t, "42", m.score.Text())

	strong := fairResult()
	strong.Percentage = 90
	m, _ = update(t, m, stateMsg{RawInput: "ab", Result: strong})
	assert.Equal(t, "0", m.score.Text())

	// A frame of the abandoned animation changes nothing.
	mock.Add(100 * time.Millisecond)
	m, cmd := update(t, m, frameMsg{slot: slotScore, tag: 1})
	assert.Nil(t, cmd)
	assert.Equal(t, "0", m.score.Text())

	m, _ = update(t, m, frameMsg{slot: slotScore, tag: 2})
	assert.Equal(t, "90", m.score.Text())
}

func TestUpdate_SameResultDoesNotRestart(t *testing.T) {
	m, _, mock := newModel(t, view.StaleDim)
	res := fairResult()

	m, _ = update(t, m, stateMsg{RawInput: "a", Result: res})
	mock.Add(100 * time.Millisecond)
	m, _ = update(t, m, frameMsg{slot: slotScore, tag: 1})

	m, _ = update(t, m, stateMsg{RawInput: "ab", Result: res, Error: "backend down", Stale: true})
	m, _ = update(t, m, stateMsg{RawInput: "a", Result: res})
	assert.False(t, m.score.Running())
	assert.Equal(t, "42", m.score.Text())
}

func TestUpdate_ClearedInputResetsStatus(t *testing.T) {
	m, _, mock := newModel(t, view.StaleDim)

	m, _ = update(t, m, stateMsg{RawInput: "Password1", Result: fairResult()})
	mock.Add(100 * time.Millisecond)
	m, _ = update(t, m, frameMsg{slot: slotScore, tag: 1})
	m, _ = update(t, m, frameMsg{slot: slotEntropy, tag: 1})
	out := m.View()
	assert.Contains(t, out, "LENGTH 9")
	assert.Contains(t, out, "ENTROPY 28.5 bits")
	assert.Contains(t, out, "SCORE 42%")

	m, _ = update(t, m, stateMsg{})
	assert.Equal(t, "0", m.score.Text())
	assert.Equal(t, "0.0", m.entropy.Text())

	out = m.View()
	assert.Contains(t, out, "Start typing to analyze a password")
	assert.NotContains(t, out, "28.5")
	assert.NotContains(t, out, "42%")
	assert.NotContains(t, out, "SCORE")

	// The same result coming back animates again.
	m, cmd := update(t, m, stateMsg{RawInput: "Password1", Result: fairResult()})
	assert.NotNil(t, cmd)
	assert.True(t, m.score.Running())
}

func TestView_HiddenStaleResultHasNoStatus(t *testing.T) {
	m, _, mock := newModel(t, view.StaleHide)
	res := fairResult()

	m, _ = update(t, m, stateMsg{RawInput: "abc!", Result: res})
	mock.Add(100 * time.Millisecond)
	m, _ = update(t, m, frameMsg{slot: slotScore, tag: 1})
	require.Contains(t, m.View(), "SCORE 42%")

	m, _ = update(t, m, stateMsg{RawInput: "abc!x", Result: res, Error: "backend down", Stale: true})
	out := m.View()
	assert.Contains(t, out, "backend down")
	assert.NotContains(t, out, "SCORE")
	assert.NotContains(t, out, "42%")
}

func TestView_StaleResult(t *testing.T) {
	state := stateMsg{RawInput: "abc!", Result: fairResult(), Error: "backend down", Stale: true}

	m, _, _ := newModel(t, view.StaleDim)
	m, _ = update(t, m, state)
	out := m.View()
	assert.Contains(t, out, "backend down")
	assert.Contains(t, out, "FAIR")

	m, _, _ = newModel(t, view.StaleHide)
	m, _ = update(t, m, state)
	out = m.View()
	assert.Contains(t, out, "backend down")
	assert.NotContains(t, out, "FAIR")
}

func TestView_Loading(t *testing.T) {
	m, _, _ := newModel(t, view.StaleDim)
	m, _ = update(t, m, stateMsg{RawInput: "abc", Loading: true, Result: fairResult()})

	out := m.View()
	assert.Contains(t, out, "analyzing")
	assert.NotContains(t, out, "FAIR")
	assert.Contains(t, out, "SCORE 0%", "a refresh keeps the status row of the previous result")

	m, _ = update(t, m, stateMsg{RawInput: "abc", Loading: true})
	assert.NotContains(t, m.View(), "SCORE")
}

func TestWaitForState(t *testing.T) {
	ch := make(chan pipeline.State, 1)
	ch <- pipeline.State{RawInput: "x"}
	assert.Equal(t, stateMsg{RawInput: "x"}, waitForState(ch)())

	close(ch)
	assert.Equal(t, sourceClosedMsg{}, waitForState(ch)())
}

func TestBar(t *testing.T) {
	assert.Equal(t, "████░░░░░░", bar(42, 10))
	assert.Equal(t, "░░░░░░░░░░", bar(-5, 10))
	assert.Equal(t, "██████████", bar(140, 10))
}

func TestRenderResult(t *testing.T) {
	res := fairResult()
	res.Percentage = 41.6

	out := RenderResult(res, 0)
	assert.Contains(t, out, "FAIR")
	assert.Contains(t, out, "42%")
	assert.Contains(t, out, "No context specific words")
	assert.Contains(t, out, "→ Raise the length to 15 characters or more")
}
