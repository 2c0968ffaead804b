// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package tui renders the live password meter in the terminal.
package tui

import (
	"github.com/alvinbaena/pwd-meter/internal/pipeline"
	"github.com/alvinbaena/pwd-meter/internal/view"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/alvinbaena/pwd-meter/pkg/animate"
	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"time"
)

// Source is what the model reads states from and sends keystrokes to. *pipeline.Pipeline
// implements it.
type Source interface {
	Input(value string)
	Retry()
	State() pipeline.State
	Updates() <-chan pipeline.State
	Close()
}

// slot is an animated display value.
type slot int

const (
	slotEntropy slot = iota
	slotScore
)

// stateMsg carries a new pipeline state.
type stateMsg pipeline.State

// sourceClosedMsg is sent once the source will not publish anymore.
type sourceClosedMsg struct{}

// frameMsg asks for the next frame of the animation started with tag.
type frameMsg struct {
	slot slot
	tag  int
}

type Options struct {
	StalePolicy       view.StalePolicy
	AnimationDuration time.Duration
	FrameInterval     time.Duration
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// Model is the root Bubble Tea model of the meter.
type Model struct {
	source   Source
	policy   view.StalePolicy
	clock    clock.Clock
	interval time.Duration

	input  textinput.Model
	masked bool

	state pipeline.State
	view  view.View
	// shown is the result the counters were last started for.
	shown *analysis.Result

	entropy animate.Counter
	score   animate.Counter

	width int
}

func New(source Source, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = animate.DefaultInterval
	}
	if opts.StalePolicy == "" {
		opts.StalePolicy = view.StaleDim
	}

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "type a password"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 1024
	input.Focus()

	state := source.State()
	return Model{
		source:   source,
		policy:   opts.StalePolicy,
		clock:    opts.Clock,
		interval: opts.FrameInterval,
		input:    input,
		masked:   true,
		state:    state,
		view:     view.Derive(state, opts.StalePolicy),
		entropy:  animate.NewCounter(1, opts.AnimationDuration),
		score:    animate.NewCounter(0, opts.AnimationDuration),
	}
}

// Close releases the source. Safe to call more than once.
func (m Model) Close() {
	m.source.Close()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForState(m.source.Updates()), tea.SetWindowTitle("pwd-meter"))
}

func waitForState(updates <-chan pipeline.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return sourceClosedMsg{}
		}
		return stateMsg(state)
	}
}

func (m Model) nextFrame(s slot, tag int) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return frameMsg{slot: s, tag: tag}
	})
}

func (m *Model) counter(s slot) *animate.Counter {
	if s == slotEntropy {
		return &m.entropy
	}
	return &m.score
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateMsg:
		return m.applyState(pipeline.State(msg))

	case sourceClosedMsg:
		return m, nil

	case frameMsg:
		if m.counter(msg.slot).Step(msg.tag, m.clock.Now()) {
			return m, m.nextFrame(msg.slot, msg.tag)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Quit):
			m.source.Close()
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleMask):
			m.masked = !m.masked
			if m.masked {
				m.input.EchoMode = textinput.EchoPassword
			} else {
				m.input.EchoMode = textinput.EchoNormal
			}
			return m, nil
		case keyMatches(msg, defaultKeys.Retry):
			if m.state.HasError() {
				m.source.Retry()
			}
			return m, nil
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != prev {
		m.source.Input(value)
	}
	return m, cmd
}

// applyState takes a new state in. It restarts the counters when the state brings a result that
// was not shown before, and zeroes them once the result is gone.
func (m Model) applyState(state pipeline.State) (tea.Model, tea.Cmd) {
	m.state = state
	m.view = view.Derive(state, m.policy)

	cmds := []tea.Cmd{waitForState(m.source.Updates())}
	if state.Result == nil && m.shown != nil {
		m.shown = nil
		m.entropy.Reset()
		m.score.Reset()
	}
	if res := m.view.Result; res != nil && res != m.shown && !m.view.Dimmed {
		m.shown = res
		now := m.clock.Now()
		cmds = append(cmds,
			m.nextFrame(slotEntropy, m.entropy.Start(res.EntropyBits, now)),
			m.nextFrame(slotScore, m.score.Start(m.view.Percentage, now)),
		)
	}

	return m, tea.Batch(cmds...)
}
