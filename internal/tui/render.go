// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"github.com/alvinbaena/pwd-meter/internal/pipeline"
	"github.com/alvinbaena/pwd-meter/internal/view"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/alvinbaena/pwd-meter/pkg/animate"
	"github.com/charmbracelet/lipgloss"
	"math"
	"strings"
)

const (
	defaultWidth = 72
	meterWidth   = 40
	checkBar     = 16
)

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("PWD METER"))
	b.WriteString(subtitleStyle.Render("  NIST SP 800-63B memorized secret analysis"))
	b.WriteString("\n\n")

	b.WriteString(inputStyle.
		BorderForeground(lipgloss.Color(m.view.Level.Color)).
		Width(width - 4).
		Render(m.input.View()))
	b.WriteString("\n")
	if m.statusVisible() {
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.view.Panel {
	case view.PanelEmpty:
		b.WriteString(placeholderStyle.Render("Start typing to analyze a password. Nothing is stored."))
		b.WriteString("\n")
	case view.PanelLoading:
		b.WriteString(loadingStyle.Render("◌ analyzing..."))
		b.WriteString("\n")
	case view.PanelError:
		b.WriteString(bannerStyle.Width(width - 2).Render(m.view.Banner))
		b.WriteString("\n")
		if m.view.Result != nil {
			b.WriteString("\n")
			b.WriteString(dimmedStyle.Render(renderResult(m.view, m.score.Text(), width)))
		}
	case view.PanelResults:
		b.WriteString(renderResult(m.view, m.score.Text(), width))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

// statusVisible reports whether there is a result to report numbers for. A refresh in flight
// keeps the row of the result it replaces.
func (m Model) statusVisible() bool {
	if m.view.Result != nil {
		return true
	}
	return m.view.Panel == view.PanelLoading && m.state.Result != nil && !m.state.Stale
}

func (m Model) renderStatus() string {
	item := func(label, value string) string {
		return statusLabelStyle.Render(label+" ") + statusValueStyle.Render(value)
	}

	res := m.state.Result
	sep := statusLabelStyle.Render("  ·  ")
	return strings.Join([]string{
		item("LENGTH", fmt.Sprint(res.PasswordLength)),
		item("ENTROPY", m.entropy.Text()+" bits"),
		item("CHARSET", fmt.Sprint(res.CharsetSize)),
		item("SCORE", m.score.Text()+"%"),
	}, sep)
}

// RenderResult renders a settled result the way the meter shows it, for one shot output.
func RenderResult(res *analysis.Result, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	v := view.Derive(pipeline.State{Result: res}, view.StaleDim)
	return renderResult(v, animate.Format(v.Percentage, 0), width)
}

func renderResult(v view.View, score string, width int) string {
	res := v.Result
	level := colored(v.Level.Color)

	var b strings.Builder
	b.WriteString(badgeStyle.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(v.Level.Color)).
		Render(res.LevelLabel))
	b.WriteString("  ")
	b.WriteString(level.Render(bar(v.Percentage, meterWidth)))
	b.WriteString(" ")
	b.WriteString(level.Bold(true).Render(score + "%"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Estimated brute force time: "))
	b.WriteString(res.EstimatedCrackTime)
	b.WriteString("\n\n")

	for _, c := range v.Checks {
		b.WriteString(renderCheck(c, width))
		b.WriteString("\n")
	}

	if len(v.Recommendations) > 0 {
		b.WriteString(titleStyle.Render("Recommendations"))
		b.WriteString("\n")
		for _, r := range v.Recommendations {
			b.WriteString(level.Render("→ "))
			b.WriteString(r)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderCheck(c view.CheckView, width int) string {
	accent := colored(c.Color)
	head := accent.Render(c.Icon) + " " + lipgloss.NewStyle().Bold(true).Render(c.Label) +
		"  " + accent.Render(bar(c.BarWidth, checkBar))

	body := head + "\n" + c.Description
	if c.NistRef != "" {
		body += "\n" + nistStyle.Render(c.NistRef)
	}

	return cardStyle.
		BorderForeground(lipgloss.Color(c.Color)).
		Width(width - 2).
		Render(body)
}

// bar draws pct (0 to 100) over cells characters.
func bar(pct float64, cells int) string {
	filled := int(math.Round(view.Clamp(pct) / 100 * float64(cells)))
	return strings.Repeat("█", filled) + trackStyle.Render(strings.Repeat("░", cells-filled))
}

func (m Model) renderHelp() string {
	bindings := []struct{ key, desc string }{
		{defaultKeys.ToggleMask.Help().Key, "show"},
		{defaultKeys.Retry.Help().Key, defaultKeys.Retry.Help().Desc},
		{defaultKeys.Quit.Help().Key, defaultKeys.Quit.Help().Desc},
	}
	if !m.masked {
		bindings[0].desc = "hide"
	}

	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		parts = append(parts, helpKeyStyle.Render(k.key)+" "+helpDescStyle.Render(k.desc))
	}
	return strings.Join(parts, helpDescStyle.Render("  •  "))
}
