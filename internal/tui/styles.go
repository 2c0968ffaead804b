// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorAccent  = lipgloss.Color("#00ff9f") // neon green
	colorError   = lipgloss.Color("#ff2d55") // red
	colorMuted   = lipgloss.Color("8")       // gray
	colorText    = lipgloss.Color("15")      // white
	colorTrack   = lipgloss.Color("236")     // dark gray
	colorLoading = lipgloss.Color("#64d2ff") // cyan
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorAccent)

var subtitleStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

// Input box, the border takes the level color once there is a result.
var inputStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorAccent).
	Padding(0, 1)

// Status bar
var (
	statusLabelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	statusValueStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
)

var (
	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(colorError).
			Foreground(colorError).
			Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorLoading)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)

	dimmedStyle = lipgloss.NewStyle().
			Faint(true)
)

var (
	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	trackStyle = lipgloss.NewStyle().Foreground(colorTrack)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			PaddingLeft(1).
			MarginBottom(1)

	nistStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Help
var (
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

func colored(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
