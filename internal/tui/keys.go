// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	ToggleMask key.Binding
	Retry      key.Binding
	Quit       key.Binding
}

var defaultKeys = keyMap{
	ToggleMask: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "show/hide"),
	),
	Retry: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "retry"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}
