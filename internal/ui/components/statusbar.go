// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the dashboard key hints.
var DefaultShortcuts = []Shortcut{
	{"Enter", "enviar"},
	{"Ctrl+Y", "copiar"},
	{"Ctrl+E", "exportar"},
	{"Ctrl+N", "nova"},
	{"Esc", "sair"},
}

// StatusBar shows the model, request state, a transient notice and key
// hints on one line.
type StatusBar struct {
	Model     string
	Pending   bool
	Warning   string
	Notice    string
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Shortcuts: DefaultShortcuts,
		Width:     80,
		theme:     theme,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the bar. Shortcuts are dropped first when space runs out.
func (s *StatusBar) View() string {
	left := []string{s.theme.ShortcutKey.Render(s.Model)}
	if s.Pending {
		left = append(left, s.theme.Spinner.Render("aguardando resposta"))
	} else {
		left = append(left, s.theme.Muted.Render("pronto"))
	}
	switch {
	case s.Notice != "":
		left = append(left, s.Notice)
	case s.Warning != "":
		left = append(left, InlineWarning(s.Warning))
	}
	leftView := strings.Join(left, s.theme.Muted.Render(" | "))

	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	rightView := strings.Join(hints, "  ")

	inner := s.Width - 2
	gap := inner - lipgloss.Width(leftView) - lipgloss.Width(rightView)
	if gap < 2 {
		return s.theme.StatusBar.Render(leftView)
	}
	return s.theme.StatusBar.Render(leftView + strings.Repeat(" ", gap) + rightView)
}
