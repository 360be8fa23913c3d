// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the page title bar with the search placeholder.
type Header struct {
	Title       string
	Placeholder string
	Width       int
	theme       *styles.Theme
}

// NewHeader creates the dashboard header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:       "Dashboard",
		Placeholder: "Buscar...",
		Width:       80,
		theme:       theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render(h.Title)
	search := h.theme.SearchBox.Render(h.Placeholder + strings.Repeat(" ", 12))

	// Border and padding take four columns.
	inner := h.Width - 6
	gap := inner - lipgloss.Width(title) - lipgloss.Width(search)
	if gap < 1 {
		// No room for the search box.
		return h.theme.Header.Width(max(h.Width-2, 0)).Render(title)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, title, strings.Repeat(" ", gap), search)
	return h.theme.Header.Width(max(h.Width-2, 0)).Render(row)
}
