// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER
// =============================================================================

// ErrorBanner renders message as a centered banner inside width cells. It
// returns "" for an empty message.
func ErrorBanner(theme *styles.Theme, message string, width int) string {
	if message == "" {
		return ""
	}
	inner := clamp(maxLineWidth(message)+2, 10, max(width-4, 10))
	banner := theme.ErrorBanner.Width(inner).Render(wordWrap(message, inner-2))
	if width <= 0 {
		return banner
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, banner)
}

// InlineWarning renders a one-line warning such as a missing API key.
func InlineWarning(message string) string {
	return styles.RenderWarning(message)
}
