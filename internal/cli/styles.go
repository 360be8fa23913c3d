// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styles for the line-oriented commands.
//
// Colors are disabled for non-TTY output and when NO_COLOR is set. The
// --no-color flag and ui.no_color are applied later by setupApp.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

func init() {
	applyColorProfile(ColorsEnabled(false))
}

var (
	// titleStyle is used for command titles and headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Blue).
			MarginBottom(1)

	// labelStyle is used for left-aligned field labels
	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	dimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Rose)

	warnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	userPromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Blue)

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.Purple)
)

// field renders one "label  value" line.
func field(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}
