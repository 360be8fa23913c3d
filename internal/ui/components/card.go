// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aicrm-tui/internal/storage"
	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// =============================================================================
// METRIC CARD COMPONENT
// =============================================================================

// MetricCard shows one headline number.
type MetricCard struct {
	Metric storage.Metric
	Width  int
	theme  *styles.Theme
}

// NewMetricCard creates a card for m.
func NewMetricCard(m storage.Metric, theme *styles.Theme) *MetricCard {
	return &MetricCard{Metric: m, Width: 20, theme: theme}
}

// View renders the card at Width columns including its border.
func (c *MetricCard) View() string {
	inner := max(c.Width-2, 8)
	title := c.theme.CardTitle.Render(c.Metric.Title)
	value := c.theme.CardValueStyle(c.Metric.Accent).Render(c.Metric.Display())
	return c.theme.CardStyle(c.Metric.Accent).Width(inner).Render(title + "\n" + value)
}

// CardRow lays metrics out across width. Narrow widths stack two per row.
func CardRow(theme *styles.Theme, metrics []storage.Metric, width int) string {
	if len(metrics) == 0 {
		return ""
	}

	perRow := len(metrics)
	if width/perRow < 18 {
		perRow = 2
	}
	cardWidth := width / perRow

	var rows []string
	for start := 0; start < len(metrics); start += perRow {
		end := min(start+perRow, len(metrics))
		cards := make([]string, 0, end-start)
		for _, m := range metrics[start:end] {
			card := NewMetricCard(m, theme)
			card.Width = cardWidth
			cards = append(cards, card.View())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
