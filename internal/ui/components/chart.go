// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/aicrm-tui/internal/storage"
	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
	"github.com/jeranaias/aicrm-tui/internal/util"
)

// =============================================================================
// BAR CHART COMPONENT
// =============================================================================

// Series labels used in the legend.
const (
	LabelCustomers = "Clientes"
	LabelRevenue   = "Receita"
)

const barRune = "█"

// BarChart renders the monthly customers and revenue series as paired
// horizontal bars. Each series is scaled to its own maximum.
type BarChart struct {
	Chart storage.Chart
	Width int
	theme *styles.Theme
}

// NewBarChart creates a chart panel for c.
func NewBarChart(c storage.Chart, theme *styles.Theme) *BarChart {
	return &BarChart{Chart: c, Width: 60, theme: theme}
}

// View renders the chart inside a titled panel Width columns wide.
func (b *BarChart) View() string {
	inner := max(b.Width-4, 20)
	title := b.theme.PanelTitle.Render(b.Chart.Title)

	if len(b.Chart.Points) == 0 {
		return b.theme.Panel.Width(inner + 2).Render(title + "\n" + b.theme.Muted.Render("Sem dados"))
	}

	labelWidth := 0
	for _, p := range b.Chart.Points {
		labelWidth = max(labelWidth, util.StringWidth(p.Label))
	}
	valueWidth := max(len(fmtNumber(b.Chart.MaxCustomers())), len(fmtNumber(b.Chart.MaxRevenue())))
	barSpace := max(inner-labelWidth-valueWidth-2, 1)

	lines := []string{title, b.legend()}
	for _, p := range b.Chart.Points {
		label := b.theme.ChartLabel.Render(util.PadRight(p.Label, labelWidth))
		blank := strings.Repeat(" ", labelWidth)
		lines = append(lines,
			label+" "+b.bar(b.theme.ChartCustomers.Render, p.Customers, b.Chart.MaxCustomers(), barSpace),
			blank+" "+b.bar(b.theme.ChartRevenue.Render, p.Revenue, b.Chart.MaxRevenue(), barSpace),
		)
	}

	return b.theme.Panel.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func (b *BarChart) legend() string {
	return b.theme.ChartCustomers.Render(barRune+" "+LabelCustomers) + "  " +
		b.theme.ChartRevenue.Render(barRune+" "+LabelRevenue)
}

// bar renders value as a bar followed by its number.
func (b *BarChart) bar(paint func(...string) string, value, maxValue int64, space int) string {
	n := BarLength(value, maxValue, space)
	out := ""
	if n > 0 {
		out = paint(strings.Repeat(barRune, n)) + " "
	}
	return out + b.theme.ChartValue.Render(fmtNumber(value))
}

// BarLength scales value into [0, space] cells relative to maxValue. Any
// positive value gets at least one cell.
func BarLength(value, maxValue int64, space int) int {
	if value <= 0 || maxValue <= 0 || space <= 0 {
		return 0
	}
	n := int(value * int64(space) / maxValue)
	return clamp(n, 1, space)
}
