// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// metrics_cmd.go - Dashboard data on stdout: `aicrm metrics`.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jeranaias/aicrm-tui/internal/storage"
	"github.com/jeranaias/aicrm-tui/internal/ui/components"
)

var numbers = message.NewPrinter(language.English)

// HandleMetrics prints the metric cards and chart series.
func HandleMetrics(args Args) error {
	app, err := setupApp(args, logStderr)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := signalContext()
	defer cancel()

	store, err := app.OpenStore(ctx)
	if err != nil {
		return err
	}
	dash, err := store.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("read dashboard: %w", err)
	}

	if args.JSON {
		return writeJSON(os.Stdout, NewJSONResponse(CmdMetrics.String(), dash), app.Colors)
	}
	printDashboard(os.Stdout, dash)
	return nil
}

// printDashboard writes the cards, then the chart as a table.
func printDashboard(w io.Writer, dash *storage.Dashboard) {
	fmt.Fprintln(w, titleStyle.Render("Dashboard"))
	for _, m := range dash.Metrics {
		fmt.Fprintln(w, field(m.Title, m.Display()))
	}

	if len(dash.Chart.Points) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(dash.Chart.Title))

	rows := make([][]string, 0, len(dash.Chart.Points))
	for _, p := range dash.Chart.Points {
		rows = append(rows, []string{
			p.Label,
			numbers.Sprintf("%d", p.Customers),
			numbers.Sprintf("%d", p.Revenue),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("Mês", components.LabelCustomers, components.LabelRevenue).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if col > 0 {
				return s.Align(lipgloss.Right)
			}
			return s
		})
	fmt.Fprintln(w, t.String())
}
