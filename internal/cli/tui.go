// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - The dashboard: `aicrm` or `aicrm tui`.
package cli

import (
	"github.com/jeranaias/aicrm-tui/internal/export"
	"github.com/jeranaias/aicrm-tui/internal/ui/dashboard"
	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// tuiNoKeyWarning is the status bar text when no API key is configured.
const tuiNoKeyWarning = "sem chave de API (GEMINI_API_KEY)"

// HandleTUI runs the dashboard. Logs go to the log file because the
// terminal belongs to the UI.
func HandleTUI(args Args) error {
	if args.JSON {
		return usageError("the dashboard has no JSON mode; try metrics --json")
	}

	app, err := setupApp(args, logFile)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := signalContext()
	defer cancel()

	opts := []dashboard.Option{
		dashboard.WithContext(ctx),
		dashboard.WithLogger(app.Log),
		dashboard.WithModelName(app.ModelName()),
		dashboard.WithMarkdown(app.Config.UI.RenderMarkdown),
	}

	if app.Colors {
		opts = append(opts, dashboard.WithTheme(styles.NewTheme()))
	} else {
		opts = append(opts, dashboard.WithTheme(styles.NewPlainTheme()))
	}

	// A broken seed file should not keep the chat from opening; the panels
	// fall back to the built-in data.
	if store, err := app.OpenStore(ctx); err != nil {
		app.Log.Error().Err(err).Msg("dashboard store unavailable, using built-in data")
	} else {
		opts = append(opts, dashboard.WithStore(store))
	}

	exportOpts := export.DefaultOptions()
	exportOpts.OutputDir = export.DefaultDir()
	opts = append(opts, dashboard.WithExportOptions(exportOpts))

	if !app.Config.HasAPIKey() {
		opts = append(opts, dashboard.WithWarning(tuiNoKeyWarning))
	}

	return dashboard.Run(dashboard.New(app.Session, app.Client, opts...))
}
