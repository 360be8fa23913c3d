// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - HTTP API: `aicrm serve`.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jeranaias/aicrm-tui/internal/config"
	"github.com/jeranaias/aicrm-tui/internal/logger"
	"github.com/jeranaias/aicrm-tui/internal/server"
)

// HandleServe serves the API until SIGINT or SIGTERM. Edits to the config
// file are picked up for the log level; other settings need a restart.
func HandleServe(args Args) error {
	app, err := setupApp(args, logDynamic)
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

	cfg := app.Config
	addr := cfg.Server.Addr
	if args.Addr != "" {
		addr = args.Addr
	}

	if !cfg.HasAPIKey() {
		app.Log.Warn().Msg(noKeyWarning)
	}

	srv := server.New(
		server.Config{Addr: addr, AllowedOrigins: cfg.Server.AllowedOrigins},
		app.Session, app.Client, store,
		server.WithLogger(app.Log),
		server.WithMetrics(app.Metrics, app.Registry),
		server.WithModel(app.ModelName()),
	)

	group := server.Group{srv}
	if w := newReloadWatcher(args, app.Log); w != nil {
		group = append(group, w)
	}

	go func() {
		select {
		case <-srv.Ready():
			if !args.Quiet && !args.JSON {
				fmt.Fprintln(os.Stderr, successStyle.Render("Listening on "+srv.Addr()))
			}
		case <-ctx.Done():
		}
	}()

	return group.Run(ctx)
}

// newReloadWatcher watches the config file and applies the log level on
// change. It returns nil when the config directory does not exist.
func newReloadWatcher(args Args, log zerolog.Logger) *config.Watcher {
	path := args.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil
		}
		path = p
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil
	}

	return config.NewWatcher(path, func(cfg *config.Config, err error) {
		if err != nil {
			return
		}
		level := logger.ParseLevel(logLevel(args, cfg))
		zerolog.SetGlobalLevel(level)
		log.Info().Str("level", level.String()).Msg("log level applied")
	}).WithLogger(log)
}
