// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared wiring for every command that talks to the model.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/aicrm-tui/internal/config"
	"github.com/jeranaias/aicrm-tui/internal/gemini"
	"github.com/jeranaias/aicrm-tui/internal/logger"
	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/session"
	"github.com/jeranaias/aicrm-tui/internal/storage"
	"github.com/jeranaias/aicrm-tui/internal/telemetry"
)

// logTarget selects where an App logs.
type logTarget int

const (
	// logStderr writes to stderr at the configured level.
	logStderr logTarget = iota
	// logFile appends to the log file; the TUI owns the terminal.
	logFile
	// logDynamic writes to stderr and filters through the global zerolog
	// level, so a config reload can change it.
	logDynamic
)

// App bundles the components built from the config.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Registry *prometheus.Registry
	Metrics  *telemetry.Metrics
	Usage    *telemetry.UsageTracker
	Client   *gemini.Client
	Session  *session.Session

	// Colors reports whether styled output is enabled.
	Colors bool

	closers []io.Closer
}

// defaultModelName is the model shown in help.
func defaultModelName() string {
	return model.DefaultModel
}

// logLevel resolves the effective level: flags beat the config.
func logLevel(args Args, cfg *config.Config) string {
	switch {
	case args.Verbose:
		return "debug"
	case args.Quiet:
		return "warn"
	default:
		return cfg.Log.Level
	}
}

// loadConfig loads the config and applies the global flag overrides.
func loadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Err: fmt.Errorf("load config: %w", err)}
	}
	if args.Model != "" {
		cfg.Gemini.Model = args.Model
	}
	if args.NoColor {
		cfg.UI.NoColor = true
	}
	return cfg, nil
}

// setupApp loads the config and builds the logger, metrics, client and
// session. Close must be called when done.
func setupApp(args Args, target logTarget) (*App, error) {
	cfg, err := loadConfig(args)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg}
	app.Colors = ColorsEnabled(cfg.UI.NoColor)
	applyColorProfile(app.Colors)

	level := logLevel(args, cfg)
	switch target {
	case logFile:
		path, err := cfg.LogPath()
		if err != nil {
			return nil, err
		}
		l, closer, err := logger.NewFile(path, level)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		app.Log = l
		app.closers = append(app.closers, closer)
	case logDynamic:
		app.Log = logger.NewStderr("trace")
		zerolog.SetGlobalLevel(logger.ParseLevel(level))
	default:
		app.Log = logger.NewStderr(level)
	}
	logger.SetDefault(app.Log)

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = telemetry.NewMetrics(app.Registry)
	app.Usage = telemetry.NewUsageTracker()

	app.Client = gemini.NewClient(cfg.ClientConfig(),
		gemini.WithLogger(app.Log),
		gemini.WithMetrics(app.Metrics),
		gemini.WithUsageTracker(app.Usage),
	)
	app.Session = session.New(
		session.WithLogger(app.Log),
		session.WithMetrics(app.Metrics),
	)

	app.Log.Debug().
		Str("model", cfg.Gemini.Model).
		Bool("api_key", cfg.HasAPIKey()).
		Msg("app initialized")
	return app, nil
}

// OpenStore opens the dashboard store and closes it with the app.
func (a *App) OpenStore(ctx context.Context) (*storage.Store, error) {
	st, err := storage.OpenSeeded(ctx, a.Config.Dashboard.Database, a.Config.Dashboard.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("open dashboard store: %w", err)
	}
	a.closers = append(a.closers, st)
	return st, nil
}

// ModelName returns the configured model.
func (a *App) ModelName() string {
	return a.Client.Model()
}

// Close releases everything the app opened, newest first.
func (a *App) Close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// noKeyWarning is shown wherever a request would go out without a key.
const noKeyWarning = "no API key configured; set GEMINI_API_KEY or gemini.api_key"
