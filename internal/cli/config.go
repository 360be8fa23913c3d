// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - `aicrm config [show|path|init]`.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/aicrm-tui/internal/config"
	"github.com/jeranaias/aicrm-tui/internal/model"
)

// ConfigShowData is the JSON shape of `aicrm config show --json`.
type ConfigShowData struct {
	Path      string         `json:"path"`
	HasAPIKey bool           `json:"has_api_key"`
	Config    *config.Config `json:"config"`
}

// HandleConfig dispatches the config subcommands. show is the default.
func HandleConfig(args Args) error {
	path, err := resolveConfigPath(args.ConfigPath)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "show":
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		applyColorProfile(ColorsEnabled(cfg.UI.NoColor))
		if args.JSON {
			return writeJSON(os.Stdout, NewJSONResponse(CmdConfig.String(), ConfigShowData{
				Path:      path,
				HasAPIKey: cfg.HasAPIKey(),
				Config:    cfg.Redacted(),
			}), IsStdoutTTY() && !cfg.UI.NoColor)
		}
		printConfig(os.Stdout, path, cfg)
		return nil

	case "path":
		if args.JSON {
			return writeJSON(os.Stdout, NewJSONResponse(CmdConfig.String(), map[string]string{"path": path}), false)
		}
		fmt.Println(path)
		return nil

	case "init":
		return initConfig(os.Stdout, path, args.Force)

	default:
		return usageError("unknown config subcommand %q (want show, path or init)", args.Subcommand)
	}
}

// resolveConfigPath returns the explicit path or the default location.
func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return config.ConfigPath()
}

// initConfig writes the default config. An existing file is kept unless
// force is set.
func initConfig(w io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return usageError("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintln(w, successStyle.Render("Wrote "+path))
	fmt.Fprintln(w, dimStyle.Render("Set GEMINI_API_KEY or edit gemini.api_key to enable the assistant."))
	return nil
}

// printConfig prints the redacted config grouped by section.
func printConfig(w io.Writer, path string, cfg *config.Config) {
	r := cfg.Redacted()

	fmt.Fprintln(w, titleStyle.Render("Configuration"))
	fmt.Fprintln(w, field("File", path))
	fmt.Fprintln(w)

	key := r.Gemini.APIKey
	if key == "" {
		key = "(not set)"
	}
	lines := []string{
		field("Model", r.Gemini.Model+dimStyle.Render("  "+model.DisplayNameFor(r.Gemini.Model))),
		field("Base URL", r.Gemini.BaseURL),
		field("API key", key),
		field("Timeout", r.Gemini.Timeout.String()),
		field("Listen", r.Server.Addr),
		field("CORS origins", strings.Join(r.Server.AllowedOrigins, ", ")),
		field("Seed file", orDefault(r.Dashboard.SeedFile, "(built-in)")),
		field("Database", r.Dashboard.Database),
		field("Log level", r.Log.Level),
		field("Log file", orDefault(r.Log.File, "(default)")),
		field("Markdown", fmt.Sprint(r.UI.RenderMarkdown)),
		field("No color", fmt.Sprint(r.UI.NoColor)),
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}

	if !cfg.HasAPIKey() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, warnStyle.Render("Warning: "+noKeyWarning))
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
