// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration management for aicrm.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/jeranaias/aicrm-tui/internal/gemini"
	"github.com/jeranaias/aicrm-tui/internal/logger"
	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DirName is the name of the configuration directory under $HOME.
	DirName = ".aicrm"

	// FileName is the name of the TOML configuration file.
	FileName = "config.toml"

	// DefaultAddr is the listen address used by `aicrm serve`.
	DefaultAddr = ":8787"

	// DefaultLogFile is the log file used in TUI mode, relative to ConfigDir.
	DefaultLogFile = "aicrm.log"

	// MaxTimeout caps the generative request timeout.
	MaxTimeout = 10 * time.Minute
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the main configuration structure for aicrm.
type Config struct {
	Gemini    GeminiConfig    `toml:"gemini" json:"gemini"`
	Server    ServerConfig    `toml:"server" json:"server"`
	Dashboard DashboardConfig `toml:"dashboard" json:"dashboard"`
	Log       LogConfig       `toml:"log" json:"log"`
	UI        UIConfig        `toml:"ui" json:"ui"`
}

// GeminiConfig contains settings for the generative endpoint.
type GeminiConfig struct {
	BaseURL string   `toml:"base_url" json:"base_url"`
	Model   string   `toml:"model" json:"model"`
	APIKey  string   `toml:"api_key" json:"api_key,omitempty"`
	Timeout Duration `toml:"timeout" json:"timeout"`
}

// ServerConfig contains settings for the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr" json:"addr"`
	AllowedOrigins []string `toml:"allowed_origins" json:"allowed_origins"`
}

// DashboardConfig points at the metric data behind the dashboard panels.
// An empty SeedFile means the built-in sample data.
type DashboardConfig struct {
	SeedFile string `toml:"seed_file" json:"seed_file"`
	Database string `toml:"database" json:"database"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `toml:"level" json:"level"`
	File   string `toml:"file" json:"file"`
	Pretty bool   `toml:"pretty" json:"pretty"`
}

// UIConfig contains terminal presentation settings.
type UIConfig struct {
	NoColor        bool `toml:"no_color" json:"no_color"`
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`
}

// Duration is a time.Duration that reads and writes TOML strings like "60s".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			BaseURL: gemini.DefaultBaseURL,
			Model:   model.DefaultModel,
			Timeout: Duration{gemini.DefaultTimeout},
		},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{"*"},
		},
		Dashboard: DashboardConfig{
			Database: ":memory:",
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			RenderMarkdown: true,
		},
	}
}

// SetDefaults fills zero values left behind by a partial config file.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = def.Gemini.BaseURL
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = def.Gemini.Model
	}
	if c.Gemini.Timeout.Duration == 0 {
		c.Gemini.Timeout = def.Gemini.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = def.Server.AllowedOrigins
	}
	if c.Dashboard.Database == "" {
		c.Dashboard.Database = def.Dashboard.Database
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// ClientConfig converts the [gemini] section for the request client.
func (c *Config) ClientConfig() *gemini.ClientConfig {
	return &gemini.ClientConfig{
		BaseURL: c.Gemini.BaseURL,
		Model:   c.Gemini.Model,
		APIKey:  c.Gemini.APIKey,
		Timeout: c.Gemini.Timeout.Duration,
	}
}

// HasAPIKey reports whether an API key is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}

// Redacted returns a copy safe for display, with the API key masked.
func (c *Config) Redacted() *Config {
	cp := *c
	cp.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	if k := cp.Gemini.APIKey; k != "" {
		if len(k) > 8 {
			cp.Gemini.APIKey = k[:4] + strings.Repeat("*", 8)
		} else {
			cp.Gemini.APIKey = strings.Repeat("*", 8)
		}
	}
	return &cp
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the aicrm configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// LogPath returns the log file used in TUI mode.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultLogFile), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens a config file to 0600.
// SECURITY: the file may hold the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the configuration at path, or the default location when path is
// empty. A missing file is not an error. The flow is: defaults, .env, TOML,
// environment overrides, SetDefaults, Validate.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	// .env in the working directory is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log := logger.Default()
		log.Warn().Err(err).Msg("could not load .env")
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads and validates a specific file without consulting the
// environment. The file must exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	log := logger.Default()
	if err := ensureSecurePermissions(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not ensure secure permissions")
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Warn().Strs("keys", keys).Str("path", path).Msg("unknown config keys ignored")
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides holds the environment variables that override the file.
// Empty values leave the file setting alone.
type envOverrides struct {
	APIKey   string        `env:"GEMINI_API_KEY"`
	Model    string        `env:"AICRM_MODEL"`
	BaseURL  string        `env:"AICRM_BASE_URL"`
	Timeout  time.Duration `env:"AICRM_TIMEOUT"`
	Addr     string        `env:"AICRM_ADDR"`
	LogLevel string        `env:"AICRM_LOG_LEVEL"`
	SeedFile string        `env:"AICRM_SEED_FILE"`
	NoColor  string        `env:"NO_COLOR"`
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - GEMINI_API_KEY: overrides gemini.api_key
//   - AICRM_MODEL: overrides gemini.model
//   - AICRM_BASE_URL: overrides gemini.base_url
//   - AICRM_TIMEOUT: overrides gemini.timeout (Go duration, e.g. "30s")
//   - AICRM_ADDR: overrides server.addr
//   - AICRM_LOG_LEVEL: overrides log.level
//   - AICRM_SEED_FILE: overrides dashboard.seed_file
//   - NO_COLOR: any non-empty value sets ui.no_color
func (c *Config) ApplyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if o.APIKey != "" {
		c.Gemini.APIKey = o.APIKey
	}
	if o.Model != "" {
		c.Gemini.Model = o.Model
	}
	if o.BaseURL != "" {
		c.Gemini.BaseURL = o.BaseURL
	}
	if o.Timeout != 0 {
		c.Gemini.Timeout = Duration{o.Timeout}
	}
	if o.Addr != "" {
		c.Server.Addr = o.Addr
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.SeedFile != "" {
		c.Dashboard.SeedFile = o.SeedFile
	}
	if o.NoColor != "" {
		c.UI.NoColor = true
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path.
// SECURITY: written with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# aicrm configuration file\n")
	buf.WriteString("# Generated by aicrm - edit with care\n")
	buf.WriteString("#\n")
	buf.WriteString("# The API key may also come from GEMINI_API_KEY or a .env file.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a field failed validation.
func (e ValidateErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Validate validates the configuration. The returned error, when non-nil, is
// a ValidateErrors listing every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Gemini.Model) == "" {
		errs = append(errs, ValidationError{Field: "gemini.model", Message: "must not be empty"})
	}

	if u, err := url.Parse(c.Gemini.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "gemini.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http or https", c.Gemini.BaseURL),
		})
	}

	if t := c.Gemini.Timeout.Duration; t <= 0 || t > MaxTimeout {
		errs = append(errs, ValidationError{
			Field:   "gemini.timeout",
			Message: fmt.Sprintf("must be between 0 and %s, got %s", MaxTimeout, t),
		})
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, ValidationError{Field: "server.addr", Message: "must not be empty"})
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
		"error": true, "off": true, "disabled": true,
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: trace, debug, info, warn, error, off", c.Log.Level),
		})
	}

	if c.Dashboard.SeedFile != "" {
		if _, err := os.Stat(c.Dashboard.SeedFile); err != nil {
			errs = append(errs, ValidationError{
				Field:   "dashboard.seed_file",
				Message: fmt.Sprintf("cannot read '%s': %v", c.Dashboard.SeedFile, err),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
