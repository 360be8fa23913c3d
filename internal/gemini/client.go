// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/telemetry"
	"github.com/jeranaias/aicrm-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the models collection of the public API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// DefaultTimeout bounds a single call end to end.
	DefaultTimeout = 60 * time.Second

	// FallbackNoResponse is returned when a call succeeds but carries no text.
	FallbackNoResponse = "No response found."

	// FallbackError is returned when the call itself fails.
	FallbackError = "Error generating response. Please try again."

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 8 << 20
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the client.
type ClientConfig struct {
	// BaseURL is the models collection URL; the model name is appended.
	BaseURL string

	// Model is the generation model (default: model.DefaultModel)
	Model string

	// APIKey is sent as the key query parameter. Empty is allowed; the
	// endpoint rejects the call and the client reports FallbackError.
	APIKey string

	// Timeout for a whole call (default: 60s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
		Model:   model.DefaultModel,
		Timeout: DefaultTimeout,
	}
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the outcome of one generate call. Text is always set and is
// safe to display. Failed is true only for transport or endpoint failures;
// an empty but successful response has Failed == false and Text ==
// FallbackNoResponse.
type Result struct {
	Text     string
	Failed   bool
	Err      error
	Usage    UsageMetadata
	Duration time.Duration
}

// =============================================================================
// CLIENT
// =============================================================================

// Client issues generateContent calls. Each Generate makes exactly one HTTP
// request; there is no retry, caching or rate limiting.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	client := gemini.NewClient(&gemini.ClientConfig{APIKey: key})
//	reply := client.Send(ctx, "Resuma a receita do trimestre")
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	log        zerolog.Logger
	metrics    *telemetry.Metrics
	usage      *telemetry.UsageTracker

	emptyKeyOnce sync.Once
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l.With().Str("component", "gemini").Logger()
	}
}

// WithMetrics records call outcomes on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithUsageTracker accumulates token usage on u.
func WithUsageTracker(u *telemetry.UsageTracker) Option {
	return func(c *Client) { c.usage = u }
}

// NewClient creates a client. Zero fields in cfg take their defaults; cfg
// itself is not modified.
func NewClient(cfg *ClientConfig, opts ...Option) *Client {
	config := *DefaultConfig()
	if cfg != nil {
		config.APIKey = cfg.APIKey
		if cfg.BaseURL != "" {
			config.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			config.Model = cfg.Model
		}
		if cfg.Timeout > 0 {
			config.Timeout = cfg.Timeout
		}
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// HasAPIKey reports whether a key is configured.
func (c *Client) HasAPIKey() bool {
	return c.config.APIKey != ""
}

// Endpoint returns the request URL without the key, for display and logs.
func (c *Client) Endpoint() string {
	return c.config.BaseURL + "/" + url.PathEscape(c.config.Model) + ":generateContent"
}

func (c *Client) requestURL() string {
	return c.Endpoint() + "?key=" + url.QueryEscape(c.config.APIKey)
}

// =============================================================================
// GENERATE
// =============================================================================

// Send returns display text for prompt. It never fails: errors become
// FallbackError and empty replies become FallbackNoResponse.
func (c *Client) Send(ctx context.Context, prompt string) string {
	return c.Generate(ctx, prompt).Text
}

// Generate performs one call and reports its outcome. The returned Result
// always carries displayable Text.
func (c *Client) Generate(ctx context.Context, prompt string) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.config.APIKey == "" {
		c.emptyKeyOnce.Do(func() {
			c.log.Warn().Msg("no API key configured; requests will be rejected by the endpoint")
		})
	}

	start := time.Now()
	resp, err := c.do(ctx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		outcome := telemetry.OutcomeNetworkError
		if StatusCode(err) != 0 {
			outcome = telemetry.OutcomeHTTPError
		}
		c.metrics.ObserveGenerate(outcome, elapsed)
		c.usage.Record(telemetry.TokenCount{}, elapsed, true)

		var ce *ClientError
		event := c.log.Warn().Err(err).Dur("duration", elapsed)
		if errors.As(err, &ce) {
			event = event.Str("error_type", ce.Type.String())
		}
		event.Msg("generate failed")

		return Result{Text: FallbackError, Failed: true, Err: err, Duration: elapsed}
	}

	usage := resp.UsageMetadata
	c.usage.Record(telemetry.TokenCount{
		Prompt:     usage.PromptTokenCount,
		Candidates: usage.CandidatesTokenCount,
		Total:      usage.TotalTokenCount,
	}, elapsed, false)

	text, ok := resp.FirstText()
	if !ok {
		c.metrics.ObserveGenerate(telemetry.OutcomeEmpty, elapsed)
		c.log.Info().Dur("duration", elapsed).Int("candidates", len(resp.Candidates)).Msg("response carried no text")
		return Result{Text: FallbackNoResponse, Usage: usage, Duration: elapsed}
	}

	c.metrics.ObserveGenerate(telemetry.OutcomeOK, elapsed)
	c.log.Debug().
		Dur("duration", elapsed).
		Int("prompt_tokens", usage.PromptTokenCount).
		Int("candidate_tokens", usage.CandidatesTokenCount).
		Int("total_tokens", usage.TotalTokenCount).
		Msg("generate ok")

	return Result{Text: text, Usage: usage, Duration: elapsed}
}

// do performs the HTTP exchange. A nil error with an empty response means
// the endpoint answered 2xx but the body held nothing usable.
func (c *Client) do(ctx context.Context, prompt string) (*GenerateResponse, error) {
	body, err := json.Marshal(NewGenerateRequest(prompt))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: stripKey(err, c.config.APIKey)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(stripKey(err, c.config.APIKey))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ce := &ClientError{
			Type:    ErrTypeHTTPStatus,
			Message: "generate request failed",
			Status:  resp.StatusCode,
		}
		var apiErr APIError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			ce.Message = apiErr.Error.Message
		}
		return nil, ce
	}

	var result GenerateResponse
	if !util.SafeParseJSONInto(string(data), &result) {
		return &GenerateResponse{}, nil
	}
	return &result, nil
}
