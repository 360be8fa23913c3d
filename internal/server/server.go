// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the aicrm HTTP API.
//
// Endpoints:
//   - POST   /api/chat         - Submit a message and wait for the reply
//   - GET    /api/conversation - Current conversation snapshot
//   - DELETE /api/conversation - Start a new conversation
//   - GET    /api/dashboard    - Metric cards and chart series
//   - GET    /api/dashboard/metrics/{key} - One metric card
//   - PUT    /api/dashboard/metrics/{key} - Update a card value
//   - GET    /api/health       - Health check
//   - GET    /metrics          - Prometheus exposition
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jeranaias/aicrm-tui/internal/gemini"
	"github.com/jeranaias/aicrm-tui/internal/logger"
	"github.com/jeranaias/aicrm-tui/internal/session"
	"github.com/jeranaias/aicrm-tui/internal/storage"
	"github.com/jeranaias/aicrm-tui/internal/telemetry"
	"github.com/jeranaias/aicrm-tui/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8787"

	// MaxRequestBodySize is the maximum size for request bodies (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout = 10 * time.Second
)

// Error messages returned to clients.
const (
	msgMessageRequired = "message is required"
	msgReplyPending    = "a reply is already pending"
	msgInvalidJSON     = "invalid JSON body"
	msgBodyTooLarge    = "request body too large"
	msgMetricNotFound  = "metric not found"
)

// ErrAlreadyServing is returned by Serve when the server was started before.
var ErrAlreadyServing = errors.New("server already started")

// ============================================================================
// SERVER
// ============================================================================

// Config holds the HTTP settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

// Server serves the chat session and dashboard over HTTP.
type Server struct {
	cfg      Config
	router   *chi.Mux
	sess     *session.Session
	gen      session.Generator
	store    *storage.Store
	model    string
	metrics  *telemetry.Metrics
	gatherer prometheus.Gatherer
	log      zerolog.Logger
	started  time.Time

	// ready is closed once the listener is bound; addr is valid after.
	ready     chan struct{}
	readyOnce sync.Once
	addr      string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = logger.Component(l, "server") }
}

// WithMetrics records HTTP metrics in m and serves g on /metrics.
func WithMetrics(m *telemetry.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithModel sets the model name reported by /api/health.
func WithModel(name string) Option {
	return func(s *Server) { s.model = name }
}

// New creates a server around an existing session. store may be nil, in
// which case /api/dashboard answers 503.
func New(cfg Config, sess *session.Session, gen session.Generator, store *storage.Store, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		cfg:     cfg,
		sess:    sess,
		gen:     gen,
		store:   store,
		log:     logger.Component(logger.Nop(), "server"),
		started: time.Now(),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}

	s.router = chi.NewRouter()
	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(RecoveryMiddleware(s.log))
	r.Use(LoggingMiddleware(s.log, s.metrics))
	r.Use(SecurityHeadersMiddleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))
	r.Use(MaxBodyMiddleware(MaxRequestBodySize))

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/conversation", s.handleConversation)
		r.Delete("/conversation", s.handleReset)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/dashboard/metrics/{key}", s.handleMetric)
		r.Put("/dashboard/metrics/{key}", s.handleSetMetric)
		r.Get("/health", s.handleHealth)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ============================================================================
// CHAT HANDLERS
// ============================================================================

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply to POST /api/chat.
type ChatResponse struct {
	Reply        string           `json:"reply"`
	Failed       bool             `json:"failed"`
	Conversation session.Snapshot `json:"conversation"`
}

// handleChat handles POST /api/chat. It holds the request open until the
// generative call settles.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, msgMessageRequired)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if util.IsBlank(req.Message) {
		writeError(w, http.StatusBadRequest, msgMessageRequired)
		return
	}

	// A caller that disconnects only abandons the response. The generative
	// call still settles the shared session.
	ctx := context.WithoutCancel(r.Context())
	result, ok := s.sess.Exchange(ctx, s.gen, req.Message)
	if !ok {
		writeError(w, http.StatusConflict, msgReplyPending)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Reply:        result.Text,
		Failed:       result.Failed,
		Conversation: s.sess.Snapshot(),
	})
}

// handleConversation handles GET /api/conversation.
func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

// handleReset handles DELETE /api/conversation.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !s.sess.Reset() {
		writeError(w, http.StatusConflict, msgReplyPending)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// DASHBOARD AND HEALTH HANDLERS
// ============================================================================

// handleDashboard handles GET /api/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "dashboard store not configured")
		return
	}
	dash, err := s.store.Dashboard(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("dashboard query failed")
		writeError(w, http.StatusInternalServerError, "dashboard unavailable")
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// MetricUpdate is the body of PUT /api/dashboard/metrics/{key}.
type MetricUpdate struct {
	Value *int64 `json:"value"`
}

// handleMetric handles GET /api/dashboard/metrics/{key}.
func (s *Server) handleMetric(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "dashboard store not configured")
		return
	}
	m, err := s.store.Metric(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleSetMetric handles PUT /api/dashboard/metrics/{key}. Only the value
// of an existing card can change.
func (s *Server) handleSetMetric(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "dashboard store not configured")
		return
	}
	var req MetricUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	key := chi.URLParam(r, "key")
	if err := s.store.SetMetric(r.Context(), key, *req.Value); err != nil {
		s.writeStoreError(w, err)
		return
	}
	m, err := s.store.Metric(r.Context(), key)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.log.Info().Str("key", key).Int64("value", m.Value).Msg("metric updated")
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgMetricNotFound)
		return
	}
	s.log.Error().Err(err).Msg("metric query failed")
	writeError(w, http.StatusInternalServerError, "dashboard unavailable")
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	State   string `json:"state"`
	Uptime  string `json:"uptime"`
	Warning string `json:"warning,omitempty"`
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Model:  s.model,
		State:  s.sess.State().String(),
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}
	if c, ok := s.gen.(*gemini.Client); ok && !c.HasAPIKey() {
		resp.Warning = "no API key configured"
	}
	writeJSON(w, http.StatusOK, resp)
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Name identifies the server in a service group.
func (s *Server) Name() string {
	return "http server"
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. A Server serves once; later calls
// close ln and return ErrAlreadyServing.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	first := false
	s.readyOnce.Do(func() {
		first = true
		s.addr = ln.Addr().String()
		close(s.ready)
	})
	if !first {
		ln.Close()
		return ErrAlreadyServing
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Chat requests wait on the generative endpoint.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	s.log.Info().Str("addr", s.addr).Msg("server started")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address. It is empty until Ready is closed.
func (s *Server) Addr() string {
	select {
	case <-s.ready:
		return s.addr
	default:
		return ""
	}
}

// ============================================================================
// HELPERS
// ============================================================================

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
