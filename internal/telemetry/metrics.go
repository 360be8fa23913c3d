// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry provides Prometheus metrics and in-session usage
// tracking for aicrm.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generate outcomes recorded by the request client.
const (
	OutcomeOK           = "ok"
	OutcomeEmpty        = "empty"
	OutcomeHTTPError    = "http_error"
	OutcomeNetworkError = "network_error"
)

// Submission results recorded by the session.
const (
	SubmitAccepted = "accepted"
	SubmitBlank    = "blank"
	SubmitBusy     = "busy"
)

// =============================================================================
// METRICS
// =============================================================================

// Metrics holds every Prometheus collector aicrm exports. All methods are
// safe on a nil receiver so components can run without metrics.
type Metrics struct {
	GenerateTotal    *prometheus.CounterVec
	GenerateDuration prometheus.Histogram
	SubmissionsTotal *prometheus.CounterVec
	RepliesPending   prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors on reg. Pass
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		GenerateTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aicrm_gemini_requests_total",
				Help: "Total generateContent calls by outcome",
			},
			[]string{"outcome"},
		),
		GenerateDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "aicrm_gemini_request_duration_seconds",
				Help:    "Duration of generateContent calls in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
			},
		),
		SubmissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aicrm_chat_submissions_total",
				Help: "Chat submissions by result",
			},
			[]string{"result"},
		),
		RepliesPending: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "aicrm_chat_replies_pending",
				Help: "1 while a reply is outstanding",
			},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aicrm_http_requests_total",
				Help: "HTTP API requests by route and status code",
			},
			[]string{"route", "code"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aicrm_http_request_duration_seconds",
				Help:    "HTTP API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// ObserveGenerate records one generateContent call.
func (m *Metrics) ObserveGenerate(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.GenerateTotal.WithLabelValues(outcome).Inc()
	m.GenerateDuration.Observe(d.Seconds())
}

// ObserveSubmission records one submit attempt.
func (m *Metrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(result).Inc()
}

// SetPending mirrors the session lifecycle.
func (m *Metrics) SetPending(pending bool) {
	if m == nil {
		return
	}
	if pending {
		m.RepliesPending.Set(1)
	} else {
		m.RepliesPending.Set(0)
	}
}

// ObserveHTTP records one HTTP API request.
func (m *Metrics) ObserveHTTP(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}
