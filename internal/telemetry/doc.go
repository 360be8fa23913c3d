// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry provides Prometheus metrics and in-session usage
// tracking for aicrm.
//
// # Key Types
//
//   - Metrics: Prometheus collectors for generate calls, submissions and
//     the HTTP API
//   - UsageTracker: in-memory token and latency totals for status lines
//
// # Usage
//
//	m := telemetry.NewMetrics(prometheus.DefaultRegisterer)
//	m.ObserveGenerate(telemetry.OutcomeOK, time.Since(start))
//
// Usage data lives only for the life of the process. Prompt text is never
// recorded.
package telemetry
