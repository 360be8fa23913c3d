// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"fmt"
	"sync"
	"time"
)

// =============================================================================
// USAGE TRACKER
// =============================================================================

// TokenCount tracks prompt/candidate tokens as reported by the endpoint.
type TokenCount struct {
	Prompt     int `json:"prompt"`
	Candidates int `json:"candidates"`
	Total      int `json:"total"`
}

// Add returns the sum of two counts.
func (t TokenCount) Add(o TokenCount) TokenCount {
	return TokenCount{
		Prompt:     t.Prompt + o.Prompt,
		Candidates: t.Candidates + o.Candidates,
		Total:      t.Total + o.Total,
	}
}

// UsageSummary aggregates the current process's requests. Nothing is
// written to disk.
type UsageSummary struct {
	StartTime     time.Time     `json:"start_time"`
	Requests      int           `json:"requests"`
	Failures      int           `json:"failures"`
	Tokens        TokenCount    `json:"tokens"`
	TotalDuration time.Duration `json:"total_duration"`
	LastDuration  time.Duration `json:"last_duration"`
}

// AverageDuration returns the mean request latency.
func (s UsageSummary) AverageDuration() time.Duration {
	if s.Requests == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Requests)
}

// String formats the summary for status lines.
// Format: "3 requests | 1 failed | 1204 tokens | avg 1.8s"
func (s UsageSummary) String() string {
	if s.Requests == 0 {
		return "no requests yet"
	}
	out := fmt.Sprintf("%d requests", s.Requests)
	if s.Failures > 0 {
		out += fmt.Sprintf(" | %d failed", s.Failures)
	}
	if s.Tokens.Total > 0 {
		out += fmt.Sprintf(" | %d tokens", s.Tokens.Total)
	}
	return out + fmt.Sprintf(" | avg %.1fs", s.AverageDuration().Seconds())
}

// UsageTracker accumulates per-request usage. Safe for concurrent use.
type UsageTracker struct {
	mu      sync.Mutex
	summary UsageSummary
}

// NewUsageTracker creates a tracker starting now.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{summary: UsageSummary{StartTime: time.Now()}}
}

// Record adds one request.
func (u *UsageTracker) Record(tokens TokenCount, d time.Duration, failed bool) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	u.summary.Requests++
	if failed {
		u.summary.Failures++
	}
	u.summary.Tokens = u.summary.Tokens.Add(tokens)
	u.summary.TotalDuration += d
	u.summary.LastDuration = d
}

// Summary returns a snapshot.
func (u *UsageTracker) Summary() UsageSummary {
	if u == nil {
		return UsageSummary{}
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.summary
}
