// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"github.com/jeranaias/aicrm-tui/internal/gemini"
	"github.com/jeranaias/aicrm-tui/internal/storage"
)

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// ReplyMsg carries the settled result of a generative request.
type ReplyMsg struct {
	Result gemini.Result
}

// DashboardMsg carries freshly loaded cards and chart.
type DashboardMsg struct {
	Dashboard *storage.Dashboard
	Err       error
}

// CopiedMsg reports a clipboard write.
type CopiedMsg struct {
	Chars int
	Err   error
}

// ExportedMsg reports a transcript export.
type ExportedMsg struct {
	Path string
	Err  error
}

// clearNoticeMsg hides the status bar notice if it is still the one with
// the given sequence number.
type clearNoticeMsg struct {
	seq int
}
