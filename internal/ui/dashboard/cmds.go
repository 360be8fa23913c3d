// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aicrm-tui/internal/export"
	"github.com/jeranaias/aicrm-tui/internal/session"
	"github.com/jeranaias/aicrm-tui/internal/storage"
)

// noticeDuration is how long a status bar notice stays up.
const noticeDuration = 4 * time.Second

// generateCmd performs the request for an accepted submission. It is the
// only place the UI waits on the network.
func generateCmd(ctx context.Context, gen session.Generator, prompt string) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Result: gen.Generate(ctx, prompt)}
	}
}

// loadDashboardCmd reads cards and chart from store, or returns the
// built-in sample data when store is nil.
func loadDashboardCmd(ctx context.Context, store *storage.Store) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			seed := storage.DefaultSeed()
			return DashboardMsg{Dashboard: &storage.Dashboard{Metrics: seed.Metrics, Chart: seed.Chart}}
		}
		dash, err := store.Dashboard(ctx)
		return DashboardMsg{Dashboard: dash, Err: err}
	}
}

// copyCmd writes text with write, normally clipboard.WriteAll.
func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Chars: len([]rune(text)), Err: write(text)}
	}
}

// exportCmd writes the transcript as Markdown.
func exportCmd(snap session.Snapshot, modelName string, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		t := export.FromSnapshot(snap, modelName)
		path, err := export.Export(t, string(export.FormatMarkdown), opts)
		return ExportedMsg{Path: path, Err: err}
	}
}

// clearNoticeCmd schedules removal of notice seq.
func clearNoticeCmd(seq int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}
