// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes in-session transcripts to Markdown or JSON.
//
// Export only happens on an explicit user action (Ctrl+E in the dashboard,
// /export in the REPL). Nothing is persisted automatically.
//
// # Key Types
//
//   - Transcript: Messages plus identifying metadata
//   - Exporter: Format-specific encoder
//   - Options: Output location and Markdown layout
//
// # Usage
//
//	t := export.FromSnapshot(sess.Snapshot(), cfg.Gemini.Model)
//	path, err := export.Export(t, "md", nil)
package export
