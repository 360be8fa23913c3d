// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger provides structured logging for aicrm.
//
// Loggers are plain zerolog.Logger values. Packages receive one through
// their constructors and derive a component logger from it:
//
//	log := logger.Component(base, "gemini")
//	log.Warn().Int("status", 500).Msg("generate failed")
//
// # Output
//
//   - NewStderr: CLI and serve modes, console formatting on a TTY
//   - NewFile: TUI mode, JSON lines appended to a file
//   - Nop: tests and silent operation
package logger
