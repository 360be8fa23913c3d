// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides helpers shared across aicrm.
//
// # Key Functions
//
// JSON:
//   - SafeParseJSON: best-effort decode that never fails outward
//   - SafeParseJSONInto: same contract, typed target
//
// Strings:
//   - TruncateRunes, TruncateWidth: UTF-8 and cell-width safe truncation
//   - IsBlank: whitespace-only check used by submission guards
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	var env envelope
//	if !util.SafeParseJSONInto(body, &env) {
//	    return fallback
//	}
package util
