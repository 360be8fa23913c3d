// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jeranaias/aicrm-tui/internal/logger"
)

// previewRunes bounds how much of a bad payload is copied into the log.
const previewRunes = 120

var errBlankJSON = errors.New("empty input")

// SafeParseJSON decodes text into a generic value. On any failure it logs a
// diagnostic and returns (nil, false); it never returns an error or panics.
// A literal "null" decodes successfully to (nil, true).
func SafeParseJSON(text string) (any, bool) {
	var v any
	if !SafeParseJSONInto(text, &v) {
		return nil, false
	}
	return v, true
}

// SafeParseJSONInto decodes text into v with the same contract as
// SafeParseJSON. v must be a non-nil pointer.
func SafeParseJSONInto(text string, v any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logParseFailure(text, errors.New("decoder panic"))
			ok = false
		}
	}()

	if strings.TrimSpace(text) == "" {
		logParseFailure(text, errBlankJSON)
		return false
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		logParseFailure(text, err)
		return false
	}
	return true
}

func logParseFailure(text string, err error) {
	log := logger.Default()
	log.Warn().
		Str("component", "json").
		Err(err).
		Int("bytes", len(text)).
		Str("preview", TruncateRunes(text, previewRunes)).
		Msg("failed to parse JSON")
}
