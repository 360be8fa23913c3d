// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.5-flash-preview-05-20"

// ModelInfo describes a known generation model.
type ModelInfo struct {
	ID          string
	DisplayName string
	Description string
	Preview     bool
}

// KnownModels lists models the client has been used against. Other IDs are
// still accepted and passed through unchanged.
var KnownModels = []ModelInfo{
	{
		ID:          "gemini-2.5-flash-preview-05-20",
		DisplayName: "Gemini 2.5 Flash (preview 05-20)",
		Description: "Fast multimodal model, default for the dashboard assistant",
		Preview:     true,
	},
	{
		ID:          "gemini-2.5-flash",
		DisplayName: "Gemini 2.5 Flash",
		Description: "Stable fast model",
	},
	{
		ID:          "gemini-2.5-pro",
		DisplayName: "Gemini 2.5 Pro",
		Description: "Higher quality, higher latency",
	},
	{
		ID:          "gemini-2.0-flash",
		DisplayName: "Gemini 2.0 Flash",
		Description: "Previous generation fast model",
	},
}

// GetModelInfo looks up a model by ID, case-insensitively.
func GetModelInfo(id string) (ModelInfo, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, m := range KnownModels {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// DisplayNameFor returns the display name for id, or id itself when unknown.
func DisplayNameFor(id string) string {
	if m, ok := GetModelInfo(id); ok {
		return m.DisplayName
	}
	return id
}
