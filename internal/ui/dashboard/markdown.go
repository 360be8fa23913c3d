// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"github.com/charmbracelet/glamour"
)

// markdown renders assistant replies with glamour. A renderer is built per
// wrap width and reused until the width changes.
type markdown struct {
	plain    bool
	width    int
	renderer *glamour.TermRenderer
}

// Render implements components.Renderer.
func (md *markdown) Render(content string, width int) (string, error) {
	if md.renderer == nil || md.width != width {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
		if md.plain {
			opts = append(opts, glamour.WithStandardStyle("notty"))
		} else {
			opts = append(opts, glamour.WithAutoStyle())
		}
		r, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return "", err
		}
		md.renderer = r
		md.width = width
	}
	return md.renderer.Render(content)
}
