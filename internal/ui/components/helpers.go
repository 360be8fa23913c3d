// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jeranaias/aicrm-tui/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

var numberPrinter = message.NewPrinter(language.English)

// fmtNumber formats n with thousand separators.
func fmtNumber(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// wordWrap wraps text at width display cells, keeping existing newlines.
// Words longer than width are hard-split.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		current := ""
		for _, word := range words {
			for util.StringWidth(word) > width {
				if current != "" {
					result.WriteString(current)
					result.WriteString("\n")
					current = ""
				}
				head := splitWidth(word, width)
				result.WriteString(head)
				result.WriteString("\n")
				word = word[len(head):]
			}
			switch {
			case current == "":
				current = word
			case util.StringWidth(current)+1+util.StringWidth(word) <= width:
				current += " " + word
			default:
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			}
		}
		result.WriteString(current)
	}

	return result.String()
}

// splitWidth returns the longest prefix of s that fits in width cells.
func splitWidth(s string, width int) string {
	w := 0
	for i, r := range s {
		rw := util.StringWidth(string(r))
		if w+rw > width {
			if i == 0 {
				// A single rune wider than width still has to make progress.
				return string(r)
			}
			return s[:i]
		}
		w += rw
	}
	return s
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// formatClock formats a timestamp as "15:04".
func formatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
