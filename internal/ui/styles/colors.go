// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the aicrm dashboard.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Blue - Brand, active navigation, focus ring
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// BlueDeep - Brand text
var BlueDeep = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#93C5FD"}

// BlueWash - Active navigation background
var BlueWash = lipgloss.AdaptiveColor{Light: "#EFF6FF", Dark: "#1E3A5F"}

// =============================================================================
// CARD ACCENT COLORS
// =============================================================================

// Green - Projects card
var Green = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}

// Purple - Revenue card
var Purple = lipgloss.AdaptiveColor{Light: "#9333EA", Dark: "#C084FC"}

// Orange - Active card
var Orange = lipgloss.AdaptiveColor{Light: "#EA580C", Dark: "#FB923C"}

// AccentColor maps a seed accent name to its color. Unknown names fall back
// to Blue.
func AccentColor(name string) lipgloss.AdaptiveColor {
	switch name {
	case "green":
		return Green
	case "purple":
		return Purple
	case "orange":
		return Orange
	default:
		return Blue
	}
}

// =============================================================================
// CHART SERIES COLORS
// =============================================================================

// SeriesCustomers - Customers bars
var SeriesCustomers = lipgloss.AdaptiveColor{Light: "#8884D8", Dark: "#A5A1F0"}

// SeriesRevenue - Revenue bars
var SeriesRevenue = lipgloss.AdaptiveColor{Light: "#82CA9D", Dark: "#9EE0B6"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors and the error banner
var Rose = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FCA5A5"}

// RoseWash - Error banner background
var RoseWash = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#7F1D1D"}

// Amber - Warnings such as a missing API key
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Emerald - Success notices
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Panels and cards
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1F2937"}

// SurfaceDim - User box and chat scroll area
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}

// =============================================================================
// TEXT COLORS
// =============================================================================

var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F3F4F6"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - solid blue, right aligned
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#2563EB"}
var UserBubbleFg = TextInverse

// Assistant message bubble - gray, left aligned
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
var AssistantBubbleFg = TextPrimary

// =============================================================================
// ACCESSIBILITY: Shapes alongside colors
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators keep status readable without color.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// RenderSuccess renders a success message with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info message with its indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Blue).
		Render(StatusIndicators.Info + " " + message)
}
