// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the dashboard.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar       lipgloss.Style
	SidebarBrand  lipgloss.Style
	NavItem       lipgloss.Style
	NavItemActive lipgloss.Style
	UserBox       lipgloss.Style
	UserName      lipgloss.Style
	UserRole      lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	SearchBox   lipgloss.Style

	// ==========================================================================
	// CARD AND PANEL STYLES
	// ==========================================================================

	Card       lipgloss.Style
	CardTitle  lipgloss.Style
	CardValue  lipgloss.Style
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	// ==========================================================================
	// CHART STYLES
	// ==========================================================================

	ChartLabel     lipgloss.Style
	ChartValue     lipgloss.Style
	ChartCustomers lipgloss.Style
	ChartRevenue   lipgloss.Style

	// ==========================================================================
	// CHAT STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBanner     lipgloss.Style
	Spinner         lipgloss.Style
	Input           lipgloss.Style
	InputFocused    lipgloss.Style
	Placeholder     lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// NewPlainTheme creates a theme that emits no color escape codes, for
// NO_COLOR, --no-color and non-terminal output.
func NewPlainTheme() *Theme {
	lipgloss.SetColorProfile(termenv.Ascii)
	t := &Theme{ColorProfile: termenv.Ascii}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Width(SidebarWidth).
		Padding(1, 2).
		Background(Surface).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay)

	t.SidebarBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(BlueDeep).
		MarginBottom(1)

	t.NavItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true).
		Padding(0, 1)

	t.NavItemActive = t.NavItem.
		Foreground(Blue).
		Background(BlueWash)

	t.UserBox = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.UserName = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.UserRole = lipgloss.NewStyle().Foreground(TextMuted)

	// Header
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.SearchBox = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	// Cards and panels
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 2)

	t.CardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.CardValue = lipgloss.NewStyle().Bold(true)

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	// Chart
	t.ChartLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.ChartValue = lipgloss.NewStyle().Foreground(TextMuted)
	t.ChartCustomers = lipgloss.NewStyle().Foreground(SeriesCustomers)
	t.ChartRevenue = lipgloss.NewStyle().Foreground(SeriesRevenue)

	// Chat
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		Padding(0, 1)

	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(Rose).
		Background(RoseWash).
		Padding(0, 1).
		Align(lipgloss.Center)

	t.Spinner = lipgloss.NewStyle().Foreground(Blue)

	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputFocused = t.Input.BorderForeground(Blue)

	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(Blue)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// CardStyle returns the card style tinted with an accent color.
func (t *Theme) CardStyle(accent string) lipgloss.Style {
	return t.Card.BorderForeground(AccentColor(accent))
}

// CardValueStyle returns the value style tinted with an accent color.
func (t *Theme) CardValueStyle(accent string) lipgloss.Style {
	return t.CardValue.Foreground(AccentColor(accent))
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// SidebarWidth is the fixed sidebar width in wide layouts.
const SidebarWidth = 24

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 80 {
		return LayoutNarrow
	}
	if t.Width < 120 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 80 columns: chat only, no sidebar
	LayoutMedium                   // 80-119 columns: no sidebar, chart beside chat
	LayoutWide                     // >= 120 columns: sidebar, chart beside chat
)

// String returns the layout name.
func (m LayoutMode) String() string {
	switch m {
	case LayoutNarrow:
		return "narrow"
	case LayoutMedium:
		return "medium"
	default:
		return "wide"
	}
}
