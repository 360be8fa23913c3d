// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the aicrm dashboard.

# Color System (colors.go)

Every color is a Lip Gloss AdaptiveColor, so light and dark terminals both
get readable contrast.

  - Blue - Brand, active navigation, focus ring
  - Green, Purple, Orange - Metric card accents, selected by AccentColor
  - SeriesCustomers, SeriesRevenue - Chart series
  - Rose, RoseWash - Error banner
  - UserBubbleBg/Fg, AssistantBubbleBg/Fg - Chat bubbles

Status messages pair color with an ASCII indicator (see StatusIndicators).

# Theme (theme.go)

NewTheme detects the terminal profile with termenv. NewPlainTheme forces the
Ascii profile for NO_COLOR and --no-color.

Layout modes follow terminal width:

	LayoutNarrow  - < 80 columns, chat only
	LayoutMedium  - 80-119 columns, no sidebar, chart beside chat
	LayoutWide    - >= 120 columns, sidebar, chart beside chat
*/
package styles
