// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the aicrm
dashboard. Components are plain structs with a View method; the ones that
animate (Spinner) also follow the Bubble Tea Update pattern.

# Layout Components

  - Sidebar - Brand, navigation items and the signed-in user box
  - Header - Page title and search placeholder
  - StatusBar - Model, request state and key hints

# Dashboard Components

  - MetricCard, CardRow - Headline numbers with accent borders
  - BarChart - Monthly customers and revenue as horizontal bars

# Chat Components

  - MessageBubble - One turn; user right aligned, assistant left aligned
  - MessageList - The whole log plus pending spinner and error banner
  - Spinner - Loading indicator shown while a reply is outstanding
  - ErrorBanner - Centered failure notice

All components take a *styles.Theme so NO_COLOR and light/dark terminals are
handled in one place.
*/
package components
