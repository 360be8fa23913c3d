// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aicrm-tui/internal/ui/components"
	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// =============================================================================
// LAYOUT
// =============================================================================

// Fixed heights of the non-scrolling rows.
const (
	headerHeight = 3 // rounded border around one line
	cardsHeight  = 4 // rounded border around title and value
	statusHeight = 1
	// Chat panel chrome: border (2), title and its margin (2), input box (3).
	chatChrome = 7
)

// layout is derived from the window size on every resize.
type layout struct {
	mode       styles.LayoutMode
	mainWidth  int
	chartWidth int
	chatWidth  int
	bodyHeight int
}

func computeLayout(theme *styles.Theme, width, height int) layout {
	l := layout{mode: theme.GetLayoutMode(), mainWidth: width}

	used := headerHeight + statusHeight
	switch l.mode {
	case styles.LayoutWide:
		// Sidebar plus its right border.
		l.mainWidth = width - styles.SidebarWidth - 1
		fallthrough
	case styles.LayoutMedium:
		l.chartWidth = l.mainWidth * 2 / 5
		used += cardsHeight
	}
	l.chatWidth = l.mainWidth - l.chartWidth
	l.bodyHeight = max(height-used, chatChrome+1)
	return l
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.layout = computeLayout(m.theme, msg.Width, msg.Height)

	// Panel border and padding take four columns.
	m.viewport.Width = max(m.layout.chatWidth-4, 10)
	m.viewport.Height = max(m.layout.bodyHeight-chatChrome, 1)

	// Input box border and padding (4), prompt (2), cursor (1).
	m.input.Width = max(m.layout.chatWidth-4-7, 5)

	m.header.SetWidth(m.layout.mainWidth)
	m.status.SetWidth(msg.Width)
	m.sidebar.SetHeight(msg.Height - statusHeight)

	m.ready = true
	m.refreshChat(true)
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the dashboard.
func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}

	rows := []string{m.header.View()}
	if m.layout.mode != styles.LayoutNarrow {
		rows = append(rows, m.renderCards())
	}
	rows = append(rows, m.renderBody())
	main := lipgloss.JoinVertical(lipgloss.Left, rows...)

	if m.layout.mode == styles.LayoutWide {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
	}

	snap := m.sess.Snapshot()
	m.status.Pending = snap.Pending()
	m.status.Notice = m.notice
	return lipgloss.JoinVertical(lipgloss.Left, main, m.status.View())
}

func (m Model) renderCards() string {
	if m.dash == nil {
		return m.theme.Muted.Height(cardsHeight).Render("Carregando painel...")
	}
	return components.CardRow(m.theme, m.dash.Metrics, m.layout.mainWidth)
}

// renderBody places the chart beside the chat panel when there is room.
func (m Model) renderBody() string {
	chat := m.renderChat()
	if m.layout.chartWidth == 0 || m.dash == nil {
		return chat
	}
	chart := components.NewBarChart(m.dash.Chart, m.theme)
	chart.Width = m.layout.chartWidth
	return lipgloss.JoinHorizontal(lipgloss.Top, chart.View(), chat)
}

func (m Model) renderChat() string {
	title := m.theme.PanelTitle.Render(ChatTitle)

	inputStyle := m.theme.InputFocused
	if m.sess.Pending() {
		// Submissions are refused while pending; show the box as inactive.
		inputStyle = m.theme.Input
	}
	input := inputStyle.Width(max(m.layout.chatWidth-6, 1)).Render(m.input.View())

	body := strings.Join([]string{title, m.viewport.View(), input}, "\n")
	return m.theme.Panel.
		Width(max(m.layout.chatWidth-2, 1)).
		Height(max(m.layout.bodyHeight-2, 1)).
		Render(body)
}
