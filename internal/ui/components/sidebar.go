// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// =============================================================================
// SIDEBAR COMPONENT
// =============================================================================

// NavItems are the sidebar entries, in display order.
var NavItems = []string{"Dashboard", "Atendimento", "Clientes", "Relatórios"}

// Sidebar renders the brand, navigation and signed-in user.
type Sidebar struct {
	Brand    string
	Items    []string
	Active   int
	UserName string
	UserRole string
	Height   int
	theme    *styles.Theme
}

// NewSidebar creates the sidebar with Dashboard active.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		Brand:    "AI-CRM",
		Items:    NavItems,
		Active:   0,
		UserName: "Olá, Ciceliane",
		UserRole: "Administradora",
		theme:    theme,
	}
}

// SetHeight sets the rendered height so the user box sits at the bottom.
func (s *Sidebar) SetHeight(height int) {
	s.Height = height
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	inner := styles.SidebarWidth - 4
	brand := s.theme.SidebarBrand.Render("[#] " + s.Brand)

	items := make([]string, 0, len(s.Items))
	for i, item := range s.Items {
		style := s.theme.NavItem
		if i == s.Active {
			style = s.theme.NavItemActive
		}
		items = append(items, style.Width(inner).Render(item))
	}
	nav := strings.Join(items, "\n")

	user := s.theme.UserBox.Width(inner).Render(
		s.theme.UserName.Render(s.UserName) + "\n" + s.theme.UserRole.Render(s.UserRole),
	)

	top := lipgloss.JoinVertical(lipgloss.Left, brand, nav)

	// Frame height minus top/bottom padding.
	body := s.Height - 2
	gap := body - lipgloss.Height(top) - lipgloss.Height(user)
	if gap < 1 {
		gap = 1
	}

	return s.theme.Sidebar.Render(top + strings.Repeat("\n", gap+1) + user)
}
