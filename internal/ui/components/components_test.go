// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/storage"
	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

func plainTheme() *styles.Theme {
	return styles.NewPlainTheme()
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestFmtNumber(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{18, "18"},
		{2431, "2,431"},
		{15489, "15,489"},
		{1000000, "1,000,000"},
		{-2400, "-2,400"},
	}

	for _, tc := range tests {
		if got := fmtNumber(tc.input); got != tc.want {
			t.Errorf("fmtNumber(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "olá mundo", 20, "olá mundo"},
		{"wraps", "quantos clientes ativos", 10, "quantos\nclientes\nativos"},
		{"keeps newlines", "a\nb", 10, "a\nb"},
		{"splits long word", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"zero width", "abc def", 0, "abc def"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := wordWrap(tc.text, tc.width); got != tc.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
			}
		})
	}
}

func TestWordWrapWideRunes(t *testing.T) {
	got := wordWrap("日本語テキスト", 6)
	for _, line := range strings.Split(got, "\n") {
		if w := maxLineWidth(line); w > 6 {
			t.Errorf("line %q is %d cells wide, want <= 6", line, w)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{3 * time.Second, "3s"},
		{65 * time.Second, "1m05s"},
		{12*time.Minute + 30*time.Second, "12m30s"},
	}
	for _, tc := range tests {
		if got := formatElapsed(tc.d); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinnerLifecycle(t *testing.T) {
	s := NewSpinner(plainTheme())

	if s.IsActive() {
		t.Fatal("new spinner should be inactive")
	}
	if s.View() != "" {
		t.Errorf("inactive spinner View() = %q, want empty", s.View())
	}

	if cmd := s.Start(); cmd == nil {
		t.Error("Start() should return a tick command")
	}
	if !strings.Contains(s.View(), "Pensando") {
		t.Errorf("active spinner View() = %q, should contain message", s.View())
	}

	s.Stop()
	if _, cmd := s.Update(nil); cmd != nil {
		t.Error("Update() after Stop should not schedule another tick")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessageBubbleAlignment(t *testing.T) {
	theme := plainTheme()

	user := NewMessageBubble(model.NewUserMessage("oi"), theme)
	user.ShowTimestamp = false
	user.SetWidth(40)
	line := strings.Split(user.View(), "\n")[0]
	if !strings.HasSuffix(strings.TrimRight(line, " "), "oi") || !strings.HasPrefix(line, " ") {
		t.Errorf("user bubble should be right aligned, got %q", line)
	}

	bot := NewMessageBubble(model.NewAssistantMessage("olá"), theme)
	bot.ShowTimestamp = false
	bot.SetWidth(40)
	line = strings.Split(bot.View(), "\n")[0]
	if strings.HasPrefix(line, "  ") {
		t.Errorf("assistant bubble should be left aligned, got %q", line)
	}
	if lipgloss.Width(line) != 40 {
		t.Errorf("bubble row width = %d, want 40", lipgloss.Width(line))
	}
}

func TestMessageListOrder(t *testing.T) {
	ml := NewMessageList(plainTheme())
	ml.SetWidth(60)
	ml.SetMessages([]model.Message{
		model.NewUserMessage("primeira"),
		model.NewAssistantMessage("segunda"),
	})
	ml.SetPending("carregando")
	ml.SetError("Error generating response. Please try again.")

	view := ml.View()
	order := []string{"primeira", "segunda", "carregando", "Error generating response"}
	last := -1
	for _, want := range order {
		idx := strings.Index(view, want)
		if idx < 0 {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
		if idx < last {
			t.Errorf("%q rendered out of order", want)
		}
		last = idx
	}
}

func TestMessageListRendererCache(t *testing.T) {
	calls := 0
	ml := NewMessageList(plainTheme())
	ml.SetRenderer(func(content string, width int) (string, error) {
		calls++
		return "**" + content + "**", nil
	})
	ml.SetMessages([]model.Message{model.NewAssistantMessage("resposta")})

	first := ml.View()
	_ = ml.View()
	if calls != 1 {
		t.Errorf("renderer called %d times, want 1", calls)
	}
	if !strings.Contains(first, "**resposta**") {
		t.Errorf("view should use renderer output, got %q", first)
	}

	ml.SetWidth(100)
	_ = ml.View()
	if calls != 2 {
		t.Errorf("resize should invalidate cache, renderer calls = %d", calls)
	}
}

func TestMessageListRendererErrorFallsBack(t *testing.T) {
	ml := NewMessageList(plainTheme())
	ml.SetRenderer(func(string, int) (string, error) { return "", errors.New("boom") })
	ml.SetMessages([]model.Message{model.NewAssistantMessage("texto puro")})

	if view := ml.View(); !strings.Contains(view, "texto puro") {
		t.Errorf("view should fall back to plain text, got %q", view)
	}
}

// =============================================================================
// DASHBOARD PANEL TESTS
// =============================================================================

func TestSidebarView(t *testing.T) {
	s := NewSidebar(plainTheme())
	s.SetHeight(20)
	view := s.View()

	for _, want := range []string{"AI-CRM", "Dashboard", "Atendimento", "Clientes", "Relatórios", "Olá, Ciceliane", "Administradora"} {
		if !strings.Contains(view, want) {
			t.Errorf("sidebar missing %q", want)
		}
	}
	if h := lipgloss.Height(view); h != 20 {
		t.Errorf("sidebar height = %d, want 20", h)
	}
}

func TestHeaderView(t *testing.T) {
	h := NewHeader(plainTheme())
	h.SetWidth(80)
	view := h.View()
	if !strings.Contains(view, "Dashboard") || !strings.Contains(view, "Buscar...") {
		t.Errorf("header = %q", view)
	}
	if w := lipgloss.Width(view); w != 80 {
		t.Errorf("header width = %d, want 80", w)
	}

	h.SetWidth(20)
	if strings.Contains(h.View(), "Buscar") {
		t.Error("narrow header should drop the search box")
	}
}

func TestCardRow(t *testing.T) {
	seed := storage.DefaultSeed()
	view := CardRow(plainTheme(), seed.Metrics, 120)

	for _, want := range []string{"Clientes", "2,431", "Projetos", "18", "Receita", "R$ 15,489", "Ativo", "3"} {
		if !strings.Contains(view, want) {
			t.Errorf("card row missing %q", want)
		}
	}

	wide := lipgloss.Height(view)
	narrow := lipgloss.Height(CardRow(plainTheme(), seed.Metrics, 60))
	if narrow <= wide {
		t.Errorf("narrow card row should stack: wide=%d narrow=%d", wide, narrow)
	}
}

func TestBarLength(t *testing.T) {
	tests := []struct {
		value, max int64
		space      int
		want       int
	}{
		{400, 400, 20, 20},
		{200, 400, 20, 10},
		{1, 10000, 20, 1},
		{0, 400, 20, 0},
		{400, 0, 20, 0},
		{400, 400, 0, 0},
	}
	for _, tc := range tests {
		if got := BarLength(tc.value, tc.max, tc.space); got != tc.want {
			t.Errorf("BarLength(%d, %d, %d) = %d, want %d", tc.value, tc.max, tc.space, got, tc.want)
		}
	}
}

func TestBarChartView(t *testing.T) {
	c := NewBarChart(storage.DefaultSeed().Chart, plainTheme())
	c.Width = 70
	view := c.View()

	for _, want := range []string{"Análise de Clientes e Receita", "Jan", "Jul", "9,800", LabelCustomers, LabelRevenue} {
		if !strings.Contains(view, want) {
			t.Errorf("chart missing %q", want)
		}
	}
	for _, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > 70 {
			t.Errorf("chart line is %d wide, want <= 70: %q", w, line)
		}
	}
}

func TestBarChartEmpty(t *testing.T) {
	c := NewBarChart(storage.Chart{Title: "Vazio"}, plainTheme())
	if view := c.View(); !strings.Contains(view, "Sem dados") {
		t.Errorf("empty chart = %q", view)
	}
}

func TestErrorBanner(t *testing.T) {
	theme := plainTheme()
	if ErrorBanner(theme, "", 40) != "" {
		t.Error("empty message should render nothing")
	}
	view := ErrorBanner(theme, "falhou", 40)
	if !strings.Contains(view, "falhou") {
		t.Errorf("banner = %q", view)
	}
	if !strings.HasPrefix(view, " ") {
		t.Errorf("banner should be centered, got %q", view)
	}
}

func TestStatusBar(t *testing.T) {
	s := NewStatusBar(plainTheme())
	s.Model = "gemini-2.0-flash"
	s.Warning = "no API key configured"
	s.SetWidth(160)

	view := s.View()
	for _, want := range []string{"gemini-2.0-flash", "pronto", "no API key configured", "Ctrl+Y"} {
		if !strings.Contains(view, want) {
			t.Errorf("status bar missing %q: %q", want, view)
		}
	}

	s.Pending = true
	s.Notice = "Copiado"
	view = s.View()
	if !strings.Contains(view, "aguardando") || !strings.Contains(view, "Copiado") {
		t.Errorf("status bar = %q", view)
	}
	if strings.Contains(view, "no API key") {
		t.Error("notice should take the warning's place")
	}

	s.SetWidth(30)
	if strings.Contains(s.View(), "Ctrl+Y") {
		t.Error("narrow status bar should drop shortcuts")
	}
}
