// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aicrm-tui/internal/export"
	"github.com/jeranaias/aicrm-tui/internal/gemini"
	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/session"
	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// fakeGenerator answers every prompt with a fixed result.
type fakeGenerator struct {
	result gemini.Result
	calls  atomic.Int32
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) gemini.Result {
	g.calls.Add(1)
	return g.result
}

func newTestModel(t *testing.T, gen session.Generator, opts ...Option) Model {
	t.Helper()
	opts = append([]Option{WithTheme(styles.NewPlainTheme())}, opts...)
	m := New(session.New(), gen, opts...)
	return update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// collect runs cmd and any batched commands, returning the messages of
// the given type T.
func collect[T any](cmd tea.Cmd) []T {
	if cmd == nil {
		return nil
	}
	var out []T
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, collect[T](c)...)
		}
	case T:
		out = append(out, msg)
	}
	return out
}

func submit(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

// =============================================================================
// SUBMISSION TESTS
// =============================================================================

func TestSubmitAndReply(t *testing.T) {
	gen := &fakeGenerator{result: gemini.Result{Text: "hi there"}}
	m := newTestModel(t, gen)

	m = typeText(t, m, "hello")
	assert.Equal(t, "hello", m.Session().Input())

	m, cmd := submit(t, m)
	require.NotNil(t, cmd)
	assert.True(t, m.Session().Pending())
	assert.Equal(t, 1, m.Session().Len())
	assert.Empty(t, m.input.Value(), "input should clear on acceptance")

	replies := collect[ReplyMsg](cmd)
	require.Len(t, replies, 1)
	assert.EqualValues(t, 1, gen.calls.Load())

	m = update(t, m, replies[0])
	snap := m.Session().Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, model.RoleUser, snap.Messages[0].Role)
	assert.Equal(t, "hello", snap.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, snap.Messages[1].Role)
	assert.Equal(t, "hi there", snap.Messages[1].Content)
	assert.False(t, snap.Pending())
	assert.False(t, m.spinner.IsActive())
	assert.Contains(t, m.View(), "hi there")
}

func TestSubmitBlankIsNoOp(t *testing.T) {
	gen := &fakeGenerator{}
	m := newTestModel(t, gen)

	m = typeText(t, m, "   ")
	m, cmd := submit(t, m)

	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Session().Len())
	assert.False(t, m.Session().Pending())
	assert.Equal(t, "   ", m.input.Value(), "rejected input stays in the box")
}

func TestSubmitWhilePendingIsNoOp(t *testing.T) {
	gen := &fakeGenerator{result: gemini.Result{Text: "ok"}}
	m := newTestModel(t, gen)

	m = typeText(t, m, "first")
	m, _ = submit(t, m)
	m = typeText(t, m, "second")
	m, cmd := submit(t, m)

	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Session().Len())
	assert.Equal(t, "second", m.input.Value())
	assert.EqualValues(t, 0, gen.calls.Load(), "no request runs until commands execute")
}

func TestFailedReplyShowsBanner(t *testing.T) {
	gen := &fakeGenerator{result: gemini.Result{Text: gemini.FallbackError, Failed: true}}
	m := newTestModel(t, gen)

	m = typeText(t, m, "hello")
	m, cmd := submit(t, m)
	replies := collect[ReplyMsg](cmd)
	require.Len(t, replies, 1)
	m = update(t, m, replies[0])

	snap := m.Session().Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, gemini.FallbackError, snap.Err)
	assert.False(t, snap.Pending())
	assert.Contains(t, m.View(), "Error generating response")
}

// =============================================================================
// SHORTCUT TESTS
// =============================================================================

func settle(t *testing.T, m Model, text string) Model {
	t.Helper()
	m = typeText(t, m, text)
	m, cmd := submit(t, m)
	for _, r := range collect[ReplyMsg](cmd) {
		m = update(t, m, r)
	}
	return m
}

func TestCopyLastReply(t *testing.T) {
	var copied string
	gen := &fakeGenerator{result: gemini.Result{Text: "Temos 2,431 clientes."}}
	m := newTestModel(t, gen, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = next.(Model)
	assert.Equal(t, noticeNothingCopy, m.Notice())
	assert.NotNil(t, cmd)

	m = settle(t, m, "quantos clientes?")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = next.(Model)
	msgs := collect[CopiedMsg](cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Temos 2,431 clientes.", copied)

	m = update(t, m, msgs[0])
	assert.Contains(t, m.Notice(), noticeCopied)
}

func TestCopyFailureNotice(t *testing.T) {
	gen := &fakeGenerator{result: gemini.Result{Text: "ok"}}
	m := newTestModel(t, gen, WithClipboard(func(string) error {
		return errors.New("no clipboard")
	}))
	m = settle(t, m, "oi")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	msgs := collect[CopiedMsg](cmd)
	require.Len(t, msgs, 1)
	m = update(t, m, msgs[0])
	assert.Contains(t, m.Notice(), "no clipboard")
}

func TestExportTranscript(t *testing.T) {
	dir := t.TempDir()
	opts := export.DefaultOptions()
	opts.OutputDir = dir

	gen := &fakeGenerator{result: gemini.Result{Text: "Receita de R$ 15,489."}}
	m := newTestModel(t, gen, WithExportOptions(opts), WithModelName("test-model"))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, noticeNothingSave, next.(Model).Notice())

	m = settle(t, m, "qual a receita?")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	msgs := collect[ExportedMsg](cmd)
	require.Len(t, msgs, 1)
	require.NoError(t, msgs[0].Err)
	assert.True(t, strings.HasPrefix(msgs[0].Path, dir))

	data, err := os.ReadFile(msgs[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "qual a receita?")
	assert.Contains(t, string(data), "Receita de R$ 15,489.")
}

func TestNewConversation(t *testing.T) {
	gen := &fakeGenerator{result: gemini.Result{Text: "ok"}}
	m := newTestModel(t, gen)

	m = typeText(t, m, "hello")
	m, cmd := submit(t, m)

	// Refused while the reply is outstanding.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, noticeBusy, m.Notice())
	assert.Equal(t, 1, m.Session().Len())

	for _, r := range collect[ReplyMsg](cmd) {
		m = update(t, m, r)
	}
	id := m.Session().Snapshot().ConversationID

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, noticeNew, m.Notice())
	assert.Equal(t, 0, m.Session().Len())
	assert.NotEqual(t, id, m.Session().Snapshot().ConversationID)
}

func TestNoticeClears(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	seq := m.noticeSeq

	m = update(t, m, clearNoticeMsg{seq: seq - 1})
	assert.NotEmpty(t, m.Notice(), "stale clear should be ignored")

	m = update(t, m, clearNoticeMsg{seq: seq})
	assert.Empty(t, m.Notice())
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{})
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := m.Update(tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "%v should quit", k)
	}
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestInitLoadsBuiltInDashboard(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{})
	assert.Nil(t, m.Dashboard())

	msgs := collect[DashboardMsg](loadDashboardCmd(context.Background(), nil))
	require.Len(t, msgs, 1)
	m = update(t, m, msgs[0])
	require.NotNil(t, m.Dashboard())
	assert.Len(t, m.Dashboard().Metrics, 4)
}

func TestViewWideLayout(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{})
	m = update(t, m, collect[DashboardMsg](loadDashboardCmd(context.Background(), nil))[0])

	view := m.View()
	for _, want := range []string{
		"AI-CRM", "Olá, Ciceliane", "Buscar...",
		"Clientes", "2,431", "R$ 15,489",
		"Análise de Clientes e Receita",
		ChatTitle,
		// The first placeholder rune is drawn under the cursor.
		Placeholder[1:],
	} {
		assert.Contains(t, view, want)
	}
}

func TestViewNarrowLayout(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{})
	m = update(t, m, collect[DashboardMsg](loadDashboardCmd(context.Background(), nil))[0])
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})

	view := m.View()
	assert.NotContains(t, view, "AI-CRM")
	assert.NotContains(t, view, "Análise de Clientes")
	assert.Contains(t, view, ChatTitle)
}

func TestViewBeforeResize(t *testing.T) {
	m := New(session.New(), &fakeGenerator{}, WithTheme(styles.NewPlainTheme()))
	assert.Equal(t, "Carregando...", m.View())
}

func TestComputeLayout(t *testing.T) {
	theme := styles.NewPlainTheme()

	theme.SetSize(140, 40)
	wide := computeLayout(theme, 140, 40)
	assert.Equal(t, styles.LayoutWide, wide.mode)
	assert.Equal(t, 140-styles.SidebarWidth-1, wide.mainWidth)
	assert.Equal(t, wide.mainWidth, wide.chartWidth+wide.chatWidth)

	theme.SetSize(60, 20)
	narrow := computeLayout(theme, 60, 20)
	assert.Equal(t, 0, narrow.chartWidth)
	assert.Equal(t, 60, narrow.chatWidth)
	assert.GreaterOrEqual(t, narrow.bodyHeight, chatChrome+1)
}
