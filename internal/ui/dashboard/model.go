// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/jeranaias/aicrm-tui/internal/export"
	"github.com/jeranaias/aicrm-tui/internal/logger"
	"github.com/jeranaias/aicrm-tui/internal/session"
	"github.com/jeranaias/aicrm-tui/internal/storage"
	"github.com/jeranaias/aicrm-tui/internal/ui/components"
	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// Placeholder is the chat input hint.
const Placeholder = "Digite sua mensagem..."

// ChatTitle is the chat panel heading.
const ChatTitle = "Atendimento Automatizado (Chatbot)"

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the dashboard. Conversation state lives
// in the session; the model only mirrors the input buffer into it and
// renders snapshots.
type Model struct {
	ctx   context.Context
	sess  *session.Session
	gen   session.Generator
	store *storage.Store
	log   zerolog.Logger

	theme *styles.Theme
	keys  KeyMap

	// Widgets
	input    textinput.Model
	viewport viewport.Model
	spinner  components.Spinner
	list     *components.MessageList
	sidebar  *components.Sidebar
	header   *components.Header
	status   *components.StatusBar

	dash       *storage.Dashboard
	modelName  string
	warning    string
	exportOpts *export.Options
	copy       func(string) error

	renderMarkdown bool

	notice    string
	noticeSeq int

	width  int
	height int
	layout layout
	ready  bool
}

// Option configures a Model.
type Option func(*Model)

// WithStore loads cards and chart from store instead of the built-in data.
func WithStore(store *storage.Store) Option {
	return func(m *Model) { m.store = store }
}

// WithTheme sets the theme.
func WithTheme(t *styles.Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithModelName sets the model name shown in the status bar.
func WithModelName(name string) Option {
	return func(m *Model) { m.modelName = name }
}

// WithWarning shows a persistent warning in the status bar.
func WithWarning(w string) Option {
	return func(m *Model) { m.warning = w }
}

// WithMarkdown enables glamour rendering of assistant replies.
func WithMarkdown(enabled bool) Option {
	return func(m *Model) { m.renderMarkdown = enabled }
}

// WithExportOptions sets where Ctrl+E writes transcripts.
func WithExportOptions(opts *export.Options) Option {
	return func(m *Model) { m.exportOpts = opts }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copy = write }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = logger.Component(l, "dashboard") }
}

// WithContext sets the context generative requests run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// New creates the dashboard around sess.
func New(sess *session.Session, gen session.Generator, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.Prompt = "> "
	ti.CharLimit = 4000
	ti.Focus()

	m := Model{
		ctx:        context.Background(),
		sess:       sess,
		gen:        gen,
		log:        logger.Component(logger.Nop(), "dashboard"),
		keys:       DefaultKeyMap(),
		input:      ti,
		viewport:   viewport.New(80, 10),
		exportOpts: export.DefaultOptions(),
		copy:       clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.theme == nil {
		m.theme = styles.NewTheme()
	}

	m.list = components.NewMessageList(m.theme)
	if m.renderMarkdown {
		md := &markdown{plain: m.theme.ColorProfile == termenv.Ascii}
		m.list.SetRenderer(md.Render)
	}
	m.input.PlaceholderStyle = m.theme.Placeholder
	m.spinner = components.NewSpinner(m.theme)
	m.sidebar = components.NewSidebar(m.theme)
	m.header = components.NewHeader(m.theme)
	m.status = components.NewStatusBar(m.theme)
	m.status.Model = m.modelName
	m.status.Shortcuts = shortcuts(m.keys)
	m.status.Warning = m.warning
	return m
}

// shortcuts converts the key map's short help into status bar hints.
func shortcuts(k KeyMap) []components.Shortcut {
	bindings := k.ShortHelp()
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}

// Init starts the cursor blink and loads the dashboard data.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadDashboardCmd(m.ctx, m.store))
}

// Session returns the session the model renders.
func (m Model) Session() *session.Session {
	return m.sess
}

// Dashboard returns the loaded cards and chart, or nil before loading.
func (m Model) Dashboard() *storage.Dashboard {
	return m.dash
}

// Notice returns the current status bar notice.
func (m Model) Notice() string {
	return m.notice
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
