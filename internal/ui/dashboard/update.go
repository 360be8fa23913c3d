// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// Status bar notices.
const (
	noticeCopied      = "Resposta copiada"
	noticeNothingCopy = "Nenhuma resposta para copiar"
	noticeNothingSave = "Nada para exportar"
	noticeBusy        = "Aguarde a resposta atual"
	noticeNew         = "Nova conversa"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ReplyMsg:
		return m.handleReply(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.spinner.IsActive() {
			m.refreshChat(false)
		}
		return m, cmd

	case DashboardMsg:
		if msg.Err != nil {
			m.log.Error().Err(msg.Err).Msg("dashboard load failed")
			return m, m.setNotice(styles.RenderError("Falha ao carregar o painel"))
		}
		m.dash = msg.Dashboard
		return m, nil

	case CopiedMsg:
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Msg("clipboard write failed")
			return m, m.setNotice(styles.RenderError("Falha ao copiar: " + msg.Err.Error()))
		}
		return m, m.setNotice(styles.RenderSuccess(fmt.Sprintf("%s (%d caracteres)", noticeCopied, msg.Chars)))

	case ExportedMsg:
		if msg.Err != nil {
			m.log.Error().Err(msg.Err).Msg("export failed")
			return m, m.setNotice(styles.RenderError("Falha ao exportar: " + msg.Err.Error()))
		}
		m.log.Info().Str("path", msg.Path).Msg("conversation exported")
		return m, m.setNotice(styles.RenderSuccess("Exportado para " + msg.Path))

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes key presses. Anything unbound goes to the input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Copy):
		reply, ok := m.sess.LastReply()
		if !ok {
			return m, m.setNotice(noticeNothingCopy)
		}
		return m, copyCmd(m.copy, reply.Content)

	case key.Matches(msg, m.keys.Export):
		snap := m.sess.Snapshot()
		if len(snap.Messages) == 0 {
			return m, m.setNotice(noticeNothingSave)
		}
		return m, exportCmd(snap, m.modelName, m.exportOpts)

	case key.Matches(msg, m.keys.New):
		if !m.sess.Reset() {
			return m, m.setNotice(noticeBusy)
		}
		m.input.Reset()
		m.refreshChat(true)
		return m, m.setNotice(noticeNew)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.LineUp(max(m.viewport.Height-1, 1))
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.LineDown(max(m.viewport.Height-1, 1))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.sess.SetInput(m.input.Value())
	return m, cmd
}

// submit offers the input buffer to the session. Rejected submissions
// (blank, or a reply already pending) leave everything as it was.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.sess.SetInput(m.input.Value())
	prompt, ok := m.sess.SubmitInput()
	if !ok {
		return m, nil
	}

	m.input.Reset()
	tick := m.spinner.Start()
	m.refreshChat(true)
	m.log.Debug().Int("chars", len(prompt)).Msg("prompt submitted")
	return m, tea.Batch(tick, generateCmd(m.ctx, m.gen, prompt))
}

// handleReply settles the outstanding request.
func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	m.sess.Settle(msg.Result)
	m.spinner.Stop()
	m.refreshChat(true)
	m.log.Debug().
		Bool("failed", msg.Result.Failed).
		Dur("duration", msg.Result.Duration).
		Msg("reply settled")
	return m, nil
}

// setNotice shows text in the status bar for a few seconds.
func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	return clearNoticeCmd(m.noticeSeq)
}

// refreshChat re-renders the conversation into the viewport. With follow
// set, or when the view was already at the bottom, it scrolls to the end.
func (m *Model) refreshChat(follow bool) {
	snap := m.sess.Snapshot()
	m.list.SetMessages(snap.Messages)
	m.list.SetWidth(m.viewport.Width)
	if snap.Pending() {
		m.list.SetPending(m.spinner.View())
	} else {
		m.list.SetPending("")
	}
	m.list.SetError(snap.Err)

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.list.View())
	if follow || atBottom {
		m.viewport.GotoBottom()
	}
}
