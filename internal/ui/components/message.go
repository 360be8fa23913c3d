// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/ui/styles"
)

// Renderer turns assistant content into terminal output, e.g. glamour
// markdown. width is the space available for the bubble body.
type Renderer func(content string, width int) (string, error)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one conversation turn.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	// Body, when set, replaces the wrapped plain content.
	Body  string
	theme *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the row width the bubble is aligned within.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// BodyWidth returns the widest body a bubble may use in its row.
func (b *MessageBubble) BodyWidth() int {
	return bubbleBodyWidth(b.Width)
}

func bubbleBodyWidth(row int) int {
	// Bubbles take at most three quarters of the row, minus padding.
	return max(row*3/4-2, 10)
}

// View renders the bubble aligned within Width.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.render(b.theme.UserBubble, lipgloss.Right)
	}
	return b.render(b.theme.AssistantBubble, lipgloss.Left)
}

func (b *MessageBubble) render(style lipgloss.Style, align lipgloss.Position) string {
	body := b.Body
	if body == "" {
		content := b.Message.Content
		if strings.TrimSpace(content) == "" {
			content = "..."
		}
		body = wordWrap(content, b.BodyWidth())
	}

	bubble := style.Render(body)
	if b.ShowTimestamp {
		stamp := b.theme.Muted.Render(formatClock(b.Message.Timestamp))
		bubble = lipgloss.JoinVertical(align, bubble, stamp)
	}
	if b.Width <= 0 {
		return bubble
	}
	return lipgloss.PlaceHorizontal(b.Width, align, bubble)
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders the whole conversation: every turn in order, then the
// pending spinner bubble, then the error banner.
type MessageList struct {
	messages []model.Message
	width    int
	pending  string
	err      string
	renderer Renderer
	theme    *styles.Theme

	// cache holds rendered assistant bodies keyed by message ID. Messages
	// never change once logged, so entries only go stale on resize.
	cache      map[string]string
	cacheWidth int
}

// NewMessageList creates an empty list.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		theme: theme,
		width: 80,
		cache: make(map[string]string),
	}
}

// SetMessages replaces the log being shown.
func (ml *MessageList) SetMessages(messages []model.Message) {
	ml.messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.width = width
}

// SetRenderer sets the assistant body renderer. nil shows plain text.
func (ml *MessageList) SetRenderer(r Renderer) {
	ml.renderer = r
	ml.cache = make(map[string]string)
}

// SetPending sets the spinner view shown as a trailing assistant bubble.
// An empty view hides it.
func (ml *MessageList) SetPending(view string) {
	ml.pending = view
}

// SetError sets the banner message. An empty message hides it.
func (ml *MessageList) SetError(msg string) {
	ml.err = msg
}

// Len returns the number of messages.
func (ml *MessageList) Len() int {
	return len(ml.messages)
}

// View renders the list.
func (ml *MessageList) View() string {
	if ml.cacheWidth != ml.width {
		ml.cache = make(map[string]string)
		ml.cacheWidth = ml.width
	}

	parts := make([]string, 0, len(ml.messages)+2)
	for _, msg := range ml.messages {
		b := NewMessageBubble(msg, ml.theme)
		b.SetWidth(ml.width)
		if msg.Role == model.RoleAssistant {
			b.Body = ml.renderBody(msg, b.BodyWidth())
		}
		parts = append(parts, b.View())
	}

	if ml.pending != "" {
		bubble := ml.theme.AssistantBubble.Render(ml.pending)
		parts = append(parts, lipgloss.PlaceHorizontal(ml.width, lipgloss.Left, bubble))
	}

	if ml.err != "" {
		parts = append(parts, ErrorBanner(ml.theme, ml.err, ml.width))
	}

	return strings.Join(parts, "\n\n")
}

// renderBody returns the cached renderer output for msg, or "" to fall
// back to plain wrapping.
func (ml *MessageList) renderBody(msg model.Message, width int) string {
	if ml.renderer == nil {
		return ""
	}
	if body, ok := ml.cache[msg.ID]; ok {
		return body
	}
	body, err := ml.renderer(msg.Content, width)
	if err != nil {
		body = ""
	}
	body = strings.Trim(body, "\n")
	ml.cache[msg.ID] = body
	return body
}
