// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the conversation log and the request lifecycle.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jeranaias/aicrm-tui/internal/gemini"
	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/telemetry"
	"github.com/jeranaias/aicrm-tui/internal/util"
)

// =============================================================================
// STATE
// =============================================================================

// State is the request lifecycle state.
type State int

const (
	StateIdle State = iota
	StateAwaitingReply
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// Generator produces a reply for a prompt. *gemini.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) gemini.Result
}

// Snapshot is a consistent copy of session state for rendering.
type Snapshot struct {
	ConversationID string          `json:"conversation_id"`
	Messages       []model.Message `json:"messages"`
	State          State           `json:"-"`
	StateName      string          `json:"state"`
	Input          string          `json:"-"`
	Err            string          `json:"error,omitempty"`
}

// Pending reports whether a reply is outstanding.
func (s Snapshot) Pending() bool {
	return s.State == StateAwaitingReply
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the conversation state machine. It moves between Idle and
// AwaitingReply on exactly two kinds of events: a submission (Submit) and
// the settlement of the request it started (Reply, Fail or Settle).
//
// Invariants:
//   - the log only grows; entries are never edited or reordered
//   - at most one reply is outstanding; submitting while awaiting is a no-op
//   - blank submissions change nothing
//   - a failure never removes the user turn that caused it
//
// All methods are safe for concurrent use. The network call made by
// Exchange runs outside the lock.
type Session struct {
	mu    sync.Mutex
	conv  *model.Conversation
	state State
	input string
	err   string

	log     zerolog.Logger
	metrics *telemetry.Metrics
}

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l.With().Str("component", "session").Logger()
	}
}

// WithMetrics records submissions and the pending gauge on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// New creates an idle session with an empty conversation.
func New(opts ...Option) *Session {
	s := &Session{
		conv: model.NewConversation(),
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// EVENTS
// =============================================================================

// Submit offers text as the next user turn. It is accepted only when text
// is not blank and no reply is outstanding. On acceptance the user message
// is appended, the input buffer and error are cleared, the session starts
// awaiting a reply, and the prompt to send is returned. A rejected
// submission leaves every field untouched.
func (s *Session) Submit(text string) (prompt string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(text)
}

// SubmitInput submits the current input buffer.
func (s *Session) SubmitInput() (prompt string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(s.input)
}

func (s *Session) submitLocked(text string) (string, bool) {
	if util.IsBlank(text) {
		s.metrics.ObserveSubmission(telemetry.SubmitBlank)
		return "", false
	}
	if s.state != StateIdle {
		s.metrics.ObserveSubmission(telemetry.SubmitBusy)
		s.log.Debug().Msg("submission dropped while awaiting reply")
		return "", false
	}

	s.conv.Append(model.NewUserMessage(text))
	s.input = ""
	s.err = ""
	s.state = StateAwaitingReply

	s.metrics.ObserveSubmission(telemetry.SubmitAccepted)
	s.metrics.SetPending(true)
	s.log.Debug().Int("messages", s.conv.Len()).Msg("submission accepted")
	return text, true
}

// Reply settles the outstanding request with an assistant turn. It returns
// false, changing nothing, when no reply is outstanding.
func (s *Session) Reply(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingReply {
		return false
	}
	s.conv.Append(model.NewAssistantMessage(text))
	s.state = StateIdle
	s.metrics.SetPending(false)
	return true
}

// Fail settles the outstanding request without an assistant turn and sets
// the error field to message. It returns false, changing nothing, when no
// reply is outstanding.
func (s *Session) Fail(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingReply {
		return false
	}
	s.err = message
	s.state = StateIdle
	s.metrics.SetPending(false)
	s.log.Info().Str("error", message).Msg("reply failed")
	return true
}

// Settle applies a client result: Fail when r.Failed, Reply otherwise.
func (s *Session) Settle(r gemini.Result) bool {
	if r.Failed {
		return s.Fail(r.Text)
	}
	return s.Reply(r.Text)
}

// Exchange runs one full round trip: Submit, Generate outside the lock,
// Settle. ok is false when the submission was rejected, in which case g is
// not called.
func (s *Session) Exchange(ctx context.Context, g Generator, text string) (r gemini.Result, ok bool) {
	prompt, ok := s.Submit(text)
	if !ok {
		return gemini.Result{}, false
	}
	r = g.Generate(ctx, prompt)
	s.Settle(r)
	return r, true
}

// Reset discards the conversation and error. It is refused while a reply
// is outstanding since in-flight requests cannot be cancelled.
func (s *Session) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return false
	}
	s.conv.Reset()
	s.input = ""
	s.err = ""
	return true
}

// =============================================================================
// INPUT BUFFER
// =============================================================================

// SetInput replaces the input buffer.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Input returns the input buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending reports whether a reply is outstanding.
func (s *Session) Pending() bool {
	return s.State() == StateAwaitingReply
}

// Err returns the error message of the last failed request, or "".
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Messages returns a copy of the conversation log.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

// Len returns the number of messages in the log.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Len()
}

// LastReply returns the most recent assistant message.
func (s *Session) LastReply() (model.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.LastByRole(model.RoleAssistant)
}

// Title returns a short title for the conversation.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Title()
}

// Snapshot returns a consistent copy of all state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ConversationID: s.conv.ID,
		Messages:       s.conv.Messages(),
		State:          s.state,
		StateName:      s.state.String(),
		Input:          s.input,
		Err:            s.err,
	}
}
