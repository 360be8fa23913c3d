// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is an append-only, ordered log of messages. Insertion order
// is conversation order. Entries are never reordered, deduplicated or
// edited; the only way to shrink the log is Reset.
//
// Conversation is not safe for concurrent use; the session that owns it
// serializes access.
type Conversation struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	messages []Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		messages:  make([]Message, 0, 16),
	}
}

// Append adds msg to the end of the log.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
	c.UpdatedAt = time.Now()
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// At returns the message at index i.
func (c *Conversation) At(i int) (Message, bool) {
	if i < 0 || i >= len(c.messages) {
		return Message{}, false
	}
	return c.messages[i], true
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	return c.At(len(c.messages) - 1)
}

// LastByRole returns the most recent message with the given role.
func (c *Conversation) LastByRole(role Role) (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == role {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// Reset discards every message and starts a new conversation ID.
func (c *Conversation) Reset() {
	now := time.Now()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.messages = make([]Message, 0, 16)
}

// Title derives a short title from the first user message.
func (c *Conversation) Title() string {
	for _, m := range c.messages {
		if m.Role == RoleUser {
			return m.Preview(50)
		}
	}
	return "New conversation"
}
