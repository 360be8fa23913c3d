// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strings"
	"time"

	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/session"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the exportable form of an in-session conversation.
type Transcript struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Model      string          `json:"model,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`
}

// FromSnapshot builds a transcript from a session snapshot. The start time
// is the timestamp of the first message.
func FromSnapshot(snap session.Snapshot, modelName string) *Transcript {
	t := &Transcript{
		ID:         snap.ConversationID,
		Title:      "New conversation",
		Model:      modelName,
		ExportedAt: time.Now(),
		Messages:   append([]model.Message(nil), snap.Messages...),
	}
	if len(t.Messages) > 0 {
		t.StartedAt = t.Messages[0].Timestamp
	} else {
		t.StartedAt = t.ExportedAt
	}
	for _, m := range t.Messages {
		if m.Role == model.RoleUser {
			t.Title = strings.Join(strings.Fields(m.Preview(50)), " ")
			break
		}
	}
	return t
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}
