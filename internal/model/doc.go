// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Role: sender of a message (user or assistant)
//   - Message: one immutable turn with ID, role, content and timestamp
//   - Conversation: append-only ordered log of messages
//   - ModelInfo: catalog entry for a known generation model
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.Append(model.NewUserMessage("hello"))
//	for _, m := range conv.Messages() {
//	    fmt.Println(m.Role.DisplayName(), m.Content)
//	}
package model
