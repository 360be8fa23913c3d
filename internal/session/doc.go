// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the conversation log and the request lifecycle.
//
// A Session has two states:
//
//	Idle --Submit(text)--> AwaitingReply
//	AwaitingReply --Reply(text)--> Idle      (assistant turn appended)
//	AwaitingReply --Fail(msg)--> Idle        (error set, nothing appended)
//
// Submit is guarded: blank text, or any submission while awaiting, is
// dropped without touching the log or the input buffer.
//
// # Usage
//
// Event-loop callers (the TUI) drive the two events separately so the
// request can run as a background command:
//
//	prompt, ok := sess.SubmitInput()
//	if ok {
//	    go func() { sess.Settle(client.Generate(ctx, prompt)) }()
//	}
//
// Blocking callers use Exchange:
//
//	r, ok := sess.Exchange(ctx, client, "Quantos projetos ativos?")
package session
