// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package dashboard is the aicrm terminal UI.

The screen mirrors the web dashboard: a sidebar with the AI-CRM brand and
navigation, a header with the search placeholder, four metric cards, the
customers/revenue chart and the support chatbot panel.

# Request Flow

Enter copies the input box into the session and calls SubmitInput. If the
session accepts, the input clears, the spinner starts and generateCmd runs
the request off the UI goroutine. Its ReplyMsg is passed to Session.Settle,
which appends the reply or records the failure for the error banner. Blank
input and Enter while a reply is pending do nothing.

# Keys

	Enter       send
	Ctrl+Y      copy the last assistant reply
	Ctrl+E      export the conversation as Markdown
	Ctrl+N      new conversation (refused while a reply is pending)
	PgUp/PgDn   scroll the chat
	Esc/Ctrl+C  quit

# Layout

Width picks the layout (see styles.LayoutMode): wide terminals get the
sidebar, medium ones drop it, and narrow ones show only the chat.
*/
package dashboard
