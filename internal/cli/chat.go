// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-oriented chat: `aicrm chat`.
//
// Commands inside the chat:
//
//	/help, /h                 Show the commands
//	/history                  Show the conversation so far
//	/clear, /new              Start a new conversation
//	/export [md|json] [path]  Save the conversation
//	/usage                    Request count, tokens and latency
//	/quit, /exit, /q          Leave
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/aicrm-tui/internal/config"
	"github.com/jeranaias/aicrm-tui/internal/export"
	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/session"
	"github.com/jeranaias/aicrm-tui/internal/telemetry"
)

// =============================================================================
// INPUT WITH HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads the saved input history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line. Non-blank lines are added to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes the history file with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// HANDLER
// =============================================================================

// HandleChat runs the interactive chat until /quit, Ctrl+C or Ctrl+D.
func HandleChat(args Args) error {
	if args.JSON {
		return usageError("chat is interactive; use ask --json for scripting")
	}

	app, err := setupApp(args, logStderr)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := signalContext()
	defer cancel()

	repl := &chatREPL{
		sess:      app.Session,
		gen:       app.Client,
		usage:     app.Usage,
		out:       os.Stdout,
		model:     app.ModelName(),
		exportDir: export.DefaultDir(),
	}
	if app.Config.UI.RenderMarkdown && IsStdoutTTY() {
		repl.render = newMarkdownRenderer(app.Colors, GetTerminalWidth())
	}

	fmt.Println(titleStyle.Render("AI-CRM Assistente") + dimStyle.Render("  "+repl.model))
	if !app.Config.HasAPIKey() {
		fmt.Println(warnStyle.Render("Warning: " + noKeyWarning))
	}
	fmt.Println(dimStyle.Render("Type /help for commands, /quit to leave."))

	input := NewChatCLI()
	defer input.Close()

	for {
		line, err := input.ReadInput("aicrm> ")
		if err != nil {
			// liner.ErrPromptAborted (Ctrl+C), io.EOF (Ctrl+D) or a closed tty.
			fmt.Println()
			repl.printSummary()
			return nil
		}
		if repl.handleLine(ctx, line) {
			repl.printSummary()
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// =============================================================================
// REPL CORE
// =============================================================================

// chatREPL executes chat lines against a session. It has no terminal
// dependency so it can be driven from tests.
type chatREPL struct {
	sess      *session.Session
	gen       session.Generator
	usage     *telemetry.UsageTracker
	out       io.Writer
	model     string
	exportDir string
	render    func(string) string
}

// handleLine processes one input line and reports whether to quit.
func (r *chatREPL) handleLine(ctx context.Context, line string) (quit bool) {
	text := strings.TrimSpace(line)
	if text == "" {
		return false
	}
	if strings.HasPrefix(text, "/") {
		return r.handleCommand(text)
	}

	result, ok := r.sess.Exchange(ctx, r.gen, line)
	if !ok {
		return false
	}
	if result.Failed {
		fmt.Fprintln(r.out, errorStyle.Render(result.Text))
		return false
	}
	r.printReply(result.Text)
	return false
}

// handleCommand runs a slash command.
func (r *chatREPL) handleCommand(text string) (quit bool) {
	fields := strings.Fields(text)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return true
	case "/help", "/h", "/?":
		r.printHelp()
	case "/history":
		r.printHistory()
	case "/clear", "/new", "/c":
		r.sess.Reset()
		fmt.Fprintln(r.out, successStyle.Render("Nova conversa"))
	case "/export":
		r.export(fields[1:])
	case "/usage":
		if r.usage != nil {
			fmt.Fprintln(r.out, dimStyle.Render(r.usage.Summary().String()))
		}
	default:
		fmt.Fprintln(r.out, warnStyle.Render("Unknown command "+fields[0]+"; try /help"))
	}
	return false
}

// export handles /export [md|json] [path].
func (r *chatREPL) export(args []string) {
	format := string(export.FormatMarkdown)
	opts := export.DefaultOptions()
	opts.OutputDir = r.exportDir

	if len(args) > 0 {
		if f, err := export.ParseFormat(args[0]); err == nil {
			format = string(f)
			args = args[1:]
		}
	}
	if len(args) > 0 {
		opts.Path = args[0]
	}

	if r.sess.Len() == 0 {
		fmt.Fprintln(r.out, warnStyle.Render("Nada para exportar"))
		return
	}

	path, err := export.Export(export.FromSnapshot(r.sess.Snapshot(), r.model), format, opts)
	if err != nil {
		fmt.Fprintln(r.out, errorStyle.Render("Export failed: "+err.Error()))
		return
	}
	fmt.Fprintln(r.out, successStyle.Render("Exportado para "+path))
}

func (r *chatREPL) printReply(text string) {
	if r.render != nil {
		text = r.render(text)
	}
	fmt.Fprintln(r.out, assistantLabelStyle.Render("Assistente:"))
	fmt.Fprintln(r.out, strings.TrimRight(text, "\n"))
}

func (r *chatREPL) printHistory() {
	msgs := r.sess.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(r.out, dimStyle.Render("(conversa vazia)"))
		return
	}
	for _, m := range msgs {
		label := assistantLabelStyle.Render(m.Role.DisplayName() + ":")
		if m.Role == model.RoleUser {
			label = userPromptStyle.Render(m.Role.DisplayName() + ":")
		}
		fmt.Fprintf(r.out, "%s %s %s\n", dimStyle.Render(m.Timestamp.Format("15:04")), label, m.Content)
	}
}

func (r *chatREPL) printHelp() {
	cmds := [][2]string{
		{"/help, /h", "Show this help"},
		{"/history", "Show the conversation"},
		{"/clear, /new", "Start a new conversation"},
		{"/export [md|json] [path]", "Save the conversation"},
		{"/usage", "Requests, tokens and latency"},
		{"/quit, /exit", "Leave the chat"},
	}
	for _, c := range cmds {
		fmt.Fprintln(r.out, labelStyle.Width(28).Render(c[0])+dimStyle.Render(c[1]))
	}
}

func (r *chatREPL) printSummary() {
	if r.usage == nil {
		return
	}
	fmt.Fprintln(r.out, dimStyle.Render("Session: "+r.usage.Summary().String()))
}
