// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question: `aicrm ask "..."`.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/aicrm-tui/internal/session"
	"github.com/jeranaias/aicrm-tui/internal/util"
)

// maxStdinQuery bounds a question read from a pipe.
const maxStdinQuery = 1 << 20

// AskResult is the JSON shape of `aicrm ask --json`.
type AskResult struct {
	Reply  string `json:"reply"`
	Failed bool   `json:"failed"`
	Model  string `json:"model"`
}

// HandleAsk sends one question and prints the reply. A failed request exits
// with ExitGeneralError.
func HandleAsk(args Args) error {
	query := args.Query
	if util.IsBlank(query) && !IsTTY() {
		data, err := io.ReadAll(io.LimitReader(os.Stdin, maxStdinQuery))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		query = stdinQuery(data)
	}
	if util.IsBlank(query) {
		return usageError("ask needs a question, e.g. aicrm ask \"Quantos clientes?\"")
	}

	app, err := setupApp(args, logStderr)
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Config.HasAPIKey() && !args.JSON {
		fmt.Fprintln(os.Stderr, warnStyle.Render("Warning: "+noKeyWarning))
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := askOutput{
		out:    os.Stdout,
		errOut: os.Stderr,
		json:   args.JSON,
		colors: app.Colors,
		model:  app.ModelName(),
	}
	if app.Config.UI.RenderMarkdown && IsStdoutTTY() {
		out.render = newMarkdownRenderer(app.Colors, GetTerminalWidth())
	}
	return runAsk(ctx, app.Session, app.Client, query, out)
}

// stdinQuery drops the line ending a pipe appends. The rest of the question
// is sent as read.
func stdinQuery(data []byte) string {
	return strings.TrimRight(string(data), "\r\n")
}

// askOutput controls how runAsk prints.
type askOutput struct {
	out    io.Writer
	errOut io.Writer
	json   bool
	colors bool
	model  string
	// render formats a successful reply; nil prints it verbatim.
	render func(string) string
}

// runAsk performs the exchange and writes the result.
func runAsk(ctx context.Context, sess *session.Session, gen session.Generator, query string, o askOutput) error {
	result, ok := sess.Exchange(ctx, gen, query)
	if !ok {
		return usageError("question is empty")
	}

	if o.json {
		if err := writeJSON(o.out, AskResult{
			Reply:  result.Text,
			Failed: result.Failed,
			Model:  o.model,
		}, o.colors); err != nil {
			return err
		}
		if result.Failed {
			return errReported
		}
		return nil
	}

	if result.Failed {
		fmt.Fprintln(o.errOut, errorStyle.Render(result.Text))
		return errReported
	}

	text := result.Text
	if o.render != nil {
		text = o.render(text)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(o.out, text)
	return err
}

// newMarkdownRenderer returns a glamour-based formatter. On any renderer
// error the text passes through unchanged.
func newMarkdownRenderer(colors bool, width int) func(string) string {
	style := glamour.WithAutoStyle()
	if !colors {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width-4))
	if err != nil {
		return nil
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return out
	}
}
