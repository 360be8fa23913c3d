// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/aicrm-tui/internal/config"
	"github.com/jeranaias/aicrm-tui/internal/gemini"
	"github.com/jeranaias/aicrm-tui/internal/session"
	"github.com/jeranaias/aicrm-tui/internal/storage"
	"github.com/jeranaias/aicrm-tui/internal/telemetry"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeGenerator struct {
	result  gemini.Result
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) gemini.Result {
	f.prompts = append(f.prompts, prompt)
	return f.result
}

func okGenerator(text string) *fakeGenerator {
	return &fakeGenerator{result: gemini.Result{Text: text}}
}

func failingGenerator() *fakeGenerator {
	return &fakeGenerator{result: gemini.Result{
		Text:   gemini.FallbackError,
		Failed: true,
		Err:    errors.New("status 500"),
	}}
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		argv        []string
		wantCommand Command
		validate    func(*testing.T, Args)
	}{
		{
			name:        "no args opens dashboard",
			argv:        nil,
			wantCommand: CmdTUI,
		},
		{
			name:        "tui",
			argv:        []string{"tui"},
			wantCommand: CmdTUI,
		},
		{
			name:        "ask joins words",
			argv:        []string{"ask", "Quantos", "clientes?"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Query != "Quantos clientes?" {
					t.Errorf("Query = %q, want %q", a.Query, "Quantos clientes?")
				}
			},
		},
		{
			name:        "ask with model flag after query",
			argv:        []string{"ask", "Oi", "--model", "gemini-2.5-pro"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Model != "gemini-2.5-pro" {
					t.Errorf("Model = %q", a.Model)
				}
				if a.Query != "Oi" {
					t.Errorf("Query = %q, want %q", a.Query, "Oi")
				}
			},
		},
		{
			name:        "global flags before command",
			argv:        []string{"--json", "-q", "--no-color", "--config=/tmp/x.toml", "metrics"},
			wantCommand: CmdMetrics,
			validate: func(t *testing.T, a Args) {
				if !a.JSON || !a.Quiet || !a.NoColor {
					t.Errorf("flags not parsed: %+v", a)
				}
				if a.ConfigPath != "/tmp/x.toml" {
					t.Errorf("ConfigPath = %q", a.ConfigPath)
				}
			},
		},
		{
			name:        "serve with addr",
			argv:        []string{"serve", "--addr", "127.0.0.1:9000"},
			wantCommand: CmdServe,
			validate: func(t *testing.T, a Args) {
				if a.Addr != "127.0.0.1:9000" {
					t.Errorf("Addr = %q", a.Addr)
				}
			},
		},
		{
			name:        "config init force",
			argv:        []string{"config", "init", "--force"},
			wantCommand: CmdConfig,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "init" || !a.Force {
					t.Errorf("Subcommand = %q, Force = %v", a.Subcommand, a.Force)
				}
			},
		},
		{
			name:        "chat verbose",
			argv:        []string{"-v", "chat"},
			wantCommand: CmdChat,
			validate: func(t *testing.T, a Args) {
				if !a.Verbose {
					t.Error("Verbose should be true")
				}
			},
		},
		{
			name:        "version flag",
			argv:        []string{"--version"},
			wantCommand: CmdVersion,
		},
		{
			name:        "unknown command",
			argv:        []string{"frobnicate"},
			wantCommand: CmdHelp,
			validate: func(t *testing.T, a Args) {
				if a.Unknown != "frobnicate" {
					t.Errorf("Unknown = %q", a.Unknown)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := Parse(tt.argv)
			if cmd != tt.wantCommand {
				t.Errorf("command = %v, want %v", cmd, tt.wantCommand)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	if CmdAsk.String() != "ask" || CmdMetrics.String() != "metrics" || CmdHelp.String() != "help" {
		t.Error("unexpected command names")
	}
}

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"export", "--format", "json", "--since=2024-01-01", "--force", "out.md"}, "force")

	if p.Subcommand() != "export" {
		t.Errorf("Subcommand() = %q", p.Subcommand())
	}
	if p.Flag("format") != "json" {
		t.Errorf("Flag(format) = %q", p.Flag("format"))
	}
	if p.Flag("--since") != "2024-01-01" {
		t.Errorf("Flag(since) = %q", p.Flag("since"))
	}
	if !p.BoolFlag("force") {
		t.Error("BoolFlag(force) should be true")
	}
	if p.PositionalAt(1) != "out.md" {
		t.Errorf("PositionalAt(1) = %q, want out.md", p.PositionalAt(1))
	}
	if p.Rest() != "out.md" {
		t.Errorf("Rest() = %q", p.Rest())
	}
	if !p.HasFlag("format") || p.HasFlag("missing") {
		t.Error("HasFlag mismatch")
	}
	if p.FlagOrDefault("missing", "x") != "x" {
		t.Error("FlagOrDefault should fall back")
	}
}

func TestArgParser_DoubleDash(t *testing.T) {
	p := NewArgParser([]string{"--", "-not-a-flag", "text"})
	if got := p.Positional(); len(got) != 2 || got[0] != "-not-a-flag" {
		t.Errorf("Positional() = %v", got)
	}
}

func TestArgParser_Empty(t *testing.T) {
	p := NewArgParser(nil)
	if p.Subcommand() != "" || p.PositionalAt(0) != "" || p.Rest() != "" {
		t.Error("empty parser should return zero values")
	}
}

// =============================================================================
// EXIT CODE TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", usageError("bad"), ExitUsageError},
		{"reported", errReported, ExitGeneralError},
		{"validation", config.ValidateErrors{{Field: "gemini.model", Message: "required"}}, ExitConfigError},
		{"wrapped exit", &ExitError{Code: ExitConfigError, Err: errors.New("x")}, ExitConfigError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShouldPrint(t *testing.T) {
	if shouldPrint(nil) {
		t.Error("nil should not print")
	}
	if shouldPrint(errReported) {
		t.Error("already reported error should not print")
	}
	if !shouldPrint(usageError("x")) {
		t.Error("usage error should print")
	}
}

func TestLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"

	if got := logLevel(Args{Verbose: true}, cfg); got != "debug" {
		t.Errorf("verbose = %q", got)
	}
	if got := logLevel(Args{Quiet: true}, cfg); got != "warn" {
		t.Errorf("quiet = %q", got)
	}
	if got := logLevel(Args{}, cfg); got != "error" {
		t.Errorf("config = %q", got)
	}
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestRunAsk_PrintsReply(t *testing.T) {
	var out, errOut bytes.Buffer
	gen := okGenerator("Temos 2.431 clientes ativos.")
	sess := session.New()

	err := runAsk(context.Background(), sess, gen, "Quantos clientes?", askOutput{out: &out, errOut: &errOut})
	if err != nil {
		t.Fatalf("runAsk() error = %v", err)
	}
	if out.String() != "Temos 2.431 clientes ativos.\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if len(gen.prompts) != 1 || gen.prompts[0] != "Quantos clientes?" {
		t.Errorf("prompts = %v", gen.prompts)
	}
	if sess.Len() != 2 {
		t.Errorf("session has %d messages, want 2", sess.Len())
	}
}

func TestRunAsk_RenderIsApplied(t *testing.T) {
	var out bytes.Buffer
	o := askOutput{out: &out, errOut: &out, render: strings.ToUpper}
	if err := runAsk(context.Background(), session.New(), okGenerator("oi"), "x", o); err != nil {
		t.Fatal(err)
	}
	if out.String() != "OI\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRunAsk_FailureExitsOne(t *testing.T) {
	var out, errOut bytes.Buffer
	err := runAsk(context.Background(), session.New(), failingGenerator(), "x", askOutput{out: &out, errOut: &errOut})

	if GetExitCode(err) != ExitGeneralError {
		t.Errorf("exit code = %d, want %d", GetExitCode(err), ExitGeneralError)
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), gemini.FallbackError) {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestRunAsk_JSON(t *testing.T) {
	var out bytes.Buffer
	err := runAsk(context.Background(), session.New(), failingGenerator(), "x", askOutput{
		out:   &out,
		json:  true,
		model: "gemini-test",
	})
	if GetExitCode(err) != ExitGeneralError {
		t.Errorf("exit code = %d", GetExitCode(err))
	}

	var got AskResult
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if !got.Failed || got.Reply != gemini.FallbackError || got.Model != "gemini-test" {
		t.Errorf("result = %+v", got)
	}
}

func TestRunAsk_QuestionSentVerbatim(t *testing.T) {
	gen := okGenerator("ok")
	sess := session.New()
	query := "  cafe\u0301\r\nx"
	if err := runAsk(context.Background(), sess, gen, query, askOutput{out: &bytes.Buffer{}}); err != nil {
		t.Fatal(err)
	}
	if len(gen.prompts) != 1 || gen.prompts[0] != query {
		t.Errorf("prompts = %q", gen.prompts)
	}
	if got := sess.Messages()[0].Content; got != query {
		t.Errorf("stored user turn = %q, want %q", got, query)
	}
}

func TestStdinQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Quantos clientes?\n", "Quantos clientes?"},
		{"linha 1\r\nlinha 2\r\n", "linha 1\r\nlinha 2"},
		{"  recuo", "  recuo"},
	}
	for _, tt := range tests {
		if got := stdinQuery([]byte(tt.in)); got != tt.want {
			t.Errorf("stdinQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunAsk_Blank(t *testing.T) {
	gen := okGenerator("x")
	err := runAsk(context.Background(), session.New(), gen, "   ", askOutput{out: &bytes.Buffer{}})
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("exit code = %d, want usage", GetExitCode(err))
	}
	if len(gen.prompts) != 0 {
		t.Error("blank question must not reach the generator")
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func newTestREPL(t *testing.T, gen session.Generator) (*chatREPL, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &chatREPL{
		sess:      session.New(),
		gen:       gen,
		usage:     telemetry.NewUsageTracker(),
		out:       &out,
		model:     "gemini-test",
		exportDir: t.TempDir(),
	}, &out
}

func TestChatREPL_Exchange(t *testing.T) {
	r, out := newTestREPL(t, okGenerator("Olá! Como posso ajudar?"))

	if r.handleLine(context.Background(), "Oi") {
		t.Fatal("plain text should not quit")
	}
	if !strings.Contains(out.String(), "Olá! Como posso ajudar?") {
		t.Errorf("output = %q", out.String())
	}
	if r.sess.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.sess.Len())
	}
}

func TestChatREPL_LineStoredVerbatim(t *testing.T) {
	gen := okGenerator("ok")
	r, _ := newTestREPL(t, gen)
	line := "Relato\u0301rios  "

	r.handleLine(context.Background(), line)
	msgs := r.sess.Messages()
	if len(msgs) != 2 || msgs[0].Content != line {
		t.Fatalf("messages = %+v", msgs)
	}
	if gen.prompts[0] != line {
		t.Errorf("prompt = %q, want %q", gen.prompts[0], line)
	}
}

func TestChatREPL_BlankLineIgnored(t *testing.T) {
	gen := okGenerator("x")
	r, out := newTestREPL(t, gen)
	r.handleLine(context.Background(), "   ")
	if len(gen.prompts) != 0 || out.Len() != 0 || r.sess.Len() != 0 {
		t.Error("blank line should do nothing")
	}
}

func TestChatREPL_FailureShowsFallback(t *testing.T) {
	r, out := newTestREPL(t, failingGenerator())
	r.handleLine(context.Background(), "Oi")

	if !strings.Contains(out.String(), gemini.FallbackError) {
		t.Errorf("output = %q", out.String())
	}
	if r.sess.Len() != 1 {
		t.Errorf("failed exchange should keep only the user turn, Len() = %d", r.sess.Len())
	}
}

func TestChatREPL_Commands(t *testing.T) {
	r, out := newTestREPL(t, okGenerator("resposta"))
	ctx := context.Background()

	r.handleLine(ctx, "pergunta")
	out.Reset()

	r.handleLine(ctx, "/history")
	if !strings.Contains(out.String(), "pergunta") || !strings.Contains(out.String(), "resposta") {
		t.Errorf("/history output = %q", out.String())
	}

	out.Reset()
	r.handleLine(ctx, "/usage")
	if !strings.Contains(out.String(), "no requests yet") {
		t.Errorf("/usage output = %q", out.String())
	}

	out.Reset()
	r.handleLine(ctx, "/nope")
	if !strings.Contains(out.String(), "/nope") {
		t.Errorf("unknown command output = %q", out.String())
	}

	r.handleLine(ctx, "/clear")
	if r.sess.Len() != 0 {
		t.Errorf("/clear left %d messages", r.sess.Len())
	}

	for _, q := range []string{"/quit", "/exit", "/q"} {
		if !r.handleLine(ctx, q) {
			t.Errorf("%s should quit", q)
		}
	}
}

func TestChatREPL_Export(t *testing.T) {
	r, out := newTestREPL(t, okGenerator("resposta"))
	ctx := context.Background()

	r.handleLine(ctx, "/export")
	if !strings.Contains(out.String(), "Nada para exportar") {
		t.Errorf("empty export output = %q", out.String())
	}

	r.handleLine(ctx, "pergunta")
	path := filepath.Join(t.TempDir(), "conversa.json")
	r.handleLine(ctx, "/export json "+path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if !json.Valid(data) || !strings.Contains(string(data), "pergunta") {
		t.Errorf("export content = %s", data)
	}
}

func TestChatREPL_ExportGeneratedName(t *testing.T) {
	r, _ := newTestREPL(t, okGenerator("resposta"))
	ctx := context.Background()

	r.handleLine(ctx, "pergunta")
	r.handleLine(ctx, "/export md")

	entries, err := os.ReadDir(r.exportDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".md") {
		t.Errorf("export dir = %v", entries)
	}
}

// =============================================================================
// CONFIG AND METRICS OUTPUT TESTS
// =============================================================================

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aicrm", "config.toml")
	var out bytes.Buffer

	if err := initConfig(&out, path, false); err != nil {
		t.Fatalf("initConfig() error = %v", err)
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Gemini.Model == "" {
		t.Error("model should be set")
	}

	err = initConfig(&out, path, false)
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("second init should refuse, got %v", err)
	}
	if err := initConfig(&out, path, true); err != nil {
		t.Errorf("forced init error = %v", err)
	}
}

func TestPrintConfig_RedactsKey(t *testing.T) {
	cfg := config.Default()
	cfg.Gemini.APIKey = "AIzaSecretKeyValue"

	var out bytes.Buffer
	printConfig(&out, "/tmp/config.toml", cfg)

	if strings.Contains(out.String(), "AIzaSecretKeyValue") {
		t.Error("API key leaked into output")
	}
	if !strings.Contains(out.String(), cfg.Gemini.Model) {
		t.Errorf("model missing from output: %q", out.String())
	}
}

func TestPrintConfig_WarnsWithoutKey(t *testing.T) {
	var out bytes.Buffer
	printConfig(&out, "/tmp/config.toml", config.Default())
	if !strings.Contains(out.String(), "GEMINI_API_KEY") {
		t.Errorf("missing key hint: %q", out.String())
	}
}

func TestPrintDashboard(t *testing.T) {
	seed := storage.DefaultSeed()
	dash := &storage.Dashboard{Metrics: seed.Metrics, Chart: seed.Chart}

	var out bytes.Buffer
	printDashboard(&out, dash)

	for _, m := range seed.Metrics {
		if !strings.Contains(out.String(), m.Display()) {
			t.Errorf("output missing %q", m.Display())
		}
	}
	for _, p := range seed.Chart.Points {
		if !strings.Contains(out.String(), p.Label) {
			t.Errorf("output missing month %q", p.Label)
		}
	}
}

// =============================================================================
// JSON OUTPUT TESTS
// =============================================================================

func TestWriteJSON_Plain(t *testing.T) {
	var out bytes.Buffer
	if err := writeJSON(&out, NewJSONResponse("metrics", map[string]int{"n": 1}), false); err != nil {
		t.Fatal(err)
	}

	var resp JSONResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.Success || resp.Error != nil || resp.Command != "metrics" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestNewJSONErrorResponse(t *testing.T) {
	resp := NewJSONErrorResponse("ask", errors.New("boom"))
	if resp.Success || resp.Error == nil || *resp.Error != "boom" {
		t.Errorf("resp = %+v", resp)
	}
}
