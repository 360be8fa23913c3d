// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and dispatch for aicrm.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdServe
	CmdMetrics
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name used in JSON output.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdServe:
		return "serve"
	case CmdMetrics:
		return "metrics"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet      bool
	Verbose    bool
	Model      string
	ConfigPath string
	JSON       bool
	NoColor    bool

	// Command-specific
	Query      string
	Subcommand string
	Addr       string
	Force      bool

	// Unknown holds an unrecognized command name, reported by help.
	Unknown string

	Raw     []string
	Options map[string]string
}

const usageText = `aicrm - AI-CRM dashboard with a Gemini assistant

USAGE:
    aicrm [command] [options]

COMMANDS:
    (none), tui          Open the dashboard
    ask "<question>"     Ask one question and print the reply
    chat                 Interactive chat in the terminal
    serve                Serve the HTTP API
    metrics              Print the dashboard metrics
    config [show|path|init]
                         Show, locate or create the config file
    version              Show version information
    help                 Show this help

GLOBAL OPTIONS:
    --model NAME         Generation model (default %s)
    --config PATH        Config file (default ~/.aicrm/config.toml)
    -q, --quiet          Only log warnings and errors
    -v, --verbose        Debug logging
    --json               JSON output for scripting
    --no-color           Disable colors (NO_COLOR is honored too)

SERVE OPTIONS:
    --addr ADDR          Listen address (default :8787)

CONFIG OPTIONS:
    --force              Overwrite an existing file on init

ENVIRONMENT:
    GEMINI_API_KEY       API key for the generative endpoint
    AICRM_MODEL          Model override
    AICRM_ADDR           HTTP listen address

EXAMPLES:
    aicrm
    aicrm ask "Quantos clientes ativos temos?"
    echo "Resuma a receita de junho" | aicrm ask
    aicrm serve --addr 127.0.0.1:9000
    aicrm metrics --json
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer, defaultModel string) {
	fmt.Fprintf(w, usageText, defaultModel)
}

// versionString returns the one-line version banner.
func versionString() string {
	return fmt.Sprintf("aicrm %s (commit %s, built %s, %s/%s)",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses argv (without the program name) into a command and its
// arguments. Global flags may appear anywhere.
func Parse(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui", "dashboard":
		return CmdTUI, parsed

	case "ask", "a":
		p := NewArgParser(remaining)
		parsed.Query = strings.Join(p.Positional(), " ")
		return CmdAsk, parsed

	case "chat", "c":
		return CmdChat, parsed

	case "serve", "server":
		p := NewArgParser(remaining)
		parsed.Addr = p.Flag("addr")
		return CmdServe, parsed

	case "metrics", "m":
		return CmdMetrics, parsed

	case "config":
		p := NewArgParser(remaining, "force", "f")
		parsed.Subcommand = strings.ToLower(p.Subcommand())
		parsed.Force = p.BoolFlag("force") || p.BoolFlag("f")
		return CmdConfig, parsed

	case "version", "--version", "-V":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		parsed.Unknown = cmd
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsed := Args{
		Options: make(map[string]string),
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--no-color":
			parsed.NoColor = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsed.Model = args[i]
			}
		case "--config":
			if i+1 < len(args) {
				i++
				parsed.ConfigPath = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--model="):
				parsed.Model = strings.TrimPrefix(arg, "--model=")
			case strings.HasPrefix(arg, "--config="):
				parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsed
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes cmd and returns the process exit code.
func Run(cmd Command, args Args) int {
	var err error
	switch cmd {
	case CmdTUI:
		err = HandleTUI(args)
	case CmdAsk:
		err = HandleAsk(args)
	case CmdChat:
		err = HandleChat(args)
	case CmdServe:
		err = HandleServe(args)
	case CmdMetrics:
		err = HandleMetrics(args)
	case CmdConfig:
		err = HandleConfig(args)
	case CmdVersion:
		err = HandleVersion(args)
	default:
		err = HandleHelp(args)
	}

	if shouldPrint(err) {
		if args.JSON {
			_ = writeJSON(os.Stdout, NewJSONErrorResponse(cmd.String(), err), false)
		} else {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		}
	}
	return GetExitCode(err)
}

// HandleHelp prints usage. An unknown command is a usage error.
func HandleHelp(args Args) error {
	if args.Unknown != "" {
		PrintUsage(os.Stderr, defaultModelName())
		return usageError("unknown command %q", args.Unknown)
	}
	PrintUsage(os.Stdout, defaultModelName())
	return nil
}

// VersionData is the JSON shape of `aicrm version --json`.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// HandleVersion prints version information.
func HandleVersion(args Args) error {
	if args.JSON {
		return writeJSON(os.Stdout, NewJSONResponse(CmdVersion.String(), VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}), IsStdoutTTY())
	}
	fmt.Println(versionString())
	return nil
}
