// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the aicrm command line.

# Commands

	aicrm                      Dashboard TUI (default)
	aicrm ask "prompt"         One round trip, print the reply
	aicrm chat                 Line-oriented chat with history
	aicrm serve [--addr ADDR]  HTTP API
	aicrm metrics              Print dashboard metrics
	aicrm config [show|path|init]
	aicrm version
	aicrm help

# Global Flags

	--model NAME     Override the generation model
	--config PATH    Config file (default ~/.aicrm/config.toml)
	-q, --quiet      Only warnings and errors in the log
	-v, --verbose    Debug logging
	--json           Machine-readable output
	--no-color       Disable colors (NO_COLOR is honored too)

# Exit Codes

Handlers return errors; Run maps them to exit codes with GetExitCode. A
failed generative request exits 1, bad usage 2 and a broken config 3.
*/
package cli
