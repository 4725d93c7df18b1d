// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and dispatch for the hande CLI.

package cli

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/hande-tui/internal/config"
	"github.com/jeranaias/hande-tui/internal/orchestrate"
	"github.com/jeranaias/hande-tui/internal/store"
)

// Version information (set at build time by main).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies which top-level command was requested.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdSessions
	CmdVersion
	CmdHelp
)

// Args holds the parsed command arguments shared by all handlers.
type Args struct {
	// Query is the positional query text for ask.
	Query string

	// Model overrides the configured fallback list with one model.
	Model string

	// Quiet suppresses banners and summaries.
	Quiet bool

	// Verbose lowers the diagnostics log level to debug.
	Verbose bool

	// JSON switches list output to JSON.
	JSON bool

	// Remaining holds the raw arguments after the command word.
	Remaining []string
}

// Env carries the wired application dependencies into the handlers.
// main constructs one Env and hands it to every command.
type Env struct {
	Config *config.Config
	Store  store.ConversationStore
	Orc    *orchestrate.Orchestrator
	Logger *zap.Logger
}

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	raw := os.Args[1:]
	if len(raw) == 0 {
		return CmdTUI, Args{}
	}

	cmd := raw[0]
	rest := raw[1:]

	var args Args
	args.Remaining = rest
	parser := NewArgParser(rest)
	args.Model = parser.Flag("model", "m")
	args.Quiet = parser.BoolFlag("quiet", "q")
	args.Verbose = parser.BoolFlag("verbose")
	args.JSON = parser.BoolFlag("json")

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "chat":
		return CmdChat, args

	case "ask":
		// Everything that is not a flag is the query.
		var parts []string
		skip := false
		for _, a := range rest {
			if skip {
				skip = false
				continue
			}
			if strings.HasPrefix(a, "-") {
				if !strings.Contains(a, "=") &&
					(a == "--model" || a == "-m") {
					skip = true
				}
				continue
			}
			parts = append(parts, a)
		}
		args.Query = strings.Join(parts, " ")
		return CmdAsk, args

	case "session", "sessions":
		return CmdSessions, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args
	}

	// Unknown word: treat the whole command line as an ask query.
	args.Query = strings.Join(raw, " ")
	args.Remaining = raw
	return CmdAsk, args
}

// PrintUsage prints the command overview.
func PrintUsage() {
	fmt.Println(`hande - local AI chat for your terminal

Usage:
  hande                      Launch the TUI (default)
  hande chat                 Interactive chat in the terminal
  hande ask <question>       One-shot question, prints the answer
  hande sessions [list]      List saved conversations
  hande sessions delete <id> Delete a conversation
  hande sessions rename <id> <title>
                             Rename a conversation
  hande version              Show version information

Flags:
  -m, --model NAME   Use a specific model
  -q, --quiet        Minimal output
  --verbose          Debug-level diagnostics log
  --json             JSON output (sessions list)

Environment:
  HANDE_OLLAMA_URL   Ollama server address
  HANDE_MODELS       Comma-separated model fallback list
  HANDE_WEB_SEARCH   Set to 0 to disable web lookups`)
}

// PrintVersion prints build information.
func PrintVersion() {
	fmt.Printf("hande %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
