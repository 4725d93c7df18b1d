// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question answering for scripts and quick queries.

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/hande-tui/internal/stream"
)

// HandleAsk answers a single question and exits. The reply streams to
// stdout as plain text when piped, or is rendered as markdown on a TTY.
func HandleAsk(env *Env, args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("ask requires a question, e.g. hande ask \"what is a goroutine\"")
	}

	ctx := context.Background()

	sessionID, err := env.Store.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	if args.Model != "" {
		env.Orc.SetCandidates([]string{args.Model})
	}

	ch, _, err := env.Orc.BeginTurn(sessionID, query)
	if err != nil {
		return err
	}

	tty := IsStdoutTTY()

	for {
		ev := ch.Receive()

		switch ev.Kind {
		case stream.KindStatus:
			if !args.Quiet {
				fmt.Fprintln(os.Stderr, chatStatusStyle.Render(ev.Text))
			}

		case stream.KindChar:
			// Pipe mode streams characters as they arrive; TTY mode
			// waits for the complete text so markdown renders in one
			// pass.
			if !tty {
				fmt.Print(string(ev.Char))
			}

		case stream.KindComplete:
			if tty {
				fmt.Print(renderMarkdown(ev.Text))
			} else {
				fmt.Println()
			}
			return nil

		case stream.KindError:
			if !tty {
				fmt.Println()
			}
			fmt.Fprintln(os.Stderr, chatErrorStyle.Render(ev.Text))
			os.Exit(1)
		}
	}
}

// renderMarkdown formats text for terminal display, falling back to
// the raw text if rendering fails.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}
