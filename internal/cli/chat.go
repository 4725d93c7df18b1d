// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive terminal chat without the full TUI.

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/hande-tui/internal/config"
	"github.com/jeranaias/hande-tui/internal/stream"
	"github.com/jeranaias/hande-tui/internal/util"
)

var (
	chatPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13")).
			Bold(true)

	chatStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	chatErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// ChatCLI wraps a line editor with persistent history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor with history under the config dir.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if dir, err := config.ConfigDir(); err == nil {
		historyFile = filepath.Join(dir, "chat_history")
	}

	c := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	c.LoadHistory()
	return c
}

// LoadHistory reads saved input history if present.
func (c *ChatCLI) LoadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// SaveHistory writes input history back to disk.
func (c *ChatCLI) SaveHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Create(c.historyFile); err == nil {
		c.line.WriteHistory(f)
		f.Close()
	}
}

// ReadInput reads one line of input. Returns liner.ErrPromptAborted
// on Ctrl+C.
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

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// HandleChat runs the interactive terminal chat loop.
func HandleChat(env *Env, args Args) error {
	ctx := context.Background()

	sessionID, err := env.Store.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	repl := NewChatCLI()
	defer repl.Close()

	if !args.Quiet {
		fmt.Println("hande chat - type /quit to exit, Ctrl+C to cancel a reply")
		fmt.Println()
	}

	for {
		input, err := repl.ReadInput(chatPromptStyle.Render("you> "))
		if err == liner.ErrPromptAborted {
			fmt.Println()
			continue
		}
		if err != nil {
			// EOF or terminal error ends the session.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if done := handleSlashCommand(env, input); done {
				return nil
			}
			continue
		}

		if err := runChatTurn(env, sessionID, input); err != nil {
			fmt.Fprintln(os.Stderr, chatErrorStyle.Render("error: "+err.Error()))
		}
	}
}

// runChatTurn streams one assistant reply to stdout.
func runChatTurn(env *Env, sessionID, input string) error {
	ch, cancel, err := env.Orc.BeginTurn(sessionID, input)
	if err != nil {
		return err
	}

	// Ctrl+C during the reply raises the cancel signal instead of
	// killing the process.
	interrupted := watchInterrupt(cancel)
	defer interrupted()

	started := false
	for {
		ev, ok := ch.TryReceive()
		if !ok {
			// A cancelled turn ends without a terminal event, so the
			// loop has to notice the drained channel itself.
			if cancel.IsRaised() && !env.Orc.Generating() {
				if started {
					fmt.Println()
				}
				fmt.Fprintln(os.Stderr, chatStatusStyle.Render("cancelled"))
				fmt.Println()
				return nil
			}
			time.Sleep(5 * time.Millisecond)
			continue
		}

		switch ev.Kind {
		case stream.KindStatus:
			fmt.Fprintln(os.Stderr, chatStatusStyle.Render(ev.Text))

		case stream.KindStreamStart:
			started = true
			fmt.Print(chatPromptStyle.Render("hande> "))

		case stream.KindChar:
			fmt.Print(string(ev.Char))

		case stream.KindComplete:
			fmt.Println()
			fmt.Println()
			return nil

		case stream.KindError:
			if started {
				fmt.Println()
			}
			fmt.Fprintln(os.Stderr, chatErrorStyle.Render(ev.Text))
			fmt.Println()
			return nil
		}
	}
}

// handleSlashCommand processes in-chat commands. Returns true when the
// loop should exit.
func handleSlashCommand(env *Env, input string) bool {
	parts := strings.Fields(input)
	switch parts[0] {
	case "/quit", "/exit", "/q":
		return true

	case "/clear":
		fmt.Print("\033[2J\033[H")

	case "/sessions":
		sessions, err := env.Store.ListSessions(context.Background(), 20)
		if err != nil {
			fmt.Fprintln(os.Stderr, chatErrorStyle.Render("error: "+err.Error()))
			return false
		}
		for _, s := range sessions {
			fmt.Printf("  %s  %s (%d turns)\n",
				s.ID[:8], util.TruncateRunes(s.Title, 40), s.TurnCount)
		}

	case "/help":
		fmt.Println("  /quit      exit chat")
		fmt.Println("  /clear     clear the screen")
		fmt.Println("  /sessions  list saved conversations")

	default:
		fmt.Fprintln(os.Stderr, chatStatusStyle.Render("unknown command "+parts[0]))
	}
	return false
}
