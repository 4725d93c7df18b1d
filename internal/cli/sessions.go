// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Saved conversation management.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/hande-tui/internal/store"
	"github.com/jeranaias/hande-tui/internal/util"
)

var (
	sessionIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("8"))
)

// HandleSessions dispatches the sessions subcommands.
func HandleSessions(env *Env, args Args) error {
	sub := "list"
	rest := args.Remaining
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		sub = rest[0]
		rest = rest[1:]
	}

	ctx := context.Background()

	switch sub {
	case "list", "ls":
		return listSessions(ctx, env, args.JSON)

	case "delete", "rm":
		if len(rest) == 0 {
			return fmt.Errorf("sessions delete requires a session id")
		}
		return deleteSession(ctx, env, rest[0])

	case "rename", "mv":
		if len(rest) < 2 {
			return fmt.Errorf("sessions rename requires a session id and a title")
		}
		return renameSession(ctx, env, rest[0], strings.Join(rest[1:], " "))

	default:
		return fmt.Errorf("unknown sessions command %q", sub)
	}
}

// listSessionLimit bounds list output; prefix resolution uses a much
// larger window so old sessions stay addressable.
const (
	listSessionLimit    = 50
	resolveSessionLimit = 1000
)

func listSessions(ctx context.Context, env *Env, asJSON bool) error {
	sessions, err := env.Store.ListSessions(ctx, listSessionLimit)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No saved conversations.")
		return nil
	}

	for _, s := range sessions {
		fmt.Printf("%s  %-32s %s\n",
			sessionIDStyle.Render(shortID(s.ID)),
			util.TruncateRunes(s.Title, store.TitleMaxRunes),
			sessionMetaStyle.Render(fmt.Sprintf("%d turns, %s",
				s.TurnCount, s.UpdatedAt.Local().Format("Jan 2 15:04"))))
	}
	return nil
}

func deleteSession(ctx context.Context, env *Env, id string) error {
	full, err := resolveSessionID(ctx, env, id)
	if err != nil {
		return err
	}
	if err := env.Store.DeleteSession(ctx, full); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	fmt.Printf("Deleted %s\n", shortID(full))
	return nil
}

func renameSession(ctx context.Context, env *Env, id, title string) error {
	full, err := resolveSessionID(ctx, env, id)
	if err != nil {
		return err
	}
	if err := env.Store.RenameSession(ctx, full, title); err != nil {
		return fmt.Errorf("renaming session: %w", err)
	}
	fmt.Printf("Renamed %s\n", shortID(full))
	return nil
}

// resolveSessionID accepts a full id or an unambiguous prefix.
func resolveSessionID(ctx context.Context, env *Env, id string) (string, error) {
	sessions, err := env.Store.ListSessions(ctx, resolveSessionLimit)
	if err != nil {
		return "", fmt.Errorf("listing sessions: %w", err)
	}

	var matches []string
	for _, s := range sessions {
		if s.ID == id {
			return s.ID, nil
		}
		if strings.HasPrefix(s.ID, id) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", store.ErrSessionNotFound
	default:
		return "", fmt.Errorf("session id %q is ambiguous (%d matches)", id, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
