// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrate

import (
	"strings"
	"time"

	"github.com/jeranaias/hande-tui/internal/store"
)

// DefaultPersona is the static identity text for the assistant.
const DefaultPersona = "You are Hande, an advanced AI assistant.\n" +
	"Be intelligent, helpful, and efficient."

// Caps for prompt sections, so an enormous prior turn or web abstract
// cannot crowd the model's context window.
const (
	promptTurnSideMaxRunes = 40
	promptWebMaxRunes      = 150
)

// buildSystemPrompt composes the system prompt from the current
// date/time, the persona, recent conversation context, and web context.
// Empty sections are omitted entirely; no placeholder text leaks in.
func buildSystemPrompt(now time.Time, persona string, recent []store.Turn, webInfo string) string {
	var sb strings.Builder

	sb.WriteString(persona)
	sb.WriteString("\n\nCURRENT INFO:\n")
	sb.WriteString("- Date: ")
	sb.WriteString(now.Format("Monday, January 2, 2006"))
	sb.WriteString("\n- Time: ")
	sb.WriteString(now.Format("3:04 PM"))
	sb.WriteString("\n")

	if len(recent) > 0 {
		sb.WriteString("\n")
		for _, turn := range recent {
			sb.WriteString("Previous: '")
			sb.WriteString(truncateRunes(turn.UserText, promptTurnSideMaxRunes))
			sb.WriteString("' -> '")
			sb.WriteString(truncateRunes(turn.AssistantText, promptTurnSideMaxRunes))
			sb.WriteString("'\n")
		}
	}

	if webInfo != "" {
		sb.WriteString("\nCurrent: ")
		sb.WriteString(truncateRunes(webInfo, promptWebMaxRunes))
		sb.WriteString("\n")
	}

	return sb.String()
}

// truncateRunes limits s to maxRunes runes without splitting characters.
func truncateRunes(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
