// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting hande..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderShortcuts())

	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderBrand.Render("Hande") +
		m.theme.HeaderTitle.Render(" AI")
	return m.theme.Header.Width(m.width - 2).Render(title)
}

// renderStatusLine shows the pipeline's transient status while a turn
// is in flight.
func (m Model) renderStatusLine() string {
	if !m.generating && m.status == "" {
		return ""
	}
	if m.generating {
		return " " + m.spinner.View() + " " + m.theme.ThinkingText.Render(m.status)
	}
	return " " + m.theme.ThinkingText.Render(m.status)
}

func (m Model) renderShortcuts() string {
	shortcuts := []struct{ key, desc string }{
		{"enter", "send"},
		{"esc", "cancel"},
		{"pgup/pgdn", "scroll"},
		{"ctrl+c", "quit"},
	}

	var parts []string
	for _, s := range shortcuts {
		parts = append(parts,
			m.theme.ShortcutKey.Render(s.key)+" "+m.theme.ShortcutDesc.Render(s.desc))
	}
	return m.theme.StatusBar.Width(m.width - 2).Render(strings.Join(parts, "  "))
}

// refreshViewport rebuilds the transcript and keeps it scrolled to the
// newest content.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// renderMessages renders the conversation transcript.
func (m Model) renderMessages() string {
	width := m.viewport.Width - 4
	if width < 20 {
		width = 20
	}

	var blocks []string
	for i, msg := range m.messages {
		switch msg.Role {
		case RoleUser:
			blocks = append(blocks,
				m.theme.UserLabel.Render("You")+"\n"+
					m.theme.UserText.Width(width).Render(msg.Content))

		case RoleAssistant:
			body := msg.Rendered
			if body == "" {
				// Still streaming: raw text with a cursor block.
				body = msg.Content
				if m.streaming && i == len(m.messages)-1 {
					body += "▌"
				}
			}
			blocks = append(blocks,
				m.theme.AssistantLabel.Render("Hande")+"\n"+
					m.theme.AssistantText.Width(width).Render(body))

		case RoleError:
			blocks = append(blocks, m.theme.ErrorText.Render(msg.Content))
		}
	}

	if len(blocks) == 0 {
		return lipgloss.NewStyle().
			Foreground(m.theme.ThinkingText.GetForeground()).
			Render("\n  Start a conversation by typing below.\n")
	}

	return strings.Join(blocks, "\n\n")
}
