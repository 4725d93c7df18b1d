// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/hande-tui/internal/orchestrate"
	"github.com/jeranaias/hande-tui/internal/store"
	"github.com/jeranaias/hande-tui/internal/stream"
	"github.com/jeranaias/hande-tui/internal/ui/components"
	"github.com/jeranaias/hande-tui/internal/ui/styles"
)

// Role identifies who produced a message.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleError
)

// Message is one rendered entry in the conversation view.
type Message struct {
	Role    Role
	Content string

	// Rendered is set once a completed assistant message has been
	// through the markdown renderer. Empty while streaming.
	Rendered string
}

// Model is the Bubble Tea model for the chat view. It owns the consumer
// side of the turn stream: each frame it drains whatever events the
// pipeline has produced and folds them into the message list.
type Model struct {
	theme *styles.Theme

	orc       *orchestrate.Orchestrator
	store     store.ConversationStore
	sessionID string

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	md       *components.MarkdownRenderer

	messages []Message

	// Streaming state for the in-flight turn. partial is a plain
	// string because the model is copied by value on every Update.
	generating bool
	streaming  bool
	status     string
	streamCh   *stream.Channel
	cancelSig  *stream.Signal
	partial    string

	width  int
	height int
	ready  bool
}

// New creates the chat model over an existing session. prior seeds the
// message list with the session's persisted turns.
func New(theme *styles.Theme, orc *orchestrate.Orchestrator, st store.ConversationStore, sessionID string, prior []store.Turn) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask Hande anything..."
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.CharLimit = 4000
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Spinner

	var messages []Message
	for _, turn := range prior {
		messages = append(messages,
			Message{Role: RoleUser, Content: turn.UserText},
			Message{Role: RoleAssistant, Content: turn.AssistantText},
		)
	}

	return Model{
		theme:     theme,
		orc:       orc,
		store:     st,
		sessionID: sessionID,
		viewport:  vp,
		input:     ti,
		spinner:   sp,
		md:        components.NewMarkdownRenderer(78),
		messages:  messages,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Generating reports whether a turn is currently streaming.
func (m Model) Generating() bool {
	return m.generating
}

// Messages returns the current message list (for tests).
func (m Model) Messages() []Message {
	return m.messages
}
