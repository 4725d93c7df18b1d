// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/hande-tui/internal/orchestrate"
	"github.com/jeranaias/hande-tui/internal/stream"
)

// drainInterval is how often the view polls the turn stream. The
// channel never blocks the producer, so polling at frame rate is purely
// a render cadence choice.
const drainInterval = 33 * time.Millisecond

// maxEventsPerFrame caps how many stream events fold into one frame so
// a fast producer cannot starve input handling.
const maxEventsPerFrame = 200

// drainTickMsg asks the model to drain pending stream events.
type drainTickMsg struct{}

func drainTick() tea.Cmd {
	return tea.Tick(drainInterval, func(time.Time) tea.Msg {
		return drainTickMsg{}
	})
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.generating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case drainTickMsg:
		return m.drainStream()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.Resize(msg.Width, msg.Height)

	headerHeight := 3
	footerHeight := 4
	m.viewport.Width = msg.Width
	m.viewport.Height = msg.Height - headerHeight - footerHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.Width = msg.Width - 6
	m.md.SetWidth(msg.Width - 4)
	m.ready = true

	m.refreshViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.generating {
			m.cancelTurn()
			return m, nil
		}
		return m, tea.Quit

	case "esc":
		if m.generating {
			m.cancelTurn()
		}
		return m, nil

	case "enter":
		return m.submit()

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a new turn for the typed query.
func (m Model) submit() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m, nil
	}

	ch, sig, err := m.orc.BeginTurn(m.sessionID, query)
	if err != nil {
		if errors.Is(err, orchestrate.ErrAlreadyGenerating) {
			m.status = "Still generating, please wait..."
			return m, nil
		}
		m.messages = append(m.messages, Message{Role: RoleError, Content: err.Error()})
		m.refreshViewport()
		return m, nil
	}

	m.messages = append(m.messages, Message{Role: RoleUser, Content: query})
	m.input.Reset()
	m.generating = true
	m.streaming = false
	m.status = ""
	m.streamCh = ch
	m.cancelSig = sig
	m.partial = ""
	m.refreshViewport()

	return m, tea.Batch(m.spinner.Tick, drainTick(), textinput.Blink)
}

// cancelTurn raises the cancel signal. Whatever characters already
// arrived stay in the transcript; no terminal event will follow.
func (m *Model) cancelTurn() {
	if m.cancelSig != nil {
		m.cancelSig.Raise()
	}
	m.finishTurn()
	m.status = "Cancelled."
	m.refreshViewport()
}

// finishTurn clears the per-turn consumer state.
func (m *Model) finishTurn() {
	m.generating = false
	m.streaming = false
	m.streamCh = nil
	m.cancelSig = nil
}

// drainStream folds pending events into the model and reschedules
// itself while the turn is still live.
func (m Model) drainStream() (tea.Model, tea.Cmd) {
	if m.streamCh == nil {
		return m, nil
	}

	for i := 0; i < maxEventsPerFrame; i++ {
		ev, ok := m.streamCh.TryReceive()
		if !ok {
			break
		}
		m.applyEvent(ev)
		if ev.Terminal() {
			m.refreshViewport()
			return m, nil
		}
	}

	m.refreshViewport()
	if m.generating {
		return m, drainTick()
	}
	return m, nil
}

// applyEvent folds one stream event into the message list.
func (m *Model) applyEvent(ev stream.Event) {
	switch ev.Kind {
	case stream.KindStatus:
		m.status = ev.Text

	case stream.KindStreamStart:
		m.streaming = true
		m.status = ""
		m.partial = ""
		m.messages = append(m.messages, Message{Role: RoleAssistant})

	case stream.KindChar:
		m.partial += string(ev.Char)
		if n := len(m.messages); n > 0 && m.messages[n-1].Role == RoleAssistant {
			m.messages[n-1].Content = m.partial
		}

	case stream.KindComplete:
		if n := len(m.messages); n > 0 && m.messages[n-1].Role == RoleAssistant {
			m.messages[n-1].Content = ev.Text
			m.messages[n-1].Rendered = m.md.Render(ev.Text)
		}
		m.finishTurn()
		m.status = ""

	case stream.KindError:
		m.messages = append(m.messages, Message{Role: RoleError, Content: ev.Text})
		m.finishTurn()
		m.status = ""
	}
}
