// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	"github.com/jeranaias/hande-tui/internal/store"
	"github.com/jeranaias/hande-tui/internal/stream"
	"github.com/jeranaias/hande-tui/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	theme := styles.NewTheme()
	return New(theme, nil, store.NewMemoryStore(), "session-1", nil)
}

func TestApplyEvent_StatusSetsStatusLine(t *testing.T) {
	m := newTestModel(t)
	m.generating = true

	m.applyEvent(stream.Status("Thinking..."))
	if m.status != "Thinking..." {
		t.Errorf("status = %q", m.status)
	}

	m.applyEvent(stream.Status("Searching web..."))
	if m.status != "Searching web..." {
		t.Errorf("status = %q, later status should replace earlier", m.status)
	}
}

func TestApplyEvent_StreamBuildsAssistantMessage(t *testing.T) {
	m := newTestModel(t)
	m.generating = true

	m.applyEvent(stream.StreamStart())
	if len(m.messages) != 1 || m.messages[0].Role != RoleAssistant {
		t.Fatalf("messages after StreamStart = %+v", m.messages)
	}

	for _, r := range "Hi!" {
		m.applyEvent(stream.Char(r))
	}
	if m.messages[0].Content != "Hi!" {
		t.Errorf("streamed content = %q", m.messages[0].Content)
	}

	m.applyEvent(stream.Complete("Hi!"))
	if m.generating {
		t.Error("still generating after Complete")
	}
	if m.messages[0].Content != "Hi!" {
		t.Errorf("final content = %q", m.messages[0].Content)
	}
	if m.messages[0].Rendered == "" {
		t.Error("completed message was not markdown-rendered")
	}
}

func TestApplyEvent_CompleteReplacesPartialText(t *testing.T) {
	// The terminal event carries the authoritative full text even if
	// the consumer missed characters.
	m := newTestModel(t)
	m.generating = true

	m.applyEvent(stream.StreamStart())
	m.applyEvent(stream.Char('H'))
	m.applyEvent(stream.Complete("Hello there"))

	if m.messages[0].Content != "Hello there" {
		t.Errorf("content = %q, want full text from Complete", m.messages[0].Content)
	}
}

func TestApplyEvent_ErrorAppendsErrorEntry(t *testing.T) {
	m := newTestModel(t)
	m.generating = true

	m.applyEvent(stream.Status("Thinking..."))
	m.applyEvent(stream.Error("No models available. Is Ollama running?"))

	if m.generating {
		t.Error("still generating after Error")
	}
	if len(m.messages) != 1 || m.messages[0].Role != RoleError {
		t.Fatalf("messages = %+v, want single error entry", m.messages)
	}
	if !strings.Contains(m.messages[0].Content, "No models available") {
		t.Errorf("error text = %q", m.messages[0].Content)
	}
}

func TestNew_SeedsPriorTurns(t *testing.T) {
	theme := styles.NewTheme()
	prior := []store.Turn{
		{UserText: "q1", AssistantText: "a1"},
		{UserText: "q2", AssistantText: "a2"},
	}
	m := New(theme, nil, store.NewMemoryStore(), "s", prior)

	if len(m.messages) != 4 {
		t.Fatalf("seeded %d messages, want 4", len(m.messages))
	}
	if m.messages[0].Role != RoleUser || m.messages[0].Content != "q1" {
		t.Errorf("messages[0] = %+v", m.messages[0])
	}
	if m.messages[3].Role != RoleAssistant || m.messages[3].Content != "a2" {
		t.Errorf("messages[3] = %+v", m.messages[3])
	}
}

func TestRenderMessages_EmptyTranscriptShowsHint(t *testing.T) {
	m := newTestModel(t)
	m.viewport.Width = 80

	out := m.renderMessages()
	if !strings.Contains(out, "Start a conversation") {
		t.Errorf("empty transcript hint missing:\n%s", out)
	}
}
