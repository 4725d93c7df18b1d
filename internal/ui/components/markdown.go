// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders completed assistant responses as terminal
// markdown. Rendering is deferred until a turn completes; the in-flight
// character stream is shown raw so partial markdown never flickers
// through half-parsed states.
type MarkdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer wrapping at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	if width <= 0 {
		width = 80
	}
	m := &MarkdownRenderer{width: width}
	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	return m
}

// SetWidth rebuilds the renderer for a new wrap width.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if width == m.width {
		return
	}
	m.width = width
	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
}

// Render renders markdown for terminal display. Returns the original
// content unchanged if the renderer is unavailable or rendering fails.
func (m *MarkdownRenderer) Render(content string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
