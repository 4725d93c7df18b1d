// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the hande TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/hande-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock represents a rendered code block.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render renders the code block with syntax highlighting and line numbers.
func (c CodeBlock) Render() string {
	code := strings.TrimSpace(c.Code)

	language := c.Language
	if language == "" {
		language = detectLanguage(code)
	}

	highlighted := highlightCode(code, language)
	lines := strings.Split(highlighted, "\n")

	lineNumStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	var renderedLines []string
	for i, line := range lines {
		lineNum := lineNumStyle.Render(strconv.Itoa(i + 1))
		renderedLines = append(renderedLines, lineNum+line)
	}
	codeContent := strings.Join(renderedLines, "\n")

	var header string
	if c.Language != "" {
		langBadge := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Background(styles.OverlayDim).
			Padding(0, 1).
			Bold(true).
			Render(c.Language)
		header = langBadge + "\n"
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(1, 2).
		MaxWidth(maxWidth).
		Render(header + codeContent)
}

// ParseCodeBlocks extracts fenced code blocks from markdown text and
// replaces them with rendered versions. Text outside the fences passes
// through untouched.
func ParseCodeBlocks(text string, maxWidth int) string {
	lines := strings.Split(text, "\n")
	var result []string
	var inCodeBlock bool
	var codeLines []string
	var language string

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			if inCodeBlock {
				code := strings.Join(codeLines, "\n")
				cb := NewCodeBlock(language, code)
				cb.SetMaxWidth(maxWidth)
				result = append(result, cb.Render())
				codeLines = nil
				language = ""
				inCodeBlock = false
			} else {
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inCodeBlock = true
			}
		} else if inCodeBlock {
			codeLines = append(codeLines, line)
		} else {
			result = append(result, line)
		}
	}

	// Unclosed fence: render what accumulated so the stream never shows
	// raw backticks mid-generation.
	if inCodeBlock && len(codeLines) > 0 {
		code := strings.Join(codeLines, "\n")
		cb := NewCodeBlock(language, code)
		cb.SetMaxWidth(maxWidth)
		result = append(result, cb.Render())
	}

	return strings.Join(result, "\n")
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// highlightCode applies syntax highlighting using the chroma library.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}

// detectLanguage attempts to detect the programming language of the code.
func detectLanguage(code string) string {
	lexer := lexers.Analyse(code)
	if lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
