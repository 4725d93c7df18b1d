// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the hande TUI.

# Code Blocks (codeblock.go)

CodeBlock renders fenced code with chroma syntax highlighting, line
numbers and a language badge:

	cb := components.NewCodeBlock("go", code)
	cb.SetMaxWidth(100)
	out := cb.Render()

ParseCodeBlocks walks markdown text and renders every fenced block in
place, which is how completed assistant responses get their code
styling.

# Markdown (markdown.go)

MarkdownRenderer wraps glamour for full-message markdown rendering:

	md := components.NewMarkdownRenderer(80)
	out := md.Render(response)
*/
package components
