// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

func TestParseCodeBlocks_PlainTextUntouched(t *testing.T) {
	text := "just a sentence\nand another one"
	if got := ParseCodeBlocks(text, 80); got != text {
		t.Errorf("plain text changed:\n%q", got)
	}
}

func TestParseCodeBlocks_RendersFencedBlock(t *testing.T) {
	text := "before\n```go\nfmt.Println(\"hi\")\n```\nafter"
	got := ParseCodeBlocks(text, 80)

	if !strings.Contains(got, "before") || !strings.Contains(got, "after") {
		t.Error("surrounding text lost")
	}
	if strings.Contains(got, "```") {
		t.Error("fence markers leaked into output")
	}
	if !strings.Contains(got, "Println") {
		t.Error("code content missing from output")
	}
}

func TestParseCodeBlocks_UnclosedFence(t *testing.T) {
	text := "```python\nprint('partial')"
	got := ParseCodeBlocks(text, 80)

	if !strings.Contains(got, "partial") {
		t.Error("unclosed block content missing")
	}
	if strings.Contains(got, "```") {
		t.Error("fence markers leaked into output")
	}
}

func TestCodeBlock_RenderIncludesLineNumbers(t *testing.T) {
	cb := NewCodeBlock("go", "a := 1\nb := 2\nc := 3")
	out := cb.Render()

	for _, n := range []string{"1", "2", "3"} {
		if !strings.Contains(out, n) {
			t.Errorf("line number %s missing", n)
		}
	}
}

func TestMarkdownRenderer_FallsBackOnPlainContent(t *testing.T) {
	md := NewMarkdownRenderer(80)
	out := md.Render("hello world")
	if !strings.Contains(out, "hello world") {
		t.Errorf("rendered output lost the content: %q", out)
	}
}
