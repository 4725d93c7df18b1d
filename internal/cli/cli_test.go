// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"testing"

	"github.com/jeranaias/hande-tui/internal/store"
)

func TestArgParser_FlagForms(t *testing.T) {
	p := NewArgParser([]string{"--model=llama3.2", "what", "is", "go", "-q"})

	if got := p.Flag("model", "m"); got != "llama3.2" {
		t.Errorf("Flag(model) = %q, want llama3.2", got)
	}
	if !p.BoolFlag("quiet", "q") {
		t.Error("BoolFlag(quiet) = false, want true")
	}
	if p.PositionalCount() != 3 {
		t.Errorf("PositionalCount() = %d, want 3", p.PositionalCount())
	}
	if got := p.Positional(0); got != "what" {
		t.Errorf("Positional(0) = %q, want what", got)
	}
}

func TestArgParser_SeparatedFlagValue(t *testing.T) {
	p := NewArgParser([]string{"--model", "gemma2:2b"})

	if got := p.Flag("model"); got != "gemma2:2b" {
		t.Errorf("Flag(model) = %q, want gemma2:2b", got)
	}
	if p.PositionalCount() != 0 {
		t.Errorf("PositionalCount() = %d, want 0", p.PositionalCount())
	}
}

func TestResolveSessionID_Prefix(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	env := &Env{Store: st}

	id, err := st.CreateSession(ctx)
	if err != nil {
		t.Fatal(err)
	}

	got, err := resolveSessionID(ctx, env, id[:8])
	if err != nil {
		t.Fatalf("resolveSessionID: %v", err)
	}
	if got != id {
		t.Errorf("resolved %q, want %q", got, id)
	}
}

func TestResolveSessionID_NotFound(t *testing.T) {
	ctx := context.Background()
	env := &Env{Store: store.NewMemoryStore()}

	if _, err := resolveSessionID(ctx, env, "nope"); err != store.ErrSessionNotFound {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q, want 01234567", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q, want abc", got)
	}
}
