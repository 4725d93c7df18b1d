// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"hande"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestParse_DefaultsToTUI(t *testing.T) {
	withArgs(t)

	cmd, _ := Parse()
	assert.Equal(t, CmdTUI, cmd)
}

func TestParse_Ask(t *testing.T) {
	withArgs(t, "ask", "--model", "llama3.2", "what", "is", "a", "goroutine")

	cmd, args := Parse()
	assert.Equal(t, CmdAsk, cmd)
	assert.Equal(t, "what is a goroutine", args.Query)
	assert.Equal(t, "llama3.2", args.Model)
}

func TestParse_BareQuestionBecomesAsk(t *testing.T) {
	withArgs(t, "why", "is", "the", "sky", "blue")

	cmd, args := Parse()
	assert.Equal(t, CmdAsk, cmd)
	assert.Equal(t, "why is the sky blue", args.Query)
}

func TestParse_Sessions(t *testing.T) {
	withArgs(t, "sessions", "delete", "abc123")

	cmd, args := Parse()
	assert.Equal(t, CmdSessions, cmd)
	assert.Equal(t, []string{"delete", "abc123"}, args.Remaining)
}

func TestParse_VersionAliases(t *testing.T) {
	for _, alias := range []string{"version", "-v", "--version"} {
		withArgs(t, alias)

		cmd, _ := Parse()
		assert.Equal(t, CmdVersion, cmd, "alias %s", alias)
	}
}

func TestParse_ChatQuiet(t *testing.T) {
	withArgs(t, "chat", "--quiet")

	cmd, args := Parse()
	assert.Equal(t, CmdChat, cmd)
	assert.True(t, args.Quiet)
}
