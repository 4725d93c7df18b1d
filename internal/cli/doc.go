// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface: argument
// parsing, the interactive terminal chat, one-shot queries, and
// saved-conversation management.
package cli
