// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrate runs the end-to-end lifecycle of one chat turn.
//
// Given a user query, the Orchestrator decides whether auxiliary context
// is needed (recent turns, web search), fetches it concurrently under
// strict time budgets, picks a working model from an ordered fallback
// list, streams the answer character by character to a stream.Channel
// while polling a stream.Signal for cancellation, and finally records the
// exchange without ever blocking the stream.
//
// The turn moves through: assembling -> generating -> streaming ->
// completed | cancelled | failed. Each BeginTurn call owns a fresh
// channel, signal and worker goroutine; an orchestrator instance allows
// at most one in-flight turn and rejects overlapping calls with
// ErrAlreadyGenerating.
//
// Failure policy: context lookups degrade silently to empty context,
// model failures fall through the candidate list until exhaustion (one
// terminal Error event), and persistence is fire-and-forget with
// failures reported to the diagnostics logger only.
package orchestrate
