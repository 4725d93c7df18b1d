// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists conversation sessions and turns.
//
// A Session is a named, ordered sequence of turns; a Turn is one user
// query plus its final assistant response. Turns are immutable once
// written and ordered by insertion sequence rather than wall-clock
// timestamp, so context retrieval stays deterministic under clock skew.
//
// Two implementations ship:
//   - SQLiteStore: durable store on modernc.org/sqlite with WAL mode and
//     a single serialized writer. A turn insert and its session metadata
//     update commit in one transaction, so a session's turn count never
//     diverges from its recorded turns.
//   - MemoryStore: in-process stub for tests and ephemeral sessions.
//
// The orchestrator only depends on the ConversationStore interface; it
// receives one store instance at construction and shares it across all
// turns of all sessions.
package store
