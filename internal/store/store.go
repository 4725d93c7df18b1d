// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// TitleMaxRunes caps session titles derived from the first turn.
const TitleMaxRunes = 30

// =============================================================================
// TYPES
// =============================================================================

// Session describes one conversation session.
type Session struct {
	// ID is an opaque unique identifier.
	ID string

	// Title is derived from the first turn's user text, truncated.
	// A fresh session carries the default title until its first turn.
	Title string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// UpdatedAt is bumped on every appended turn.
	UpdatedAt time.Time

	// TurnCount equals the number of durably recorded turns.
	TurnCount int
}

// Turn is one exchange within a session. Immutable once written.
type Turn struct {
	// UserText is the query as the user typed it.
	UserText string

	// AssistantText is the final assistant response.
	AssistantText string

	// CreatedAt is when the turn was recorded.
	CreatedAt time.Time
}

// =============================================================================
// ERRORS
// =============================================================================

// StoreError represents a store-level error.
// Use errors.Is to compare against the sentinels below.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrSessionNotFound is returned when a session ID does not exist.
var ErrSessionNotFound = &StoreError{Message: "session not found"}

// =============================================================================
// CONVERSATION STORE CONTRACT
// =============================================================================

// ConversationStore is the persistence collaborator consumed by the
// response pipeline. Implementations must tolerate concurrent readers
// alongside a single serialized writer.
type ConversationStore interface {
	// CreateSession creates a new session and returns its ID.
	CreateSession(ctx context.Context) (string, error)

	// AppendTurn atomically records a turn and updates its session's
	// metadata: last-updated timestamp, turn count, and, on the first
	// turn only, the title derived from userText. A failure of any step
	// rolls back the whole update.
	AppendTurn(ctx context.Context, sessionID, userText, assistantText string) error

	// RecentTurns returns up to limit most recent turns for a session,
	// ordered most-recent-last.
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error)

	// LoadTurns returns a session's full history in insertion order.
	LoadTurns(ctx context.Context, sessionID string) ([]Turn, error)

	// ListSessions returns up to limit sessions ordered by last-updated
	// descending.
	ListSessions(ctx context.Context, limit int) ([]Session, error)

	// DeleteSession removes a session and all its turns.
	DeleteSession(ctx context.Context, sessionID string) error

	// RenameSession replaces a session's title.
	RenameSession(ctx context.Context, sessionID, title string) error

	// Close releases the underlying handle.
	Close() error
}
