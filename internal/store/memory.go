// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process ConversationStore for tests and
// ephemeral (no-persistence) runs. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	turns    map[string][]Turn
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		turns:    make(map[string][]Turn),
	}
}

// CreateSession creates a new session and returns its ID.
func (m *MemoryStore) CreateSession(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	now := time.Now()
	m.sessions[id] = &Session{
		ID:        id,
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

// AppendTurn records a turn and updates session metadata atomically
// (a single lock acquisition plays the role of the SQL transaction).
func (m *MemoryStore) AppendTurn(ctx context.Context, sessionID, userText, assistantText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	now := time.Now()
	m.turns[sessionID] = append(m.turns[sessionID], Turn{
		UserText:      userText,
		AssistantText: assistantText,
		CreatedAt:     now,
	})
	sess.UpdatedAt = now
	sess.TurnCount++
	if sess.TurnCount == 1 {
		sess.Title = deriveTitle(userText)
	}
	return nil
}

// RecentTurns returns up to limit most recent turns, most-recent-last.
func (m *MemoryStore) RecentTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return nil, ErrSessionNotFound
	}

	all := m.turns[sessionID]
	if limit < len(all) {
		all = all[len(all)-limit:]
	}
	out := make([]Turn, len(all))
	copy(out, all)
	return out, nil
}

// LoadTurns returns a session's full history in insertion order.
func (m *MemoryStore) LoadTurns(ctx context.Context, sessionID string) ([]Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return nil, ErrSessionNotFound
	}

	out := make([]Turn, len(m.turns[sessionID]))
	copy(out, m.turns[sessionID])
	return out, nil
}

// ListSessions returns up to limit sessions ordered by last-updated desc.
func (m *MemoryStore) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, *sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	if limit > 0 && limit < len(sessions) {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// DeleteSession removes a session and its turns.
func (m *MemoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	delete(m.turns, sessionID)
	return nil
}

// RenameSession replaces a session's title.
func (m *MemoryStore) RenameSession(ctx context.Context, sessionID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Title = deriveTitle(title)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
