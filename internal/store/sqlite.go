// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultTitle is the placeholder title before a session's first turn.
const DefaultTitle = "New Chat"

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteStore is the durable ConversationStore backed by SQLite.
//
// The handle is shared across all turns of all sessions. Writes are
// serialized through writeMu on top of the single-connection pool;
// reads from other goroutines interleave safely under WAL mode.
type SQLiteStore struct {
	db *sql.DB

	// writeMu serializes the multi-statement append transaction so a
	// concurrent writer can never observe a half-updated session.
	writeMu sync.Mutex
}

// DefaultDatabasePath returns ~/.hande/memory.db.
func DefaultDatabasePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".hande", "memory.db"), nil
}

// OpenSQLite opens (and if needed creates) the conversation database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for SQLite
	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initSchema creates tables and indexes if they do not exist.
func (s *SQLiteStore) initSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			created_at   INTEGER NOT NULL,
			last_updated INTEGER NOT NULL,
			turn_count   INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS turns (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id     TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			user_text      TEXT NOT NULL,
			assistant_text TEXT NOT NULL,
			created_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(last_updated)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// CreateSession inserts a fresh session with the default title.
func (s *SQLiteStore) CreateSession(ctx context.Context) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := uuid.NewString()
	now := time.Now().Unix()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, title, created_at, last_updated) VALUES (?, ?, ?, ?)`,
		id, DefaultTitle, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// AppendTurn records a turn and its session metadata update atomically.
func (s *SQLiteStore) AppendTurn(ctx context.Context, sessionID, userText, assistantText string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO turns (session_id, user_text, assistant_text, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, userText, assistantText, now); err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET last_updated = ?, turn_count = turn_count + 1 WHERE id = ?`,
		now, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check session update: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	// First turn names the session after the user's opening message.
	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT turn_count FROM sessions WHERE id = ?`, sessionID).Scan(&count); err != nil {
		return fmt.Errorf("failed to read turn count: %w", err)
	}
	if count == 1 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET title = ? WHERE id = ?`,
			deriveTitle(userText), sessionID); err != nil {
			return fmt.Errorf("failed to set session title: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit turn: %w", err)
	}
	return nil
}

// DeleteSession removes a session and, via cascade, its turns.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// RenameSession replaces a session's title.
func (s *SQLiteStore) RenameSession(ctx context.Context, sessionID, title string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET title = ? WHERE id = ?`, deriveTitle(title), sessionID)
	if err != nil {
		return fmt.Errorf("failed to rename session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rename: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// RecentTurns returns the limit most recent turns, most-recent-last.
// Ordering is by insertion id, not timestamp, so retrieval stays
// deterministic even when the clock moves backwards between turns.
func (s *SQLiteStore) RecentTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_text, assistant_text, created_at FROM turns
		 WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent turns: %w", err)
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		return nil, err
	}

	// Query runs newest-first for the LIMIT; callers want oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// LoadTurns returns a session's full history in insertion order.
func (s *SQLiteStore) LoadTurns(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_text, assistant_text, created_at FROM turns
		 WHERE session_id = ? ORDER BY id ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	return scanTurns(rows)
}

// ListSessions returns up to limit sessions ordered by last-updated desc.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_at, last_updated, turn_count FROM sessions
		 ORDER BY last_updated DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var created, updated int64
		if err := rows.Scan(&sess.ID, &sess.Title, &created, &updated, &sess.TurnCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sess.CreatedAt = time.Unix(created, 0)
		sess.UpdatedAt = time.Unix(updated, 0)
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns one session's metadata.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var sess Session
	var created, updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, last_updated, turn_count FROM sessions WHERE id = ?`,
		sessionID).Scan(&sess.ID, &sess.Title, &created, &updated, &sess.TurnCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	sess.CreatedAt = time.Unix(created, 0)
	sess.UpdatedAt = time.Unix(updated, 0)
	return &sess, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func scanTurns(rows *sql.Rows) ([]Turn, error) {
	var turns []Turn
	for rows.Next() {
		var turn Turn
		var created int64
		if err := rows.Scan(&turn.UserText, &turn.AssistantText, &created); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.CreatedAt = time.Unix(created, 0)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}
	return turns, nil
}

// deriveTitle truncates text for use as a session title.
// Rune-based truncation keeps multi-byte characters intact.
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleMaxRunes {
		return text
	}
	return string(runes[:TitleMaxRunes-3]) + "..."
}
