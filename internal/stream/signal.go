// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import "sync/atomic"

// Signal is a write-once cancellation latch for a single turn.
//
// One party (the UI's stop button, Escape key, Ctrl+C handler) raises it;
// the generation worker polls IsRaised before every emitted character.
// Once raised it stays raised for the life of the turn. Signals are never
// reused: the orchestrator allocates a fresh one per BeginTurn.
type Signal struct {
	raised atomic.Bool
}

// NewSignal creates an unraised signal.
func NewSignal() *Signal {
	return &Signal{}
}

// Raise sets the latch. Idempotent and safe from any goroutine.
func (s *Signal) Raise() {
	s.raised.Store(true)
}

// IsRaised reports whether the latch has been set. Non-blocking and safe
// to call at any rate from any goroutine.
func (s *Signal) IsRaised() bool {
	return s.raised.Load()
}
