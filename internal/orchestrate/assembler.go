// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/hande-tui/internal/store"
)

// Default context budgets. Enrichment must never make time-to-first-
// character worse than a fixed ceiling, even when storage or the network
// is slow or down.
const (
	DefaultRecentTimeout   = 500 * time.Millisecond
	DefaultWebTimeout      = 1000 * time.Millisecond
	DefaultRecentTurnLimit = 2
)

// AssemblerConfig bounds the two context lookups.
type AssemblerConfig struct {
	// RecentTimeout bounds the recent-turns fetch.
	RecentTimeout time.Duration

	// WebTimeout bounds the web lookup.
	WebTimeout time.Duration

	// RecentTurnLimit is how many prior turns to fetch.
	RecentTurnLimit int
}

// DefaultAssemblerConfig returns the default budgets.
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		RecentTimeout:   DefaultRecentTimeout,
		WebTimeout:      DefaultWebTimeout,
		RecentTurnLimit: DefaultRecentTurnLimit,
	}
}

// Assembler gathers optional context for a turn: recent conversation
// history and, when the query needs it, a web abstract.
type Assembler struct {
	store  store.ConversationStore
	web    WebLookup
	config AssemblerConfig
	logger *zap.Logger
}

// NewAssembler creates a context assembler.
func NewAssembler(st store.ConversationStore, web WebLookup, config AssemblerConfig, logger *zap.Logger) *Assembler {
	if config.RecentTimeout == 0 {
		config.RecentTimeout = DefaultRecentTimeout
	}
	if config.WebTimeout == 0 {
		config.WebTimeout = DefaultWebTimeout
	}
	if config.RecentTurnLimit == 0 {
		config.RecentTurnLimit = DefaultRecentTurnLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{store: st, web: web, config: config, logger: logger}
}

// Assemble fetches recent turns and (conditionally) web context,
// concurrently, each under its own budget.
//
// Returns whatever completed in time; a lookup that misses its budget is
// abandoned and its result discarded, never an error. The call returns
// within max(RecentTimeout, WebTimeout) regardless of how long the
// underlying lookups actually take.
func (a *Assembler) Assemble(ctx context.Context, query, sessionID string) (recent []store.Turn, webInfo string) {
	// Buffered so an abandoned lookup can still deliver and finish;
	// nobody reads the late result.
	recentCh := make(chan []store.Turn, 1)
	webCh := make(chan string, 1)

	go func() {
		lookupCtx, cancel := context.WithTimeout(ctx, a.config.RecentTimeout)
		defer cancel()
		turns, err := a.store.RecentTurns(lookupCtx, sessionID, a.config.RecentTurnLimit)
		if err != nil {
			a.logger.Debug("recent-context lookup failed", zap.Error(err))
			recentCh <- nil
			return
		}
		recentCh <- turns
	}()

	wantWeb := a.web != nil && NeedsWebSearch(query)
	if wantWeb {
		go func() {
			lookupCtx, cancel := context.WithTimeout(ctx, a.config.WebTimeout)
			defer cancel()
			webCh <- a.web.Search(lookupCtx, query)
		}()
	}

	// Both deadlines are anchored at launch, not at each await, so the
	// two awaits never add up: total wall time stays within the larger
	// of the two budgets.
	recentDeadline := time.After(a.config.RecentTimeout)
	webDeadline := time.After(a.config.WebTimeout)

	select {
	case recent = <-recentCh:
	case <-recentDeadline:
		a.logger.Debug("recent-context lookup timed out",
			zap.Duration("budget", a.config.RecentTimeout))
	}

	if wantWeb {
		select {
		case webInfo = <-webCh:
		case <-webDeadline:
			a.logger.Debug("web lookup timed out",
				zap.Duration("budget", a.config.WebTimeout))
		}
	}

	return recent, webInfo
}
