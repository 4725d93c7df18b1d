// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/hande-tui/internal/store"
	"github.com/jeranaias/hande-tui/internal/stream"
)

// DefaultPacingInterval is the per-character delay of the manufactured
// stream. Presentation pacing only; it is not backpressure.
const DefaultPacingInterval = 5 * time.Millisecond

// persistTimeout bounds the background AppendTurn so a wedged store
// cannot leak workers forever.
const persistTimeout = 10 * time.Second

// ErrAlreadyGenerating is returned by BeginTurn while a prior turn's
// worker is still active. Overlapping turns are rejected, not queued.
var ErrAlreadyGenerating = &InvokeError{Message: "a response is already being generated"}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds the orchestrator's tunables. Candidates and pacing can be
// updated between turns via the setters (the config watcher uses this
// for live reload); a turn in flight keeps the values it started with.
type Config struct {
	// Candidates is the ordered model fallback list, fastest first.
	Candidates []string

	// PacingInterval is the delay between emitted characters.
	PacingInterval time.Duration

	// Assembler bounds the context lookups.
	Assembler AssemblerConfig

	// Persona overrides the static identity text when non-empty.
	Persona string

	// WebDisabled suppresses the web lookup even when a client was
	// wired. Zero value keeps lookups on.
	WebDisabled bool
}

// DefaultConfig returns the default orchestrator configuration.
// The candidate order favors the smallest, fastest models.
func DefaultConfig() Config {
	return Config{
		Candidates:     []string{"llama3.2", "llama3.2:1b", "llama3:8b", "gemma2:2b"},
		PacingInterval: DefaultPacingInterval,
		Assembler:      DefaultAssemblerConfig(),
		Persona:        DefaultPersona,
	}
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator composes the context assembler, model invoker and stream
// plumbing into the end-to-end turn lifecycle. It is the only component
// the UI calls into.
//
// The store handle and backend are shared across all turns; everything
// else (channel, signal, worker) is allocated fresh per BeginTurn.
type Orchestrator struct {
	store   store.ConversationStore
	backend Backend
	web     WebLookup
	logger  *zap.Logger

	mu     sync.Mutex
	config Config
	active bool
}

// New creates an orchestrator. The store is the single owned instance
// shared by all turns; logger may be nil for no diagnostics.
func New(st store.ConversationStore, backend Backend, web WebLookup, config Config, logger *zap.Logger) *Orchestrator {
	if len(config.Candidates) == 0 {
		config.Candidates = DefaultConfig().Candidates
	}
	if config.PacingInterval == 0 {
		config.PacingInterval = DefaultPacingInterval
	}
	if config.Persona == "" {
		config.Persona = DefaultPersona
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:   st,
		backend: backend,
		web:     web,
		logger:  logger,
		config:  config,
	}
}

// SetCandidates replaces the model fallback list for subsequent turns.
func (o *Orchestrator) SetCandidates(candidates []string) {
	if len(candidates) == 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.config.Candidates = candidates
}

// SetPacingInterval replaces the streaming pace for subsequent turns.
func (o *Orchestrator) SetPacingInterval(d time.Duration) {
	if d < 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.config.PacingInterval = d
}

// SetWebEnabled toggles the web lookup for subsequent turns.
func (o *Orchestrator) SetWebEnabled(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.config.WebDisabled = !enabled
}

// Generating reports whether a turn worker is currently active.
func (o *Orchestrator) Generating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// BeginTurn starts one turn for the query and returns the channel the
// caller drains and the signal it may raise to cancel.
//
// Fails synchronously with ErrAlreadyGenerating while a prior turn's
// worker is still active; no state changes in that case.
func (o *Orchestrator) BeginTurn(sessionID, query string) (*stream.Channel, *stream.Signal, error) {
	o.mu.Lock()
	if o.active {
		o.mu.Unlock()
		return nil, nil, ErrAlreadyGenerating
	}
	o.active = true
	cfg := o.config
	cfg.Candidates = append([]string(nil), o.config.Candidates...)
	o.mu.Unlock()

	ch := stream.NewChannel()
	sig := stream.NewSignal()

	go o.runTurn(cfg, sessionID, query, ch, sig)

	return ch, sig, nil
}

// runTurn is the per-turn worker. It owns the channel's producer side
// and is the only goroutine that sends on it.
func (o *Orchestrator) runTurn(cfg Config, sessionID, query string, ch *stream.Channel, sig *stream.Signal) {
	terminal := false
	defer func() {
		// A panic anywhere in assembly or generation becomes one
		// terminal Error event, never a crash across the consumer
		// boundary.
		if r := recover(); r != nil {
			o.logger.Error("turn worker panicked", zap.Any("panic", r))
			if !terminal {
				ch.Send(stream.Error(fmt.Sprintf("I encountered an error: %v", r)))
			}
		}
		o.mu.Lock()
		o.active = false
		o.mu.Unlock()
	}()

	ctx := context.Background()

	// Assembling.
	ch.Send(stream.Status("Thinking..."))

	web := o.web
	if cfg.WebDisabled {
		web = nil
	}
	assembler := NewAssembler(o.store, web, cfg.Assembler, o.logger)
	if web != nil && NeedsWebSearch(query) {
		ch.Send(stream.Status("Searching web..."))
	}
	recent, webInfo := assembler.Assemble(ctx, query, sessionID)

	systemPrompt := buildSystemPrompt(time.Now(), cfg.Persona, recent, webInfo)

	// Generating.
	ch.Send(stream.Status("Generating response..."))

	invoker := NewInvoker(o.backend, cfg.Candidates, o.logger)
	fullText, err := invoker.Invoke(ctx, systemPrompt, query)
	if err != nil {
		terminal = true
		ch.Send(stream.Error("No models available. Is Ollama running?"))
		return
	}

	// The backend returned the complete text; the stream below is
	// manufactured for the consumer experience.
	if sig.IsRaised() {
		return
	}

	// Streaming.
	ch.Send(stream.StreamStart())
	for _, r := range fullText {
		if sig.IsRaised() {
			// Cancelled: the characters already delivered are the
			// consumer's only artifact. No Complete, no persistence.
			return
		}
		ch.Send(stream.Char(r))
		if cfg.PacingInterval > 0 {
			time.Sleep(cfg.PacingInterval)
		}
	}

	terminal = true
	ch.Send(stream.Complete(fullText))

	// Completed: durably record the exchange without blocking the
	// stream. Fire-and-forget; the consumer never waits on this.
	go o.persistTurn(sessionID, query, fullText)
}

// persistTurn records a finished exchange. Failures are reported to the
// diagnostics logger and never surfaced to the consumer.
func (o *Orchestrator) persistTurn(sessionID, userText, assistantText string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := o.store.AppendTurn(ctx, sessionID, userText, assistantText); err != nil {
		o.logger.Warn("failed to persist turn",
			zap.String("session", sessionID),
			zap.Error(err))
	}
}
