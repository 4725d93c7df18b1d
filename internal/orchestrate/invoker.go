// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrate

import (
	"context"

	"go.uber.org/zap"

	"github.com/jeranaias/hande-tui/internal/ollama"
)

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// Backend is one model backend. A call either returns the complete
// response text or fails; the invoker treats every failure the same way
// and moves on to the next candidate.
type Backend interface {
	Chat(ctx context.Context, model, systemPrompt, userText string) (string, error)
}

// WebLookup fetches a short abstract for a query. Implementations fail
// closed (empty string) rather than erroring.
type WebLookup interface {
	Search(ctx context.Context, query string) string
}

// OllamaBackend adapts the ollama client to the Backend contract with
// the pipeline's fixed decoding configuration.
type OllamaBackend struct {
	Client *ollama.Client
}

// Chat issues a synchronous chat request against one model.
func (b *OllamaBackend) Chat(ctx context.Context, model, systemPrompt, userText string) (string, error) {
	return b.Client.Chat(ctx, model, systemPrompt, userText, ollama.DefaultChatOptions())
}

// =============================================================================
// ERRORS
// =============================================================================

// InvokeError represents an invoker-level failure.
type InvokeError struct {
	Message string
	Cause   error
}

func (e *InvokeError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *InvokeError) Unwrap() error {
	return e.Cause
}

// Is matches by message so wrapped instances compare to the sentinel.
func (e *InvokeError) Is(target error) bool {
	t, ok := target.(*InvokeError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrNoBackendAvailable means every candidate model failed.
var ErrNoBackendAvailable = &InvokeError{Message: "no backend model available"}

// =============================================================================
// MODEL INVOKER
// =============================================================================

// Invoker tries an ordered list of model candidates until one succeeds.
//
// The list is ordered fastest/smallest first: the policy favors
// predictable latency over guaranteed use of the most capable model.
type Invoker struct {
	backend    Backend
	candidates []string
	logger     *zap.Logger
}

// NewInvoker creates an invoker over the given ordered candidates.
func NewInvoker(backend Backend, candidates []string, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{
		backend:    backend,
		candidates: candidates,
		logger:     logger,
	}
}

// Invoke attempts each candidate in order and returns the first
// successful response text. Intermediate failures are not surfaced;
// only full exhaustion yields ErrNoBackendAvailable.
func (inv *Invoker) Invoke(ctx context.Context, systemPrompt, userQuery string) (string, error) {
	var lastErr error

	for _, model := range inv.candidates {
		text, err := inv.backend.Chat(ctx, model, systemPrompt, userQuery)
		if err != nil {
			inv.logger.Debug("model candidate failed, falling back",
				zap.String("model", model),
				zap.Error(err))
			lastErr = err
			continue
		}
		return text, nil
	}

	return "", &InvokeError{Message: ErrNoBackendAvailable.Message, Cause: lastErr}
}

// Candidates returns the candidate list (for status displays).
func (inv *Invoker) Candidates() []string {
	return inv.candidates
}
