// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import "time"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message represents a chat message in the conversation.
type Message struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the request body for the /api/chat endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *Options  `json:"options,omitempty"`
}

// Options contains model parameters for inference.
type Options struct {
	Temperature float64 `json:"temperature,omitempty"` // 0.0-2.0
	NumCtx      int     `json:"num_ctx,omitempty"`     // Context window size
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens to generate
}

// DefaultChatOptions returns the fixed decoding configuration used for
// every generation. These are constants of the pipeline, not user knobs.
func DefaultChatOptions() *Options {
	return &Options{
		Temperature: 0.7,
		NumCtx:      2048,
		NumPredict:  300,
	}
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is the response from the /api/chat endpoint.
type ChatResponse struct {
	Model         string    `json:"model"`
	CreatedAt     time.Time `json:"created_at"`
	Message       Message   `json:"message"`
	Done          bool      `json:"done"`
	DoneReason    string    `json:"done_reason,omitempty"`
	TotalDuration int64     `json:"total_duration,omitempty"` // nanoseconds
	EvalCount     int       `json:"eval_count,omitempty"`     // tokens generated
}

// ModelInfo contains information about an installed model.
type ModelInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

// ListModelsResponse is the response from the /api/tags endpoint.
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// OllamaError is the error payload Ollama returns on failure.
type OllamaError struct {
	Error string `json:"error"`
}
