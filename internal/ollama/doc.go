// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for the local Ollama backend.
//
// The client covers the surface the chat pipeline needs: a health check
// (with best-effort autostart of `ollama serve`), model listing, and a
// synchronous non-streaming chat call. The response pipeline manufactures
// its own character streaming from the complete response text, so the
// streaming endpoint is deliberately not wrapped here.
//
// All calls take a context and fail with typed *ClientError values;
// compare with errors.Is against the package sentinels.
//
// # Usage
//
//	client := ollama.NewClient()
//	if err := client.EnsureRunning(ctx); err != nil {
//	    log.Fatal("Ollama not available:", err)
//	}
//	text, err := client.Chat(ctx, "llama3.2", system, userQuery, ollama.DefaultChatOptions())
package ollama
