// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package websearch provides the web lookup collaborator for context
// enrichment.
//
// The client queries the DuckDuckGo Instant Answer API for a short
// abstract. It fails closed: any network condition, bad status, or
// malformed payload yields an empty result rather than an error, because
// web context is strictly optional and must never surface a failure into
// the response stream. Requests are rate limited so a chatty user cannot
// hammer the public API.
package websearch
