// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// AbstractMaxRunes caps the returned abstract length.
const AbstractMaxRunes = 200

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the web lookup client.
type ClientConfig struct {
	// BaseURL is the Instant Answer endpoint (default: https://api.duckduckgo.com/)
	BaseURL string

	// Timeout bounds one lookup (default: 1s; the lookup is best-effort
	// and must never hold up a response)
	Timeout time.Duration

	// UserAgent identifies the client (default: "HandeAI/1.0")
	UserAgent string

	// RequestsPerSecond limits outbound lookups (default: 1, burst 2)
	RequestsPerSecond float64
}

// DefaultConfig returns the default web lookup configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "https://api.duckduckgo.com/",
		Timeout:           1 * time.Second,
		UserAgent:         "HandeAI/1.0",
		RequestsPerSecond: 1,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client performs instant-answer lookups. Thread-safe.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a web lookup client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a web lookup client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.duckduckgo.com/"
	}
	if config.Timeout == 0 {
		config.Timeout = 1 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "HandeAI/1.0"
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 1
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 2),
	}
}

// instantAnswer is the subset of the DuckDuckGo payload the client reads.
type instantAnswer struct {
	Abstract      string `json:"Abstract"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// Search returns a short abstract for the query, or "" when nothing
// usable is available. Never returns an error: web context is optional
// and every failure mode degrades to "no context".
func (c *Client) Search(ctx context.Context, query string) string {
	if query == "" {
		return ""
	}
	if !c.limiter.Allow() {
		return ""
	}

	endpoint, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return ""
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_redirect", "1")
	params.Set("no_html", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return ""
	}

	if answer.Abstract != "" {
		return truncate(answer.Abstract, AbstractMaxRunes)
	}

	// Fall back to the first related topic with text.
	for _, topic := range answer.RelatedTopics {
		if topic.Text != "" {
			return truncate(topic.Text, AbstractMaxRunes)
		}
	}

	return ""
}

// truncate limits s to maxRunes runes without splitting characters.
func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
