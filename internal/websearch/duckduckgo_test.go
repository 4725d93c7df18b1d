// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           url,
		RequestsPerSecond: 1000, // tests should not trip the limiter
	})
}

func TestSearch_Abstract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "weather today" {
			t.Errorf("q = %q, want %q", got, "weather today")
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "HandeAI") {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Write([]byte(`{"Abstract": "Weather is the state of the atmosphere."}`))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Search(context.Background(), "weather today")
	if got != "Weather is the state of the atmosphere." {
		t.Errorf("Search = %q", got)
	}
}

func TestSearch_RelatedTopicFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Abstract": "", "RelatedTopics": [{"Text": ""}, {"Text": "Some related fact."}]}`))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Search(context.Background(), "something")
	if got != "Some related fact." {
		t.Errorf("Search = %q", got)
	}
}

func TestSearch_TruncatesLongAbstract(t *testing.T) {
	long := strings.Repeat("a", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Abstract": "` + long + `"}`))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Search(context.Background(), "something")
	if len([]rune(got)) != AbstractMaxRunes {
		t.Errorf("abstract length = %d, want %d", len([]rune(got)), AbstractMaxRunes)
	}
}

func TestSearch_FailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed payload", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{{{not json`))
		}},
		{"empty payload", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			if got := newTestClient(srv.URL).Search(context.Background(), "anything"); got != "" {
				t.Errorf("Search = %q, want empty", got)
			}
		})
	}
}

func TestSearch_FailsClosedOnDeadServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if got := newTestClient(srv.URL).Search(context.Background(), "anything"); got != "" {
		t.Errorf("Search = %q, want empty", got)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	if got := NewClient().Search(context.Background(), ""); got != "" {
		t.Errorf("Search(\"\") = %q, want empty", got)
	}
}

func TestSearch_RateLimited(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"Abstract": "hit"}`))
	}))
	defer srv.Close()

	// Burst of 2, then the limiter should shed load without blocking.
	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, RequestsPerSecond: 0.001})
	for i := 0; i < 5; i++ {
		client.Search(context.Background(), "q")
	}
	if calls > 2 {
		t.Errorf("made %d requests, limiter should cap at burst of 2", calls)
	}
}
