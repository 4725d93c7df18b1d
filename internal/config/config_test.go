// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Ollama.URL != "http://127.0.0.1:11434" {
		t.Errorf("Ollama.URL = %q", cfg.Ollama.URL)
	}
	if len(cfg.Ollama.Models) == 0 {
		t.Error("default model list is empty")
	}
	if cfg.Generation.PacingMs != 5 {
		t.Errorf("Generation.PacingMs = %d, want 5", cfg.Generation.PacingMs)
	}
	if cfg.Context.RecentTimeoutMs != 500 || cfg.Context.WebTimeoutMs != 1000 {
		t.Errorf("context budgets = %d/%d, want 500/1000",
			cfg.Context.RecentTimeoutMs, cfg.Context.WebTimeoutMs)
	}
	if !cfg.Web.Enabled {
		t.Error("web search disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestLoadFromPath_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ollama]
url = "http://localhost:9999"
models = ["tinyllama"]

[generation]
pacing_ms = 10

[web]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Ollama.URL != "http://localhost:9999" {
		t.Errorf("Ollama.URL = %q", cfg.Ollama.URL)
	}
	if len(cfg.Ollama.Models) != 1 || cfg.Ollama.Models[0] != "tinyllama" {
		t.Errorf("Ollama.Models = %v", cfg.Ollama.Models)
	}
	if cfg.Generation.PacingMs != 10 {
		t.Errorf("PacingMs = %d, want 10", cfg.Generation.PacingMs)
	}
	if cfg.Web.Enabled {
		t.Error("web search should be disabled")
	}
	// Unset fields are backfilled.
	if cfg.Context.RecentTimeoutMs != 500 {
		t.Errorf("RecentTimeoutMs = %d, want backfilled 500", cfg.Context.RecentTimeoutMs)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"ollama": {"url": "http://localhost:8888"}, "ui": {"theme": "light"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Ollama.URL != "http://localhost:8888" {
		t.Errorf("Ollama.URL = %q", cfg.Ollama.URL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q", cfg.UI.Theme)
	}
}

func TestLoadFromPath_InvalidTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected validation error for invalid theme")
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Ollama.Models = []string{"custom-model"}
	cfg.Generation.PacingMs = 12

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if len(loaded.Ollama.Models) != 1 || loaded.Ollama.Models[0] != "custom-model" {
		t.Errorf("Models = %v", loaded.Ollama.Models)
	}
	if loaded.Generation.PacingMs != 12 {
		t.Errorf("PacingMs = %d, want 12", loaded.Generation.PacingMs)
	}
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.UI.Theme = "auto"

	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.UI.Theme != "auto" {
		t.Errorf("UI.Theme = %q, want auto", loaded.UI.Theme)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("HANDE_OLLAMA_URL", "http://envhost:1234")
	t.Setenv("HANDE_MODELS", "m1, m2 ,m3")
	t.Setenv("HANDE_WEB_SEARCH", "false")
	t.Setenv("HANDE_PACING_MS", "7")
	t.Setenv("HANDE_DB_PATH", "/tmp/hande-test.db")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Ollama.URL != "http://envhost:1234" {
		t.Errorf("Ollama.URL = %q", cfg.Ollama.URL)
	}
	want := []string{"m1", "m2", "m3"}
	if len(cfg.Ollama.Models) != len(want) {
		t.Fatalf("Models = %v, want %v", cfg.Ollama.Models, want)
	}
	for i := range want {
		if cfg.Ollama.Models[i] != want[i] {
			t.Errorf("Models[%d] = %q, want %q", i, cfg.Ollama.Models[i], want[i])
		}
	}
	if cfg.Web.Enabled {
		t.Error("HANDE_WEB_SEARCH=false did not disable web search")
	}
	if cfg.Generation.PacingMs != 7 {
		t.Errorf("PacingMs = %d, want 7", cfg.Generation.PacingMs)
	}
	if cfg.Storage.DatabasePath != "/tmp/hande-test.db" {
		t.Errorf("DatabasePath = %q", cfg.Storage.DatabasePath)
	}
}

func TestApplyEnvOverrides_InvalidPacingIgnored(t *testing.T) {
	t.Setenv("HANDE_PACING_MS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Generation.PacingMs != 5 {
		t.Errorf("PacingMs = %d, want untouched 5", cfg.Generation.PacingMs)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.Ollama.URL = "not a url" }},
		{"negative pacing", func(c *Config) { c.Generation.PacingMs = -1 }},
		{"negative recent timeout", func(c *Config) { c.Context.RecentTimeoutMs = -5 }},
		{"too many recent turns", func(c *Config) { c.Context.RecentTurns = 100 }},
		{"negative rate", func(c *Config) { c.Web.RequestsPerSecond = -1 }},
		{"bad theme", func(c *Config) { c.UI.Theme = "sepia" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestClone_Independent(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()

	clone.Ollama.Models[0] = "mutated"
	if cfg.Ollama.Models[0] == "mutated" {
		t.Error("clone shares the model slice with the original")
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[generation]\npacing_ms = 5\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var reloaded atomic.Pointer[Config]
	w, err := NewWatcher(path, func(cfg *Config) { reloaded.Store(cfg) }, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.debounce = 30 * time.Millisecond
	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[generation]\npacing_ms = 9\n"), 0600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		if cfg := reloaded.Load(); cfg != nil {
			if cfg.Generation.PacingMs != 9 {
				t.Errorf("reloaded PacingMs = %d, want 9", cfg.Generation.PacingMs)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("watcher never delivered the reloaded config")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatcher_KeepsPreviousOnBrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var reloads atomic.Int32
	w, err := NewWatcher(path, func(*Config) { reloads.Add(1) }, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.debounce = 30 * time.Millisecond
	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("this is [not valid toml"), 0600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if n := reloads.Load(); n != 0 {
		t.Errorf("broken config triggered %d reloads, want 0", n)
	}
}
