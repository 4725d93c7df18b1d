// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/hande-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete hande configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Ollama backend configuration
	Ollama OllamaConfig `toml:"ollama" json:"ollama"`

	// Generation (streaming) configuration
	Generation GenerationConfig `toml:"generation" json:"generation"`

	// Context assembly configuration
	Context ContextConfig `toml:"context" json:"context"`

	// Web search configuration
	Web WebConfig `toml:"web" json:"web"`

	// Conversation storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// OllamaConfig contains the local backend settings.
type OllamaConfig struct {
	// URL is the address of the Ollama server
	URL string `toml:"url" json:"url"`
	// Models is the ordered fallback list, fastest first
	Models []string `toml:"models" json:"models"`
	// AutoStart launches the Ollama server when it is not running
	AutoStart bool `toml:"auto_start" json:"auto_start"`
	// TimeoutSecs bounds a single chat request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// GenerationConfig contains streaming presentation settings.
type GenerationConfig struct {
	// PacingMs is the delay between streamed characters in milliseconds.
	// Zero disables pacing; characters are emitted as fast as the
	// consumer can drain them.
	PacingMs int `toml:"pacing_ms" json:"pacing_ms"`
	// Persona overrides the built-in assistant identity when non-empty
	Persona string `toml:"persona" json:"persona"`
}

// ContextConfig bounds the per-turn context lookups.
type ContextConfig struct {
	// RecentTimeoutMs bounds the recent-turns fetch in milliseconds
	RecentTimeoutMs int `toml:"recent_timeout_ms" json:"recent_timeout_ms"`
	// WebTimeoutMs bounds the web lookup in milliseconds
	WebTimeoutMs int `toml:"web_timeout_ms" json:"web_timeout_ms"`
	// RecentTurns is how many prior turns to include in the prompt
	RecentTurns int `toml:"recent_turns" json:"recent_turns"`
}

// WebConfig contains web search settings.
type WebConfig struct {
	// Enabled controls whether time-sensitive queries trigger a lookup
	Enabled bool `toml:"enabled" json:"enabled"`
	// RequestsPerSecond throttles outbound lookups
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
}

// StorageConfig contains conversation persistence settings.
type StorageConfig struct {
	// DatabasePath is the SQLite database file (empty = ~/.hande/memory.db)
	DatabasePath string `toml:"database_path" json:"database_path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowStatus displays pipeline status lines while generating
	ShowStatus bool `toml:"show_status" json:"show_status"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Ollama: OllamaConfig{
			URL:         "http://127.0.0.1:11434",
			Models:      []string{"llama3.2", "llama3.2:1b", "llama3:8b", "gemma2:2b"},
			AutoStart:   true,
			TimeoutSecs: 60,
		},

		Generation: GenerationConfig{
			PacingMs: 5,
			Persona:  "",
		},

		Context: ContextConfig{
			RecentTimeoutMs: 500,
			WebTimeoutMs:    1000,
			RecentTurns:     2,
		},

		Web: WebConfig{
			Enabled:           true,
			RequestsPerSecond: 1,
		},

		Storage: StorageConfig{
			DatabasePath: "",
		},

		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
			ShowStatus:  true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the hande configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".hande"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	return finishLoad(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// finishLoad applies env overrides, backfills and validates.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# hande configuration file")
	fmt.Fprintln(file, "# Generated by hande - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file. The write is atomic
// with fsync so a crash mid-save cannot corrupt the file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults backfills zero values with defaults so a sparse config
// file never produces an unusable pipeline.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Ollama.URL == "" {
		c.Ollama.URL = defaults.Ollama.URL
	}
	if len(c.Ollama.Models) == 0 {
		c.Ollama.Models = defaults.Ollama.Models
	}
	if c.Ollama.TimeoutSecs == 0 {
		c.Ollama.TimeoutSecs = defaults.Ollama.TimeoutSecs
	}
	if c.Context.RecentTimeoutMs == 0 {
		c.Context.RecentTimeoutMs = defaults.Context.RecentTimeoutMs
	}
	if c.Context.WebTimeoutMs == 0 {
		c.Context.WebTimeoutMs = defaults.Context.WebTimeoutMs
	}
	if c.Context.RecentTurns == 0 {
		c.Context.RecentTurns = defaults.Context.RecentTurns
	}
	if c.Web.RequestsPerSecond == 0 {
		c.Web.RequestsPerSecond = defaults.Web.RequestsPerSecond
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Ollama.URL != "" {
		if u, err := url.Parse(c.Ollama.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "ollama.url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Ollama.URL),
			})
		}
	}

	if c.Ollama.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "ollama.timeout_secs",
			Message: "must be non-negative",
		})
	}

	if c.Generation.PacingMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "generation.pacing_ms",
			Message: "must be non-negative",
		})
	}

	if c.Context.RecentTimeoutMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "context.recent_timeout_ms",
			Message: "must be non-negative",
		})
	}
	if c.Context.WebTimeoutMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "context.web_timeout_ms",
			Message: "must be non-negative",
		})
	}
	if c.Context.RecentTurns < 0 || c.Context.RecentTurns > 50 {
		errs = append(errs, ValidationError{
			Field:   "context.recent_turns",
			Message: fmt.Sprintf("must be 0-50, got %d", c.Context.RecentTurns),
		})
	}

	if c.Web.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "web.requests_per_second",
			Message: "must be non-negative",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - HANDE_OLLAMA_URL: overrides ollama.url
//   - HANDE_MODELS: comma-separated list, overrides ollama.models
//   - HANDE_DB_PATH: overrides storage.database_path
//   - HANDE_WEB_SEARCH: set to "0" or "false" to disable web search
//   - HANDE_PACING_MS: overrides generation.pacing_ms
//   - HANDE_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	// HANDE_OLLAMA_URL
	if u := os.Getenv("HANDE_OLLAMA_URL"); u != "" {
		c.Ollama.URL = u
	}

	// HANDE_MODELS
	if models := os.Getenv("HANDE_MODELS"); models != "" {
		var list []string
		for _, m := range strings.Split(models, ",") {
			if m = strings.TrimSpace(m); m != "" {
				list = append(list, m)
			}
		}
		if len(list) > 0 {
			c.Ollama.Models = list
		}
	}

	// HANDE_DB_PATH
	if path := os.Getenv("HANDE_DB_PATH"); path != "" {
		c.Storage.DatabasePath = path
	}

	// HANDE_WEB_SEARCH
	if web := os.Getenv("HANDE_WEB_SEARCH"); web != "" {
		c.Web.Enabled = !(web == "0" || strings.ToLower(web) == "false")
	}

	// HANDE_PACING_MS
	if pacing := os.Getenv("HANDE_PACING_MS"); pacing != "" {
		if ms, err := strconv.Atoi(pacing); err == nil && ms >= 0 {
			c.Generation.PacingMs = ms
		}
	}

	// HANDE_THEME
	if theme := os.Getenv("HANDE_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Ollama.Models = append([]string(nil), c.Ollama.Models...)
	return &clone
}
