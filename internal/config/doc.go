// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for hande.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - OllamaConfig: Local backend address and model fallback list
//   - GenerationConfig: Streaming pace and persona
//   - ContextConfig: Per-turn context lookup budgets
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (HANDE_*)
//   - ~/.hande/config.toml
//   - ~/.hande/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Watch for live edits:
//
//	w, _ := config.NewWatcher(path, func(cfg *config.Config) {
//	    orc.SetCandidates(cfg.Ollama.Models)
//	}, logger)
//	w.Watch()
package config
