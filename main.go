// hande - local AI chat for your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/hande-tui/internal/cli"
	"github.com/jeranaias/hande-tui/internal/config"
	"github.com/jeranaias/hande-tui/internal/ollama"
	"github.com/jeranaias/hande-tui/internal/orchestrate"
	"github.com/jeranaias/hande-tui/internal/store"
	"github.com/jeranaias/hande-tui/internal/ui/chat"
	"github.com/jeranaias/hande-tui/internal/ui/styles"
	"github.com/jeranaias/hande-tui/internal/websearch"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Version and help need no wiring.
	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(args.Verbose)
	defer logger.Sync()

	env, cleanup, err := buildEnv(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	switch cmd {
	case cli.CmdChat:
		err = cli.HandleChat(env, args)
	case cli.CmdAsk:
		err = cli.HandleAsk(env, args)
	case cli.CmdSessions:
		err = cli.HandleSessions(env, args)
	default:
		err = runTUI(env)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// buildEnv wires the store, backend and orchestrator from config.
// The returned cleanup closes everything in reverse order.
func buildEnv(cfg *config.Config, logger *zap.Logger) (*cli.Env, func(), error) {
	dbPath := cfg.Storage.DatabasePath
	if dbPath == "" {
		p, err := store.DefaultDatabasePath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving database path: %w", err)
		}
		dbPath = p
	}

	st, err := store.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening conversation store: %w", err)
	}

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL: cfg.Ollama.URL,
		Timeout: time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
	})

	if cfg.Ollama.AutoStart {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := client.EnsureRunning(ctx); err != nil {
			logger.Warn("ollama not reachable", zap.Error(err))
		}
		cancel()
	}

	// The client is always wired so the watcher can re-enable lookups
	// at runtime; the orchestrator gates actual use.
	web := websearch.NewClientWithConfig(&websearch.ClientConfig{
		RequestsPerSecond: cfg.Web.RequestsPerSecond,
	})

	orc := orchestrate.New(st, &orchestrate.OllamaBackend{Client: client},
		web, orchestratorConfig(cfg), logger)

	env := &cli.Env{
		Config: cfg,
		Store:  st,
		Orc:    orc,
		Logger: logger,
	}

	watcher := watchConfig(orc, logger)

	cleanup := func() {
		if watcher != nil {
			watcher.Close()
		}
		if err := st.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}
	return env, cleanup, nil
}

// orchestratorConfig maps file config onto the pipeline's tunables.
func orchestratorConfig(cfg *config.Config) orchestrate.Config {
	oc := orchestrate.DefaultConfig()
	if len(cfg.Ollama.Models) > 0 {
		oc.Candidates = cfg.Ollama.Models
	}
	if cfg.Generation.PacingMs > 0 {
		oc.PacingInterval = time.Duration(cfg.Generation.PacingMs) * time.Millisecond
	}
	if cfg.Generation.Persona != "" {
		oc.Persona = cfg.Generation.Persona
	}
	if cfg.Context.RecentTimeoutMs > 0 {
		oc.Assembler.RecentTimeout = time.Duration(cfg.Context.RecentTimeoutMs) * time.Millisecond
	}
	if cfg.Context.WebTimeoutMs > 0 {
		oc.Assembler.WebTimeout = time.Duration(cfg.Context.WebTimeoutMs) * time.Millisecond
	}
	if cfg.Context.RecentTurns > 0 {
		oc.Assembler.RecentTurnLimit = cfg.Context.RecentTurns
	}
	oc.WebDisabled = !cfg.Web.Enabled
	return oc
}

// watchConfig applies model-list and pacing changes from edited config
// files without a restart. Returns nil when no config file exists yet.
func watchConfig(orc *orchestrate.Orchestrator, logger *zap.Logger) *config.Watcher {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	w, err := config.NewWatcher(path, func(next *config.Config) {
		orc.SetCandidates(next.Ollama.Models)
		orc.SetPacingInterval(time.Duration(next.Generation.PacingMs) * time.Millisecond)
		orc.SetWebEnabled(next.Web.Enabled)
	}, logger)
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
		return nil
	}
	if err := w.Watch(); err != nil {
		logger.Warn("config watcher failed to start", zap.Error(err))
		w.Close()
		return nil
	}
	return w
}

// runTUI seeds the chat model with the most recent session's history
// and hands control to bubbletea.
func runTUI(env *cli.Env) error {
	ctx := context.Background()

	var sessionID string
	var prior []store.Turn
	if sessions, err := env.Store.ListSessions(ctx, 1); err == nil && len(sessions) > 0 {
		sessionID = sessions[0].ID
		if turns, err := env.Store.LoadTurns(ctx, sessionID); err == nil {
			prior = turns
		}
	}
	if sessionID == "" {
		id, err := env.Store.CreateSession(ctx)
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		sessionID = id
	}

	m := chat.New(styles.NewTheme(), env.Orc, env.Store, sessionID, prior)
	return chat.Run(m)
}

// newLogger writes diagnostics to ~/.hande/hande.log. The TUI owns the
// terminal, so logs never go to stdout or stderr.
func newLogger(verbose bool) *zap.Logger {
	dir, err := config.ConfigDir()
	if err != nil {
		return zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zap.NewNop()
	}

	logPath := filepath.Join(dir, "hande.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return zap.NewNop()
	}

	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(f),
		level,
	)
	return zap.New(core)
}
