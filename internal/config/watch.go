// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultWatchDebounce coalesces the burst of events editors emit for a
// single save into one reload.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher reloads the configuration file when it changes on disk and
// hands the validated result to a callback.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(*Config)
	logger   *zap.Logger

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	pending time.Time
}

// NewWatcher creates a watcher for the given config file. onReload is
// called with each successfully reloaded config; a file that fails to
// parse or validate is ignored and the previous config stays in effect.
func NewWatcher(path string, onReload func(*Config), logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     path,
		debounce: DefaultWatchDebounce,
		onReload: onReload,
		logger:   logger,
		watcher:  fsw,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching. Watches the parent directory rather than the
// file itself so atomic-rename saves keep working.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) processPending() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if !due {
				continue
			}

			cfg, err := LoadFromPath(w.path)
			if err != nil {
				w.logger.Warn("config reload failed, keeping previous config",
					zap.String("path", w.path),
					zap.Error(err))
				continue
			}
			w.logger.Info("config reloaded", zap.String("path", w.path))
			w.onReload(cfg)
		}
	}
}
