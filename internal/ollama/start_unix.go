// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package ollama

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// findOllamaExecutable searches for ollama in common installation paths on Unix.
func findOllamaExecutable() (string, error) {
	if path, err := exec.LookPath("ollama"); err == nil {
		return path, nil
	}

	possiblePaths := []string{
		"/usr/local/bin/ollama",
		"/usr/bin/ollama",
		"/opt/ollama/ollama",
	}
	if home := os.Getenv("HOME"); home != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(home, ".local", "bin", "ollama"),
			filepath.Join(home, "bin", "ollama"),
		)
	}
	possiblePaths = append(possiblePaths,
		"/Applications/Ollama.app/Contents/Resources/ollama",
	)

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("ollama not found in PATH or common installation directories. " +
		"Please ensure Ollama is installed. Checked: PATH, /usr/local/bin, /usr/bin, ~/.local/bin")
}

// startOllamaProcess starts the Ollama server on Unix/macOS and waits for
// it to become reachable.
func (c *Client) startOllamaProcess(ctx context.Context) error {
	ollamaPath, err := findOllamaExecutable()
	if err != nil {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "failed to find Ollama executable",
			Cause:   err,
		}
	}

	cmd := exec.Command(ollamaPath, "serve")

	// Pass environment variables through so GPU-related vars reach Ollama.
	cmd.Env = os.Environ()

	// New process group so the server outlives this process.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: fmt.Sprintf("failed to start Ollama (path: %s)", ollamaPath),
			Cause:   err,
		}
	}

	if cmd.Process != nil {
		_ = cmd.Process.Release()
	}

	// Poll until the server answers or the startup budget runs out.
	deadline := time.Now().Add(c.config.StartupWait)
	var lastErr error

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return &ClientError{
				Type:    ErrTypeConnection,
				Message: "Ollama startup cancelled",
				Cause:   ctx.Err(),
			}
		default:
		}

		checkCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		lastErr = c.CheckRunning(checkCtx)
		cancel()

		if lastErr == nil {
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}

	return &ClientError{
		Type:    ErrTypeConnection,
		Message: fmt.Sprintf("Ollama started but not responding after %s (path: %s)", c.config.StartupWait, ollamaPath),
		Cause:   lastErr,
	}
}
