// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

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

// Windows-specific creation flags
const (
	// CREATE_NO_WINDOW prevents a console window from being created
	CREATE_NO_WINDOW = 0x08000000
	// DETACHED_PROCESS creates a new process that is detached from the console
	DETACHED_PROCESS = 0x00000008
)

// findOllamaExecutable searches for ollama.exe in common installation paths on Windows.
func findOllamaExecutable() (string, error) {
	if path, err := exec.LookPath("ollama.exe"); err == nil {
		return path, nil
	}
	if path, err := exec.LookPath("ollama"); err == nil {
		return path, nil
	}

	possiblePaths := []string{}

	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		possiblePaths = append(possiblePaths, filepath.Join(localAppData, "Programs", "Ollama", "ollama.exe"))
	}

	possiblePaths = append(possiblePaths,
		`C:\Program Files\Ollama\ollama.exe`,
		`C:\Program Files (x86)\Ollama\ollama.exe`,
	)

	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(userProfile, "Ollama", "ollama.exe"),
			filepath.Join(userProfile, ".ollama", "ollama.exe"),
		)
	}

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("ollama.exe not found in PATH or common installation directories. " +
		"Please ensure Ollama is installed. Checked: PATH, %%LOCALAPPDATA%%\\Programs\\Ollama, " +
		"C:\\Program Files\\Ollama")
}

// startOllamaProcess starts the Ollama server on Windows and waits for it
// to become reachable. Ollama can take a while on first launch, so the
// startup budget is generous.
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

	// Detach fully: new process group, no console window.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | CREATE_NO_WINDOW | DETACHED_PROCESS,
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

	deadline := time.Now().Add(c.config.StartupWait + 5*time.Second)
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

		checkCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
		lastErr = c.CheckRunning(checkCtx)
		cancel()

		if lastErr == nil {
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}

	return &ClientError{
		Type:    ErrTypeConnection,
		Message: fmt.Sprintf("Ollama started but not responding (path: %s)", ollamaPath),
		Cause:   lastErr,
	}
}
