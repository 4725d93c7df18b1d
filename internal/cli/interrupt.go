// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// interrupt.go - Signal handling for streaming replies.

package cli

import (
	"os"
	"os/signal"

	"github.com/jeranaias/hande-tui/internal/stream"
)

// watchInterrupt routes SIGINT to the turn's cancel signal for as long
// as the returned restore function has not been called.
func watchInterrupt(cancel *stream.Signal) (restore func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigCh:
				cancel.Raise()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
