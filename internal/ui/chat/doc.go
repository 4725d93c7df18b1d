// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat view for the hande TUI.

The view is a Bubble Tea model over the response pipeline. Each turn it
receives the pipeline's event channel and cancel signal, then drains
events at frame rate:

  - Status events become a transient spinner line
  - Char events grow the in-progress assistant message
  - Complete swaps in the markdown-rendered final text
  - Error appends a styled error entry

Draining is non-blocking (TryReceive) so the UI stays responsive no
matter how fast the pipeline produces. Escape raises the cancel signal;
the characters already shown stay in the transcript.

# Usage

	theme := styles.NewTheme()
	model := chat.New(theme, orc, store, sessionID, prior)
	if err := chat.Run(model); err != nil {
		log.Fatal(err)
	}
*/
package chat
