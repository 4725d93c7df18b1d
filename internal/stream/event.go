// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

// EventKind identifies the variant of a stream event.
type EventKind int

const (
	// KindStatus is a transient progress note ("Thinking...", "Searching web...").
	KindStatus EventKind = iota

	// KindStreamStart marks the beginning of character emission.
	// Exactly one precedes all Char events of a turn.
	KindStreamStart

	// KindChar carries a single rune of the response.
	KindChar

	// KindComplete is the success terminal event; Text holds the full response.
	KindComplete

	// KindError is the failure terminal event; Text holds a user-facing message.
	KindError
)

// String returns the kind name for logging.
func (k EventKind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindStreamStart:
		return "stream_start"
	case KindChar:
		return "char"
	case KindComplete:
		return "complete"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one item on a turn's channel.
//
// Char is only meaningful for KindChar; Text is only meaningful for
// KindStatus (the status line), KindComplete (the full response text),
// and KindError (the error message).
type Event struct {
	Kind EventKind
	Char rune
	Text string
}

// Terminal reports whether this event ends the turn's stream.
func (e Event) Terminal() bool {
	return e.Kind == KindComplete || e.Kind == KindError
}

// Status builds a status event.
func Status(text string) Event {
	return Event{Kind: KindStatus, Text: text}
}

// StreamStart builds the stream-start marker.
func StreamStart() Event {
	return Event{Kind: KindStreamStart}
}

// Char builds a single-character event.
func Char(r rune) Event {
	return Event{Kind: KindChar, Char: r}
}

// Complete builds the success terminal event carrying the full text.
func Complete(fullText string) Event {
	return Event{Kind: KindComplete, Text: fullText}
}

// Error builds the failure terminal event.
func Error(message string) Event {
	return Event{Kind: KindError, Text: message}
}
