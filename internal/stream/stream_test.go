// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"sync"
	"testing"
)

// =============================================================================
// SIGNAL TESTS
// =============================================================================

func TestSignal_StartsUnraised(t *testing.T) {
	sig := NewSignal()
	if sig.IsRaised() {
		t.Error("new signal should not be raised")
	}
}

func TestSignal_RaiseIsIdempotent(t *testing.T) {
	sig := NewSignal()
	sig.Raise()
	sig.Raise()
	sig.Raise()
	if !sig.IsRaised() {
		t.Error("signal should be raised")
	}
}

func TestSignal_ConcurrentRaise(t *testing.T) {
	sig := NewSignal()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig.Raise()
			_ = sig.IsRaised()
		}()
	}
	wg.Wait()

	if !sig.IsRaised() {
		t.Error("signal should be raised after concurrent raises")
	}
}

// =============================================================================
// CHANNEL TESTS
// =============================================================================

func TestChannel_TryReceiveEmpty(t *testing.T) {
	ch := NewChannel()

	ev, ok := ch.TryReceive()
	if ok {
		t.Errorf("expected empty receive, got %v", ev)
	}
}

func TestChannel_PreservesFIFOOrder(t *testing.T) {
	ch := NewChannel()

	ch.Send(Status("Thinking..."))
	ch.Send(StreamStart())
	ch.Send(Char('h'))
	ch.Send(Char('i'))
	ch.Send(Complete("hi"))

	want := []EventKind{KindStatus, KindStreamStart, KindChar, KindChar, KindComplete}
	for i, kind := range want {
		ev, ok := ch.TryReceive()
		if !ok {
			t.Fatalf("event %d: channel empty", i)
		}
		if ev.Kind != kind {
			t.Errorf("event %d: got %v, want %v", i, ev.Kind, kind)
		}
	}

	if _, ok := ch.TryReceive(); ok {
		t.Error("channel should be drained")
	}
}

func TestChannel_CharPayload(t *testing.T) {
	ch := NewChannel()
	ch.Send(Char('世'))

	ev, ok := ch.TryReceive()
	if !ok {
		t.Fatal("channel empty")
	}
	if ev.Char != '世' {
		t.Errorf("Char = %q, want %q", ev.Char, '世')
	}
}

func TestChannel_SendNeverBlocks(t *testing.T) {
	ch := NewChannel()

	// A slow consumer must not stall the producer. Send a large burst
	// with nobody draining.
	for i := 0; i < 10000; i++ {
		ch.Send(Char('x'))
	}

	if ch.Len() != 10000 {
		t.Errorf("Len = %d, want 10000", ch.Len())
	}
}

func TestChannel_BlockingReceive(t *testing.T) {
	ch := NewChannel()

	done := make(chan Event)
	go func() {
		done <- ch.Receive()
	}()

	ch.Send(Complete("done"))

	ev := <-done
	if ev.Kind != KindComplete || ev.Text != "done" {
		t.Errorf("got %+v, want Complete(done)", ev)
	}
}

func TestChannel_ConcurrentProducerConsumer(t *testing.T) {
	ch := NewChannel()
	const n = 1000

	go func() {
		ch.Send(StreamStart())
		for i := 0; i < n; i++ {
			ch.Send(Char('a'))
		}
		ch.Send(Complete("done"))
	}()

	var chars int
	for {
		ev := ch.Receive()
		if ev.Kind == KindChar {
			chars++
		}
		if ev.Terminal() {
			break
		}
	}

	if chars != n {
		t.Errorf("received %d chars, want %d", chars, n)
	}
}

// =============================================================================
// EVENT TESTS
// =============================================================================

func TestEvent_Terminal(t *testing.T) {
	tests := []struct {
		ev   Event
		want bool
	}{
		{Status("x"), false},
		{StreamStart(), false},
		{Char('a'), false},
		{Complete("text"), true},
		{Error("boom"), true},
	}

	for _, tt := range tests {
		if got := tt.ev.Terminal(); got != tt.want {
			t.Errorf("Terminal(%v) = %v, want %v", tt.ev.Kind, got, tt.want)
		}
	}
}
