// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import "sync"

// Channel is an unbounded FIFO queue of events for one turn.
//
// Send never blocks the producer regardless of consumer pace; there is
// deliberately no backpressure so the generation worker's pacing loop is
// the only throttle on a turn. The consumer may mix TryReceive (UI tick)
// and Receive (dedicated goroutine) freely.
//
// Thread-safety: all operations are mutex-guarded; the producer runs in
// the turn worker goroutine while the consumer runs in the UI loop.
type Channel struct {
	mu     sync.Mutex
	notify *sync.Cond
	events []Event
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	ch := &Channel{}
	ch.notify = sync.NewCond(&ch.mu)
	return ch
}

// Send appends an event. Never blocks.
func (c *Channel) Send(ev Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
	c.notify.Signal()
}

// TryReceive pops the oldest pending event without blocking.
// Returns (zero Event, false) when nothing is pending.
func (c *Channel) TryReceive() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return Event{}, false
	}
	return c.popLocked(), true
}

// Receive blocks until an event is available and pops it.
// Intended for a dedicated consumer goroutine; the caller must stop
// receiving after a terminal event, since nothing follows one.
func (c *Channel) Receive() Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.events) == 0 {
		c.notify.Wait()
	}
	return c.popLocked()
}

// Len returns the number of pending events.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// popLocked removes and returns the head event. Caller holds c.mu.
func (c *Channel) popLocked() Event {
	ev := c.events[0]
	// Shift rather than re-slice so the backing array does not pin
	// already-consumed events for the life of the turn.
	copy(c.events, c.events[1:])
	c.events = c.events[:len(c.events)-1]
	return ev
}
