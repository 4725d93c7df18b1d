// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream carries generation output from the turn worker to the UI.
//
// Each turn owns exactly one Channel and one Signal. The worker produces
// typed events (status, stream start, characters, terminal) in FIFO order;
// the consumer drains the channel at its own cadence, either with a
// non-blocking TryReceive from a UI tick or a blocking Receive from a
// dedicated goroutine. The Signal is a write-once latch the consumer
// raises to abort streaming mid-turn.
//
// # Event Grammar
//
// For one turn, the event sequence on the channel always matches:
//
//	Status* (StreamStart Char* (Complete | Error))?
//
// There is at most one terminal event (Complete or Error) and nothing is
// sent after it. A cancelled turn simply stops after the last Char.
//
// # Usage
//
//	ch := stream.NewChannel()
//	sig := stream.NewSignal()
//	go worker(ch, sig)
//
//	for {
//	    ev, ok := ch.TryReceive()
//	    if !ok {
//	        continue // nothing pending, poll again next tick
//	    }
//	    if ev.Terminal() {
//	        break
//	    }
//	}
package stream
