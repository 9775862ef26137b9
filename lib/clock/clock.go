// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction so the kick
// loop can be tested deterministically. The supervisor's cadence is
// measured in whole seconds; tests that waited out real intervals would
// be unbearably slow, and tests that shrank the intervals would not
// exercise the configured values.
//
// Production code injects Real(); tests inject Fake() and drive it:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	supervisor := watchdog.NewSupervisor(device, timing, logger)
//	// ... start Run in a goroutine ...
//	c.WaitForTickers(1)            // loop has registered its ticker
//	c.Advance(10 * time.Second)    // fire the next kick deterministically
package clock

import "time"

// Clock abstracts the time operations the supervision loop performs.
// The loop's only use of time is its kick ticker; FakeClock carries
// additional methods (Advance, WaitForTickers, Now) for driving and
// asserting in tests.
type Clock interface {
	// NewTicker returns a Ticker delivering ticks on C at the given
	// interval. Panics if d <= 0, matching time.NewTicker.
	NewTicker(d time.Duration) *Ticker
}

// Ticker wraps a periodic timer. Read ticks from C; call Stop to
// release resources.
//
// C has capacity 1, matching time.Ticker: if the consumer falls
// behind, ticks are dropped rather than queued.
type Ticker struct {
	// C delivers ticks.
	C <-chan time.Time

	stopFunc func()
}

// Stop turns off the ticker. No more ticks are sent on C after Stop
// returns. Stop does not close C.
func (t *Ticker) Stop() { t.stopFunc() }
