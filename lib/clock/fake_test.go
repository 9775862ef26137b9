// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNowAdvances(t *testing.T) {
	c := Fake(testEpoch)

	if !c.Now().Equal(testEpoch) {
		t.Errorf("Now() = %v, want %v", c.Now(), testEpoch)
	}

	c.Advance(90 * time.Second)
	want := testEpoch.Add(90 * time.Second)
	if !c.Now().Equal(want) {
		t.Errorf("Now() after advance = %v, want %v", c.Now(), want)
	}
}

func TestFakeTickerFiresOnAdvance(t *testing.T) {
	c := Fake(testEpoch)
	ticker := c.NewTicker(10 * time.Second)
	defer ticker.Stop()

	select {
	case <-ticker.C:
		t.Fatal("ticker fired before any advance")
	default:
	}

	c.Advance(10 * time.Second)
	select {
	case tick := <-ticker.C:
		if !tick.Equal(testEpoch.Add(10 * time.Second)) {
			t.Errorf("tick time = %v, want %v", tick, testEpoch.Add(10*time.Second))
		}
	default:
		t.Fatal("ticker did not fire after advancing one interval")
	}
}

func TestFakeTickerPartialAdvanceDoesNotFire(t *testing.T) {
	c := Fake(testEpoch)
	ticker := c.NewTicker(10 * time.Second)
	defer ticker.Stop()

	c.Advance(9 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("ticker fired before its deadline")
	default:
	}

	c.Advance(time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire at its deadline")
	}
}

func TestFakeTickerMultiIntervalAdvanceDropsOverflow(t *testing.T) {
	c := Fake(testEpoch)
	ticker := c.NewTicker(10 * time.Second)
	defer ticker.Stop()

	// Three intervals in one advance: the capacity-1 channel holds a
	// single tick, the rest are dropped like time.Ticker.
	c.Advance(30 * time.Second)

	ticks := 0
	for {
		select {
		case <-ticker.C:
			ticks++
			continue
		default:
		}
		break
	}
	if ticks != 1 {
		t.Errorf("received %d buffered ticks, want 1", ticks)
	}
}

func TestFakeTickerStop(t *testing.T) {
	c := Fake(testEpoch)
	ticker := c.NewTicker(10 * time.Second)

	ticker.Stop()
	c.Advance(time.Minute)

	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
	if c.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d after stop, want 0", c.ActiveCount())
	}
}

func TestWaitForTickers(t *testing.T) {
	c := Fake(testEpoch)

	registered := make(chan struct{})
	go func() {
		c.NewTicker(time.Second)
		close(registered)
	}()

	c.WaitForTickers(1)
	select {
	case <-registered:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForTickers returned before registration")
	}
}
