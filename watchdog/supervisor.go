// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchdog

import (
	"context"
	"log/slog"
	"time"

	"github.com/bureau-foundation/watchdogd/lib/clock"
)

// Supervisor kicks a watchdog device on a fixed cadence. It owns no
// goroutines and has no state beyond its configuration: Run is the
// process's steady-state activity and returns only when the context is
// cancelled.
type Supervisor struct {
	device Device
	logger *slog.Logger
	clock  clock.Clock
	tick   time.Duration

	// KeepAliveHook, when non-nil, runs after every kick attempt.
	// Used to forward keep-alives to the service manager when the
	// daemon itself runs under a systemd watchdog. Set before Run.
	KeepAliveHook func()
}

// NewSupervisor returns a supervisor kicking device every
// timing.Interval seconds.
func NewSupervisor(device Device, timing Timing, logger *slog.Logger) *Supervisor {
	tick := time.Duration(timing.Interval) * time.Second
	if tick <= 0 {
		// A zero interval is a legal (if pathological) explicit
		// operator choice; the ticker requires a positive period.
		tick = time.Second
	}
	return &Supervisor{
		device: device,
		logger: logger,
		clock:  clock.Real(),
		tick:   tick,
	}
}

// Run kicks immediately, then on every interval boundary until ctx is
// cancelled. Kick failures are logged at debug level and never
// escalated: the next scheduled kick is the retry, and crashing the
// supervisor on a transient error would guarantee the reboot the kick
// was trying to prevent. The loop has no exit condition of its own.
func (s *Supervisor) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		s.kick()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Supervisor) kick() {
	s.logger.Debug("kicking watchdog")
	if err := s.device.Kick(); err != nil {
		s.logger.Debug("watchdog kick failed", "error", err)
	}
	if s.KeepAliveHook != nil {
		s.KeepAliveHook()
	}
}
