// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchdog

import "log/slog"

// Timing holds the timing parameters negotiated at startup. It is
// computed once and never mutated afterwards — the daemon has no
// reconfiguration operation, so both the supervisor and the exit path
// read it without synchronization.
type Timing struct {
	// RequestedTimeout is the hardware timeout in seconds the
	// operator asked for (DefaultTimeout when unspecified).
	RequestedTimeout int

	// ActualTimeout is the timeout the hardware reported after being
	// programmed. Drivers legitimately clamp or round the requested
	// value. Only meaningful when ActualKnown is true.
	ActualTimeout int

	// ActualKnown is false when the timeout readback failed and
	// ActualTimeout carries no information.
	ActualKnown bool

	// Interval is the effective kick cadence in seconds.
	Interval int
}

// Negotiate programs the requested hardware timeout and derives the
// effective kick interval. requestedInterval is the operator's explicit
// cadence in seconds; a negative value means "not supplied".
//
// Neither a rejected timeout nor a failed readback aborts negotiation:
// the hardware keeps whatever timeout it has, and the interval falls
// back to DefaultKickInterval. An explicit interval is honored
// unmodified even when it is at or above the hardware timeout — that
// configuration only earns a warning, because explicit operator intent
// outranks automatic safety. A derived interval is always half the
// effective timeout, so it is safely below it by construction.
func Negotiate(device Device, logger *slog.Logger, requestedTimeout, requestedInterval int) Timing {
	logger.Debug("setting watchdog timeout", "seconds", requestedTimeout)
	if err := device.SetTimeout(requestedTimeout); err != nil {
		logger.Error("failed setting hardware watchdog timeout", "error", err)
	}

	timing := Timing{
		RequestedTimeout: requestedTimeout,
		Interval:         requestedInterval,
	}

	actual, err := device.Timeout()
	if err != nil {
		logger.Error("failed reading current watchdog timeout", "error", err)
	} else {
		timing.ActualTimeout = actual
		timing.ActualKnown = true
		logger.Debug("watchdog timeout reported by hardware", "seconds", actual)
		if requestedInterval >= 0 && actual <= requestedInterval {
			logger.Warn("watchdog timeout <= kick interval",
				"timeout", actual, "interval", requestedInterval)
		}
	}

	if requestedInterval < 0 {
		if timing.ActualKnown {
			timing.Interval = timing.ActualTimeout / 2
		} else {
			timing.Interval = DefaultKickInterval
		}
	}
	logger.Debug("watchdog kick interval set", "seconds", timing.Interval)

	return timing
}
