// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchdog

import (
	"errors"
	"strings"
	"testing"
)

func TestNegotiateDerivedInterval(t *testing.T) {
	tests := []struct {
		name         string
		requested    int
		reported     int
		wantInterval int
	}{
		{"hardware accepts requested", 20, 20, 10},
		{"hardware clamps upward", 20, 60, 30},
		{"hardware clamps downward", 120, 30, 15},
		{"odd timeout rounds down", 20, 15, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := &fakeDevice{reportedTimeout: tt.reported}
			logger, _ := testLogger()

			timing := Negotiate(device, logger, tt.requested, -1)

			if timing.Interval != tt.wantInterval {
				t.Errorf("interval = %d, want %d", timing.Interval, tt.wantInterval)
			}
			if !timing.ActualKnown {
				t.Error("ActualKnown = false, readback succeeded")
			}
			if timing.ActualTimeout != tt.reported {
				t.Errorf("ActualTimeout = %d, want %d", timing.ActualTimeout, tt.reported)
			}
			if timing.Interval >= timing.ActualTimeout {
				t.Errorf("derived interval %d not below timeout %d",
					timing.Interval, timing.ActualTimeout)
			}
			if device.lastSetTimeout != tt.requested {
				t.Errorf("SetTimeout received %d, want %d", device.lastSetTimeout, tt.requested)
			}
		})
	}
}

func TestNegotiateExplicitIntervalWins(t *testing.T) {
	device := &fakeDevice{reportedTimeout: 20}
	logger, log := testLogger()

	timing := Negotiate(device, logger, 20, 25)

	if timing.Interval != 25 {
		t.Errorf("interval = %d, want explicit 25", timing.Interval)
	}
	if !strings.Contains(log.String(), "watchdog timeout <= kick interval") {
		t.Errorf("missing unsafe-interval warning in log: %s", log.String())
	}
}

func TestNegotiateIntervalEqualToTimeoutWarns(t *testing.T) {
	// The comparison is <=: an interval exactly equal to the timeout
	// is warning-worthy, not only a strictly larger one.
	device := &fakeDevice{reportedTimeout: 20}
	logger, log := testLogger()

	timing := Negotiate(device, logger, 20, 20)

	if timing.Interval != 20 {
		t.Errorf("interval = %d, want explicit 20", timing.Interval)
	}
	if !strings.Contains(log.String(), "watchdog timeout <= kick interval") {
		t.Errorf("missing warning for interval == timeout: %s", log.String())
	}
}

func TestNegotiateSafeExplicitIntervalNoWarning(t *testing.T) {
	device := &fakeDevice{reportedTimeout: 20}
	logger, log := testLogger()

	timing := Negotiate(device, logger, 20, 5)

	if timing.Interval != 5 {
		t.Errorf("interval = %d, want explicit 5", timing.Interval)
	}
	if strings.Contains(log.String(), "watchdog timeout <= kick interval") {
		t.Errorf("unexpected warning for safe interval: %s", log.String())
	}
}

func TestNegotiateReadbackFailure(t *testing.T) {
	device := &fakeDevice{timeoutErr: errors.New("ioctl: inappropriate ioctl for device")}
	logger, _ := testLogger()

	timing := Negotiate(device, logger, 20, -1)

	if timing.ActualKnown {
		t.Error("ActualKnown = true after failed readback")
	}
	if timing.Interval != DefaultKickInterval {
		t.Errorf("interval = %d, want fallback %d", timing.Interval, DefaultKickInterval)
	}
}

func TestNegotiateReadbackFailureKeepsExplicitInterval(t *testing.T) {
	device := &fakeDevice{timeoutErr: errors.New("ioctl failed")}
	logger, log := testLogger()

	timing := Negotiate(device, logger, 20, 25)

	if timing.Interval != 25 {
		t.Errorf("interval = %d, want explicit 25", timing.Interval)
	}
	// The timeout is unknown, so there is nothing to compare against.
	if strings.Contains(log.String(), "watchdog timeout <= kick interval") {
		t.Errorf("unexpected warning with unknown timeout: %s", log.String())
	}
}

func TestNegotiateSetTimeoutFailureContinues(t *testing.T) {
	device := &fakeDevice{
		reportedTimeout: 42,
		setTimeoutErr:   errors.New("ioctl: operation not supported"),
	}
	logger, log := testLogger()

	timing := Negotiate(device, logger, 20, -1)

	// The hardware kept its own timeout; derivation uses the readback.
	if timing.Interval != 21 {
		t.Errorf("interval = %d, want 21 (half of reported 42)", timing.Interval)
	}
	if !strings.Contains(log.String(), "failed setting hardware watchdog timeout") {
		t.Errorf("missing set-timeout error in log: %s", log.String())
	}
}
