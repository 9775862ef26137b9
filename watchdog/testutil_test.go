// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchdog

import (
	"bytes"
	"log/slog"
	"sync"
)

// fakeDevice is an in-memory Device for negotiation and supervision
// tests. The reported timeout and per-operation errors are set by the
// test; kicks and disarms are recorded.
type fakeDevice struct {
	mu sync.Mutex

	reportedTimeout int
	timeoutErr      error
	setTimeoutErr   error
	kickErr         error

	lastSetTimeout int
	kicks          int
	disarmed       bool
	closed         bool
}

func (d *fakeDevice) Kick() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	d.kicks++
	return d.kickErr
}

func (d *fakeDevice) SetTimeout(seconds int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.setTimeoutErr != nil {
		return d.setTimeoutErr
	}
	d.lastSetTimeout = seconds
	return nil
}

func (d *fakeDevice) Timeout() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timeoutErr != nil {
		return 0, d.timeoutErr
	}
	return d.reportedTimeout, nil
}

func (d *fakeDevice) SetPretimeout(seconds int) error {
	return nil
}

func (d *fakeDevice) BootStatus() (int, error) {
	return 0, nil
}

func (d *fakeDevice) Disarm() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	d.disarmed = true
	d.closed = true
	return nil
}

func (d *fakeDevice) kickCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.kicks
}

// testLogger returns a debug-level logger writing to the returned
// buffer, so tests can assert on emitted warnings.
func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return logger, &buf
}
