// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sdnotify implements the systemd sd_notify(3) protocol without
// cgo or a libsystemd dependency: state strings are written directly to
// the NOTIFY_SOCKET Unix datagram socket. Every function is a silent
// no-op when the daemon is not running under systemd.
package sdnotify

import (
	"net"
	"os"
	"strconv"
	"time"
)

// Ready sends READY=1, signaling that startup (device open and timeout
// negotiation) has completed.
func Ready() error {
	return notify("READY=1")
}

// Stopping sends STOPPING=1, signaling the safe-exit path has begun.
func Stopping() error {
	return notify("STOPPING=1")
}

// Watchdog sends WATCHDOG=1, resetting the service manager's software
// watchdog for this unit.
func Watchdog() error {
	return notify("WATCHDOG=1")
}

// Status sends STATUS=message for display in systemctl status.
func Status(message string) error {
	return notify("STATUS=" + message)
}

func notify(state string) error {
	socketPath := os.Getenv("NOTIFY_SOCKET")
	if socketPath == "" {
		return nil
	}

	conn, err := net.Dial("unixgram", socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Write([]byte(state))
	return err
}

// WatchdogEnabled reports whether the service manager expects periodic
// WATCHDOG=1 notifications from this process, and if so the timeout
// after which it considers the service hung. Follows the
// sd_watchdog_enabled(3) contract: WATCHDOG_USEC carries the timeout in
// microseconds, and WATCHDOG_PID (when present) must match this
// process, otherwise the variables were inherited and are not for us.
func WatchdogEnabled() (time.Duration, bool) {
	if pidValue := os.Getenv("WATCHDOG_PID"); pidValue != "" {
		pid, err := strconv.Atoi(pidValue)
		if err != nil || pid != os.Getpid() {
			return 0, false
		}
	}

	usec, err := strconv.ParseUint(os.Getenv("WATCHDOG_USEC"), 10, 64)
	if err != nil || usec == 0 {
		return 0, false
	}
	return time.Duration(usec) * time.Microsecond, true
}
