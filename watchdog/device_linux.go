// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package watchdog

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// magicClose is the byte the kernel watchdog framework recognizes as
// "expected close": a driver with CONFIG_WATCHDOG_NOWAYOUT unset will
// stop the timer instead of rebooting when the device is closed after
// this write (Documentation/watchdog/watchdog-api.rst).
const magicClose = 'V'

// hardwareDevice drives a kernel watchdog node through the WDIOC ioctl
// family. At most one open handle exists per process; the kernel
// additionally enforces exclusive access per node.
type hardwareDevice struct {
	file *os.File
	path string
}

// Open acquires the watchdog device node write-only. Opening the node
// arms the hardware: from this point the machine reboots unless the
// device is kicked or disarmed. Failure (missing node, permission,
// held by another process) is fatal to supervision — there is nothing
// to supervise without the device, so callers exit rather than retry.
func Open(path string) (Device, error) {
	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("opening watchdog device %s: %w", path, err)
	}
	return &hardwareDevice{file: file, path: path}, nil
}

func (d *hardwareDevice) Kick() error {
	if d.file == nil {
		return ErrDeviceClosed
	}
	if err := unix.IoctlWatchdogKeepalive(int(d.file.Fd())); err != nil {
		return fmt.Errorf("watchdog keepalive ioctl: %w", err)
	}
	return nil
}

func (d *hardwareDevice) SetTimeout(seconds int) error {
	if d.file == nil {
		return ErrDeviceClosed
	}
	if err := unix.IoctlSetPointerInt(int(d.file.Fd()), unix.WDIOC_SETTIMEOUT, seconds); err != nil {
		return fmt.Errorf("set watchdog timeout to %ds: %w", seconds, err)
	}
	return nil
}

func (d *hardwareDevice) Timeout() (int, error) {
	if d.file == nil {
		return 0, ErrDeviceClosed
	}
	seconds, err := unix.IoctlGetInt(int(d.file.Fd()), unix.WDIOC_GETTIMEOUT)
	if err != nil {
		return 0, fmt.Errorf("get watchdog timeout: %w", err)
	}
	return seconds, nil
}

func (d *hardwareDevice) SetPretimeout(seconds int) error {
	if d.file == nil {
		return ErrDeviceClosed
	}
	if err := unix.IoctlSetPointerInt(int(d.file.Fd()), unix.WDIOC_SETPRETIMEOUT, seconds); err != nil {
		return fmt.Errorf("set watchdog pretimeout to %ds: %w", seconds, err)
	}
	return nil
}

func (d *hardwareDevice) BootStatus() (int, error) {
	if d.file == nil {
		return 0, ErrDeviceClosed
	}
	status, err := unix.IoctlGetInt(int(d.file.Fd()), unix.WDIOC_GETBOOTSTATUS)
	if err != nil {
		return 0, fmt.Errorf("get watchdog boot status: %w", err)
	}
	return status, nil
}

// Disarm writes the magic close byte and closes the node. The write and
// the close are one logical operation: a close without the preceding
// magic byte makes the driver fire after its timeout.
func (d *hardwareDevice) Disarm() error {
	if d.file == nil {
		return ErrDeviceClosed
	}
	file := d.file
	d.file = nil
	if _, err := file.Write([]byte{magicClose}); err != nil {
		file.Close()
		return fmt.Errorf("writing watchdog magic close byte: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing watchdog device %s: %w", d.path, err)
	}
	return nil
}
