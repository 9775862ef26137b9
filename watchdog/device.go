// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchdog

import "errors"

// DefaultDevicePath is the conventional watchdog device node. Kernels
// expose additional nodes (/dev/watchdog0, /dev/watchdog1, ...) when
// multiple watchdog drivers are loaded; this daemon supervises exactly
// one, selected by path.
const DefaultDevicePath = "/dev/watchdog"

// DefaultTimeout is the hardware timeout in seconds requested when the
// operator does not supply one.
const DefaultTimeout = 20

// DefaultKickInterval is the kick cadence in seconds used when the
// operator supplied no interval and the hardware timeout could not be
// read back.
const DefaultKickInterval = DefaultTimeout / 2

// Boot status flags from the kernel watchdog UAPI
// (include/uapi/linux/watchdog.h). Returned by [Device.BootStatus] as a
// bitmask; stable ABI.
const (
	// BootStatusOverheat indicates a reset caused by CPU overheat.
	BootStatusOverheat = 0x0001

	// BootStatusCardReset indicates the last reboot was caused by the
	// watchdog firing.
	BootStatusCardReset = 0x0020
)

// ErrDeviceClosed is returned by operations on a device that has
// already been disarmed and closed. The handle is permanently invalid
// for the remainder of the process lifetime; there is no reopen path.
var ErrDeviceClosed = errors.New("watchdog device is closed")

// Device is the driver surface the supervisor needs. The production
// implementation is returned by [Open]; tests substitute fakes.
type Device interface {
	// Kick issues the keep-alive that resets the hardware countdown.
	// Callers treat failure as transient: the next scheduled kick is
	// the retry, and escalating would defeat the watchdog's purpose.
	Kick() error

	// SetTimeout requests the hardware set its timeout in seconds.
	// The driver may clamp or round the value; call Timeout to learn
	// what was actually applied.
	SetTimeout(seconds int) error

	// Timeout reads back the hardware's current timeout in seconds.
	// A non-nil error means the value could not be determined; callers
	// fall back to defaults rather than trusting any returned number.
	Timeout() (int, error)

	// SetPretimeout requests the hardware fire its pretimeout governor
	// (NMI, panic, ...) the given number of seconds before the real
	// timeout. Not all drivers support it.
	SetPretimeout(seconds int) error

	// BootStatus returns the driver's boot status bitmask, which
	// records whether the last machine reset was caused by the
	// watchdog (BootStatusCardReset).
	BootStatus() (int, error)

	// Disarm writes the magic close byte and closes the handle,
	// telling the driver not to reboot the machine when the device is
	// released. Returns ErrDeviceClosed if the device was already
	// disarmed.
	Disarm() error
}
