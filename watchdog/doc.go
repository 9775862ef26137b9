// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package watchdog implements supervision of a Linux hardware watchdog
// timer: the kernel device that reboots the machine unless userspace
// periodically signals liveness ("kicks" it).
//
// The package has three pieces. [Open] acquires the watchdog device node
// and returns a [Device] wrapping the driver's ioctl surface (keep-alive,
// timeout get/set, pretimeout, boot status) plus the magic-close disarm
// sequence. [Negotiate] programs the requested hardware timeout, reads
// back what the driver actually accepted, and derives the kick cadence —
// half the effective timeout unless the operator supplied an explicit
// interval, which is honored even when unsafe. [Supervisor] then kicks
// the device on that cadence forever.
//
// The supervisor's only exit is context cancellation. The caller decides
// what cancellation means: wired to SIGINT/SIGTERM it becomes the "safe
// exit" path (disarm the hardware, terminate cleanly); left unwired, the
// process dies with the watchdog still armed and the machine reboots once
// the hardware timeout elapses. The second behavior is deliberate — a
// supervisor that is killed should not quietly defuse the protection it
// was started to provide.
//
// Device is an interface so the negotiation and supervision logic can be
// exercised against fakes; production code uses the ioctl-backed
// implementation from Open, which exists only on Linux.
package watchdog
