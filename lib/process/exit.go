// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint error handler for
// watchdogd. Startup failures (device open, flag validation, failed
// backgrounding) happen before or outside the structured logger, so
// they are reported raw to stderr; everything after startup goes
// through slog.
package process

import (
	"fmt"
	"os"
)

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized — a watchdog daemon that cannot open its device must
// fail loudly on the invoking terminal, not into a log nobody watches.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
