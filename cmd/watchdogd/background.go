// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// backgroundEnv marks the re-executed child so it does not background
// itself again.
const backgroundEnv = "WATCHDOGD_BACKGROUNDED"

// spawnBackground re-executes the daemon detached from the invoking
// terminal: new session via setsid, working directory /, stdio on the
// log file when one was given and the null device otherwise. Go cannot
// fork(2) after the runtime has started, so backgrounding is a re-exec
// of the same binary and arguments with a marker in the environment.
// The parent returns once the child has started; its exit is the
// operator's signal that the daemon is running.
func spawnBackground(logFile string) error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving own executable path: %w", err)
	}

	cmd := exec.Command(executable, os.Args[1:]...)
	cmd.Env = append(os.Environ(), backgroundEnv+"=1")
	cmd.Dir = "/"
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if logFile != "" {
		sink, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", logFile, err)
		}
		// Parent's copy closes after Start; the child holds its own.
		defer sink.Close()
		cmd.Stdout = sink
		cmd.Stderr = sink
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting background daemon: %w", err)
	}
	// The child outlives the parent; releasing drops the bookkeeping
	// without waiting.
	return cmd.Process.Release()
}
