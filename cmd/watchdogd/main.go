// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Watchdogd is a userspace supervisor for the Linux hardware watchdog
// timer. It opens the watchdog device (arming the hardware), programs
// the requested timeout, and then kicks the device on a fixed cadence
// forever so the machine is not rebooted.
//
// By default the process backgrounds itself, logging to the system log
// unless --logfile is given. With --safe-exit, SIGINT and SIGTERM
// disarm the hardware before exiting; without it, killing the daemon
// leaves the watchdog armed and the machine reboots once the hardware
// timeout elapses — the facility exists precisely so a dead supervisor
// still protects against a hung system.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/watchdogd/lib/logging"
	"github.com/bureau-foundation/watchdogd/lib/process"
	"github.com/bureau-foundation/watchdogd/lib/sdnotify"
	"github.com/bureau-foundation/watchdogd/lib/version"
	"github.com/bureau-foundation/watchdogd/watchdog"
)

const programName = "watchdogd"

type config struct {
	foreground  bool
	logFile     string
	devicePath  string
	timeout     int
	interval    int
	pretimeout  int
	safeExit    bool
	verbose     bool
	showVersion bool
}

func main() {
	err := run(os.Args[1:])
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	process.Fatal(err)
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}

	flags := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	flags.BoolVarP(&cfg.foreground, "foreground", "f", false,
		"stay in the foreground (backgrounding is the default)")
	flags.StringVarP(&cfg.logFile, "logfile", "l", "",
		"log to this file when backgrounded (default: system log)")
	flags.StringVarP(&cfg.devicePath, "device", "d", watchdog.DefaultDevicePath,
		"watchdog device node to supervise")
	flags.IntVarP(&cfg.timeout, "timeout", "w", watchdog.DefaultTimeout,
		"hardware watchdog timeout in seconds")
	flags.IntVarP(&cfg.interval, "interval", "k", -1,
		"kick interval in seconds (default: half the hardware timeout)")
	flags.IntVarP(&cfg.pretimeout, "pretimeout", "p", -1,
		"hardware pretimeout in seconds (default: leave unset)")
	flags.BoolVarP(&cfg.safeExit, "safe-exit", "s", false,
		"disarm the watchdog on SIGINT/SIGTERM instead of letting it fire")
	flags.BoolVarP(&cfg.verbose, "verbose", "V", false,
		"debug-level logging, noisy output suitable for debugging")
	flags.BoolVarP(&cfg.showVersion, "version", "v", false,
		"print version information and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr,
			"Usage: %s [flags]\n\nA userspace watchdog daemon: kicks %s every %d seconds by default.\n\nFlags:\n%s",
			programName, watchdog.DefaultDevicePath, watchdog.DefaultKickInterval,
			flags.FlagUsages())
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if cfg.timeout <= 0 {
		return nil, fmt.Errorf("watchdog timeout must be positive, got %d", cfg.timeout)
	}
	if flags.Changed("interval") && cfg.interval < 0 {
		return nil, fmt.Errorf("kick interval must not be negative, got %d", cfg.interval)
	}
	if flags.Changed("pretimeout") && cfg.pretimeout < 0 {
		return nil, fmt.Errorf("pretimeout must not be negative, got %d", cfg.pretimeout)
	}
	return cfg, nil
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	if cfg.showVersion {
		fmt.Printf("%s %s\n", programName, version.Info())
		return nil
	}

	backgrounded := os.Getenv(backgroundEnv) == "1"
	if !cfg.foreground && !backgrounded {
		// Parent: spawn the detached child and exit successfully.
		return spawnBackground(cfg.logFile)
	}

	logger := logging.New(logging.Options{
		Verbose: cfg.verbose,
		Syslog:  backgrounded && cfg.logFile == "",
		Tag:     programName,
	})
	if backgrounded {
		logger.Debug("started in daemon mode")
	}

	device, err := watchdog.Open(cfg.devicePath)
	if err != nil {
		// In the default backgrounded mode stderr is the null device
		// and the logger routes to syslog; without this record the
		// fatal open failure would be invisible there.
		logger.Error("failed opening watchdog device", "error", err)
		return err
	}

	if status, err := device.BootStatus(); err != nil {
		logger.Debug("failed reading watchdog boot status", "error", err)
	} else if status&watchdog.BootStatusCardReset != 0 {
		logger.Info("previous reboot was caused by the watchdog", "status", status)
	}

	if cfg.pretimeout >= 0 {
		if err := device.SetPretimeout(cfg.pretimeout); err != nil {
			logger.Error("failed setting watchdog pretimeout", "error", err)
		}
	}

	timing := watchdog.Negotiate(device, logger, cfg.timeout, cfg.interval)
	supervisor := watchdog.NewSupervisor(device, timing, logger)

	// When systemd runs this unit with WatchdogSec, forward every
	// hardware kick as a WATCHDOG=1 so the manager's software watchdog
	// and the hardware one share a cadence.
	if managerTimeout, ok := sdnotify.WatchdogEnabled(); ok {
		if time.Duration(timing.Interval)*time.Second >= managerTimeout {
			logger.Warn("kick interval is not below the service manager watchdog timeout",
				"interval", timing.Interval, "manager_timeout", managerTimeout)
		}
		supervisor.KeepAliveHook = func() { _ = sdnotify.Watchdog() }
	}

	ctx := context.Background()
	if cfg.safeExit {
		// Safe exit: SIGINT/SIGTERM cancel the supervision context and
		// the disarm below runs. Without --safe-exit no handler is
		// installed and the default disposition kills the process with
		// the hardware still armed.
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	_ = sdnotify.Ready()
	_ = sdnotify.Status(fmt.Sprintf("kicking %s every %ds", cfg.devicePath, timing.Interval))

	supervisor.Run(ctx)

	// Reached only through the safe-exit signal path.
	logger.Debug("safe exit, disabling hardware watchdog")
	_ = sdnotify.Stopping()
	if err := device.Disarm(); err != nil {
		return fmt.Errorf("disarming watchdog: %w", err)
	}
	return nil
}
