// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging constructs the watchdogd structured logger. The core
// packages only ever call slog methods; all routing policy lives here.
//
// Routing:
//   - interactive (stderr is a terminal): human-readable text handler.
//   - non-interactive stderr (redirected, CI, or a backgrounded child
//     whose stderr points at the log file): JSON handler, one object
//     per line.
//   - backgrounded with no log file: the system log, so a daemon with
//     nowhere else to write is not silent. Each record is emitted at
//     the syslog priority matching its slog level, so "priority=err"
//     filtering sees errors and debug noise stays at debug.
package logging

import (
	"bytes"
	"context"
	"log/slog"
	"log/syslog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Options selects the logger's level and destination.
type Options struct {
	// Verbose enables debug-level output. Kick-by-kick activity and
	// recovered hardware errors are only visible at this level.
	Verbose bool

	// Syslog routes output to the system log (facility daemon)
	// instead of stderr. Set when the daemon is backgrounded without
	// an explicit log file.
	Syslog bool

	// Tag is the syslog tag, normally the program name.
	Tag string
}

// New builds the logger described by opts. When the system log is
// requested but unreachable (no /dev/log in minimal containers), the
// logger falls back to stderr rather than failing: losing log routing
// is not a reason to leave the watchdog unsupervised.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOptions := &slog.HandlerOptions{Level: level}

	if opts.Syslog {
		writer, err := syslog.New(syslog.LOG_DAEMON|syslog.LOG_INFO, opts.Tag)
		if err == nil {
			return slog.New(newSyslogHandler(writer, handlerOptions))
		}
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOptions))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, handlerOptions))
}

// priorityWriter is the subset of *syslog.Writer the handler needs:
// one send method per priority.
type priorityWriter interface {
	Err(message string) error
	Warning(message string) error
	Info(message string) error
	Debug(message string) error
}

// syslogHandler formats records as JSON and submits each at the syslog
// priority matching its level. The syslog transport carries the
// priority out of band, so a plain io.Writer adapter would flatten
// every record to a single priority and break downstream filtering.
type syslogHandler struct {
	mu     *sync.Mutex
	buffer *bytes.Buffer
	inner  slog.Handler
	writer priorityWriter
}

func newSyslogHandler(writer priorityWriter, options *slog.HandlerOptions) *syslogHandler {
	buffer := &bytes.Buffer{}
	return &syslogHandler{
		mu:     &sync.Mutex{},
		buffer: buffer,
		inner:  slog.NewJSONHandler(buffer, options),
		writer: writer,
	}
}

func (h *syslogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *syslogHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buffer.Reset()
	if err := h.inner.Handle(ctx, record); err != nil {
		return err
	}
	message := strings.TrimSuffix(h.buffer.String(), "\n")

	switch {
	case record.Level >= slog.LevelError:
		return h.writer.Err(message)
	case record.Level >= slog.LevelWarn:
		return h.writer.Warning(message)
	case record.Level >= slog.LevelInfo:
		return h.writer.Info(message)
	default:
		return h.writer.Debug(message)
	}
}

func (h *syslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &syslogHandler{
		mu:     h.mu,
		buffer: h.buffer,
		inner:  h.inner.WithAttrs(attrs),
		writer: h.writer,
	}
}

func (h *syslogHandler) WithGroup(name string) slog.Handler {
	return &syslogHandler{
		mu:     h.mu,
		buffer: h.buffer,
		inner:  h.inner.WithGroup(name),
		writer: h.writer,
	}
}
