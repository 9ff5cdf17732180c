// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging provides structured logging for CiteCheck components.
//
// The same logger serves the CLI and the validation service:
//
//   - Default: stderr output (Unix CLI convention)
//   - Optional: per-day JSON log files with automatic directory creation
//   - Optional: a LogExporter hook for deployments that must retain
//     review audit logs in an external system
//
// # Architecture
//
// Everything is built on log/slog. A multiHandler fans each record out
// to every configured destination, so stderr can stay human-readable
// while the file copy stays machine-parseable:
//
//	┌──────────────────────────────────────────────────────────┐
//	│                        Logger                            │
//	│  ┌───────────┐  ┌─────────────┐  ┌────────────────────┐  │
//	│  │  stderr   │  │  log file   │  │    LogExporter     │  │
//	│  │ (default) │  │ (optional)  │  │    (optional)      │  │
//	│  └───────────┘  └─────────────┘  └────────────────────┘  │
//	└──────────────────────────────────────────────────────────┘
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelInfo,
//	    LogDir:  "~/.citecheck/logs",
//	    Service: "api",
//	})
//	defer logger.Close()
//
//	logger.Info("review complete", "run_id", runID, "errors", n)
//
// Packages that take a *slog.Logger receive logger.Slog().
//
// # Security Considerations
//
// Nothing here redacts. Citation text is fine to log; API keys and
// client document content are not. Log metadata about secrets, never
// the secrets:
//
//	logger.Info("backend ready", "key_present", key != "")
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level is log severity, ordered Debug < Info < Warn < Error. Setting a
// minimum level discards everything below it.
type Level int

const (
	// LevelDebug is development troubleshooting: retrieval scoring detail,
	// prompt sizes, watcher events.
	LevelDebug Level = iota

	// LevelInfo is normal operation: corpus loaded, review complete,
	// server listening.
	LevelInfo

	// LevelWarn is recoverable trouble: degraded review, reload kept the
	// previous corpus snapshot, backend cooldown armed.
	LevelWarn

	// LevelError is a failed operation in a still-running process.
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to
// a Level. Unknown strings land on Info, matching the service default.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// toSlogLevel bridges Level to the standard library. Unknown values land
// on Info rather than silencing anything.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures a Logger. The zero value logs Info and above to
// stderr as text, which is the right default for the CLI.
type Config struct {
	// Level is the minimum severity kept. Default: LevelInfo (zero value
	// is LevelDebug only if set explicitly; the iota order puts Debug at
	// zero, so callers wanting Debug say so).
	Level Level

	// LogDir enables file logging alongside stderr. Files are named
	// "{Service}_{YYYY-MM-DD}.log", always JSON, in a directory created
	// with 0750 if missing. A leading ~ expands to the home directory.
	// Default: "" (no file).
	LogDir string

	// Service tags every record with the emitting component. Expected
	// values here are "api" and "cli". Default: "" (no tag).
	Service string

	// JSON switches the stderr stream to JSON. File output is JSON
	// regardless; this only affects what a human tailing the process
	// sees. Default: false.
	JSON bool

	// Quiet drops the stderr stream, leaving file and exporter output
	// only. For daemonized runs. Default: false.
	Quiet bool

	// Exporter, when set, receives every kept record asynchronously.
	// Export failures are dropped silently so a dead aggregator cannot
	// take the process down with it. Default: nil.
	Exporter LogExporter
}

// =============================================================================
// Export Interface
// =============================================================================

// LogExporter ships log entries to an external system: a log
// aggregator, object storage, or an audit archive. Firms running the
// validation service on client documents tend to need the review audit
// trail retained somewhere durable; this is the seam for that.
//
// Implementations must not block in Export. Buffer internally, flush in
// batches, and drop oldest on backpressure. Flush is called with a
// deadline during graceful shutdown, Close after it.
type LogExporter interface {
	// Export receives one entry. Called asynchronously per record with a
	// one-second context; the returned error is dropped.
	Export(ctx context.Context, entry LogEntry) error

	// Flush sends everything still buffered. Called during shutdown.
	Flush(ctx context.Context) error

	// Close releases connections and files. Called after Flush.
	Close() error
}

// LogEntry is the exporter-facing form of one record.
type LogEntry struct {
	// Timestamp when the record was produced (local time).
	Timestamp time.Time

	// Level of the record.
	Level Level

	// Message is the primary log line.
	Message string

	// Service comes from Config.Service.
	Service string

	// Attrs holds the key-value pairs, JSON-serializable values only.
	Attrs map[string]any
}

// =============================================================================
// Logger
// =============================================================================

// Logger wraps slog.Logger with multi-destination output and cleanup.
//
// Thread Safety: Safe for concurrent use. Mutable state is behind a
// mutex and slog handlers are themselves safe.
type Logger struct {
	// slog is the underlying structured logger.
	slog *slog.Logger

	// config is kept for level gating on export.
	config Config

	// file is the open log file, nil when file logging is off.
	file *os.File

	// exporter is the optional export hook.
	exporter LogExporter

	// mu protects file and exporter during Close.
	mu sync.Mutex
}

// New builds a Logger from config: a stderr handler unless Quiet, a
// file handler when LogDir is set, and the exporter when given. Callers
// owning a file or exporter must Close the logger.
func New(config Config) *Logger {
	var handlers []slog.Handler

	opts := &slog.HandlerOptions{
		Level: config.Level.toSlogLevel(),
	}

	if !config.Quiet {
		var stderrHandler slog.Handler
		if config.JSON {
			stderrHandler = slog.NewJSONHandler(os.Stderr, opts)
		} else {
			stderrHandler = slog.NewTextHandler(os.Stderr, opts)
		}
		handlers = append(handlers, stderrHandler)
	}

	logger := &Logger{
		config:   config,
		exporter: config.Exporter,
	}

	if config.LogDir != "" {
		logDir := expandPath(config.LogDir)
		if err := os.MkdirAll(logDir, 0750); err == nil {
			serviceName := config.Service
			if serviceName == "" {
				serviceName = "citecheck"
			}
			filename := fmt.Sprintf("%s_%s.log", serviceName, time.Now().Format("2006-01-02"))
			logPath := filepath.Join(logDir, filename)

			file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
			if err == nil {
				logger.file = file
				// File copies are for machines, so always JSON.
				fileHandler := slog.NewJSONHandler(file, opts)
				handlers = append(handlers, fileHandler)
			}
		}
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		// Quiet with no file still needs somewhere for fatal trouble;
		// fall back to stderr.
		handler = slog.NewTextHandler(os.Stderr, opts)
	case 1:
		handler = handlers[0]
	default:
		handler = &multiHandler{handlers: handlers}
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String("service", config.Service),
		})
	}

	logger.slog = slog.New(handler)
	return logger
}

// Default returns an Info-level stderr logger tagged "citecheck",
// suitable for CLI startup before configuration is parsed.
func Default() *Logger {
	return New(Config{
		Level:   LevelInfo,
		Service: "citecheck",
	})
}

// Debug logs at Debug level with slog-style key-value args.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Info logs at Info level with slog-style key-value args.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs at Warn level with slog-style key-value args.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LevelWarn, msg, args...)
}

// Error logs at Error level with slog-style key-value args.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}

// With returns a child logger carrying additional attributes, e.g. a
// run-scoped logger:
//
//	runLogger := logger.With("run_id", runID)
//
// The child shares the parent's file handle and exporter; closing
// either closes both.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:     l.slog.With(args...),
		config:   l.config,
		file:     l.file,
		exporter: l.exporter,
	}
}

// Slog exposes the underlying slog.Logger for packages that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close flushes and closes the exporter, then syncs and closes the log
// file. Returns the first error; later ones are discarded.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error

	if l.exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.exporter.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush exporter: %w", err))
		}
		if err := l.exporter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close exporter: %w", err))
		}
	}

	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("sync log file: %w", err))
		}
		if err := l.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// log writes to slog and, when an exporter is configured and the level
// clears the configured floor, hands a LogEntry to it asynchronously.
func (l *Logger) log(level Level, msg string, args ...any) {
	switch level {
	case LevelDebug:
		l.slog.Debug(msg, args...)
	case LevelInfo:
		l.slog.Info(msg, args...)
	case LevelWarn:
		l.slog.Warn(msg, args...)
	case LevelError:
		l.slog.Error(msg, args...)
	}

	if l.exporter != nil && level >= l.config.Level {
		entry := LogEntry{
			Timestamp: time.Now(),
			Level:     level,
			Message:   msg,
			Service:   l.config.Service,
			Attrs:     argsToMap(args),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = l.exporter.Export(ctx, entry)
		}()
	}
}

// =============================================================================
// Multi-Handler (Internal)
// =============================================================================

// multiHandler fans one record out to several slog handlers, letting
// stderr stay text while the file copy is JSON.
type multiHandler struct {
	handlers []slog.Handler
}

// Enabled reports whether any destination wants the level.
func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every enabled destination.
func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WithAttrs applies the attrs to every destination.
func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

// WithGroup applies the group to every destination.
func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// =============================================================================
// Helper Functions
// =============================================================================

// expandPath expands a leading ~ to the home directory; everything else
// passes through untouched.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// argsToMap converts slog-style alternating key-value args to a map for
// LogEntry.Attrs. Non-string keys and a trailing odd value are skipped.
func argsToMap(args []any) map[string]any {
	result := make(map[string]any)
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			result[key] = args[i+1]
		}
	}
	return result
}

// =============================================================================
// Built-in Exporters
// =============================================================================

// NopExporter discards everything. Stands in where an exporter is
// required but export is disabled.
type NopExporter struct{}

// Export discards the entry.
func (e *NopExporter) Export(ctx context.Context, entry LogEntry) error { return nil }

// Flush is a no-op.
func (e *NopExporter) Flush(ctx context.Context) error { return nil }

// Close is a no-op.
func (e *NopExporter) Close() error { return nil }

var _ LogExporter = (*NopExporter)(nil)

// BufferedExporter collects entries in memory. Intended for tests that
// assert on what was logged:
//
//	exporter := logging.NewBufferedExporter()
//	logger := logging.New(logging.Config{Exporter: exporter, Quiet: true})
//	logger.Info("review complete", "run_id", id)
//	entries := exporter.Entries()
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewBufferedExporter creates an empty BufferedExporter.
func NewBufferedExporter() *BufferedExporter {
	return &BufferedExporter{
		entries: make([]LogEntry, 0, 100),
	}
}

// Export appends the entry to the buffer.
func (e *BufferedExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Flush is a no-op; entries are already in memory.
func (e *BufferedExporter) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (e *BufferedExporter) Close() error {
	return nil
}

// Entries returns a copy of everything collected so far.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]LogEntry, len(e.entries))
	copy(result, e.entries)
	return result
}

// WriterExporter writes one formatted line per entry to an io.Writer.
type WriterExporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterExporter wraps the writer. The exporter does not own it;
// Close leaves it open.
func NewWriterExporter(w io.Writer) *WriterExporter {
	return &WriterExporter{w: w}
}

// Export writes the entry as a single line.
func (e *WriterExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := fmt.Fprintf(e.w, "[%s] %s: %s %v\n",
		entry.Timestamp.Format(time.RFC3339),
		entry.Level,
		entry.Message,
		entry.Attrs,
	)
	return err
}

// Flush is a no-op; writes are immediate.
func (e *WriterExporter) Flush(ctx context.Context) error { return nil }

// Close is a no-op; the writer belongs to the caller.
func (e *WriterExporter) Close() error { return nil }
