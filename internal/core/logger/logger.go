// Package logger provides the structured logging engine for Skiff.
// Uses log/slog with support for multiple sinks: stderr, file, TUI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Logger
// ─────────────────────────────────────────────────────────────────────────────

// Logger wraps slog.Logger with Skiff-specific utilities.
type Logger struct {
	*slog.Logger
	auditW io.Writer // append-only audit log writer (nil = disabled)
}

// tuiSinkCh receives formatted log lines for TUI display when set.
var (
	tuiMu     sync.Mutex
	tuiSinkCh chan string
)

// SetTUISink registers a channel that receives log lines destined for the
// TUI. Pass nil to detach. May be called before or after Init; the dashboard
// attaches on entry and detaches on exit.
func SetTUISink(ch chan string) {
	tuiMu.Lock()
	tuiSinkCh = ch
	tuiMu.Unlock()
}

// Init initialises the global logger. Safe to call multiple times.
func Init(level, format, logFile, skiffHome string, debug bool) (*Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if debug {
		lvl = slog.LevelDebug
	}

	// Build multi-writer: always write to stderr, optionally to file
	writers := []io.Writer{os.Stderr}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0750); err == nil {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
			if err == nil {
				writers = append(writers, f)
			}
		}
	}

	// The TUI writer is always installed; it forwards only while a sink
	// channel is attached.
	writers = append(writers, &tuiWriter{})

	out := io.MultiWriter(writers...)

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: lvl, AddSource: debug}
	if format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	base := slog.New(handler)
	slog.SetDefault(base)

	// Audit log
	var auditW io.Writer
	if skiffHome != "" {
		auditPath := filepath.Join(skiffHome, "audit.log")
		if af, err := os.OpenFile(auditPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640); err == nil {
			auditW = af
		}
	}

	return &Logger{
		Logger: base,
		auditW: auditW,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Audit logging
// ─────────────────────────────────────────────────────────────────────────────

// AuditEntry represents a single audit log event.
type AuditEntry struct {
	Timestamp time.Time `json:"ts"`
	Op        string    `json:"op"`
	Host      string    `json:"host,omitempty"`
	Service   string    `json:"service,omitempty"`
	Release   string    `json:"release,omitempty"`
	Result    string    `json:"result"` // success | failure
}

// Audit writes an append-only audit log entry.
func (l *Logger) Audit(entry AuditEntry) {
	l.Info("audit",
		"op", entry.Op,
		"host", entry.Host,
		"service", entry.Service,
		"release", entry.Release,
		"result", entry.Result,
	)
	if l.auditW == nil {
		return
	}
	line := fmt.Sprintf(`{"ts":%q,"op":%q,"host":%q,"service":%q,"release":%q,"result":%q}`+"\n",
		entry.Timestamp.UTC().Format(time.RFC3339),
		entry.Op, entry.Host, entry.Service, entry.Release, entry.Result,
	)
	_, _ = l.auditW.Write([]byte(line))
}

// ─────────────────────────────────────────────────────────────────────────────
// TUI writer
// ─────────────────────────────────────────────────────────────────────────────

// tuiWriter implements io.Writer by forwarding lines to the attached TUI
// sink channel. A detached sink discards silently.
type tuiWriter struct{}

func (w *tuiWriter) Write(p []byte) (int, error) {
	tuiMu.Lock()
	ch := tuiSinkCh
	tuiMu.Unlock()
	if ch == nil {
		return len(p), nil
	}
	select {
	case ch <- strings.TrimRight(string(p), "\n"):
	default: // drop if channel full — never block logger
	}
	return len(p), nil
}
