// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/montauk/internal/core/ports"
)

// detailer is satisfied by zerr.Error: a message without the chain plus attached metadata.
type detailer interface {
	Message() string
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

var _ ports.Logger = (*Logger)(nil)

// New creates a Logger that pretty-prints to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// rebuild must be called with l.mu held or before l is shared.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// SetOutput updates the logger's output destination, keeping the current mode.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain. Nil errors are ignored.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

type errorEntry struct {
	message  string
	metadata map[string]any
}

// collectErrorEntries walks the chain while it consists of zerr errors. The first foreign error
// contributes its full message and ends the walk.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	for current := err; current != nil; {
		d, ok := current.(detailer)
		if !ok {
			entries = append(entries, errorEntry{message: current.Error()})
			break
		}
		if d.Message() != "" || len(d.Metadata()) > 0 {
			entries = append(entries, errorEntry{message: d.Message(), metadata: d.Metadata()})
		}
		current = errors.Unwrap(current)
	}
	return entries
}

func formatErrorEntries(entries []errorEntry) string {
	var out []string

	for i, entry := range entries {
		lines := strings.Split(entry.message, "\n")

		head, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				out = append(out, "", "  Caused by:")
			}
			head, indent = "    → ", "      "
		}

		subjects := make(map[string]string)
		rest := make([]string, 0, len(entry.metadata))
		for _, key := range slices.Sorted(maps.Keys(entry.metadata)) {
			if slices.Contains(subjectKeys, key) {
				subjects[key] = fmt.Sprint(entry.metadata[key])
				continue
			}
			rest = append(rest, key)
		}

		first := lines[0]
		if s := formatSubjects(subjects); s != "" {
			first += " " + s
		}
		out = append(out, head+first)
		for _, line := range lines[1:] {
			out = append(out, indent+line)
		}
		for _, key := range rest {
			out = append(out, fmt.Sprintf("%s%s: %v", indent, key, entry.metadata[key]))
		}
	}

	return strings.Join(out, "\n")
}
