// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RunIDKey is the context key for pipeline run IDs.
	RunIDKey ContextKey = "run_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
	mu            sync.RWMutex
)

func init() {
	// Initialize with a default logger (JSON format, Info level)
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// ParseLevel maps a level name to a Level. Unknown names map to LevelInfo.
func ParseLevel(name string) Level {
	switch name {
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

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseFormat maps "text" to FormatText and anything else to FormatJSON.
func ParseFormat(name string) Format {
	if name == "text" {
		return FormatText
	}
	return FormatJSON
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger writing to w with the given level and format.
func New(w io.Writer, level Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level.slogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// InitLogger initializes the global logger with the specified level and format.
// Diagnostics go to stderr so that documents written to stdout stay clean.
func InitLogger(level Level, format Format) {
	SetLogger(New(os.Stderr, level, format))
}

// SetLogger replaces the global logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	slog.SetDefault(l)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}

// ForDocument returns base (or the global logger when base is nil) with the
// document name attached to every record.
func ForDocument(base *slog.Logger, document string) *slog.Logger {
	if base == nil {
		base = GetLogger()
	}
	return base.With("document", document)
}

// LevelEmpty logs that a hierarchy level has no matching spans.
func LevelEmpty(l *slog.Logger, level string) {
	l.Info("no spans for hierarchy level", "hierarchy_level", level)
}

// SpanSkipped logs a span that was skipped during hierarchy building.
func SpanSkipped(l *slog.Logger, level, spanID, reason string) {
	l.Warn("span skipped", "hierarchy_level", level, "span", spanID, "reason", reason)
}

// MarkerDropped logs a marked id that was stripped from a structure
// annotation without linking it, because a later marker in the same value
// decides the group.
func MarkerDropped(l *slog.Logger, structureID, spanID, id, kept string) {
	l.Debug("marker id dropped", "structure", structureID, "span", spanID, "marker_id", id, "kept_id", kept)
}

// DocumentDone logs the outcome of processing a single document.
func DocumentDone(l *slog.Logger, duration time.Duration, args ...any) {
	allArgs := []any{"duration_ms", duration.Milliseconds()}
	allArgs = append(allArgs, args...)
	l.Info("document_processed", allArgs...)
}

// DocumentFailed logs a fatal per-document error.
func DocumentFailed(l *slog.Logger, err error, args ...any) {
	allArgs := []any{"error", err.Error()}
	allArgs = append(allArgs, args...)
	l.Error("document_failed", allArgs...)
}
