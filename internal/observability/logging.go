// Package observability carries run-scoped logging context (run ID, current
// task) through a context.Context and attaches it to log records.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RunID string
	Task  string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// KeyRunID is the attribute key of the run identifier.
const KeyRunID = "run.id"

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RunID = runID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithTask adds the current task reference to the context.
func WithTask(ctx context.Context, task string) context.Context {
	lc := extractLogContext(ctx)
	lc.Task = task
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.RunID != "" {
		attrs = append(attrs, slog.String(KeyRunID, lc.RunID))
	}
	if lc.Task != "" {
		attrs = append(attrs, logfields.Task(lc.Task))
	}

	return attrs
}

// Logger returns base with the context's attributes attached, for handing to
// components that log on their own.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	attrs := getLogAttrs(ctx)
	if len(attrs) == 0 {
		return base
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return base.With(args...)
}

// LogAttrs logs msg through base with the context's attributes ahead of attrs.
// A nil base logs through slog.Default().
func LogAttrs(ctx context.Context, base *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if base == nil {
		base = slog.Default()
	}
	all := append(getLogAttrs(ctx), attrs...)
	base.LogAttrs(ctx, level, msg, all...)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}
