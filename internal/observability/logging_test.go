package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestContextValues(t *testing.T) {
	ctx := WithTask(WithRunID(context.Background(), "run-123"), "index:dev")

	lc := GetContext(ctx)
	require.Equal(t, "run-123", lc.RunID)
	require.Equal(t, "index:dev", lc.Task)

	// Overriding one value keeps the other.
	lc = GetContext(WithTask(ctx, "sass:build"))
	require.Equal(t, "run-123", lc.RunID)
	require.Equal(t, "sass:build", lc.Task)
}

func TestEmptyContext(t *testing.T) {
	require.Equal(t, LogContext{}, GetContext(context.Background()))
}

func TestLogAttrsAddsAttributes(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := WithTask(WithRunID(context.Background(), "run-1"), "release-check")

	LogAttrs(ctx, logger, slog.LevelInfo, "Task started", slog.Int("count", 2))
	LogAttrs(context.Background(), logger, slog.LevelDebug, "plain")

	out := buf.String()
	require.Contains(t, out, `msg="Task started"`)
	require.Contains(t, out, "run.id=run-1")
	require.Contains(t, out, "task=release-check")
	require.Contains(t, out, "count=2")
	require.Contains(t, out, "msg=plain")
}

func TestLogAttrsNilBaseUsesDefault(t *testing.T) {
	buf := captureDefault(t)
	LogAttrs(WithRunID(context.Background(), "run-2"), nil, slog.LevelWarn, "fallback")
	require.Contains(t, buf.String(), "run.id=run-2")
	require.Contains(t, buf.String(), "msg=fallback")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	require.Same(t, base, Logger(context.Background(), base))

	Logger(WithTask(context.Background(), "sass:dev"), base).Info("Compiled")
	require.Contains(t, buf.String(), "task=sass:dev")
}
