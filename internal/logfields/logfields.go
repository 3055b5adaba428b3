package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyTask       = "task"
	KeyTarget     = "target"
	KeyProfile    = "profile"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyRoot       = "root"
	KeyDest       = "dest"
	KeyKind       = "kind"
	KeyCount      = "count"
	KeyCommand    = "command"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Task(name string) slog.Attr       { return slog.String(KeyTask, name) }
func Target(name string) slog.Attr     { return slog.String(KeyTarget, name) }
func Profile(name string) slog.Attr    { return slog.String(KeyProfile, name) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Root(p string) slog.Attr          { return slog.String(KeyRoot, p) }
func Dest(p string) slog.Attr          { return slog.String(KeyDest, p) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Command(cmd string) slog.Attr     { return slog.String(KeyCommand, cmd) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
