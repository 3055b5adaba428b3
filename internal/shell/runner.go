// Package shell runs external commands for the build tasks, echoing each
// command before it runs and capturing its output.
package shell

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// Output is the captured output of a finished command.
type Output struct {
	Stdout string
	Stderr string
}

// Runner executes commands in Dir (the working directory when empty).
type Runner struct {
	Dir    string
	Logger *slog.Logger
}

// NewRunner returns a runner logging to logger.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Logger: logger}
}

// Run executes name with args and waits for it to finish. A command that
// cannot start or exits non-zero is an ExternalCommandError carrying the
// captured stderr.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	line := CommandLine(name, args...)
	r.logger().Info("% "+line, logfields.Command(line))

	// #nosec G204 -- commands are built from operator configuration.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if out.Stdout != "" {
		r.logger().Debug("Command output", logfields.Command(line), slog.String("stdout", out.Stdout))
	}
	if out.Stderr != "" {
		r.logger().Debug("Command error output", logfields.Command(line), slog.String("stderr", out.Stderr))
	}
	if err != nil {
		return out, ferrors.WrapError(err, ferrors.CategoryExternalCommand, "Failed to run '"+line+"'").
			WithContext(logfields.KeyCommand, line).
			WithContext("stderr", strings.TrimSpace(out.Stderr)).
			UserAction().
			Build()
	}
	return out, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// CommandLine formats a command for display, quoting arguments that contain
// whitespace.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, p := range append([]string{name}, args...) {
		if p == "" || strings.ContainsAny(p, " \t\n\"'") {
			p = "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}
