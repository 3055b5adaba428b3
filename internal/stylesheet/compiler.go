package stylesheet

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/shell"
)

// DefaultBinary is the compiler executable used when none is configured.
const DefaultBinary = "sass"

// Compiler compiles one stylesheet job under a profile.
type Compiler interface {
	Check() error
	Compile(ctx context.Context, job Job, profile Profile) error
}

// SassCompiler runs an external Sass executable.
type SassCompiler struct {
	binary string
	runner *shell.Runner
	logger *slog.Logger
}

// NewSassCompiler creates a compiler invoking binary through runner.
func NewSassCompiler(binary string, runner *shell.Runner, logger *slog.Logger) *SassCompiler {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = shell.NewRunner(logger)
	}
	return &SassCompiler{binary: binary, runner: runner, logger: logger}
}

// Check verifies that the compiler executable can be found.
func (c *SassCompiler) Check() error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, `Expected stylesheet compiler "`+c.binary+`"`).
			WithContext(logfields.KeyCommand, c.binary).
			Fatal().
			UserAction().
			Build()
	}
	return nil
}

// Args returns the compiler arguments for job under profile.
func (c *SassCompiler) Args(job Job, profile Profile) []string {
	var args []string
	if profile.Compass {
		args = append(args, "--compass")
	}
	if profile.LineNumbers {
		args = append(args, "--line-numbers")
	}
	if profile.SourceMap != "" {
		args = append(args, "--sourcemap="+profile.SourceMap)
	}
	if profile.Style != "" {
		args = append(args, "--style", profile.Style)
	}
	if profile.CacheDir != "" {
		args = append(args, "--cache-location", profile.CacheDir)
	}
	return append(args, job.Src+":"+job.Dest)
}

// Compile creates the output directory and runs the compiler for job.
func (c *SassCompiler) Compile(ctx context.Context, job Job, profile Profile) error {
	dir := filepath.Dir(job.Dest)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "Cannot create output directory").
			WithContext(logfields.KeyPath, dir).
			Build()
	}
	if _, err := c.runner.Run(ctx, c.binary, c.Args(job, profile)...); err != nil {
		return err
	}
	c.logger.Debug("Compiled stylesheet", logfields.Path(job.Src), logfields.Dest(job.Dest))
	return nil
}
