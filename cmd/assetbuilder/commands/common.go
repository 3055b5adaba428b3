// Package commands implements the assetbuilder command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/assetbuilder/internal/build"
	"git.home.luguber.info/inful/assetbuilder/internal/config"
	"git.home.luguber.info/inful/assetbuilder/internal/files"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/metrics"
)

// DefaultConfigPath is the configuration file read when --config is not given.
const DefaultConfigPath = "assetbuilder.yaml"

// Global carries process-wide state into every command.
type Global struct {
	Logger  *slog.Logger
	Context context.Context
	Stdout  io.Writer
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"assetbuilder.yaml" type:"path"`
	BaseDir     string           `name:"base-dir" help:"Directory relative paths are resolved against (default: working directory)" type:"path"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path after the run" type:"path"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Index        IndexCmd        `cmd:"" help:"Generate index pages from templates"`
	Sass         SassCmd         `cmd:"" help:"Compile stylesheets for a profile (dev or build)"`
	ReleaseCheck ReleaseCheckCmd `cmd:"" name:"release-check" help:"Verify the release branch is checked out and the working copy is clean"`
	Run          RunCmd          `cmd:"" help:"Run several tasks in order (index, index:<target>, sass:<profile>, release-check)"`
	ShowConfig   ConfigCmd       `cmd:"" name:"config" help:"Show the resolved configuration"`
	Init         InitCmd         `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig reads and resolves the configuration file.
func (c *CLI) LoadConfig(logger *slog.Logger) (*config.Config, error) {
	raw, err := config.Load(c.Config)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "load config").
			WithContext(logfields.KeyPath, c.Config).
			Fatal().
			Build()
	}
	resolver := config.NewResolver(*raw, files.NewOS(),
		config.WithBaseDir(c.BaseDir),
		config.WithLogger(logger))
	return resolver.Resolve()
}

// RunTasks resolves the configuration and runs tasks through the build
// service, then prints a summary and writes the metrics file when requested.
func RunTasks(g *Global, root *CLI, tasks []string) error {
	logger := g.logger()
	cfg, err := root.LoadConfig(logger)
	if err != nil {
		return err
	}

	svc := build.NewBuildService().WithLogger(logger)
	var reg *prom.Registry
	if root.MetricsFile != "" {
		reg = prom.NewRegistry()
		svc = svc.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	result, runErr := svc.Run(g.ctx(), build.BuildRequest{Config: cfg, Tasks: tasks})

	if reg != nil {
		if err := metrics.WriteTextfile(reg, root.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics file", logfields.Path(root.MetricsFile), logfields.Error(err))
		}
	}
	if result != nil {
		printSummary(g.stdout(), result)
	}
	return runErr
}

func printSummary(w io.Writer, result *build.BuildResult) {
	for _, t := range result.Tasks {
		_, _ = fmt.Fprintf(w, "%-16s %-8s %d file(s) in %s\n", t.Task, t.Status, len(t.Outputs), t.Duration.Round(time.Millisecond))
	}
	if result.ManifestPath != "" {
		_, _ = fmt.Fprintf(w, "manifest: %s\n", result.ManifestPath)
	}
}
