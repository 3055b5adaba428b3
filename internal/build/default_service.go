package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	"git.home.luguber.info/inful/assetbuilder/internal/files"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/git"
	"git.home.luguber.info/inful/assetbuilder/internal/index"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/manifest"
	"git.home.luguber.info/inful/assetbuilder/internal/metrics"
	"git.home.luguber.info/inful/assetbuilder/internal/observability"
	"git.home.luguber.info/inful/assetbuilder/internal/shell"
	"git.home.luguber.info/inful/assetbuilder/internal/stylesheet"
	"git.home.luguber.info/inful/assetbuilder/internal/workspace"
)

// sassCacheDir is the compiler cache directory inside the temp directory.
const sassCacheDir = "sass-cache"

// Output kinds counted by the recorder.
const (
	outputIndex      = "index"
	outputStylesheet = "stylesheet"
	outputManifest   = "manifest"
)

// CompilerFactory creates the stylesheet compiler of a run.
type CompilerFactory func(cfg *config.Config, logger *slog.Logger) stylesheet.Compiler

// ReleaseGuard performs the release safety checks.
type ReleaseGuard interface {
	EnsureCleanBranch(repoPath, branch string) error
}

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	fs               files.FileSystem
	render           index.RenderFunc
	compilerFactory  CompilerFactory
	guard            ReleaseGuard
	workspaceFactory func(dir string) *workspace.Manager
	recorder         metrics.Recorder
	logger           *slog.Logger
}

// NewBuildService creates a new DefaultBuildService with default factories.
func NewBuildService() *DefaultBuildService {
	s := &DefaultBuildService{
		fs:       files.NewOS(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	s.compilerFactory = func(cfg *config.Config, logger *slog.Logger) stylesheet.Compiler {
		return stylesheet.NewSassCompiler(cfg.Sass.Binary, shell.NewRunner(logger), logger)
	}
	s.workspaceFactory = func(dir string) *workspace.Manager {
		return workspace.NewManager(dir, s.logger)
	}
	return s
}

// WithFileSystem replaces the file system (for testing).
func (s *DefaultBuildService) WithFileSystem(fs files.FileSystem) *DefaultBuildService {
	s.fs = fs
	return s
}

// WithRenderer replaces the index template renderer.
func (s *DefaultBuildService) WithRenderer(render index.RenderFunc) *DefaultBuildService {
	s.render = render
	return s
}

// WithCompilerFactory replaces the stylesheet compiler factory.
func (s *DefaultBuildService) WithCompilerFactory(factory CompilerFactory) *DefaultBuildService {
	s.compilerFactory = factory
	return s
}

// WithReleaseGuard replaces the release guard.
func (s *DefaultBuildService) WithReleaseGuard(guard ReleaseGuard) *DefaultBuildService {
	s.guard = guard
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithLogger sets the logger handed to task components.
func (s *DefaultBuildService) WithLogger(l *slog.Logger) *DefaultBuildService {
	s.logger = l
	return s
}

// Run executes the requested tasks in order. Cancellation is honored between
// tasks; a started task always runs to completion.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{
		RunID:     uuid.NewString(),
		StartTime: startTime,
	}
	ctx = observability.WithRunID(ctx, result.RunID)

	finish := func(status BuildStatus) {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		s.recorder.ObserveRunDuration(result.Duration)
	}

	cfg := req.Config
	if cfg == nil {
		finish(BuildStatusFailed)
		return result, ferrors.ConfigError("config required").Build()
	}

	refs, err := ParseTasks(req.Tasks)
	if err != nil {
		finish(BuildStatusFailed)
		return result, err
	}
	if len(refs) == 0 {
		finish(BuildStatusFailed)
		return result, ferrors.ValidationError("No tasks requested").Build()
	}

	// The compiler must exist before any task writes output.
	var compiler stylesheet.Compiler
	if hasKind(refs, TaskSass) {
		compiler = s.compilerFactory(cfg, observability.Logger(ctx, s.logger))
		if err := compiler.Check(); err != nil {
			finish(BuildStatusFailed)
			return result, err
		}
	}

	ws := s.workspaceFactory(cfg.Temp)
	if err := ws.Create(); err != nil {
		finish(BuildStatusFailed)
		return result, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create temp directory").
			WithContext(logfields.KeyPath, cfg.Temp).
			Build()
	}

	s.recorder.SetManifestFiles(len(cfg.Files))
	s.log(ctx, slog.LevelInfo, "Starting build",
		slog.String("name", cfg.Name),
		logfields.Count(len(refs)))

	for _, ref := range refs {
		name := ref.String()
		select {
		case <-ctx.Done():
			s.recorder.IncTaskResult(name, metrics.ResultCanceled)
			s.log(ctx, slog.LevelWarn, "Build cancelled", logfields.Task(name))
			finish(BuildStatusCancelled)
			return result, ctx.Err()
		default:
		}

		taskCtx := observability.WithTask(ctx, name)
		s.log(taskCtx, slog.LevelInfo, "Task started")
		taskStart := time.Now()

		outputs, err := s.runTask(taskCtx, cfg, ref, compiler, ws)

		tr := TaskResult{Task: name, Outputs: outputs, Duration: time.Since(taskStart)}
		s.recorder.ObserveTaskDuration(name, tr.Duration)
		if err != nil {
			tr.Status = BuildStatusFailed
			result.Tasks = append(result.Tasks, tr)
			s.recorder.IncTaskResult(name, metrics.ResultFailed)
			s.log(taskCtx, slog.LevelError, "Task failed", logfields.Error(err))
			finish(BuildStatusFailed)
			return result, err
		}

		tr.Status = BuildStatusSuccess
		result.Tasks = append(result.Tasks, tr)
		result.FilesWritten += len(outputs)
		s.recorder.IncTaskResult(name, metrics.ResultSuccess)
		s.log(taskCtx, slog.LevelInfo, "Task finished",
			logfields.DurationMS(float64(tr.Duration.Milliseconds())),
			logfields.Count(len(outputs)))
	}

	if !req.Options.SkipManifest {
		path, err := s.writeManifest(cfg, refs, result.RunID, ws)
		if err != nil {
			finish(BuildStatusFailed)
			return result, err
		}
		result.ManifestPath = path
		s.log(ctx, slog.LevelDebug, "Manifest written", logfields.Path(path))
	}

	finish(BuildStatusSuccess)
	s.log(ctx, slog.LevelInfo, "Build completed",
		logfields.DurationMS(float64(result.Duration.Milliseconds())),
		logfields.Count(result.FilesWritten))
	return result, nil
}

func (s *DefaultBuildService) runTask(ctx context.Context, cfg *config.Config, ref TaskRef, compiler stylesheet.Compiler, ws *workspace.Manager) ([]string, error) {
	logger := observability.Logger(ctx, s.logger)
	switch ref.Kind {
	case TaskIndex:
		return s.runIndex(ctx, cfg, ref.Arg, logger)
	case TaskSass:
		return s.runSass(ctx, cfg, ref.Arg, compiler, ws, logger)
	case TaskReleaseCheck:
		return nil, s.runReleaseCheck(cfg, logger)
	default:
		return nil, ferrors.InternalError("unhandled task kind: " + string(ref.Kind)).Build()
	}
}

func (s *DefaultBuildService) runIndex(ctx context.Context, cfg *config.Config, target string, logger *slog.Logger) ([]string, error) {
	targets := []string{target}
	if target == "" {
		targets = index.Targets(cfg)
		if len(targets) == 0 {
			s.log(ctx, slog.LevelWarn, "No index targets configured")
			return nil, nil
		}
	}

	opts := []index.Option{index.WithBaseDir(cfg.BaseDir), index.WithLogger(logger)}
	if s.render != nil {
		opts = append(opts, index.WithRenderer(s.render))
	}
	gen := index.NewGenerator(s.fs, opts...)

	var outputs []string
	for _, name := range targets {
		task, err := index.FromConfig(cfg, name)
		if err != nil {
			return outputs, err
		}
		if _, err := gen.Generate(task); err != nil {
			return outputs, err
		}
		outputs = append(outputs, task.Dests[0])
		s.recorder.IncFilesWritten(outputIndex)
	}
	return outputs, nil
}

func (s *DefaultBuildService) runSass(ctx context.Context, cfg *config.Config, profileName string, compiler stylesheet.Compiler, ws *workspace.Manager, logger *slog.Logger) ([]string, error) {
	profile, err := stylesheet.ProfileFor(cfg, profileName)
	if err != nil {
		return nil, err
	}
	cache, err := ws.CreateSubdir(sassCacheDir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create compiler cache").
			WithContext(logfields.KeyPath, ws.Path()).
			Build()
	}
	profile.CacheDir = cache

	jobs, err := stylesheet.Plan(cfg, profile, logger)
	if err != nil {
		return nil, err
	}
	s.log(ctx, slog.LevelInfo, "Compiling stylesheets", logfields.Profile(profile.Name), logfields.Count(len(jobs)))

	var outputs []string
	for _, job := range jobs {
		if err := compiler.Compile(ctx, job, profile); err != nil {
			return outputs, err
		}
		outputs = append(outputs, job.Dest)
		s.recorder.IncFilesWritten(outputStylesheet)
	}
	return outputs, nil
}

func (s *DefaultBuildService) runReleaseCheck(cfg *config.Config, logger *slog.Logger) error {
	guard := s.guard
	if guard == nil {
		guard = git.NewGuard(logger)
	}
	repo := cfg.Release.Repository
	if repo == "" {
		repo = cfg.BaseDir
	}
	branch := cfg.Release.Branch
	if branch == "" {
		branch = config.DefaultReleaseBranch
	}
	return guard.EnsureCleanBranch(repo, branch)
}

func (s *DefaultBuildService) writeManifest(cfg *config.Config, refs []TaskRef, runID string, ws *workspace.Manager) (string, error) {
	m := manifest.New(cfg.Name, cfg.Src, cfg.Files)
	m.ID = runID
	for _, ref := range refs {
		m.Tasks = append(m.Tasks, ref.String())
	}
	path, err := m.Save(ws.Path())
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write manifest").
			WithContext(logfields.KeyPath, ws.Path()).
			Build()
	}
	s.recorder.IncFilesWritten(outputManifest)
	return path, nil
}

func (s *DefaultBuildService) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	observability.LogAttrs(ctx, s.logger, level, msg, attrs...)
}

func hasKind(refs []TaskRef, kind TaskKind) bool {
	for _, r := range refs {
		if r.Kind == kind {
			return true
		}
	}
	return false
}
