package build

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	"git.home.luguber.info/inful/assetbuilder/internal/files"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/manifest"
	"git.home.luguber.info/inful/assetbuilder/internal/metrics"
	"git.home.luguber.info/inful/assetbuilder/internal/stylesheet"
)

// fakeCompiler records compiled jobs and writes an empty stylesheet for each.
type fakeCompiler struct {
	checkErr error
	jobs     []stylesheet.Job
	profiles []stylesheet.Profile
}

func (c *fakeCompiler) Check() error { return c.checkErr }

func (c *fakeCompiler) Compile(_ context.Context, job stylesheet.Job, profile stylesheet.Profile) error {
	c.jobs = append(c.jobs, job)
	c.profiles = append(c.profiles, profile)
	if err := os.MkdirAll(filepath.Dir(job.Dest), 0o750); err != nil {
		return err
	}
	return os.WriteFile(job.Dest, nil, 0o600)
}

type fakeGuard struct {
	err          error
	repo, branch string
}

func (g *fakeGuard) EnsureCleanBranch(repo, branch string) error {
	g.repo, g.branch = repo, branch
	return g.err
}

type countingRecorder struct {
	metrics.NoopRecorder
	results      map[string]metrics.ResultLabel
	filesWritten map[string]int
	manifest     int
	runs         int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{results: map[string]metrics.ResultLabel{}, filesWritten: map[string]int{}}
}

func (r *countingRecorder) IncTaskResult(task string, result metrics.ResultLabel) {
	r.results[task] = result
}
func (r *countingRecorder) IncFilesWritten(kind string)      { r.filesWritten[kind]++ }
func (r *countingRecorder) SetManifestFiles(n int)           { r.manifest = n }
func (r *countingRecorder) ObserveRunDuration(time.Duration) { r.runs++ }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// project lays out a small web project and resolves its configuration.
func project(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "www", "src", "main.js"), "")
	writeFile(t, filepath.Join(base, "www", "src", "app.scss"), "")
	writeFile(t, filepath.Join(base, "www", "src", "_vars.scss"), "")
	writeFile(t, filepath.Join(base, "www", "src", "admin", "admin.sass"), "")
	writeFile(t, filepath.Join(base, "templates", "index.html"),
		`{{ range .scripts }}<script src="{{ . }}"></script>{{ end }}{{ .version }}`)
	writeFile(t, filepath.Join(base, "package.json"), `{"version":"2.3.0"}`)

	raw := config.RawConfig{
		Name: config.Literal("shop"),
		Index: map[string]config.IndexTarget{
			"dev": {
				Src:  config.StringList{"templates/index.html"},
				Dest: config.StringList{"www/index.html"},
				Options: config.IndexOptions{
					JS:      []string{"vendor/jquery.js"},
					Version: "auto",
					Include: config.IncludeSpec{
						Kind:     config.IncludeMapping,
						Patterns: []string{"src/**/*.js"},
						Options:  files.MappingOptions{Cwd: "www"},
					},
				},
			},
		},
	}
	cfg, err := config.NewResolver(raw, files.NewOS(), config.WithBaseDir(base)).Resolve()
	require.NoError(t, err)
	return cfg
}

func TestRunIndexAndSass(t *testing.T) {
	cfg := project(t)
	compiler := &fakeCompiler{}
	rec := newCountingRecorder()
	svc := NewBuildService().
		WithRecorder(rec).
		WithCompilerFactory(func(*config.Config, *slog.Logger) stylesheet.Compiler { return compiler })

	result, err := svc.Run(context.Background(), BuildRequest{Config: cfg, Tasks: []string{"index", "sass:build"}})
	require.NoError(t, err)
	require.Equal(t, BuildStatusSuccess, result.Status)
	require.Len(t, result.Tasks, 2)
	require.Equal(t, 3, result.FilesWritten)

	rendered, err := os.ReadFile(filepath.Join(cfg.BaseDir, "www", "index.html"))
	require.NoError(t, err)
	require.Equal(t, `<script src="/vendor/jquery.js"></script><script src="/src/main.js"></script>2.3.0`, string(rendered))

	require.Equal(t, []stylesheet.Job{
		{Src: filepath.Join(cfg.BaseDir, "www", "src", "app.scss"), Dest: filepath.Join(cfg.Build, "css", "app.css")},
		{Src: filepath.Join(cfg.BaseDir, "www", "src", "admin", "admin.sass"), Dest: filepath.Join(cfg.Build, "css", "admin", "admin.css")},
	}, compiler.jobs)
	require.Equal(t, "compressed", compiler.profiles[0].Style)
	require.Equal(t, filepath.Join(cfg.Temp, sassCacheDir), compiler.profiles[0].CacheDir)

	require.Equal(t, metrics.ResultSuccess, rec.results["index"])
	require.Equal(t, metrics.ResultSuccess, rec.results["sass:build"])
	require.Equal(t, 1, rec.filesWritten[outputIndex])
	require.Equal(t, 2, rec.filesWritten[outputStylesheet])
	require.Equal(t, 1, rec.filesWritten[outputManifest])
	require.Equal(t, len(cfg.Files), rec.manifest)
	require.Equal(t, 1, rec.runs)

	require.Equal(t, filepath.Join(cfg.Temp, manifest.FileName), result.ManifestPath)
	data, err := os.ReadFile(result.ManifestPath)
	require.NoError(t, err)
	m, err := manifest.FromJSON(data)
	require.NoError(t, err)
	require.Equal(t, result.RunID, m.ID)
	require.Equal(t, []string{"index", "sass:build"}, m.Tasks)
	require.Equal(t, cfg.Files, m.Paths())
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	cfg := project(t)
	guard := &fakeGuard{err: ferrors.ExternalCommandError("Working copy is dirty, aborting").Build()}
	rec := newCountingRecorder()
	svc := NewBuildService().WithReleaseGuard(guard).WithRecorder(rec)

	result, err := svc.Run(context.Background(), BuildRequest{Config: cfg, Tasks: []string{"release-check", "index:dev"}})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryExternalCommand))
	require.Equal(t, BuildStatusFailed, result.Status)
	require.Len(t, result.Tasks, 1)
	require.Equal(t, metrics.ResultFailed, rec.results["release-check"])

	require.Equal(t, cfg.Release.Repository, guard.repo)
	require.Equal(t, config.DefaultReleaseBranch, guard.branch)

	_, statErr := os.Stat(filepath.Join(cfg.BaseDir, "www", "index.html"))
	require.True(t, os.IsNotExist(statErr), "later tasks must not run")
	require.Empty(t, result.ManifestPath)
}

func TestRunChecksCompilerBeforeAnyTask(t *testing.T) {
	cfg := project(t)
	missing := ferrors.ConfigError(`Expected stylesheet compiler "sass"`).Build()
	svc := NewBuildService().
		WithCompilerFactory(func(*config.Config, *slog.Logger) stylesheet.Compiler {
			return &fakeCompiler{checkErr: missing}
		})

	result, err := svc.Run(context.Background(), BuildRequest{Config: cfg, Tasks: []string{"index", "sass"}})
	require.ErrorIs(t, err, missing)
	require.Empty(t, result.Tasks)

	_, statErr := os.Stat(filepath.Join(cfg.BaseDir, "www", "index.html"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRunCancelledBetweenTasks(t *testing.T) {
	cfg := project(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewBuildService().Run(ctx, BuildRequest{Config: cfg, Tasks: []string{"index"}})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, BuildStatusCancelled, result.Status)
	require.Empty(t, result.Tasks)
}

func TestRunRejectsInvalidRequests(t *testing.T) {
	cfg := project(t)

	_, err := NewBuildService().Run(context.Background(), BuildRequest{Tasks: []string{"index"}})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = NewBuildService().Run(context.Background(), BuildRequest{Config: cfg})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, err = NewBuildService().Run(context.Background(), BuildRequest{Config: cfg, Tasks: []string{"index", "deploy"}})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestRunUnknownIndexTarget(t *testing.T) {
	cfg := project(t)
	_, err := NewBuildService().Run(context.Background(), BuildRequest{Config: cfg, Tasks: []string{"index:staging"}})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestRunSkipManifest(t *testing.T) {
	cfg := project(t)
	guard := &fakeGuard{}
	result, err := NewBuildService().WithReleaseGuard(guard).Run(context.Background(), BuildRequest{
		Config:  cfg,
		Tasks:   []string{"release-check"},
		Options: BuildOptions{SkipManifest: true},
	})
	require.NoError(t, err)
	require.Empty(t, result.ManifestPath)
	_, statErr := os.Stat(filepath.Join(cfg.Temp, manifest.FileName))
	require.True(t, os.IsNotExist(statErr))
}

func TestRunLogsThroughServiceLogger(t *testing.T) {
	cfg := project(t)
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	result, err := NewBuildService().
		WithLogger(logger).
		Run(context.Background(), BuildRequest{Config: cfg, Tasks: []string{"index:dev"}})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `msg="Starting build"`)
	require.Contains(t, out, `msg="Task finished"`)
	require.Contains(t, out, "task=index:dev")
	require.Contains(t, out, `msg="Build completed"`)
	require.Contains(t, out, "run.id="+result.RunID)
}

func TestBuildStatus(t *testing.T) {
	require.True(t, BuildStatusSuccess.IsSuccess())
	require.False(t, BuildStatusFailed.IsSuccess())
	require.True(t, BuildStatusCancelled.IsTerminal())
	require.False(t, BuildStatus("running").IsTerminal())
}

func TestParseTask(t *testing.T) {
	tests := []struct {
		ref  string
		want TaskRef
	}{
		{"index", TaskRef{Kind: TaskIndex}},
		{"index:dev", TaskRef{Kind: TaskIndex, Arg: "dev"}},
		{"sass", TaskRef{Kind: TaskSass, Arg: stylesheet.ProfileDev}},
		{"sass:build", TaskRef{Kind: TaskSass, Arg: stylesheet.ProfileBuild}},
		{" release-check ", TaskRef{Kind: TaskReleaseCheck}},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseTask(tt.ref)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "deploy", "release-check:now"} {
		_, err := ParseTask(bad)
		require.Error(t, err, bad)
	}
	require.Equal(t, "sass:dev", TaskRef{Kind: TaskSass, Arg: "dev"}.String())
}
