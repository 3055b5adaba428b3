package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
)

// BuildService is the canonical interface for executing asset builds.
type BuildService interface {
	// Run executes the requested tasks in order and writes the run manifest.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the resolved configuration of the run.
	Config *config.Config

	// Tasks are the task references to run, in order.
	Tasks []string

	// Options provides optional build behavior modifiers.
	Options BuildOptions
}

// BuildOptions provides optional configuration for build behavior.
type BuildOptions struct {
	// SkipManifest disables writing the manifest after the run.
	SkipManifest bool
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	// RunID identifies the run; it is also the manifest ID.
	RunID string

	// Status indicates overall build outcome.
	Status BuildStatus

	// Tasks holds one entry per task that was started.
	Tasks []TaskResult

	// ManifestPath is where the manifest was written, if it was.
	ManifestPath string

	// FilesWritten is the count of generated outputs.
	FilesWritten int

	// Duration is the total build execution time.
	Duration time.Duration

	// StartTime is when the build started.
	StartTime time.Time

	// EndTime is when the build completed.
	EndTime time.Time
}

// TaskResult is the outcome of one task.
type TaskResult struct {
	Task     string
	Status   BuildStatus
	Outputs  []string
	Duration time.Duration
}

// BuildStatus represents the outcome of a build or task.
type BuildStatus string

const (
	// BuildStatusSuccess indicates the build completed successfully.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailed indicates the build encountered an error.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusCancelled indicates the build was cancelled between tasks.
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsTerminal returns true if the status represents a final state.
func (s BuildStatus) IsTerminal() bool {
	return s == BuildStatusSuccess || s == BuildStatusFailed || s == BuildStatusCancelled
}

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}
