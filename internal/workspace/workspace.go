package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// DefaultDirName is used below the system temp directory when no directory is configured.
const DefaultDirName = "assetbuilder"

// Manager handles the temp directory of a run.
type Manager struct {
	dir     string
	created bool
	logger  *slog.Logger
}

// NewManager creates a manager for dir. An empty dir selects a fixed
// directory below the system temp directory.
func NewManager(dir string, logger *slog.Logger) *Manager {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), DefaultDirName)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{dir: dir, logger: logger}
}

// Create ensures the directory exists. Existing contents are kept.
func (m *Manager) Create() error {
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	m.created = true
	m.logger.Debug("Using temp directory", logfields.Path(m.dir))
	return nil
}

// Path returns the directory path.
func (m *Manager) Path() string {
	return m.dir
}

// CreateSubdir creates a subdirectory within the workspace.
func (m *Manager) CreateSubdir(name string) (string, error) {
	if !m.created {
		return "", fmt.Errorf("workspace not created")
	}

	subdir := filepath.Join(m.dir, name)
	if err := os.MkdirAll(subdir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	return subdir, nil
}
