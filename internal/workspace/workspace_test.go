package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerCreateKeepsContents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "temp")
	mgr := NewManager(dir, nil)
	require.NoError(t, mgr.Create())
	require.Equal(t, dir, mgr.Path())

	marker := filepath.Join(dir, "marker.txt")
	require.NoError(t, os.WriteFile(marker, []byte("persistent"), 0o600))

	// A second manager on the same directory reuses it.
	require.NoError(t, NewManager(dir, nil).Create())
	_, err := os.Stat(marker)
	require.NoError(t, err)
}

func TestManagerDefaultDirectory(t *testing.T) {
	mgr := NewManager("", nil)
	require.Equal(t, filepath.Join(os.TempDir(), DefaultDirName), mgr.Path())
}

func TestManagerCreateSubdir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "temp"), nil)

	_, err := mgr.CreateSubdir("sass")
	require.Error(t, err, "subdirectories require Create first")

	require.NoError(t, mgr.Create())
	sub, err := mgr.CreateSubdir("sass")
	require.NoError(t, err)
	info, err := os.Stat(sub)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestManagerCreateFailsOnFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	require.Error(t, NewManager(file, nil).Create())
}
