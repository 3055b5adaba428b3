package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assetbuilder.yaml")
	require.NoError(t, Init(path, false))

	raw, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Literal("app"), raw.Name)
	require.Contains(t, raw.Index, "dev")
	require.Contains(t, raw.Index, "build")
	require.Equal(t, IncludeMapping, raw.Index["dev"].Options.Include.Kind)
	require.Equal(t, IncludeMapping, raw.Index["build"].Options.Include.Kind)
	require.Equal(t, "build", raw.Index["build"].Options.Include.Options.Cwd)
	require.Equal(t, []string{"js/*.js"}, raw.Index["build"].Options.Include.Patterns)
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assetbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: keep\n"), 0o600))

	err := Init(path, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))
}

func TestFormatValue(t *testing.T) {
	require.Equal(t, "", FormatValue(nil))
	require.Equal(t, "plain", FormatValue("plain"))
	require.Equal(t, "${X:-y}", FormatValue(Env("X", "y")))
	require.Equal(t, "{\n  \"title\": \"Demo\"\n}", FormatValue(map[string]any{"title": "Demo"}))
}
