package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
}

func TestExistsAndIsDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/b.js": "x"})
	fs := NewOS()

	require.True(t, fs.Exists(filepath.Join(root, "a", "b.js")))
	require.True(t, fs.Exists(filepath.Join(root, "a")))
	require.False(t, fs.Exists(filepath.Join(root, "missing")))
	require.True(t, fs.IsDir(filepath.Join(root, "a")))
	require.False(t, fs.IsDir(filepath.Join(root, "a", "b.js")))
	require.False(t, fs.IsDir(filepath.Join(root, "missing")))
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.js":             "",
		"lib/util.js":        "",
		"lib/deep/x.js":      "",
		"styles/site.scss":   "",
		"styles/print.sass":  "",
		"styles/_vars.scss":  "",
		"views/index.html":   "",
		"vendor/skip.min.js": "",
	})
	fs := NewOS()

	got, err := fs.Expand(
		filepath.Join(root, "**", "*.js"),
		filepath.Join(root, "**", "*.s[ac]ss"),
		"!"+filepath.Join(root, "vendor", "**"),
	)
	require.NoError(t, err)

	rel := make([]string, len(got))
	for i, p := range got {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rel[i] = filepath.ToSlash(r)
	}
	require.ElementsMatch(t, []string{
		"app.js",
		"lib/deep/x.js",
		"lib/util.js",
		"styles/_vars.scss",
		"styles/print.sass",
		"styles/site.scss",
	}, rel)
	// Matches of an earlier pattern always precede matches of a later one.
	require.Equal(t, ".js", filepath.Ext(rel[2]))
	require.NotEqual(t, ".js", filepath.Ext(rel[3]))
}

func TestExpandDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": ""})
	fs := NewOS()

	got, err := fs.Expand(filepath.Join(root, "*.js"), filepath.Join(root, "**", "*.js"))
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestExpandBadPattern(t *testing.T) {
	_, err := NewOS().Expand("[")
	require.Error(t, err)
}

func TestExpandMapping(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/app.js":        "",
		"src/lib/module.js": "",
		"src/lib/notes.txt": "",
	})
	fs := NewOS()

	mappings, err := fs.ExpandMapping([]string{"src/**/*.js"}, "", MappingOptions{Cwd: root})
	require.NoError(t, err)
	require.ElementsMatch(t, []Mapping{
		{Src: filepath.Join(root, "src", "app.js"), Dest: "src/app.js"},
		{Src: filepath.Join(root, "src", "lib", "module.js"), Dest: "src/lib/module.js"},
	}, mappings)

	mappings, err = fs.ExpandMapping([]string{"**/*.js", "!**/app.js"}, "js", MappingOptions{Cwd: filepath.Join(root, "src"), Flatten: true, Ext: ".min.js"})
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	require.Equal(t, "js/module.min.js", mappings[0].Dest)
}

func TestCopyWithProcess(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"tpl/index.html": "hello NAME"})
	fs := NewOS()

	dest := filepath.Join(root, "out", "nested", "index.html")
	err := fs.Copy(filepath.Join(root, "tpl", "index.html"), dest, func(contents string) (string, error) {
		return strings.ReplaceAll(contents, "NAME", "world"), nil
	})
	require.NoError(t, err)

	text, err := fs.ReadText(dest)
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
}

func TestCopyProcessErrorWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"in.html": "x"})
	fs := NewOS()

	dest := filepath.Join(root, "out.html")
	err := fs.Copy(filepath.Join(root, "in.html"), dest, func(string) (string, error) {
		return "", os.ErrInvalid
	})
	require.ErrorIs(t, err, os.ErrInvalid)
	require.False(t, fs.Exists(dest))
}

func TestReadJSON(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json": `{"name":"app","version":"2.3.0"}`,
		"broken.json":  `{"name":`,
	})
	fs := NewOS()

	var pkg struct {
		Version string `json:"version"`
	}
	require.NoError(t, fs.ReadJSON(filepath.Join(root, "package.json"), &pkg))
	require.Equal(t, "2.3.0", pkg.Version)

	require.Error(t, fs.ReadJSON(filepath.Join(root, "broken.json"), &pkg))

	err := fs.ReadJSON(filepath.Join(root, "missing.json"), &pkg)
	require.Error(t, err)
	require.True(t, IsNotExist(err))
}
