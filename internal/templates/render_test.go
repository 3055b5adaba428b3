package templates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	body := `{{ range .scripts }}<script src="{{ . }}"></script>{{ end }}|{{ .version }}|{{ .title }}`
	data := map[string]any{
		"scripts": []string{"/main.js", "/a/b.js"},
		"version": "1.0.0",
		"title":   "Demo",
	}

	rendered, err := Render(body, data)
	require.NoError(t, err)
	require.Equal(t, `<script src="/main.js"></script><script src="/a/b.js"></script>|1.0.0|Demo`, rendered)
}

func TestRenderHelpers(t *testing.T) {
	rendered, err := Render(`{{ join .styles "," }} {{ markdown .intro }}`, map[string]any{
		"styles": []string{"/a.css", "/b.css"},
		"intro":  "*hi*",
	})
	require.NoError(t, err)
	require.Equal(t, "/a.css,/b.css <p><em>hi</em></p>\n", rendered)
}

func TestRenderMissingKey(t *testing.T) {
	rendered, err := Render(`[{{ .absent }}]`, map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "[<no value>]", rendered)
}

func TestRenderParseError(t *testing.T) {
	_, err := Render(`{{ .unclosed`, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse template")
}
