// Package templates renders index templates and inspects the asset references
// of the rendered HTML.
//
// Templates use Go's text/template engine. The render context is a plain map;
// the index task provides "scripts", "styles" and "version", and user data is
// merged over them.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
)

// Funcs returns the helper functions available to index templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"join": func(items []string, sep string) string {
			return strings.Join(items, sep)
		},
		"markdown": func(src string) (string, error) {
			var buf bytes.Buffer
			if err := goldmark.Convert([]byte(src), &buf); err != nil {
				return "", fmt.Errorf("render markdown: %w", err)
			}
			return buf.String(), nil
		},
	}
}

// Render renders the template body with the given context.
func Render(body string, data map[string]any) (string, error) {
	tpl, err := template.New("index").Funcs(Funcs()).Option("missingkey=default").Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}
