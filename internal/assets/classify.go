// Package assets classifies source files by kind and normalizes the URLs
// injected into generated markup.
package assets

import (
	"path/filepath"
	"regexp"
	"strings"
)

// File extensions recognized by the build.
const (
	ScriptExt     = ".js"
	MarkupExt     = ".html"
	SCSSExt       = ".scss"
	SassExt       = ".sass"
	StyleOutExt   = ".css"
	PartialMarker = "_"
)

// Kind is the classification of a source file.
type Kind string

const (
	KindScript     Kind = "script"
	KindStylesheet Kind = "stylesheet"
	KindPartial    Kind = "partial"
	KindMarkup     Kind = "markup"
	KindOther      Kind = "other"
)

var absoluteURL = regexp.MustCompile(`^(https?|file|ftp)://`)

// IsScript reports whether p has the script extension.
func IsScript(p string) bool {
	return filepath.Ext(p) == ScriptExt
}

// IsMarkup reports whether p has the markup extension.
func IsMarkup(p string) bool {
	return filepath.Ext(p) == MarkupExt
}

// IsPartial reports whether the base name of p starts with the partial marker.
func IsPartial(p string) bool {
	return strings.HasPrefix(filepath.Base(p), PartialMarker)
}

func isSassSource(p string) bool {
	ext := filepath.Ext(p)
	return ext == SCSSExt || ext == SassExt
}

// IsStylesheet reports whether p is a stylesheet compiled on its own.
// Partials are only compiled through inclusion and are excluded.
func IsStylesheet(p string) bool {
	return isSassSource(p) && !IsPartial(p)
}

// Classify returns the Kind of p.
func Classify(p string) Kind {
	switch {
	case IsScript(p):
		return KindScript
	case IsMarkup(p):
		return KindMarkup
	case isSassSource(p) && IsPartial(p):
		return KindPartial
	case isSassSource(p):
		return KindStylesheet
	default:
		return KindOther
	}
}

// Scripts filters paths down to scripts, keeping their order.
func Scripts(paths []string) []string { return filter(paths, IsScript) }

// Markup filters paths down to markup files, keeping their order.
func Markup(paths []string) []string { return filter(paths, IsMarkup) }

// Stylesheets filters paths down to standalone stylesheets, keeping their order.
func Stylesheets(paths []string) []string { return filter(paths, IsStylesheet) }

func filter(paths []string, keep func(string) bool) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeURL returns absolute URIs unchanged and makes everything else
// root-relative by prepending a single "/" when missing. Repeated separators
// are left alone.
func NormalizeURL(s string) string {
	if absoluteURL.MatchString(s) {
		return s
	}
	if !strings.HasPrefix(s, "/") {
		return "/" + s
	}
	return s
}

// NormalizeURLs applies NormalizeURL to every entry.
func NormalizeURLs(urls []string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = NormalizeURL(u)
	}
	return out
}
