// Package files provides the file-system capabilities used by the build tasks:
// existence checks, glob expansion, source-to-destination mappings and
// processed copies.
package files

// ProcessFunc transforms file contents during a copy.
type ProcessFunc func(contents string) (string, error)

// MappingOptions controls how ExpandMapping derives destination paths.
type MappingOptions struct {
	// Cwd is the directory patterns are matched in. Sources are relative to it.
	Cwd string `yaml:"cwd,omitempty" toml:"cwd" json:"cwd,omitempty"`
	// Flatten drops the directory part of every match.
	Flatten bool `yaml:"flatten,omitempty" toml:"flatten" json:"flatten,omitempty"`
	// Ext replaces the extension of every destination when set (e.g. ".min.js").
	Ext string `yaml:"ext,omitempty" toml:"ext" json:"ext,omitempty"`
}

// Mapping pairs a matched source with its derived destination.
type Mapping struct {
	Src  string
	Dest string
}

// FileSystem is the set of file operations the build depends on.
type FileSystem interface {
	Exists(path string) bool
	IsDir(path string) bool
	// Expand returns the files matching patterns, in pattern order, without
	// duplicates. Patterns prefixed with "!" remove earlier matches.
	Expand(patterns ...string) ([]string, error)
	ExpandMapping(patterns []string, destPrefix string, opts MappingOptions) ([]Mapping, error)
	Copy(src, dest string, process ProcessFunc) error
	ReadText(path string) (string, error)
	ReadJSON(path string, v any) error
}
