package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/assetbuilder/internal/files"
)

// RawConfig is the configuration as written by the user, before defaults,
// late-bound values and path resolution are applied.
type RawConfig struct {
	Name      Value                  `yaml:"name" toml:"name"`
	Webroot   Value                  `yaml:"webroot" toml:"webroot"`
	Build     Value                  `yaml:"build" toml:"build"`
	Temp      Value                  `yaml:"temp" toml:"temp"`
	Src       ValueList              `yaml:"src" toml:"src"`
	Templates Value                  `yaml:"templates" toml:"templates"`
	Index     map[string]IndexTarget `yaml:"index" toml:"index"`
	Sass      SassConfig             `yaml:"sass" toml:"sass"`
	Release   ReleaseConfig          `yaml:"release" toml:"release"`
}

// Config is the resolved configuration of a run. It is computed once by a
// Resolver and passed explicitly to every task.
type Config struct {
	Name      string
	Webroot   string
	Build     string
	Temp      string
	Src       []string
	Templates string
	// Files is the depth-ordered set of scripts, stylesheets and markup found
	// under Src. It is always derived, never read from the file.
	Files   []string
	Index   map[string]IndexTarget
	Sass    SassConfig
	Release ReleaseConfig
	// BaseDir is the directory relative paths were resolved against.
	BaseDir string
}

// IndexTarget is one named index generation task.
type IndexTarget struct {
	Src     StringList   `yaml:"src" toml:"src"`
	Dest    StringList   `yaml:"dest" toml:"dest"`
	Options IndexOptions `yaml:"options" toml:"options"`
}

// IndexOptions are the per-target options of the index task.
type IndexOptions struct {
	JS      []string    `yaml:"js" toml:"js"`
	CSS     []string    `yaml:"css" toml:"css"`
	Include IncludeSpec `yaml:"include" toml:"include"`
	// Data is merged over the computed template context. It must be a mapping;
	// any other shape is reported when the task runs.
	Data       any    `yaml:"data" toml:"data"`
	Version    string `yaml:"version" toml:"version"`
	Descriptor string `yaml:"descriptor" toml:"descriptor"`
}

// IncludeKind tags the shape an include option was written in.
type IncludeKind int

const (
	IncludeNone IncludeKind = iota
	// IncludeGlobList is a plain list of patterns.
	IncludeGlobList
	// IncludeMapping is a {src: [...], cwd, dest, flatten, ext} mapping.
	IncludeMapping
)

// IncludeSpec is the decoded include option of an index target.
type IncludeSpec struct {
	Kind       IncludeKind
	Patterns   []string
	DestPrefix string
	Options    files.MappingOptions
}

func (s *IncludeSpec) fromRaw(raw any) error {
	switch t := raw.(type) {
	case nil:
		*s = IncludeSpec{}
	case string:
		*s = IncludeSpec{Kind: IncludeGlobList, Patterns: []string{t}}
	case []any:
		var patterns StringList
		if err := patterns.fromRaw(t); err != nil {
			return fmt.Errorf("include: %w", err)
		}
		*s = IncludeSpec{Kind: IncludeGlobList, Patterns: patterns}
	case map[string]any:
		src, ok := t["src"].([]any)
		if !ok {
			return fmt.Errorf("include mapping requires a \"src\" list")
		}
		var patterns StringList
		if err := patterns.fromRaw(src); err != nil {
			return fmt.Errorf("include.src: %w", err)
		}
		spec := IncludeSpec{Kind: IncludeMapping, Patterns: patterns}
		spec.DestPrefix, _ = t["dest"].(string)
		spec.Options.Cwd, _ = t["cwd"].(string)
		spec.Options.Flatten, _ = t["flatten"].(bool)
		spec.Options.Ext, _ = t["ext"].(string)
		*s = spec
	default:
		return fmt.Errorf("include: unsupported type %T", raw)
	}
	return nil
}

func (s *IncludeSpec) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return s.fromRaw(raw)
}

func (s *IncludeSpec) UnmarshalTOML(data any) error {
	return s.fromRaw(data)
}

// SassConfig configures the external stylesheet compiler.
type SassConfig struct {
	Binary  string `yaml:"binary" toml:"binary"`
	Compass *bool  `yaml:"compass" toml:"compass"`
}

// UseCompass reports whether the compiler runs with Compass enabled (default true).
func (s SassConfig) UseCompass() bool {
	return s.Compass == nil || *s.Compass
}

// ReleaseConfig configures the release safety checks.
type ReleaseConfig struct {
	Branch     string `yaml:"branch" toml:"branch"`
	Repository string `yaml:"repository" toml:"repository"`
}
