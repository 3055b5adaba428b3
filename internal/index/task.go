// Package index generates an HTML index page from a template, injecting the
// ordered script and style references of the build.
package index

import (
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	"git.home.luguber.info/inful/assetbuilder/internal/files"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// DefaultDescriptor is the project descriptor read when the version is "auto".
const DefaultDescriptor = "package.json"

// Task is one index generation: a single template rendered to a single
// destination. Sources and Dests are kept as lists so that configurations with
// the wrong number of entries can be rejected instead of collapsed.
type Task struct {
	Name     string
	Sources  []string
	Dests    []string
	Scripts  []string
	Styles   []string
	Includes Includes
	// Data is merged over the computed context. Anything but a mapping is
	// ignored with a warning.
	Data       any
	Version    string
	Descriptor string
}

// Includes selects additional scripts discovered by pattern. It is either a
// GlobList or a MappingSpec; a nil Includes selects nothing.
type Includes interface {
	includes()
}

// GlobList expands patterns relative to the base directory; the matched paths
// become script references.
type GlobList struct {
	Patterns []string
}

// MappingSpec expands patterns inside Options.Cwd; the derived destination
// paths become script references.
type MappingSpec struct {
	Patterns   []string
	DestPrefix string
	Options    files.MappingOptions
}

func (GlobList) includes()    {}
func (MappingSpec) includes() {}

// Targets returns the configured index target names in sorted order.
func Targets(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Index))
	for name := range cfg.Index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromConfig builds the task for the named index target. Relative paths are
// resolved against the configuration's base directory.
func FromConfig(cfg *config.Config, name string) (Task, error) {
	target, ok := cfg.Index[name]
	if !ok {
		return Task{}, ferrors.ConfigError("Unknown index target: "+name).
			WithContext(logfields.KeyTarget, name).
			Build()
	}

	opts := target.Options
	task := Task{
		Name:       name,
		Sources:    absPaths(cfg.BaseDir, target.Src),
		Dests:      absPaths(cfg.BaseDir, target.Dest),
		Scripts:    opts.JS,
		Styles:     opts.CSS,
		Data:       opts.Data,
		Version:    opts.Version,
		Descriptor: opts.Descriptor,
	}
	if task.Descriptor == "" {
		task.Descriptor = DefaultDescriptor
	}
	task.Descriptor = absPath(cfg.BaseDir, task.Descriptor)

	switch opts.Include.Kind {
	case config.IncludeNone:
	case config.IncludeGlobList:
		task.Includes = GlobList{Patterns: opts.Include.Patterns}
	case config.IncludeMapping:
		mapping := MappingSpec{
			Patterns:   opts.Include.Patterns,
			DestPrefix: opts.Include.DestPrefix,
			Options:    opts.Include.Options,
		}
		mapping.Options.Cwd = absPath(cfg.BaseDir, mapping.Options.Cwd)
		task.Includes = mapping
	default:
		return Task{}, ferrors.InternalError("unknown include kind").
			WithContext(logfields.KeyTarget, name).
			Build()
	}
	return task, nil
}

func absPaths(base string, paths []string) []string {
	if paths == nil {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = absPath(base, p)
	}
	return out
}

func absPath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
