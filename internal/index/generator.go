package index

import (
	"log/slog"
	"maps"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/assetbuilder/internal/assets"
	"git.home.luguber.info/inful/assetbuilder/internal/files"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/manifest"
	"git.home.luguber.info/inful/assetbuilder/internal/templates"
)

// RenderFunc renders a template body with a context.
type RenderFunc func(body string, data map[string]any) (string, error)

// Generator renders index tasks.
type Generator struct {
	fs      files.FileSystem
	render  RenderFunc
	baseDir string
	logger  *slog.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRenderer replaces the template renderer.
func WithRenderer(render RenderFunc) Option {
	return func(g *Generator) { g.render = render }
}

// WithBaseDir sets the directory plain include patterns are expanded in.
func WithBaseDir(dir string) Option {
	return func(g *Generator) { g.baseDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a generator backed by fs.
func NewGenerator(fs files.FileSystem, opts ...Option) *Generator {
	g := &Generator{fs: fs, render: templates.Render, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the task's template to its destination and returns the
// rendered document. Nothing is written unless every precondition holds.
func (g *Generator) Generate(task Task) (string, error) {
	if len(task.Sources) == 0 && len(task.Dests) == 0 {
		return "", g.configError("No source or destination set.", task, "")
	}
	if len(task.Sources) != 1 {
		return "", g.configError("Only one template source supported.", task, "")
	}
	if len(task.Dests) != 1 {
		return "", g.configError("Only one destination file supported.", task, "")
	}
	src, dest := task.Sources[0], task.Dests[0]
	if !g.fs.Exists(src) {
		return "", g.configError("Template not found: "+src, task, src)
	}

	ctx, err := g.Context(task)
	if err != nil {
		return "", err
	}

	var rendered string
	err = g.fs.Copy(src, dest, func(contents string) (string, error) {
		out, err := g.render(contents, ctx)
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "Cannot render template: "+src).
				WithContext(logfields.KeyPath, src).
				Build()
		}
		rendered = out
		return out, nil
	})
	if err != nil {
		if ferrors.IsClassified(err) {
			return "", err
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "Cannot write index: "+dest).
			WithContext(logfields.KeyDest, dest).
			Build()
	}

	g.logger.Info("Index written", logfields.Target(task.Name), logfields.Dest(dest))
	g.inspect(task.Name, rendered)
	return rendered, nil
}

// Context computes the render context of task: explicit scripts followed by
// the depth-ordered includes, the styles and the version, with the task's data
// merged over them.
func (g *Generator) Context(task Task) (map[string]any, error) {
	includes, err := g.expandIncludes(task.Includes)
	if err != nil {
		return nil, err
	}

	scripts := make([]string, 0, len(task.Scripts)+len(includes))
	scripts = append(scripts, task.Scripts...)
	scripts = append(scripts, manifest.OrderByDepth(includes)...)

	version, err := ResolveVersion(task.Version, task.Descriptor, g.fs, g.logger)
	if err != nil {
		return nil, err
	}

	ctx := map[string]any{
		"scripts": assets.NormalizeURLs(scripts),
		"styles":  assets.NormalizeURLs(task.Styles),
		"version": version,
	}

	data, err := ToObject(task.Data)
	if ce, ok := ferrors.AsClassified(err); ok {
		g.logger.Warn(ce.Message(), logfields.Target(task.Name))
		data = nil
	}
	maps.Copy(ctx, data)
	return ctx, nil
}

func (g *Generator) expandIncludes(inc Includes) ([]string, error) {
	var (
		patterns []string
		prefix   string
		opts     files.MappingOptions
	)
	switch spec := inc.(type) {
	case nil:
		return nil, nil
	case GlobList:
		return g.expandGlobList(spec.Patterns)
	case MappingSpec:
		patterns, prefix, opts = spec.Patterns, spec.DestPrefix, spec.Options
	default:
		return nil, ferrors.InternalError("unsupported include specification").Build()
	}

	mappings, err := g.fs.ExpandMapping(patterns, prefix, opts)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "Cannot expand includes").
			WithContext("patterns", strings.Join(patterns, ",")).
			Fatal().
			Build()
	}
	dests := make([]string, len(mappings))
	for i, m := range mappings {
		dests[i] = m.Dest
	}
	return dests, nil
}

// expandGlobList matches plain include patterns against the base directory.
// Patterns may leave it ("../lib/*.js") or be absolute; matches come back
// relative to the base directory with forward slashes.
func (g *Generator) expandGlobList(patterns []string) ([]string, error) {
	anchored := make([]string, len(patterns))
	for i, p := range patterns {
		neg, rest := "", p
		if r, ok := strings.CutPrefix(p, "!"); ok {
			neg, rest = "!", r
		}
		if g.baseDir != "" && !filepath.IsAbs(rest) {
			rest = filepath.Join(g.baseDir, rest)
		}
		anchored[i] = neg + rest
	}

	found, err := g.fs.Expand(anchored...)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "Cannot expand includes").
			WithContext("patterns", strings.Join(patterns, ",")).
			Fatal().
			Build()
	}
	if g.baseDir == "" {
		return found, nil
	}
	dests := make([]string, len(found))
	for i, m := range found {
		rel, err := filepath.Rel(g.baseDir, m)
		if err != nil {
			rel = m
		}
		dests[i] = filepath.ToSlash(rel)
	}
	return dests, nil
}

func (g *Generator) configError(msg string, task Task, path string) error {
	b := ferrors.ConfigError(msg).WithContext(logfields.KeyTarget, task.Name)
	if path != "" {
		b = b.WithContext(logfields.KeyPath, path)
	}
	return b.Build()
}

func (g *Generator) inspect(target, rendered string) {
	refs, err := templates.InspectAssets(strings.NewReader(rendered))
	if err != nil {
		g.logger.Debug("Cannot inspect rendered index", logfields.Target(target), logfields.Error(err))
		return
	}
	g.logger.Debug("Index references",
		logfields.Target(target),
		slog.Int("scripts", len(refs.Scripts)),
		slog.Int("styles", len(refs.Styles)))
}
