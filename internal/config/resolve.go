package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/files"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/manifest"
)

// scanPatterns are matched below every source root, in this order.
var scanPatterns = []string{
	filepath.Join("**", "*.js"),
	filepath.Join("**", "*.s[ac]ss"),
	filepath.Join("**", "*.html"),
}

// Resolver turns a RawConfig into the Config of a run. The first successful
// Resolve is kept and returned by every later call.
type Resolver struct {
	raw     RawConfig
	fs      files.FileSystem
	baseDir string
	logger  *slog.Logger

	resolved *Config
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithBaseDir resolves relative paths against dir instead of the working directory.
func WithBaseDir(dir string) ResolverOption {
	return func(r *Resolver) { r.baseDir = dir }
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver for raw using fs for directory checks and scans.
func NewResolver(raw RawConfig, fs files.FileSystem, opts ...ResolverOption) *Resolver {
	r := &Resolver{raw: raw, fs: fs, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve merges defaults, evaluates late-bound values, makes every directory
// absolute, checks that the web root and source roots exist and scans the
// source roots into the ordered file list.
func (r *Resolver) Resolve() (*Config, error) {
	if r.resolved != nil {
		return r.resolved, nil
	}

	merged, err := Merge(r.raw)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").Fatal().Build()
	}

	base := r.baseDir
	if base == "" {
		if base, err = os.Getwd(); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "cannot determine working directory").Fatal().Build()
		}
	}
	base, err = filepath.Abs(base)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid base directory").Fatal().Build()
	}

	cfg := &Config{
		Index:   merged.Index,
		Sass:    merged.Sass,
		Release: merged.Release,
		BaseDir: base,
	}

	scalars := []struct {
		key  string
		val  Value
		dst  *string
		path bool
	}{
		{"name", merged.Name, &cfg.Name, false},
		{"webroot", merged.Webroot, &cfg.Webroot, true},
		{"build", merged.Build, &cfg.Build, true},
		{"temp", merged.Temp, &cfg.Temp, true},
		{"templates", merged.Templates, &cfg.Templates, false},
	}
	for _, s := range scalars {
		v, err := evalValue(s.key, s.val)
		if err != nil {
			return nil, err
		}
		if s.path {
			v = absPath(base, v)
		}
		*s.dst = v
	}

	cfg.Src = make([]string, 0, len(merged.Src))
	for i, val := range merged.Src {
		v, err := evalValue(fmt.Sprintf("src[%d]", i), val)
		if err != nil {
			return nil, err
		}
		cfg.Src = append(cfg.Src, absPath(base, v))
	}
	if cfg.Release.Repository != "" {
		cfg.Release.Repository = absPath(base, cfg.Release.Repository)
	}

	for _, dir := range append([]string{cfg.Webroot}, cfg.Src...) {
		if !r.fs.IsDir(dir) {
			return nil, ferrors.ConfigError("Directory does not exist: "+dir).
				WithContext(logfields.KeyPath, dir).
				Build()
		}
	}

	discovered, err := r.scan(cfg.Src)
	if err != nil {
		return nil, err
	}
	cfg.Files = manifest.OrderByDepth(discovered)

	r.logger.Debug("Resolved configuration",
		slog.String("webroot", cfg.Webroot),
		slog.String("build", cfg.Build),
		slog.String("temp", cfg.Temp),
		logfields.Count(len(cfg.Files)))
	for _, dir := range cfg.Src {
		r.logger.Debug("Source root", logfields.Root(dir))
	}

	r.resolved = cfg
	return cfg, nil
}

// scan expands every root separately; roots are expected to be disjoint so
// results are concatenated without deduplication.
func (r *Resolver) scan(roots []string) ([]string, error) {
	var found []string
	for _, root := range roots {
		if !r.fs.IsDir(root) {
			continue
		}
		patterns := make([]string, len(scanPatterns))
		for i, p := range scanPatterns {
			patterns[i] = filepath.Join(root, p)
		}
		matches, err := r.fs.Expand(patterns...)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "scan source root").
				WithContext(logfields.KeyRoot, root).
				Fatal().
				Build()
		}
		for _, m := range matches {
			found = append(found, absPath(root, m))
		}
	}
	return found, nil
}

func evalValue(key string, v Value) (string, error) {
	s, err := v.Eval()
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryConfig, "cannot evaluate config."+key).
			WithContext("key", key).
			Fatal().
			Build()
	}
	return s, nil
}

func absPath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
