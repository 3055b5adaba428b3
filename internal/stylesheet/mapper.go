// Package stylesheet plans and runs stylesheet compilation. Compiled files
// mirror the directory structure of their source root under the profile's
// output directory.
package stylesheet

import (
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/assetbuilder/internal/assets"
	"git.home.luguber.info/inful/assetbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// Job is one stylesheet to compile.
type Job struct {
	Src  string
	Dest string
}

// MapOutput returns the output path of source: the part of source after its
// source root, placed under destRoot, with the extension replaced by ".css".
// Roots are matched as string prefixes and the longest matching root wins.
func MapOutput(source string, roots []string, destRoot string) (string, error) {
	src, err := filepath.Abs(source)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryConfig, "Could not resolve source for: "+source).
			WithContext(logfields.KeyPath, source).
			Fatal().
			Build()
	}
	dest, err := filepath.Abs(destRoot)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryConfig, "Invalid destination: "+destRoot).
			WithContext(logfields.KeyDest, destRoot).
			Fatal().
			Build()
	}

	base := ""
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if strings.HasPrefix(src, abs) && len(abs) > len(base) {
			base = abs
		}
	}
	if base == "" {
		return "", ferrors.ConfigError("Could not resolve source for: "+src).
			WithContext(logfields.KeyPath, src).
			Build()
	}

	rel := src[len(base):]
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + assets.StyleOutExt
	return filepath.Join(dest, rel), nil
}

// Plan maps every compilable stylesheet of the resolved file list, in
// manifest order, to its output path under the profile directory.
func Plan(cfg *config.Config, profile Profile, logger *slog.Logger) ([]Job, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sources := assets.Stylesheets(cfg.Files)
	jobs := make([]Job, 0, len(sources))
	for _, src := range sources {
		out, err := MapOutput(src, cfg.Src, profile.Dest)
		if err != nil {
			return nil, err
		}
		logger.Debug("Rename: "+out, logfields.Path(src), logfields.Dest(out), logfields.Profile(profile.Name))
		jobs = append(jobs, Job{Src: src, Dest: out})
	}
	return jobs, nil
}
