package stylesheet

import (
	"path/filepath"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// Profile names.
const (
	ProfileDev   = "dev"
	ProfileBuild = "build"
)

// cssDir is the directory below the web root or build root that receives
// compiled stylesheets.
const cssDir = "css"

// Profile holds the output directory and compiler toggles of a build profile.
type Profile struct {
	Name        string
	Dest        string
	Compass     bool
	LineNumbers bool
	// SourceMap is passed through as --sourcemap=<value> when set.
	SourceMap string
	// Style is the output style; empty keeps the compiler default.
	Style string
	// CacheDir is the compiler cache location; empty keeps the compiler default.
	CacheDir string
}

// ProfileFor returns the named profile for cfg. dev writes annotated output
// into the web root, build writes compressed output without source maps into
// the build directory.
func ProfileFor(cfg *config.Config, name string) (Profile, error) {
	p := Profile{Name: name, Compass: cfg.Sass.UseCompass()}
	switch name {
	case ProfileDev:
		p.Dest = filepath.Join(cfg.Webroot, cssDir)
		p.LineNumbers = true
	case ProfileBuild:
		p.Dest = filepath.Join(cfg.Build, cssDir)
		p.SourceMap = "none"
		p.Style = "compressed"
	default:
		return Profile{}, ferrors.ConfigError("Unknown stylesheet profile: "+name).
			WithContext(logfields.KeyProfile, name).
			Build()
	}
	return p, nil
}
