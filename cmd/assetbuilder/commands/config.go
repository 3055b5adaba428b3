package commands

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
)

// ConfigCmd implements the 'config' command.
type ConfigCmd struct {
	Key    string `arg:"" optional:"" help:"Print a single value (name, webroot, build, temp, src, templates, files, index)"`
	Format string `short:"f" default:"yaml" enum:"yaml,text" help:"Output format (yaml|text)"`
}

// configView is the printable part of a resolved configuration.
type configView struct {
	Name      string   `yaml:"name"`
	Webroot   string   `yaml:"webroot"`
	Build     string   `yaml:"build"`
	Temp      string   `yaml:"temp"`
	Src       []string `yaml:"src"`
	Templates string   `yaml:"templates"`
	Files     []string `yaml:"files"`
	Index     []string `yaml:"index"`
}

func newConfigView(cfg *config.Config) configView {
	targets := make([]string, 0, len(cfg.Index))
	for name := range cfg.Index {
		targets = append(targets, name)
	}
	sort.Strings(targets)
	return configView{
		Name:      cfg.Name,
		Webroot:   cfg.Webroot,
		Build:     cfg.Build,
		Temp:      cfg.Temp,
		Src:       cfg.Src,
		Templates: cfg.Templates,
		Files:     cfg.Files,
		Index:     targets,
	}
}

func (v configView) lookup(key string) (any, bool) {
	values := map[string]any{
		"name":      v.Name,
		"webroot":   v.Webroot,
		"build":     v.Build,
		"temp":      v.Temp,
		"src":       v.Src,
		"templates": v.Templates,
		"files":     v.Files,
		"index":     v.Index,
	}
	val, ok := values[key]
	return val, ok
}

func (c *ConfigCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g.logger())
	if err != nil {
		return err
	}
	view := newConfigView(cfg)
	out := g.stdout()

	if c.Key != "" {
		val, ok := view.lookup(c.Key)
		if !ok {
			return ferrors.ValidationError("Unknown configuration key: " + c.Key).Build()
		}
		_, _ = fmt.Fprintln(out, config.FormatValue(val))
		return nil
	}

	if c.Format == "text" {
		for _, key := range []string{"name", "webroot", "build", "temp", "src", "templates", "files", "index"} {
			val, _ := view.lookup(key)
			_, _ = fmt.Fprintf(out, "config:%s=%s\n", key, config.FormatValue(val))
		}
		return nil
	}

	data, err := yaml.Marshal(view)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "render configuration").Build()
	}
	_, err = out.Write(data)
	return err
}
