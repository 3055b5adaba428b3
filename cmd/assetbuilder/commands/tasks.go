package commands

import (
	"git.home.luguber.info/inful/assetbuilder/internal/build"
	"git.home.luguber.info/inful/assetbuilder/internal/stylesheet"
)

// IndexCmd implements the 'index' command.
type IndexCmd struct {
	Targets []string `arg:"" optional:"" help:"Index targets to generate (default: all, in name order)"`
}

func (i *IndexCmd) Run(g *Global, root *CLI) error {
	tasks := []string{string(build.TaskIndex)}
	if len(i.Targets) > 0 {
		tasks = tasks[:0]
		for _, t := range i.Targets {
			tasks = append(tasks, build.TaskRef{Kind: build.TaskIndex, Arg: t}.String())
		}
	}
	return RunTasks(g, root, tasks)
}

// SassCmd implements the 'sass' command.
type SassCmd struct {
	Profile string `arg:"" optional:"" default:"dev" enum:"dev,build" help:"Build profile (dev|build)"`
}

func (s *SassCmd) Run(g *Global, root *CLI) error {
	profile := s.Profile
	if profile == "" {
		profile = stylesheet.ProfileDev
	}
	return RunTasks(g, root, []string{build.TaskRef{Kind: build.TaskSass, Arg: profile}.String()})
}

// ReleaseCheckCmd implements the 'release-check' command.
type ReleaseCheckCmd struct{}

func (r *ReleaseCheckCmd) Run(g *Global, root *CLI) error {
	return RunTasks(g, root, []string{string(build.TaskReleaseCheck)})
}

// RunCmd implements the 'run' command.
type RunCmd struct {
	Tasks []string `arg:"" help:"Task references to run in order"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	// Reject typos before the configuration is touched.
	if _, err := build.ParseTasks(r.Tasks); err != nil {
		return err
	}
	return RunTasks(g, root, r.Tasks)
}
