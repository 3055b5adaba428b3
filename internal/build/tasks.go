package build

import (
	"strings"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/stylesheet"
)

// TaskKind is the kind of a task reference.
type TaskKind string

const (
	TaskIndex        TaskKind = "index"
	TaskSass         TaskKind = "sass"
	TaskReleaseCheck TaskKind = "release-check"
)

// TaskRef is a parsed task reference such as "index:dev" or "sass:build".
type TaskRef struct {
	Kind TaskKind
	// Arg is the index target or stylesheet profile. Empty for index means
	// every target.
	Arg string
}

func (r TaskRef) String() string {
	if r.Arg == "" {
		return string(r.Kind)
	}
	return string(r.Kind) + ":" + r.Arg
}

// ParseTask parses a task reference. "sass" alone selects the dev profile.
func ParseTask(ref string) (TaskRef, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(ref), ":")
	switch TaskKind(kind) {
	case TaskIndex:
		return TaskRef{Kind: TaskIndex, Arg: arg}, nil
	case TaskSass:
		if arg == "" {
			arg = stylesheet.ProfileDev
		}
		return TaskRef{Kind: TaskSass, Arg: arg}, nil
	case TaskReleaseCheck:
		if arg != "" {
			break
		}
		return TaskRef{Kind: TaskReleaseCheck}, nil
	}
	return TaskRef{}, ferrors.ValidationError("Unknown task: "+ref).
		WithContext(logfields.KeyTask, ref).
		Build()
}

// ParseTasks parses every reference, failing on the first invalid one.
func ParseTasks(refs []string) ([]TaskRef, error) {
	out := make([]TaskRef, 0, len(refs))
	for _, ref := range refs {
		r, err := ParseTask(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
