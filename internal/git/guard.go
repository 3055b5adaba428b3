package git

import (
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// Guard performs the release safety checks.
type Guard struct {
	logger *slog.Logger
}

// NewGuard creates a guard logging to logger.
func NewGuard(logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{logger: logger}
}

// EnsureCleanBranch fails unless HEAD of the repository containing repoPath
// is the branch named branch and the working copy has no changes, untracked
// files included. A detached HEAD is never on a branch.
func (g *Guard) EnsureCleanBranch(repoPath, branch string) error {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryExternalCommand, "Not a git repository: "+repoPath).
			WithContext(logfields.KeyPath, repoPath).
			UserAction().
			Build()
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryExternalCommand, "Cannot read HEAD").
			WithContext(logfields.KeyPath, repoPath).
			Build()
	}
	want := plumbing.NewBranchReferenceName(branch)
	if head.Type() != plumbing.SymbolicReference || head.Target() != want {
		current := head.Hash().String()
		if head.Type() == plumbing.SymbolicReference {
			current = head.Target().String()
		}
		return ferrors.ExternalCommandError("Not on "+branch+" branch, aborting").
			WithContext(logfields.KeyPath, repoPath).
			WithContext("head", current).
			Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryExternalCommand, "Cannot open working copy").
			WithContext(logfields.KeyPath, repoPath).
			Build()
	}
	status, err := wt.Status()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryExternalCommand, "Cannot read working copy status").
			WithContext(logfields.KeyPath, repoPath).
			Build()
	}
	if !status.IsClean() {
		return ferrors.ExternalCommandError("Working copy is dirty, aborting").
			WithContext(logfields.KeyPath, repoPath).
			WithContext(logfields.KeyCount, len(status)).
			Build()
	}

	g.logger.Info("Release checks passed", logfields.Path(repoPath), slog.String("branch", branch))
	return nil
}
