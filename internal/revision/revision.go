// Package revision reads the git commit an image tree is checked out at.
package revision

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ShortLen is the length of the abbreviated commit hash.
const ShortLen = 12

var (
	// ErrNotRepository indicates dir is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoCommits indicates a repository whose HEAD points at nothing yet.
	ErrNoCommits = errors.New("repository has no commits")
)

// Info describes HEAD of the repository containing a directory.
type Info struct {
	Commit string
	Branch string
	Dirty  bool
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.Commit) <= ShortLen {
		return i.Commit
	}
	return i.Commit[:ShortLen]
}

// Detect opens the repository containing dir, searching parent directories.
func Detect(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
		}
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNoCommits)
		}
		return nil, fmt.Errorf("read HEAD: %w", err)
	}

	info := &Info{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no work tree to be dirty.
		return info, nil
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("work tree status: %w", err)
	}
	info.Dirty = !status.IsClean()

	return info, nil
}
