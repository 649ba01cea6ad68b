// Package gitmeta reads build metadata from the content checkout's git
// history: the HEAD revision stamped onto the dataset and per-file last
// commit times used as edited-date fallbacks.
package gitmeta

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
)

var (
	// ErrNoRepository marks a content tree that is not inside a git
	// checkout. Builds proceed without git metadata in that case.
	ErrNoRepository = errors.New("no git repository")

	// ErrNoHistory marks a file with no commits touching it.
	ErrNoHistory = errors.New("no commit history for file")
)

// Repo exposes the metadata of one checkout.
type Repo struct {
	repo *git.Repository
	root string
}

// Open locates the repository containing dir, walking up to the nearest
// .git the way the git CLI does.
func Open(dir string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNoRepository, dir)
		}
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("repository at %s has no worktree: %w", dir, err)
	}
	return &Repo{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Revision returns the full HEAD commit hash.
func (r *Repo) Revision() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// LastModified returns the committer time of the newest commit touching
// path. Returns ErrNoHistory for tracked-but-never-committed or unknown
// files.
func (r *Repo) LastModified(path string) (time.Time, error) {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return time.Time{}, fmt.Errorf("relativize %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)

	iter, err := r.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("log %s: %w", rel, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNoHistory, rel)
		}
		return time.Time{}, fmt.Errorf("log %s: %w", rel, err)
	}
	return commit.Committer.When, nil
}
