package gitmeta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return repo, dir
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string, when time.Time) {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	full := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "tester", Email: "t@example.com", When: when}
	if _, err := wt.Commit("edit "+name, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestOpenOutsideRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, ErrNoRepository) {
		t.Fatalf("expected ErrNoRepository, got %v", err)
	}
}

func TestRevisionAndLastModified(t *testing.T) {
	repo, dir := initRepo(t)

	first := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	second := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	commitFile(t, repo, dir, "content/posts/hello/index.md", "v1", first)
	commitFile(t, repo, dir, "content/posts/hello/index.md", "v2", second)
	commitFile(t, repo, dir, "content/posts/other/index.md", "x", second.Add(time.Hour))

	// Open from a nested directory; discovery walks up to the checkout root.
	r, err := Open(filepath.Join(dir, "content", "posts"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	rev, err := r.Revision()
	if err != nil {
		t.Fatalf("revision: %v", err)
	}
	if len(rev) != 40 {
		t.Fatalf("expected full hash, got %q", rev)
	}

	mod, err := r.LastModified(filepath.Join(dir, "content", "posts", "hello", "index.md"))
	if err != nil {
		t.Fatalf("last modified: %v", err)
	}
	if !mod.Equal(second) {
		t.Fatalf("expected %v, got %v", second, mod)
	}
}

func TestLastModifiedUntrackedFile(t *testing.T) {
	repo, dir := initRepo(t)
	commitFile(t, repo, dir, "tracked.md", "x", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	r, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "untracked.md"), []byte("y"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = r.LastModified(filepath.Join(dir, "untracked.md"))
	if !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}
