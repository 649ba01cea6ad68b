// Package integration exercises the full build path: a content tree on
// disk, a real git history, the pipeline, and the HTTP API on top of the
// produced dataset.
package integration

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/fernwehlabs/sitepipe/internal/config"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writePNG(t *testing.T, root, name string, w, h int) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

// setupContentTree writes a complete content tree and commits it, so builds
// pick up a git revision and per-file modification times.
func setupContentTree(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "data/about.json", `{"title":"Fernweh"}`)
	writeFile(t, root, "data/authors.json",
		`[{"id":"jo","name":"Jo Doe","profileImg":"img/jo.png","roles":["dev"],"socials":{"github":"https://github.com/jodoe"}}]`)
	writeFile(t, root, "data/roles.json", `[{"id":"dev","prettyname":"Developer"}]`)
	writeFile(t, root, "data/licenses.json", `[{"id":"cc-by","name":"CC BY 4.0"}]`)
	writeFile(t, root, "data/tags.json", `{"go":{"displayName":"Go"}}`)
	writePNG(t, root, "data/img/jo.png", 128, 128)

	writeFile(t, root, "collections/zine/index.md", `---
title: The Zine
published: 2023-06-15
authors: [jo]
coverImg: cover.png
---
`)
	writePNG(t, root, "collections/zine/cover.png", 640, 360)

	writeFile(t, root, "posts/hello/index.md", `---
title: Hello
published: 2024-03-10
authors: [jo]
tags: [go]
collection: zine
license: cc-by
---
First post body with a handful of words in it.
`)
	// No edited date here: the build falls back to the git commit time.
	writeFile(t, root, "posts/older/index.md", `---
title: Older
published: 2022-01-05
authors: [jo]
---
Older body.
`)

	commitAll(t, root)

	cfg := config.Default()
	cfg.Content.PostsDir = filepath.Join(root, "posts")
	cfg.Content.CollectionsDir = filepath.Join(root, "collections")
	cfg.Content.DataDir = filepath.Join(root, "data")
	cfg.Content.PublicDir = filepath.Join(root, "public")
	cfg.Site.Title = "Fernweh Labs"
	return cfg
}

func commitAll(t *testing.T, root string) {
	t.Helper()

	repo, err := git.PlainInit(root, false)
	require.NoError(t, err, "init git repo")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddGlob("."), "stage fixture files")

	sig := &object.Signature{
		Name:  "Test",
		Email: "test@example.com",
		When:  time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC),
	}
	_, err = wt.Commit("content fixture", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err, "commit fixture files")
}
