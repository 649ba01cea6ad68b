package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestScanAlignsLocalesAndFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"hello/index.md":    "a",
		"hello/index.de.md": "b",
		"hello/index.fr.md": "c",
		"hello/notes.txt":   "ignored",
	})

	entries, err := NewScanner("en", nil).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "hello", e.Slug)
	require.Equal(t, len(e.Locales), len(e.Files))

	// One lexical pass produces both lists, so each position pairs up.
	for i, f := range e.Files {
		switch filepath.Base(f) {
		case "index.md":
			assert.Equal(t, "en", e.Locales[i])
		case "index.de.md":
			assert.Equal(t, "de", e.Locales[i])
		case "index.fr.md":
			assert.Equal(t, "fr", e.Locales[i])
		default:
			t.Fatalf("unexpected file %s", f)
		}
	}

	assert.Equal(t, "en", e.ActiveLocale())
	assert.Equal(t, "index.md", filepath.Base(e.ActiveFile()))
}

func TestScanWithoutDefaultLocaleUsesFirstFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"nur-deutsch/index.de.md": "a",
		"nur-deutsch/index.fr.md": "b",
	})

	entries, err := NewScanner("en", nil).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "de", entries[0].ActiveLocale())
}

func TestScanSkipsInvalidLocaleSuffix(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"post/index.md":           "a",
		"post/index.!!bogus!!.md": "b",
	})

	entries, err := NewScanner("en", nil).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"en"}, entries[0].Locales)
	require.Len(t, entries[0].Files, 1)
}

func TestScanOrderIsLexical(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"zulu/index.md":  "a",
		"alpha/index.md": "b",
		"mike/index.md":  "c",
	})

	entries, err := NewScanner("en", nil).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "alpha", entries[0].Slug)
	assert.Equal(t, "mike", entries[1].Slug)
	assert.Equal(t, "zulu", entries[2].Slug)
	for i, e := range entries {
		assert.Equal(t, i, e.ScanOrder)
	}
}

func TestScanSkipsDirsWithoutIndexAndStrayFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"real/index.md":   "a",
		"empty/README.md": "not an index",
		"stray.md":        "file at root",
	})

	entries, err := NewScanner("en", nil).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "real", entries[0].Slug)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := NewScanner("en", nil).Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, ErrScanRoot)
}

func TestScanCanceledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/index.md": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewScanner("en", nil).Scan(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}
