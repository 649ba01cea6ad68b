package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehlabs/sitepipe/internal/config"
)

func TestIgnorePath(t *testing.T) {
	ignored := []string{
		"posts/.hello.md.swp",
		"posts/index.md~",
		"posts/#index.md#",
		"posts/.#index.md",
		".DS_Store",
		"img/Thumbs.db",
	}
	for _, path := range ignored {
		assert.True(t, ignorePath(path), path)
	}

	kept := []string{
		"posts/hello/index.md",
		"posts/hello/index.de.md",
		"data/authors.json",
	}
	for _, path := range kept {
		assert.False(t, ignorePath(path), path)
	}
}

func TestDebounceCoalescesBurst(t *testing.T) {
	w := New(config.WatchConfig{Debounce: 20 * time.Millisecond}, nil, nil, nil)
	requests := make(chan struct{}, 1)
	trigger := w.debounced(requests)

	for range 5 {
		trigger()
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-requests:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debounced request")
	}

	select {
	case <-requests:
		t.Fatal("burst produced a second request")
	case <-time.After(100 * time.Millisecond):
		// ok
	}
}

func TestRunRebuildsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	var builds atomic.Int32
	w := New(config.WatchConfig{Debounce: 10 * time.Millisecond}, []string{dir},
		func(context.Context) { builds.Add(1) }, nil)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register the root before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte("# hi"), 0o644))

	require.Eventually(t, func() bool { return builds.Load() >= 1 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestRunSkipsAbsentRoots(t *testing.T) {
	dir := t.TempDir()
	w := New(config.WatchConfig{Debounce: 10 * time.Millisecond},
		[]string{filepath.Join(dir, "missing"), dir},
		func(context.Context) {}, nil)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestRunFailsWithoutAnyRoot(t *testing.T) {
	dir := t.TempDir()
	w := New(config.WatchConfig{}, []string{filepath.Join(dir, "missing")},
		func(context.Context) {}, nil)

	err := w.Run(t.Context())
	require.ErrorIs(t, err, ErrNoRoots)
}
