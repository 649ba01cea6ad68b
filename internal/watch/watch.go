// Package watch triggers rebuilds when content on disk changes. It wraps
// an fsnotify watcher with a quiet-window debounce so editor save bursts
// collapse into a single rebuild, and can additionally schedule rebuilds
// on a fixed interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/fernwehlabs/sitepipe/internal/config"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
)

// ErrNoRoots is returned when none of the configured watch roots exist.
var ErrNoRoots = errors.New("no watchable content roots")

const defaultDebounce = 400 * time.Millisecond

// RebuildFunc runs one full rebuild. Calls never overlap; requests that
// arrive while a rebuild is running queue at most one follow-up.
type RebuildFunc func(ctx context.Context)

// Watcher observes content roots and invokes the rebuild callback after
// each burst of changes settles.
type Watcher struct {
	cfg     config.WatchConfig
	roots   []string
	rebuild RebuildFunc
	log     *slog.Logger
}

func New(cfg config.WatchConfig, roots []string, rebuild RebuildFunc, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{cfg: cfg, roots: roots, rebuild: rebuild, log: log}
}

// Run blocks until ctx is canceled. Roots that do not exist are skipped;
// if none exist at all, Run fails rather than idling forever.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	watched := 0
	for _, root := range w.roots {
		st, statErr := os.Stat(root)
		if statErr != nil || !st.IsDir() {
			w.log.Debug("skipping absent watch root", logfields.Path(root))
			continue
		}
		if err := addDirsRecursive(fsw, root, w.log); err != nil {
			return err
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("%w: %s", ErrNoRoots, strings.Join(w.roots, ", "))
	}

	// Capacity 1: while a rebuild runs, at most one follow-up queues and
	// further triggers drop.
	requests := make(chan struct{}, 1)
	trigger := w.debounced(requests)
	go w.rebuildWorker(ctx, requests)

	if w.cfg.RebuildInterval > 0 {
		scheduler, err := w.startScheduler(trigger)
		if err != nil {
			return err
		}
		defer func() { _ = scheduler.Shutdown() }()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev, trigger)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", logfields.Error(err))
		}
	}
}

// debounced returns a trigger that enqueues one rebuild request after the
// quiet window elapses. Every trigger restarts the window.
func (w *Watcher) debounced(requests chan<- struct{}) func() {
	delay := w.cfg.Debounce
	if delay <= 0 {
		delay = defaultDebounce
	}

	var mu sync.Mutex
	var timer *time.Timer
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case requests <- struct{}{}:
			default:
			}
		})
	}
}

func (w *Watcher) rebuildWorker(ctx context.Context, requests <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			w.log.Info("content changed, rebuilding")
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) startScheduler(trigger func()) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(w.cfg.RebuildInterval),
		gocron.NewTask(func() {
			w.log.Debug("periodic rebuild tick")
			trigger()
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
	}
	scheduler.Start()
	w.log.Info("periodic rebuild scheduled", slog.Duration("interval", w.cfg.RebuildInterval))
	return scheduler, nil
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if ignorePath(ev.Name) {
		return
	}
	// New directories need their own watch before events inside them arrive.
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fsw, ev.Name, w.log)
		}
	}
	w.log.Debug("file change detected",
		logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(fsw *fsnotify.Watcher, root string, log *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				log.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// ignorePath reports whether a filesystem event should not trigger a
// rebuild: hidden files, editor swap and backup files, OS cruft.
func ignorePath(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db"
}
