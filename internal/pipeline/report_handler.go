package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// warnCollector tees warn-and-above records into the build report while
// forwarding everything to the wrapped handler. Builders deep inside a
// stage only ever see a logger, so this is how their skip warnings end up
// on the report.
type warnCollector struct {
	inner  slog.Handler
	mu     *sync.Mutex
	report *BuildReport
}

func collectWarnings(inner slog.Handler, report *BuildReport) slog.Handler {
	return &warnCollector{inner: inner, mu: &sync.Mutex{}, report: report}
}

func (h *warnCollector) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || h.inner.Enabled(ctx, level)
}

func (h *warnCollector) Handle(ctx context.Context, rec slog.Record) error {
	if rec.Level >= slog.LevelWarn {
		var b strings.Builder
		b.WriteString(rec.Message)
		rec.Attrs(func(a slog.Attr) bool {
			b.WriteByte(' ')
			b.WriteString(a.String())
			return true
		})
		h.mu.Lock()
		h.report.AddWarning(b.String())
		h.mu.Unlock()
	}
	if h.inner.Enabled(ctx, rec.Level) {
		return h.inner.Handle(ctx, rec)
	}
	return nil
}

func (h *warnCollector) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &warnCollector{inner: h.inner.WithAttrs(attrs), mu: h.mu, report: h.report}
}

func (h *warnCollector) WithGroup(name string) slog.Handler {
	return &warnCollector{inner: h.inner.WithGroup(name), mu: h.mu, report: h.report}
}
