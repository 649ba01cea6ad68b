package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fernwehlabs/sitepipe/internal/authors"
	"github.com/fernwehlabs/sitepipe/internal/gitmeta"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/metrics"
	"github.com/fernwehlabs/sitepipe/internal/refdata"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

// Stage is a discrete unit of work in a dataset build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// BuildState carries intermediate results across stages. Each stage reads
// what earlier stages produced and fills in its own slice of the state.
type BuildState struct {
	BuildID string
	Ref     *refdata.Dataset
	Authors []sitemodel.AuthorRecord
	Idx     authors.Index
	Shells  []sitemodel.CollectionShell
	Posts   []sitemodel.PostRecord
	Linked  []sitemodel.CollectionRecord
	Site    *sitemodel.SiteData
	Report  *BuildReport

	// Repo is nil when the content tree is not a git checkout.
	Repo *gitmeta.Repo

	log *slog.Logger
}

type namedStage struct {
	name string
	fn   Stage
}

// runStages executes stages in order, recording timing and classification,
// stopping on the first fatal or canceled error.
func runStages(ctx context.Context, bs *BuildState, rec metrics.Recorder, stages []namedStage) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			bs.Report.recordStage(st.name, 0, se)
			rec.IncStageResult(st.name, metrics.ResultCanceled)
			return se
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)
		rec.ObserveStageDuration(st.name, dur)
		bs.log.Debug("stage finished",
			logfields.Stage(st.name), logfields.DurationMS(float64(dur.Milliseconds())))

		if err == nil {
			bs.Report.recordStage(st.name, dur, nil)
			rec.IncStageResult(st.name, metrics.ResultSuccess)
			continue
		}

		se := classify(st.name, err)
		bs.Report.recordStage(st.name, dur, se)
		rec.IncStageResult(st.name, resultLabel(se.Kind))
		if se.Kind == StageErrorWarning {
			continue
		}
		return se
	}
	return nil
}

func classify(stage string, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newCanceledStageError(stage, err)
	}
	return newFatalStageError(stage, err)
}

func resultLabel(kind StageErrorKind) metrics.ResultLabel {
	switch kind {
	case StageErrorWarning:
		return metrics.ResultWarning
	case StageErrorCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFatal
	}
}
