package pipeline

import (
	"log/slog"
	"time"

	"github.com/fernwehlabs/sitepipe/internal/logfields"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures what one build run did: per-stage timings and
// classifications, accumulated warnings, and the record counts of the
// produced dataset.
type BuildReport struct {
	BuildID string    `json:"buildId"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`

	Posts       int `json:"posts"`
	Collections int `json:"collections"`
	Authors     int `json:"authors"`
	Tags        int `json:"tags"`

	StageDurations map[string]time.Duration  `json:"stageDurations"`
	StageResults   map[string]StageErrorKind `json:"stageResults,omitempty"`
	Warnings       []string                  `json:"warnings,omitempty"`
	Errors         []string                  `json:"errors,omitempty"`

	Outcome BuildOutcome `json:"outcome"`
}

func newBuildReport(buildID string) *BuildReport {
	return &BuildReport{
		BuildID:        buildID,
		Start:          time.Now(),
		StageDurations: make(map[string]time.Duration),
		StageResults:   make(map[string]StageErrorKind),
	}
}

func (r *BuildReport) recordStage(stage string, dur time.Duration, se *StageError) {
	r.StageDurations[stage] = dur
	if se == nil {
		return
	}
	r.StageResults[stage] = se.Kind
	switch se.Kind {
	case StageErrorWarning:
		r.Warnings = append(r.Warnings, se.Error())
	default:
		r.Errors = append(r.Errors, se.Error())
	}
}

// AddWarning records a non-fatal issue observed inside a stage.
func (r *BuildReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Finalize stamps the end time and derives the overall outcome.
func (r *BuildReport) Finalize() {
	r.End = time.Now()
	switch {
	case r.hasKind(StageErrorCanceled):
		r.Outcome = OutcomeCanceled
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

func (r *BuildReport) hasKind(kind StageErrorKind) bool {
	for _, k := range r.StageResults {
		if k == kind {
			return true
		}
	}
	return false
}

// Duration is the wall time of the whole run.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// LogAttrs returns the report as structured log attributes for the single
// summary line emitted after every build.
func (r *BuildReport) LogAttrs() []any {
	return []any{
		logfields.Outcome(string(r.Outcome)),
		slog.Duration("duration", r.Duration()),
		slog.Int("posts", r.Posts),
		slog.Int("collections", r.Collections),
		slog.Int("authors", r.Authors),
		slog.Int("tags", r.Tags),
		slog.Int("warnings", len(r.Warnings)),
	}
}
