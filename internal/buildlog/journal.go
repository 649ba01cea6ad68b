// Package buildlog journals build outcomes to SQLite. Serve mode records
// one row per build so operators can see the recent history through the
// API after restarts.
package buildlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fernwehlabs/sitepipe/internal/pipeline"
)

// Entry is one journaled build.
type Entry struct {
	ID          int64     `json:"id"`
	BuildID     string    `json:"buildId"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Outcome     string    `json:"outcome"`
	Posts       int       `json:"posts"`
	Collections int       `json:"collections"`
	Warnings    int       `json:"warnings"`
	DurationMS  int64     `json:"durationMs"`
	Error       string    `json:"error,omitempty"`
}

// FromReport converts a build report into a journal entry.
func FromReport(r *pipeline.BuildReport) Entry {
	return Entry{
		BuildID:     r.BuildID,
		StartedAt:   r.Start,
		FinishedAt:  r.End,
		Outcome:     string(r.Outcome),
		Posts:       r.Posts,
		Collections: r.Collections,
		Warnings:    len(r.Warnings),
		DurationMS:  r.Duration().Milliseconds(),
		Error:       strings.Join(r.Errors, "; "),
	}
}

// Journal is a SQLite-backed build history.
type Journal struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the journal database. Use ":memory:" for an
// in-memory journal.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize journal schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		posts INTEGER NOT NULL,
		collections INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
	CREATE INDEX IF NOT EXISTS idx_builds_build_id ON builds(build_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record appends one build to the journal.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO builds (build_id, started_at, finished_at, outcome, posts, collections, warnings, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.BuildID, e.StartedAt.Unix(), e.FinishedAt.Unix(), e.Outcome,
		e.Posts, e.Collections, e.Warnings, e.DurationMS, e.Error,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// Recent returns the newest builds, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, build_id, started_at, finished_at, outcome, posts, collections, warnings, duration_ms, error
		 FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var started, finished int64
		var errText sql.NullString
		if err := rows.Scan(&e.ID, &e.BuildID, &started, &finished, &e.Outcome,
			&e.Posts, &e.Collections, &e.Warnings, &e.DurationMS, &errText); err != nil {
			return nil, fmt.Errorf("scan build row: %w", err)
		}
		e.StartedAt = time.Unix(started, 0).UTC()
		e.FinishedAt = time.Unix(finished, 0).UTC()
		e.Error = errText.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the underlying database.
func (j *Journal) Close() error { return j.db.Close() }
