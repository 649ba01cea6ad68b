// Package notify publishes build lifecycle events to NATS so other services
// (image generators, deploy hooks) can react to dataset changes without
// polling.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fernwehlabs/sitepipe/internal/config"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/pipeline"
)

// Event is one build lifecycle notification.
type Event struct {
	Type        string    `json:"type"` // started|completed|failed
	BuildID     string    `json:"buildId,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	Posts       int       `json:"posts,omitempty"`
	Collections int       `json:"collections,omitempty"`
	Warnings    int       `json:"warnings,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher publishes events on one subject. A nil Publisher is valid and
// publishes nothing, so callers can hold one unconditionally.
type Publisher struct {
	conn    *nats.Conn
	subject string
	log     *slog.Logger
}

// NewPublisher connects to NATS using the notify configuration.
func NewPublisher(cfg *config.NotifyConfig, log *slog.Logger) (*Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("notifications are disabled")
	}
	if log == nil {
		log = slog.Default()
	}

	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("sitepipe"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NATSURL, err)
	}

	log.Info("notify publisher connected",
		logfields.URL(cfg.NATSURL), logfields.Subject(cfg.Subject))
	return &Publisher{conn: conn, subject: cfg.Subject, log: log}, nil
}

// BuildStarted announces a build beginning. The build ID is only known
// once the build finishes, so started events carry just the timestamp.
func (p *Publisher) BuildStarted() {
	p.publish(Event{Type: "started"})
}

// BuildFinished announces a finished build, completed or failed depending
// on the report outcome.
func (p *Publisher) BuildFinished(report *pipeline.BuildReport) {
	ev := Event{
		Type:        "completed",
		BuildID:     report.BuildID,
		Outcome:     string(report.Outcome),
		Posts:       report.Posts,
		Collections: report.Collections,
		Warnings:    len(report.Warnings),
	}
	if report.Outcome == pipeline.OutcomeFailed || report.Outcome == pipeline.OutcomeCanceled {
		ev.Type = "failed"
		if len(report.Errors) > 0 {
			ev.Error = report.Errors[0]
		}
	}
	p.publish(ev)
}

func (p *Publisher) publish(ev Event) {
	if p == nil || p.conn == nil {
		return
	}
	ev.Timestamp = time.Now().UTC()

	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("marshal notify event", logfields.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		p.log.Warn("publish notify event",
			logfields.Subject(p.subject), logfields.Error(err))
	}
}

// Close drains the connection, flushing pending publishes.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.log.Warn("drain NATS connection", logfields.Error(err))
	}
}
