// Package notify announces finished site builds to other systems.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/logfields"
	"git.home.luguber.info/inful/madeup/internal/retry"
	"github.com/nats-io/nats.go"
)

// SiteBuilt is the message published after a successful build.
type SiteBuilt struct {
	BuildID     string        `json:"build_id"`
	Revision    string        `json:"revision,omitempty"`
	Pages       int           `json:"pages"`
	BrokenLinks int           `json:"broken_links"`
	OutDir      string        `json:"out_dir"`
	Duration    time.Duration `json:"duration"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Publisher delivers SiteBuilt messages.
type Publisher interface {
	Publish(ctx context.Context, msg SiteBuilt) error
	Close() error
}

// Noop discards every message.
type Noop struct{}

func (Noop) Publish(context.Context, SiteBuilt) error { return nil }
func (Noop) Close() error                             { return nil }

const connectTimeout = 5 * time.Second

// NATSPublisher publishes SiteBuilt messages as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	url     string
	subject string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("madeup"),
		nats.Timeout(connectTimeout),
	)
	if err != nil {
		return nil, derrors.NotifyFailed(url, err)
	}
	slog.Debug("NATS publisher connected", logfields.URL(url), logfields.Subject(subject))
	return &NATSPublisher{conn: conn, url: url, subject: subject}, nil
}

// Publish sends msg and waits for the server to acknowledge the flush.
// A zero Timestamp is set to the current time.
func (p *NATSPublisher) Publish(ctx context.Context, msg SiteBuilt) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return derrors.InternalError("failed to marshal notification", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return derrors.NotifyFailed(p.url, err).WithContext("subject", p.subject)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return derrors.NotifyFailed(p.url, err).WithContext("subject", p.subject)
	}
	slog.Debug("Published site built notification",
		logfields.Subject(p.subject),
		logfields.BuildID(msg.BuildID))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// New returns a NATSPublisher when url is set and Noop otherwise.
func New(url, subject string) (Publisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewNATSPublisher(url, subject)
}

// Retrying retries Publish on retryable failures according to a policy.
type Retrying struct {
	Publisher
	policy retry.Policy
}

// WithRetry wraps p so that transient publish failures are retried.
func WithRetry(p Publisher, policy retry.Policy) *Retrying {
	return &Retrying{Publisher: p, policy: policy}
}

func (r *Retrying) Publish(ctx context.Context, msg SiteBuilt) error {
	attempt := 0
	return r.policy.Do(ctx, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			slog.Debug("Retrying build notification", logfields.BuildID(msg.BuildID), logfields.Count(attempt))
		}
		return r.Publisher.Publish(ctx, msg)
	})
}
