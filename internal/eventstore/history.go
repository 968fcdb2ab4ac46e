package eventstore

import (
	"context"
	"encoding/json"
	"time"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
)

// Build statuses reported in a BuildSummary.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// BuildSummary is the read model of one build, folded from its events.
type BuildSummary struct {
	BuildID      string        `json:"build_id"`
	Status       string        `json:"status"`
	Revision     string        `json:"revision,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Documents    int           `json:"documents"`
	Pages        int           `json:"pages"`
	Diagnostics  int           `json:"diagnostics"`
	BrokenLinks  int           `json:"broken_links"`
	ErrorStage   string        `json:"error_stage,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// Summarize folds the events of a single build into a BuildSummary.
// Events with an undecodable payload are skipped.
func Summarize(events []Event) *BuildSummary {
	if len(events) == 0 {
		return nil
	}
	s := &BuildSummary{
		BuildID:   events[0].BuildID(),
		Status:    StatusRunning,
		StartedAt: events[0].Timestamp(),
	}
	for _, e := range events {
		apply(s, e)
	}
	return s
}

func apply(s *BuildSummary, e Event) {
	switch e.Type() {
	case TypeBuildStarted:
		var p BuildStarted
		if json.Unmarshal(e.Payload(), &p) == nil {
			s.Revision = p.Revision
			s.StartedAt = e.Timestamp()
		}
	case TypeDocumentRendered:
		var p DocumentRendered
		if json.Unmarshal(e.Payload(), &p) == nil {
			s.Documents++
		}
	case TypeBuildCompleted:
		var p BuildCompleted
		if json.Unmarshal(e.Payload(), &p) == nil {
			s.Status = StatusCompleted
			s.Pages = p.Pages
			s.Diagnostics = p.Diagnostics
			s.BrokenLinks = p.BrokenLinks
			s.Duration = p.Duration
			ts := e.Timestamp()
			s.CompletedAt = &ts
		}
	case TypeBuildFailed:
		var p BuildFailed
		if json.Unmarshal(e.Payload(), &p) == nil {
			s.Status = StatusFailed
			s.ErrorStage = p.Stage
			s.ErrorMessage = p.Error
			s.Duration = p.Duration
			ts := e.Timestamp()
			s.CompletedAt = &ts
		}
	}
}

// Recent returns summaries of the last limit builds, newest first.
func Recent(ctx context.Context, store Store, limit int) ([]*BuildSummary, error) {
	ids, err := store.RecentBuildIDs(ctx, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]*BuildSummary, 0, len(ids))
	for _, id := range ids {
		events, err := store.GetByBuildID(ctx, id)
		if err != nil {
			return nil, derrors.StoreFailed("load build", err).WithContext("build_id", id)
		}
		if s := Summarize(events); s != nil {
			summaries = append(summaries, s)
		}
	}
	return summaries, nil
}
