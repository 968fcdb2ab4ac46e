package eventstore

import (
	"context"
	"encoding/json"
	"time"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
)

// Event types written by a site build.
const (
	TypeBuildStarted     = "build.started"
	TypeDocumentRendered = "document.rendered"
	TypeBuildCompleted   = "build.completed"
	TypeBuildFailed      = "build.failed"
)

// BuildStarted is the payload of TypeBuildStarted.
type BuildStarted struct {
	Root     string `json:"root"`
	OutDir   string `json:"out_dir"`
	Revision string `json:"revision,omitempty"`
}

// DocumentRendered is the payload of TypeDocumentRendered.
type DocumentRendered struct {
	Path        string `json:"path"`
	Output      string `json:"output"`
	Diagnostics int    `json:"diagnostics,omitempty"`
}

// BuildCompleted is the payload of TypeBuildCompleted.
type BuildCompleted struct {
	Pages       int           `json:"pages"`
	Diagnostics int           `json:"diagnostics"`
	BrokenLinks int           `json:"broken_links"`
	Duration    time.Duration `json:"duration"`
}

// BuildFailed is the payload of TypeBuildFailed.
type BuildFailed struct {
	Stage    string        `json:"stage,omitempty"`
	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

// Recorder appends typed events for one build.
type Recorder struct {
	store   Store
	buildID string
}

// NewRecorder binds store to buildID. A nil store makes every call a no-op.
func NewRecorder(store Store, buildID string) *Recorder {
	return &Recorder{store: store, buildID: buildID}
}

// BuildID returns the build the recorder writes to.
func (r *Recorder) BuildID() string { return r.buildID }

func (r *Recorder) BuildStarted(ctx context.Context, p BuildStarted) error {
	return r.append(ctx, TypeBuildStarted, p)
}

func (r *Recorder) DocumentRendered(ctx context.Context, p DocumentRendered) error {
	return r.append(ctx, TypeDocumentRendered, p)
}

func (r *Recorder) BuildCompleted(ctx context.Context, p BuildCompleted) error {
	return r.append(ctx, TypeBuildCompleted, p)
}

func (r *Recorder) BuildFailed(ctx context.Context, p BuildFailed) error {
	return r.append(ctx, TypeBuildFailed, p)
}

func (r *Recorder) append(ctx context.Context, eventType string, payload any) error {
	if r == nil || r.store == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return derrors.StoreFailed("marshal payload", err).WithContext("event", eventType)
	}
	return r.store.Append(ctx, r.buildID, eventType, data, nil)
}
