package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// DiagnosticKind classifies a recoverable problem found while rendering.
type DiagnosticKind string

const (
	// DiagnosticUnhandledEvent is an event kind the renderer drops.
	DiagnosticUnhandledEvent DiagnosticKind = "unhandled_event"
	// DiagnosticUnmatchedEnd is an End with no open element of its kind.
	DiagnosticUnmatchedEnd DiagnosticKind = "unmatched_end"
	// DiagnosticAlignmentIgnored is a table whose column alignment is not rendered.
	DiagnosticAlignmentIgnored DiagnosticKind = "alignment_ignored"
)

// Diagnostic records a recoverable problem. Rendering continues after one.
type Diagnostic struct {
	Kind   DiagnosticKind
	Detail string
}

func (d Diagnostic) String() string {
	return string(d.Kind) + ": " + d.Detail
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger that receives diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer holds the state of one document conversion. It is not safe for
// concurrent use; give every document its own Renderer.
type Renderer struct {
	logger *slog.Logger

	out  strings.Builder
	open []Marker

	// heading is non-nil while the innermost heading still waits for the
	// text its id is computed from. Output produced meanwhile is held here.
	heading *strings.Builder
	altOpen bool

	diagnostics []Diagnostic
}

// NewRenderer returns an empty Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts events to an HTML fragment with a fresh Renderer.
func Render(events []Event, opts ...Option) (string, error) {
	return NewRenderer(opts...).Render(events)
}

// Render resets r and converts events to an HTML fragment. An unsupported
// marker aborts the conversion and no partial output is returned.
func (r *Renderer) Render(events []Event) (string, error) {
	r.reset()
	for _, ev := range events {
		if err := r.Consume(ev); err != nil {
			return "", err
		}
	}
	return r.Finish(), nil
}

// Consume applies a single event.
func (r *Renderer) Consume(ev Event) error {
	switch ev := ev.(type) {
	case Start:
		return r.start(ev.Marker)
	case End:
		return r.end(ev.Marker)
	case Text:
		r.text(string(ev))
	case RawHTML:
		r.write(string(ev))
	case SoftBreak:
		r.write(" ")
	default:
		r.diagnose(slog.LevelWarn, DiagnosticUnhandledEvent, fmt.Sprintf("%T", ev))
	}
	return nil
}

// Finish completes a heading left waiting for text and returns the output.
func (r *Renderer) Finish() string {
	if r.heading != nil {
		r.completeHeading("")
	}
	return r.out.String()
}

// Diagnostics returns the recoverable problems seen since the last reset.
func (r *Renderer) Diagnostics() []Diagnostic {
	return r.diagnostics
}

func (r *Renderer) reset() {
	r.out.Reset()
	r.open = r.open[:0]
	r.heading = nil
	r.altOpen = false
	r.diagnostics = nil
}

func (r *Renderer) start(m Marker) error {
	tag, err := OpenTag(m)
	if err != nil {
		return err
	}
	if m.Kind == KindTable && hasAlignment(m.Alignments) {
		r.diagnose(slog.LevelDebug, DiagnosticAlignmentIgnored, "table column alignment is not rendered")
	}
	r.write(tag)
	r.open = append(r.open, m)
	if m.Kind == KindHeading && r.heading == nil {
		r.heading = &strings.Builder{}
	}
	return nil
}

func (r *Renderer) end(m Marker) error {
	idx := r.lastOpen(m.Kind)
	if idx < 0 {
		// Unknown kinds stay fatal even when they were never opened.
		if _, err := CloseTag(m); err != nil {
			return err
		}
		r.diagnose(slog.LevelWarn, DiagnosticUnmatchedEnd, m.String())
		return nil
	}

	opened := r.open[idx]
	tag, err := CloseTag(opened)
	if err != nil {
		return err
	}
	r.open = append(r.open[:idx], r.open[idx+1:]...)

	switch opened.Kind {
	case KindHeading:
		if r.heading != nil {
			r.completeHeading("")
		}
	case KindImage:
		if r.altOpen {
			r.write(`"`)
			r.altOpen = false
		}
	}
	r.write(tag)
	return nil
}

func (r *Renderer) text(t string) {
	if r.heading != nil {
		r.completeHeading(t)
	}
	if n := len(r.open); n > 0 && r.open[n-1].Kind == KindImage && !r.altOpen {
		r.write(` alt="`)
		r.altOpen = true
	}
	r.write(t)
}

// completeHeading closes the pending id attribute and releases held output.
func (r *Renderer) completeHeading(idText string) {
	held := r.heading.String()
	r.heading = nil
	r.out.WriteString(ToIdentifier(idText))
	r.out.WriteString(`"> `)
	r.out.WriteString(held)
}

func (r *Renderer) write(s string) {
	if r.heading != nil {
		r.heading.WriteString(s)
		return
	}
	r.out.WriteString(s)
}

func (r *Renderer) lastOpen(kind Kind) int {
	for i := len(r.open) - 1; i >= 0; i-- {
		if r.open[i].Kind == kind {
			return i
		}
	}
	return -1
}

func (r *Renderer) diagnose(level slog.Level, kind DiagnosticKind, detail string) {
	r.diagnostics = append(r.diagnostics, Diagnostic{Kind: kind, Detail: detail})
	r.logger.Log(context.Background(), level, "Render diagnostic", "kind", string(kind), "detail", detail)
}

func hasAlignment(alignments []Alignment) bool {
	for _, a := range alignments {
		if a != AlignNone {
			return true
		}
	}
	return false
}
