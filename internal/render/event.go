// Package render turns a stream of Markdown events into an HTML fragment.
//
// The renderer consumes the stream once, front to back. Most markers map to a
// fixed pair of opening and closing tags (see OpenTag and CloseTag); headings
// and images are completed from text that arrives after their start event.
package render

// Event is one item of the stream produced by a Markdown event source.
type Event interface {
	isEvent()
}

// Start opens a structural element.
type Start struct {
	Marker Marker
}

// End closes the innermost open element of the same kind.
type End struct {
	Marker Marker
}

// Text is inline text belonging to the current element.
type Text string

// RawHTML is emitted verbatim.
type RawHTML string

// SoftBreak is a line wrap inside a paragraph. It renders as a single space.
type SoftBreak struct{}

// HardBreak is an explicit line break. The renderer does not handle it.
type HardBreak struct{}

// TaskListMarker is the checkbox of a task list item. The renderer does not
// handle it.
type TaskListMarker struct {
	Checked bool
}

func (Start) isEvent()          {}
func (End) isEvent()            {}
func (Text) isEvent()           {}
func (RawHTML) isEvent()        {}
func (SoftBreak) isEvent()      {}
func (HardBreak) isEvent()      {}
func (TaskListMarker) isEvent() {}
