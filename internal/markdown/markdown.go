// Package markdown turns Markdown source into the flat event stream consumed
// by the HTML renderer. Parsing is done by goldmark; this package only walks
// the resulting AST.
package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/madeup/internal/render"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Optional goldmark extensions. Tables are always enabled.
const (
	ExtensionStrikethrough = "strikethrough"
	ExtensionLinkify       = "linkify"
	ExtensionTaskList      = "tasklist"
	ExtensionTypographer   = "typographer"
)

var extenders = map[string]goldmark.Extender{
	ExtensionStrikethrough: extension.Strikethrough,
	ExtensionLinkify:       extension.Linkify,
	ExtensionTaskList:      extension.TaskList,
	ExtensionTypographer:   extension.Typographer,
}

// Options controls how Markdown is parsed.
type Options struct {
	// Extensions names the optional goldmark extensions to enable.
	Extensions []string
}

// KnownExtensions returns the extension names accepted in Options, sorted.
func KnownExtensions() []string {
	names := make([]string, 0, len(extenders))
	for name := range extenders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateExtensions reports the first unknown extension name.
func ValidateExtensions(names []string) error {
	for _, name := range names {
		if _, ok := extenders[strings.ToLower(strings.TrimSpace(name))]; !ok {
			return fmt.Errorf("unknown markdown extension %q (known: %s)", name, strings.Join(KnownExtensions(), ", "))
		}
	}
	return nil
}

// Parser produces render events from Markdown source. It is safe for
// concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// NewParser builds a Parser with the extensions named in opts.
func NewParser(opts Options) (*Parser, error) {
	if err := ValidateExtensions(opts.Extensions); err != nil {
		return nil, err
	}

	exts := []goldmark.Extender{extension.Table}
	seen := map[string]bool{}
	for _, name := range opts.Extensions {
		name = strings.ToLower(strings.TrimSpace(name))
		if seen[name] {
			continue
		}
		seen[name] = true
		exts = append(exts, extenders[name])
	}

	return &Parser{md: goldmark.New(goldmark.WithExtensions(exts...))}, nil
}

// Parse parses a Markdown body (front matter already removed) into a goldmark AST.
func (p *Parser) Parse(source []byte) gmast.Node {
	return p.md.Parser().Parse(text.NewReader(source))
}

// Events parses source and flattens the AST into render events.
func (p *Parser) Events(source []byte) ([]render.Event, error) {
	root := p.Parse(source)
	w := &walker{source: source}
	if err := gmast.Walk(root, w.visit); err != nil {
		return nil, err
	}
	return w.events, nil
}

type walker struct {
	source []byte
	events []render.Event
}

func (w *walker) emit(ev render.Event) {
	w.events = append(w.events, ev)
}

// pair emits Start on enter and End on leave.
func (w *walker) pair(m render.Marker, entering bool) {
	if entering {
		w.emit(render.Start{Marker: m})
		return
	}
	w.emit(render.End{Marker: m})
}

func (w *walker) visit(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	switch node := n.(type) {
	case *gmast.Document, *gmast.TextBlock:
		// transparent
	case *gmast.Text:
		if entering && !continuesRun(node) {
			w.text(node)
		}
	case *gmast.String:
		if entering {
			w.emit(render.Text(node.Value))
		}
	case *gmast.Heading:
		w.pair(render.Heading(node.Level), entering)
	case *gmast.Paragraph:
		w.pair(render.Paragraph(), entering)
	case *gmast.Emphasis:
		if node.Level >= 2 {
			w.pair(render.Strong(), entering)
		} else {
			w.pair(render.Emphasis(), entering)
		}
	case *gmast.CodeSpan:
		w.pair(render.Code(), entering)
	case *gmast.FencedCodeBlock:
		m := render.CodeBlock(string(node.Language(w.source)))
		w.pair(m, entering)
		if entering {
			w.lines(node.Lines())
		}
	case *gmast.CodeBlock:
		w.pair(render.CodeBlock(""), entering)
		if entering {
			w.lines(node.Lines())
		}
	case *gmast.HTMLBlock:
		if entering {
			w.rawLines(node.Lines())
			if node.HasClosure() {
				w.emit(render.RawHTML(node.ClosureLine.Value(w.source)))
			}
		}
	case *gmast.RawHTML:
		if entering {
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				w.emit(render.RawHTML(seg.Value(w.source)))
			}
		}
		return gmast.WalkSkipChildren, nil
	case *gmast.List:
		if node.IsOrdered() {
			w.pair(render.ListOrdered(node.Start), entering)
		} else {
			w.pair(render.ListUnordered(), entering)
		}
	case *gmast.ListItem:
		w.pair(render.ListItem(), entering)
	case *gmast.Blockquote:
		w.pair(render.BlockQuote(), entering)
	case *gmast.ThematicBreak:
		w.pair(render.Rule(), entering)
	case *gmast.Link:
		m := render.Link(string(node.Destination))
		m.Title = string(node.Title)
		w.pair(m, entering)
	case *gmast.AutoLink:
		w.autoLink(node, entering)
		return gmast.WalkSkipChildren, nil
	case *gmast.Image:
		m := render.Image(string(node.Destination))
		m.Title = string(node.Title)
		w.pair(m, entering)
		if entering {
			if alt := w.plainText(node); alt != "" {
				w.emit(render.Text(alt))
			}
		}
		return gmast.WalkSkipChildren, nil
	case *east.Table:
		w.pair(render.Table(alignments(node.Alignments)...), entering)
	case *east.TableHeader:
		w.pair(render.TableHead(), entering)
	case *east.TableRow:
		w.pair(render.TableRow(), entering)
	case *east.TableCell:
		w.pair(render.TableCell(), entering)
	case *east.Strikethrough:
		w.pair(render.Strikethrough(), entering)
	case *east.TaskCheckBox:
		if entering {
			w.emit(render.TaskListMarker{Checked: node.IsChecked})
		}
	default:
		w.pair(render.Unsupported(n.Kind().String()), entering)
	}
	return gmast.WalkContinue, nil
}

// text emits the run of adjacent Text siblings starting at node as one
// Text event. goldmark splits a run at every inline trigger character.
func (w *walker) text(node *gmast.Text) {
	value, last := w.run(node)
	if len(value) > 0 {
		w.emit(render.Text(value))
	}
	switch {
	case last.HardLineBreak():
		w.emit(render.HardBreak{})
	case last.SoftLineBreak():
		w.emit(render.SoftBreak{})
	}
}

// run returns the text of the run starting at node with backslash escapes
// resolved, and the last node of the run. Code span content is raw and
// kept as written.
func (w *walker) run(node *gmast.Text) ([]byte, *gmast.Text) {
	last := node
	value := append([]byte(nil), node.Segment.Value(w.source)...)
	for next, ok := runNext(last); ok; next, ok = runNext(last) {
		value = append(value, next.Segment.Value(w.source)...)
		last = next
	}
	if !node.IsRaw() {
		value = util.UnescapePunctuations(value)
	}
	return value, last
}

// runNext returns the Text sibling that continues the run ending at t.
func runNext(t *gmast.Text) (*gmast.Text, bool) {
	if t.SoftLineBreak() || t.HardLineBreak() {
		return nil, false
	}
	next, ok := t.NextSibling().(*gmast.Text)
	if !ok || next.IsRaw() != t.IsRaw() {
		return nil, false
	}
	return next, true
}

func continuesRun(t *gmast.Text) bool {
	prev, ok := t.PreviousSibling().(*gmast.Text)
	if !ok {
		return false
	}
	next, ok := runNext(prev)
	return ok && next == t
}

func (w *walker) lines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.emit(render.Text(seg.Value(w.source)))
	}
}

func (w *walker) rawLines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.emit(render.RawHTML(seg.Value(w.source)))
	}
}

func (w *walker) autoLink(node *gmast.AutoLink, entering bool) {
	url := string(node.URL(w.source))
	if node.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
		url = "mailto:" + url
	}
	m := render.Link(url)
	if !entering {
		w.emit(render.End{Marker: m})
		return
	}
	w.emit(render.Start{Marker: m})
	w.emit(render.Text(node.Label(w.source)))
}

// plainText concatenates the text below n, dropping all markup.
func (w *walker) plainText(n gmast.Node) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			if continuesRun(t) {
				break
			}
			value, last := w.run(t)
			buf.Write(value)
			if last.SoftLineBreak() || last.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}

func alignments(in []east.Alignment) []render.Alignment {
	out := make([]render.Alignment, len(in))
	for i, a := range in {
		switch a {
		case east.AlignLeft:
			out[i] = render.AlignLeft
		case east.AlignCenter:
			out[i] = render.AlignCenter
		case east.AlignRight:
			out[i] = render.AlignRight
		default:
			out[i] = render.AlignNone
		}
	}
	return out
}
