package markdown

import (
	"testing"

	"git.home.luguber.info/inful/madeup/internal/render"
	"github.com/stretchr/testify/require"
	gmast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

func events(t *testing.T, src string, exts ...string) []render.Event {
	t.Helper()
	p, err := NewParser(Options{Extensions: exts})
	require.NoError(t, err)
	evs, err := p.Events([]byte(src))
	require.NoError(t, err)
	return evs
}

func renderString(t *testing.T, src string, exts ...string) string {
	t.Helper()
	out, err := render.Render(events(t, src, exts...))
	require.NoError(t, err)
	return out
}

func TestEvents_Heading(t *testing.T) {
	require.Equal(t, []render.Event{
		render.Start{Marker: render.Heading(1)},
		render.Text("Hello World"),
		render.End{Marker: render.Heading(1)},
	}, events(t, "# Hello World\n"))
}

func TestEvents_SoftBreakInParagraph(t *testing.T) {
	require.Equal(t, []render.Event{
		render.Start{Marker: render.Paragraph()},
		render.Text("a"),
		render.SoftBreak{},
		render.Text("b"),
		render.End{Marker: render.Paragraph()},
	}, events(t, "a\nb\n"))
}

func TestEvents_HardBreakIsForwarded(t *testing.T) {
	evs := events(t, "a\\\nb\n")
	require.Contains(t, evs, render.Event(render.HardBreak{}))
}

func TestEvents_TightListHasNoParagraphs(t *testing.T) {
	require.Equal(t, []render.Event{
		render.Start{Marker: render.ListUnordered()},
		render.Start{Marker: render.ListItem()},
		render.Text("one"),
		render.End{Marker: render.ListItem()},
		render.Start{Marker: render.ListItem()},
		render.Text("two"),
		render.End{Marker: render.ListItem()},
		render.End{Marker: render.ListUnordered()},
	}, events(t, "- one\n- two\n"))
}

func TestEvents_OrderedListStart(t *testing.T) {
	evs := events(t, "3. x\n4. y\n")
	require.Equal(t, render.Start{Marker: render.ListOrdered(3)}, evs[0])
}

func TestEvents_FencedCodeBlockOneTextPerLine(t *testing.T) {
	require.Equal(t, []render.Event{
		render.Start{Marker: render.CodeBlock("rust")},
		render.Text("fn main() {\n"),
		render.Text("}\n"),
		render.End{Marker: render.CodeBlock("rust")},
	}, events(t, "```rust\nfn main() {\n}\n```\n"))
}

func TestEvents_ImageAltIsFlattened(t *testing.T) {
	require.Equal(t, []render.Event{
		render.Start{Marker: render.Paragraph()},
		render.Start{Marker: render.Image("pic.png")},
		render.Text("a cat"),
		render.End{Marker: render.Image("pic.png")},
		render.End{Marker: render.Paragraph()},
	}, events(t, "![a *cat*](pic.png)\n"))
}

func TestEvents_BackslashEscapes(t *testing.T) {
	require.Equal(t, []render.Event{
		render.Start{Marker: render.Paragraph()},
		render.Text("*not emphasis*"),
		render.End{Marker: render.Paragraph()},
	}, events(t, "\\*not emphasis\\*\n"))

	require.Equal(t, "<p>*not emphasis*</p>\n", renderString(t, "\\*not emphasis\\*\n"))
	require.Equal(t, "<h2 id=\"1.-#intro\"> 1. #intro</h2>\n", renderString(t, "## 1\\. \\#intro\n"))
	require.Equal(t, "<p><img src=\"s.png\" alt=\"a *star*\"/>\n</p>\n", renderString(t, "![a \\*star\\*](s.png)\n"))
}

func TestEvents_CodeSpanKeepsBackslashes(t *testing.T) {
	require.Equal(t, []render.Event{
		render.Start{Marker: render.Paragraph()},
		render.Start{Marker: render.Code()},
		render.Text(`\*x\*`),
		render.End{Marker: render.Code()},
		render.End{Marker: render.Paragraph()},
	}, events(t, "`\\*x\\*`\n"))
}

func TestEvents_HeadingTextIsOneRun(t *testing.T) {
	require.Equal(t, []render.Event{
		render.Start{Marker: render.Heading(1)},
		render.Text("Hello, World! Again"),
		render.End{Marker: render.Heading(1)},
	}, events(t, "# Hello, World! Again\n"))
	require.Equal(t, "<h1 id=\"hello,-world!-again\"> Hello, World! Again</h1>\n",
		renderString(t, "# Hello, World! Again\n"))
}

func TestEvents_AutoLinks(t *testing.T) {
	require.Equal(t, "<p><a href=\"https://example.com\">https://example.com</a>\n</p>\n",
		renderString(t, "<https://example.com>\n"))
	require.Equal(t, "<p><a href=\"mailto:me@example.com\">me@example.com</a>\n</p>\n",
		renderString(t, "<me@example.com>\n"))
}

func TestEvents_InlineRawHTML(t *testing.T) {
	require.Equal(t, "<p>a <span>b</span></p>\n", renderString(t, "a <span>b</span>\n"))
}

func TestEvents_HTMLBlock(t *testing.T) {
	require.Equal(t, "<div>\nhi\n</div>\n", renderString(t, "<div>\nhi\n</div>\n"))
}

func TestEvents_Table(t *testing.T) {
	evs := events(t, "| a | b |\n|---|:-:|\n| 1 | 2 |\n")
	require.Equal(t, render.Start{Marker: render.Table(render.AlignNone, render.AlignCenter)}, evs[0])

	out, err := render.Render(evs)
	require.NoError(t, err)
	require.Equal(t, "<table><thead><td>a</td>\n<td>b</td>\n</thead>\n"+
		"<tr><td>1</td>\n<td>2</td>\n</tr>\n</table>\n", out)
}

func TestEvents_ThematicBreak(t *testing.T) {
	require.Equal(t, "<p>a</p>\n<hr><p>b</p>\n", renderString(t, "a\n\n---\n\nb\n"))
}

func TestEvents_Blockquote(t *testing.T) {
	require.Equal(t, "<blockquote><p>q</p>\n</blockquote>\n", renderString(t, "> q\n"))
}

func TestEvents_Extensions(t *testing.T) {
	require.Equal(t, "<p><del>old</del>\n</p>\n", renderString(t, "~~old~~\n", ExtensionStrikethrough))
	require.Equal(t, "<p>~~old~~</p>\n", renderString(t, "~~old~~\n"))

	evs := events(t, "- [x] done\n", ExtensionTaskList)
	require.Contains(t, evs, render.Event(render.TaskListMarker{Checked: true}))
}

func TestNewParser_UnknownExtension(t *testing.T) {
	_, err := NewParser(Options{Extensions: []string{"footnote"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown markdown extension "footnote"`)

	require.NoError(t, ValidateExtensions([]string{" Linkify ", "typographer"}))
	require.Equal(t, []string{"linkify", "strikethrough", "tasklist", "typographer"}, KnownExtensions())
}

func TestWalker_UnknownNodeBecomesUnsupported(t *testing.T) {
	doc := gmast.NewDocument()
	doc.AppendChild(doc, east.NewFootnoteList())

	w := &walker{}
	require.NoError(t, gmast.Walk(doc, w.visit))
	require.Equal(t, []render.Event{
		render.Start{Marker: render.Unsupported("FootnoteList")},
		render.End{Marker: render.Unsupported("FootnoteList")},
	}, w.events)

	_, err := render.Render(w.events)
	require.ErrorIs(t, err, render.ErrUnsupportedMarker)
}
