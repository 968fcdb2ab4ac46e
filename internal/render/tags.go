package render

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedMarker is matched by every UnsupportedMarkerError.
var ErrUnsupportedMarker = errors.New("unimplemented markup construct")

// UnsupportedMarkerError reports a marker that has no entry in the tag table.
type UnsupportedMarkerError struct {
	Marker Marker
}

func (e *UnsupportedMarkerError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedMarker, e.Marker)
}

func (e *UnsupportedMarkerError) Is(target error) bool {
	return target == ErrUnsupportedMarker
}

type tagSpec struct {
	open  func(Marker) string
	close func(Marker) string
}

func fixed(s string) func(Marker) string {
	return func(Marker) string { return s }
}

// Heading and image open tags are left unterminated; the renderer completes
// them with the id or alt attribute.
var tags = map[Kind]tagSpec{
	KindHeading: {
		open:  func(m Marker) string { return "<h" + strconv.Itoa(m.Level) + ` id="` },
		close: func(m Marker) string { return "</h" + strconv.Itoa(m.Level) + ">\n" },
	},
	KindStrong:        {open: fixed("<b>"), close: fixed("</b>\n")},
	KindEmphasis:      {open: fixed("<em>"), close: fixed("</em>\n")},
	KindParagraph:     {open: fixed("<p>"), close: fixed("</p>\n")},
	KindListUnordered: {open: fixed("<ul>"), close: fixed("</ul>\n")},
	KindListOrdered: {
		open: func(m Marker) string {
			if m.Start == 0 || m.Start == 1 {
				return "<ol>"
			}
			return `<ol start="` + strconv.Itoa(m.Start) + `">`
		},
		close: fixed("</ol>\n"),
	},
	KindListItem: {open: fixed("<li>"), close: fixed("</li>\n")},
	KindImage: {
		open:  func(m Marker) string { return `<img src="` + m.Destination + `"` },
		close: fixed("/>\n"),
	},
	KindCode: {open: fixed("<code>"), close: fixed("</code>\n")},
	KindCodeBlock: {
		open:  func(m Marker) string { return `<pre><code class="language-` + m.Language + `">` },
		close: fixed("</code></pre>\n"),
	},
	KindLink: {
		open:  func(m Marker) string { return `<a href="` + m.Destination + `">` },
		close: fixed("</a>\n"),
	},
	KindTable:         {open: fixed("<table>"), close: fixed("</table>\n")},
	KindTableHead:     {open: fixed("<thead>"), close: fixed("</thead>\n")},
	KindTableRow:      {open: fixed("<tr>"), close: fixed("</tr>\n")},
	KindTableCell:     {open: fixed("<td>"), close: fixed("</td>\n")},
	KindRule:          {open: fixed("<hr>"), close: fixed("")},
	KindBlockQuote:    {open: fixed("<blockquote>"), close: fixed("</blockquote>\n")},
	KindStrikethrough: {open: fixed("<del>"), close: fixed("</del>\n")},
}

// OpenTag returns the opening HTML for m.
func OpenTag(m Marker) (string, error) {
	ts, ok := tags[m.Kind]
	if !ok {
		return "", &UnsupportedMarkerError{Marker: m}
	}
	return ts.open(m), nil
}

// CloseTag returns the closing HTML for m. A rule closes with nothing.
func CloseTag(m Marker) (string, error) {
	ts, ok := tags[m.Kind]
	if !ok {
		return "", &UnsupportedMarkerError{Marker: m}
	}
	return ts.close(m), nil
}
