package render

import "fmt"

// Kind identifies a structural element.
type Kind int

const (
	KindUnsupported Kind = iota
	KindHeading
	KindStrong
	KindEmphasis
	KindCode
	KindParagraph
	KindListUnordered
	KindListOrdered
	KindListItem
	KindImage
	KindLink
	KindCodeBlock
	KindTable
	KindTableHead
	KindTableRow
	KindTableCell
	KindRule
	KindBlockQuote
	KindStrikethrough
)

var kindNames = map[Kind]string{
	KindUnsupported:   "Unsupported",
	KindHeading:       "Heading",
	KindStrong:        "Strong",
	KindEmphasis:      "Emphasis",
	KindCode:          "Code",
	KindParagraph:     "Paragraph",
	KindListUnordered: "ListUnordered",
	KindListOrdered:   "ListOrdered",
	KindListItem:      "ListItem",
	KindImage:         "Image",
	KindLink:          "Link",
	KindCodeBlock:     "CodeBlock",
	KindTable:         "Table",
	KindTableHead:     "TableHead",
	KindTableRow:      "TableRow",
	KindTableCell:     "TableCell",
	KindRule:          "Rule",
	KindBlockQuote:    "BlockQuote",
	KindStrikethrough: "Strikethrough",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Alignment is the declared alignment of a table column.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Marker is a structural element kind plus the data needed to render it.
// Only the fields relevant to Kind are set.
type Marker struct {
	Kind Kind

	// Level is the heading level, 1 to 6.
	Level int
	// Destination is the image source or link target.
	Destination string
	// Title is the image or link title. It is not rendered.
	Title string
	// Language is the info string of a fenced code block.
	Language string
	// Start is the first number of an ordered list.
	Start int
	// Alignments are the column alignments of a table. They are not rendered.
	Alignments []Alignment
	// Name describes the source construct of an unsupported marker.
	Name string
}

func (m Marker) String() string {
	switch m.Kind {
	case KindHeading:
		return fmt.Sprintf("Heading(%d)", m.Level)
	case KindImage, KindLink:
		return fmt.Sprintf("%s(%s)", m.Kind, m.Destination)
	case KindCodeBlock:
		return fmt.Sprintf("CodeBlock(%s)", m.Language)
	case KindUnsupported:
		if m.Name != "" {
			return fmt.Sprintf("Unsupported(%s)", m.Name)
		}
	}
	return m.Kind.String()
}

// Heading returns a heading marker of the given level (1-6).
func Heading(level int) Marker { return Marker{Kind: KindHeading, Level: level} }

// Strong returns a strong emphasis marker.
func Strong() Marker { return Marker{Kind: KindStrong} }

// Emphasis returns an emphasis marker.
func Emphasis() Marker { return Marker{Kind: KindEmphasis} }

// Code returns an inline code marker.
func Code() Marker { return Marker{Kind: KindCode} }

// Paragraph returns a paragraph marker.
func Paragraph() Marker { return Marker{Kind: KindParagraph} }

// ListUnordered returns a bullet list marker.
func ListUnordered() Marker { return Marker{Kind: KindListUnordered} }

// ListOrdered returns an ordered list marker numbered from start.
func ListOrdered(start int) Marker { return Marker{Kind: KindListOrdered, Start: start} }

// ListItem returns a list item marker.
func ListItem() Marker { return Marker{Kind: KindListItem} }

// Image returns an image marker pointing at src.
func Image(src string) Marker { return Marker{Kind: KindImage, Destination: src} }

// Link returns a link marker pointing at href.
func Link(href string) Marker { return Marker{Kind: KindLink, Destination: href} }

// CodeBlock returns a code block marker. lang may be empty.
func CodeBlock(lang string) Marker { return Marker{Kind: KindCodeBlock, Language: lang} }

// TableHead returns a table header row marker.
func TableHead() Marker { return Marker{Kind: KindTableHead} }

// TableRow returns a table body row marker.
func TableRow() Marker { return Marker{Kind: KindTableRow} }

// TableCell returns a table cell marker.
func TableCell() Marker { return Marker{Kind: KindTableCell} }

// Rule returns a thematic break marker.
func Rule() Marker { return Marker{Kind: KindRule} }

// BlockQuote returns a block quote marker.
func BlockQuote() Marker { return Marker{Kind: KindBlockQuote} }

// Strikethrough returns a strikethrough marker.
func Strikethrough() Marker { return Marker{Kind: KindStrikethrough} }

// Unsupported returns a marker for a construct with no HTML mapping.
// name is the source construct name.
func Unsupported(name string) Marker { return Marker{Kind: KindUnsupported, Name: name} }

// Table returns a table marker with the given column alignments.
func Table(alignments ...Alignment) Marker {
	return Marker{Kind: KindTable, Alignments: alignments}
}
