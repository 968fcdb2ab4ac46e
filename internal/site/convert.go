package site

import (
	"git.home.luguber.info/inful/madeup/internal/frontmatter"
	"git.home.luguber.info/inful/madeup/internal/markdown"
	"git.home.luguber.info/inful/madeup/internal/render"
)

// Conversion is the result of converting one Markdown document.
type Conversion struct {
	// HTML is the bare fragment produced by the renderer.
	HTML        string
	FrontMatter frontmatter.Document
	Diagnostics []render.Diagnostic
}

// ConvertDocument splits the front matter off content and renders the body.
// The returned HTML is not wrapped in a page layout.
func ConvertDocument(parser *markdown.Parser, content []byte, opts ...render.Option) (Conversion, error) {
	doc, err := frontmatter.Split(content)
	if err != nil {
		return Conversion{}, err
	}
	events, err := parser.Events(doc.Body)
	if err != nil {
		return Conversion{}, err
	}

	r := render.NewRenderer(opts...)
	html, err := r.Render(events)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{HTML: html, FrontMatter: doc, Diagnostics: r.Diagnostics()}, nil
}
