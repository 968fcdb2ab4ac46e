// Package templates wraps rendered Markdown in the site layout and builds
// the index page.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
)

//go:embed layouts/*.html
var layouts embed.FS

const (
	containerTemplate = "layouts/container.html"
	pageTemplate      = "layouts/page.html"
	indexTemplate     = "layouts/index.html"

	// ContentBlock is the block a user index template has to define.
	ContentBlock = "content"
)

// Layout is the data shared by every generated page.
type Layout struct {
	// Title is the text of the <title> element.
	Title string
	// SiteTitle is the configured site title.
	SiteTitle string
	// Root is the relative prefix from the page to the output root, "" or
	// a sequence of "../".
	Root        string
	Stylesheets []string
}

// PageData is rendered by the page template.
type PageData struct {
	Layout
	// Content is the renderer output. It is inserted unescaped.
	Content template.HTML
}

// PageLink is one entry of the index.
type PageLink struct {
	Name string
	Href string
}

// IndexData is rendered by the index template.
type IndexData struct {
	Layout
	Pages []PageLink
}

// Templates holds the parsed page and index templates.
type Templates struct {
	page  *template.Template
	index *template.Template

	// IndexSource is "embedded" or the path of the user index template.
	IndexSource string
}

// New parses the embedded layouts. When indexPath is set, the file there
// replaces the embedded index content block.
func New(indexPath string) (*Templates, error) {
	base, err := template.ParseFS(layouts, containerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse container layout: %w", err)
	}

	page, err := withContent(base, "page", mustLayout(pageTemplate))
	if err != nil {
		return nil, err
	}

	t := &Templates{page: page, IndexSource: "embedded"}
	indexBody := mustLayout(indexTemplate)
	if indexPath != "" {
		raw, err := os.ReadFile(indexPath)
		if err != nil {
			return nil, fmt.Errorf("read index template: %w", err)
		}
		indexBody = string(raw)
		t.IndexSource = indexPath
	}
	if t.index, err = withContent(base, "index", indexBody); err != nil {
		return nil, err
	}
	return t, nil
}

// RenderPage renders a document page.
func (t *Templates) RenderPage(data PageData) (string, error) {
	return execute(t.page, data)
}

// RenderIndex renders the index page.
func (t *Templates) RenderIndex(data IndexData) (string, error) {
	return execute(t.index, data)
}

func withContent(base *template.Template, name, body string) (*template.Template, error) {
	clone, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone container layout: %w", err)
	}
	tpl, err := clone.New(name).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	if tpl.Lookup(ContentBlock) == nil {
		return nil, fmt.Errorf("%s template does not define a %q block", name, ContentBlock)
	}
	return tpl, nil
}

func execute(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "container", data); err != nil {
		return "", fmt.Errorf("render %s template: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}

// mustLayout reads an embedded layout. Missing layouts are a programmer error.
func mustLayout(name string) string {
	b, err := layouts.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("embedded layout missing: %s: %v", name, err))
	}
	return string(b)
}
