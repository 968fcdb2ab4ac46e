// Package site turns a directory of Markdown documents into a static HTML
// site: discovery, conversion, page composition and output.
package site

import (
	"context"
	"html/template"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/madeup/internal/config"
	"git.home.luguber.info/inful/madeup/internal/discovery"
	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/eventstore"
	"git.home.luguber.info/inful/madeup/internal/logfields"
	"git.home.luguber.info/inful/madeup/internal/markdown"
	"git.home.luguber.info/inful/madeup/internal/metrics"
	"git.home.luguber.info/inful/madeup/internal/notify"
	"git.home.luguber.info/inful/madeup/internal/render"
	"git.home.luguber.info/inful/madeup/internal/templates"
	"golang.org/x/sync/errgroup"
)

// IndexFile is the name of the generated index page.
const IndexFile = "index.html"

// ConvertedFile is a generated page ready to be written.
type ConvertedFile struct {
	// Path is slash separated and relative to the output directory.
	Path    string
	Content string
	// Source is the RelPath of the Markdown document, empty for the index.
	Source      string
	Diagnostics []render.Diagnostic
}

// Site is the in-memory result of GenerateSite.
type Site struct {
	// Files holds the document pages in discovery order followed by the index.
	Files     []ConvertedFile
	Documents []discovery.Document
}

// Pages returns the number of files, index included.
func (s *Site) Pages() int { return len(s.Files) }

// Diagnostics returns every renderer diagnostic keyed by source document.
func (s *Site) Diagnostics() map[string][]render.Diagnostic {
	out := map[string][]render.Diagnostic{}
	for _, f := range s.Files {
		if len(f.Diagnostics) > 0 {
			out[f.Source] = f.Diagnostics
		}
	}
	return out
}

// Generator builds the site rooted at a directory.
type Generator struct {
	root      string
	cfg       *config.Config
	logger    *slog.Logger
	recorder  metrics.Recorder
	store     eventstore.Store
	publisher notify.Publisher

	parser    *markdown.Parser
	templates *templates.Templates
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger for the build and the renderer diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithHistory records build events in store.
func WithHistory(store eventstore.Store) Option {
	return func(g *Generator) { g.store = store }
}

// WithPublisher announces successful builds through p.
func WithPublisher(p notify.Publisher) Option {
	return func(g *Generator) {
		if p != nil {
			g.publisher = p
		}
	}
}

// NewGenerator prepares the parser and templates for cfg. cfg is expected
// to be validated.
func NewGenerator(root string, cfg *config.Config, opts ...Option) (*Generator, error) {
	g := &Generator{
		root:      root,
		cfg:       cfg,
		logger:    slog.Default(),
		recorder:  metrics.NoopRecorder{},
		publisher: notify.Noop{},
	}
	for _, opt := range opts {
		opt(g)
	}

	parser, err := markdown.NewParser(markdown.Options{Extensions: cfg.Markdown.Extensions})
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "invalid markdown options")
	}
	tpl, err := templates.New(cfg.IndexTemplatePath())
	if err != nil {
		return nil, derrors.TemplateFailed("index", err)
	}
	g.parser = parser
	g.templates = tpl
	return g, nil
}

// Discover lists the documents GenerateSite would render.
func (g *Generator) Discover() ([]discovery.Document, error) {
	docs, err := discovery.Find(g.root, discovery.Options{Exclude: []string{g.cfg.OutPath()}})
	if err != nil {
		return nil, derrors.DiscoveryFailed(g.root, err)
	}
	return docs, nil
}

// GenerateSite discovers and converts every document and composes the
// index. Documents are rendered in parallel; the result order does not
// depend on scheduling. The first fatal error cancels the remaining work.
func (g *Generator) GenerateSite(ctx context.Context) (*Site, error) {
	docs, err := g.Discover()
	if err != nil {
		return nil, err
	}

	kept := docs[:0:0]
	for _, doc := range docs {
		if doc.OutputPath() == IndexFile {
			g.logger.Warn("Document is replaced by the generated index", logfields.Document(doc.RelPath))
			continue
		}
		kept = append(kept, doc)
	}
	docs = kept

	files := make([]ConvertedFile, len(docs)+1)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.WorkerCount())
	for i, doc := range docs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			f, err := g.convertFile(doc)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	index, err := g.renderIndex(docs)
	if err != nil {
		return nil, err
	}
	files[len(docs)] = index
	return &Site{Files: files, Documents: docs}, nil
}

func (g *Generator) convertFile(doc discovery.Document) (ConvertedFile, error) {
	started := time.Now()
	logger := g.logger.With(logfields.Document(doc.RelPath))

	content, err := os.ReadFile(doc.Path)
	if err != nil {
		return ConvertedFile{}, derrors.FileSystemError("read", doc.Path, err)
	}
	conv, err := ConvertDocument(g.parser, content, render.WithLogger(logger))
	g.recorder.ObserveDocumentRender(time.Since(started), err == nil)
	if err != nil {
		return ConvertedFile{}, derrors.RenderFailed(doc.RelPath, err)
	}
	for _, d := range conv.Diagnostics {
		g.recorder.IncRenderDiagnostic(string(d.Kind))
	}

	out := doc.OutputPath()
	html, err := g.templates.RenderPage(templates.PageData{
		Layout:  g.layout(pageTitle(conv.FrontMatter.Title(), g.cfg.Title), out),
		Content: template.HTML(conv.HTML), // #nosec G203 -- renderer output is trusted HTML
	})
	if err != nil {
		return ConvertedFile{}, derrors.TemplateFailed("page", err).WithContext("document", doc.RelPath)
	}

	logger.Debug("Converted document",
		logfields.File(out),
		logfields.DurationMS(float64(time.Since(started).Microseconds())/1000))
	return ConvertedFile{Path: out, Content: html, Source: doc.RelPath, Diagnostics: conv.Diagnostics}, nil
}

func (g *Generator) renderIndex(docs []discovery.Document) (ConvertedFile, error) {
	links := make([]templates.PageLink, 0, len(docs))
	for _, doc := range docs {
		links = append(links, templates.PageLink{Name: doc.Name, Href: doc.OutputPath()})
	}
	html, err := g.templates.RenderIndex(templates.IndexData{
		Layout: g.layout(g.cfg.Title+" - Home", IndexFile),
		Pages:  links,
	})
	if err != nil {
		return ConvertedFile{}, derrors.TemplateFailed("index", err).WithContext("source", g.templates.IndexSource)
	}
	return ConvertedFile{Path: IndexFile, Content: html}, nil
}

func (g *Generator) layout(title, out string) templates.Layout {
	return templates.Layout{
		Title:       title,
		SiteTitle:   g.cfg.Title,
		Root:        rootPrefix(out),
		Stylesheets: g.cfg.Stylesheet,
	}
}

// pageTitle is "<document title> - <site title>", or the site title alone.
func pageTitle(docTitle, siteTitle string) string {
	if docTitle == "" {
		return siteTitle
	}
	return docTitle + " - " + siteTitle
}

// rootPrefix returns the relative path from the page at out back to the
// output root.
func rootPrefix(out string) string {
	dir := path.Dir(out)
	if dir == "." {
		return ""
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1)
}
