// Package discovery finds the Markdown documents of a site.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/madeup/internal/logfields"
)

var (
	// ErrRootNotFound indicates the site root does not exist or is not a directory.
	ErrRootNotFound = errors.New("site root not found")

	// ErrWalkFailed indicates filesystem traversal of the site root failed.
	ErrWalkFailed = errors.New("site directory walk failed")
)

// MarkdownExt is the accepted source extension, compared case-insensitively.
const MarkdownExt = ".md"

// Document is a discovered Markdown source file.
type Document struct {
	Path    string // Absolute or root-joined path to the file
	RelPath string // Slash-separated path relative to the site root
	Name    string // File name without extension
}

// OutputPath returns the slash-separated path of the generated page,
// relative to the output directory.
func (d Document) OutputPath() string {
	return strings.TrimSuffix(d.RelPath, path.Ext(d.RelPath)) + ".html"
}

// Options controls which parts of the tree are walked.
type Options struct {
	// Exclude lists directories that are never entered, typically the
	// output directory. Relative entries are resolved against the root.
	Exclude []string
}

// Find walks root and returns every Markdown document sorted by RelPath.
// Entries whose name starts with an underscore are skipped, as are hidden
// directories.
func Find(root string, opts Options) ([]Document, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, ex := range opts.Exclude {
		if ex == "" {
			continue
		}
		if !filepath.IsAbs(ex) {
			ex = filepath.Join(root, ex)
		}
		excluded[filepath.Clean(ex)] = struct{}{}
	}

	var docs []Document
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if _, skip := excluded[filepath.Clean(p)]; skip {
				slog.Debug("Skipping excluded directory", logfields.Path(p))
				return filepath.SkipDir
			}
			if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, "_") || !isMarkdownFile(name) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		doc := Document{
			Path:    p,
			RelPath: filepath.ToSlash(rel),
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
		}
		docs = append(docs, doc)
		slog.Debug("Discovered document", logfields.Document(doc.RelPath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, root, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].RelPath < docs[j].RelPath })
	return docs, nil
}

func isMarkdownFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), MarkdownExt)
}
