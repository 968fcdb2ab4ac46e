// Package linkcheck verifies the relative links of a generated site.
package linkcheck

import (
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/logfields"
	"golang.org/x/net/html"
)

// Link is a reference found in an HTML page.
type Link struct {
	Target    string
	Tag       string
	Attribute string
}

// BrokenLink is a relative link whose target does not exist in the output.
type BrokenLink struct {
	// Page is the slash separated path of the page, relative to the output directory.
	Page   string `json:"page"`
	Target string `json:"target"`
	Tag    string `json:"tag"`
}

// linkAttrs lists the attribute carrying a reference for each checked element.
var linkAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"link":   "href",
	"script": "src",
}

// Extract returns the links of the HTML document read from r in document order.
func Extract(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryValidation, derrors.SeverityError, "failed to parse HTML")
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if v := getAttr(n, attr); v != "" {
					links = append(links, Link{Target: v, Tag: n.Data, Attribute: attr})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// Check parses every .html file under outDir and reports relative links
// whose targets are missing. Results are sorted by page, then target.
func Check(outDir string) ([]BrokenLink, error) {
	var broken []BrokenLink
	err := filepath.WalkDir(outDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(outDir, p)
		if err != nil {
			return err
		}
		found, err := checkPage(outDir, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		broken = append(broken, found...)
		return nil
	})
	if err != nil {
		return nil, derrors.FileSystemError("link check", outDir, err)
	}

	sort.SliceStable(broken, func(i, j int) bool {
		if broken[i].Page != broken[j].Page {
			return broken[i].Page < broken[j].Page
		}
		return broken[i].Target < broken[j].Target
	})
	return broken, nil
}

func checkPage(outDir, page string) ([]BrokenLink, error) {
	f, err := os.Open(filepath.Join(outDir, filepath.FromSlash(page)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	links, err := Extract(f)
	if err != nil {
		if se, ok := derrors.As(err); ok {
			return nil, se.WithContext("page", page)
		}
		return nil, err
	}

	var broken []BrokenLink
	for _, l := range links {
		target, ok := localTarget(page, l.Target)
		if !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(target))); err != nil {
			slog.Debug("broken link",
				logfields.Path(page),
				logfields.URL(l.Target))
			broken = append(broken, BrokenLink{Page: page, Target: l.Target, Tag: l.Tag})
		}
	}
	return broken, nil
}

// localTarget resolves a reference found on page to a slash separated path
// relative to the output directory. It reports false for references that
// are not checked: absolute URLs, scheme or host relative references,
// root relative paths, and fragment or query only references.
func localTarget(page, ref string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}
	if u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	return path.Clean(path.Join(path.Dir(page), u.Path)), true
}
