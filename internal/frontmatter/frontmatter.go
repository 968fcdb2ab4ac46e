// Package frontmatter separates optional YAML front matter from a Markdown
// document body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Document is a source file split into front matter fields and body.
type Document struct {
	Fields         map[string]any
	Body           []byte
	HasFrontMatter bool

	raw []byte
}

// Split separates YAML front matter (`---` delimited) from the Markdown body
// and parses it. A document without a leading delimiter has no front matter
// and its body is the full input.
func Split(content []byte) (Document, error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Document{Fields: map[string]any{}, Body: content}, nil
	}

	start := len(open)
	var raw, body []byte
	if bytes.HasPrefix(content[start:], open) {
		raw, body = []byte{}, content[start+len(open):]
	} else {
		closeSeq := []byte(nl + "---" + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			// A closing delimiter on the last line has no trailing newline.
			if !bytes.HasSuffix(content, []byte(nl+"---")) {
				return Document{}, ErrMissingClosingDelimiter
			}
			idx = len(content) - start - len(nl) - len("---")
			closeSeq = []byte(nl + "---")
		}
		raw = content[start : start+idx+len(nl)]
		body = content[start+idx+len(closeSeq):]
	}

	fields, err := parseYAML(raw)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter: %w", err)
	}
	return Document{Fields: fields, Body: body, HasFrontMatter: true, raw: raw}, nil
}

// Title returns the title field when it is a non-empty string.
func (d Document) Title() string {
	title, _ := d.Fields["title"].(string)
	return strings.TrimSpace(title)
}

// Fingerprint returns the content fingerprint of the document. An existing
// fingerprint field is excluded from the hash.
func (d Document) Fingerprint() (string, error) {
	fm := ""
	if len(d.Fields) > 0 {
		hashed := make(map[string]any, len(d.Fields))
		for k, v := range d.Fields {
			if k == mdfp.FingerprintField {
				continue
			}
			hashed[k] = v
		}
		if len(hashed) > 0 {
			// yaml.v3 sorts map keys, so equal fields hash equally.
			out, err := yaml.Marshal(hashed)
			if err != nil {
				return "", fmt.Errorf("serialize front matter: %w", err)
			}
			fm = strings.TrimSuffix(string(out), "\n")
		}
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(d.Body)), nil
}

func parseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
