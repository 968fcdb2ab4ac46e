package config

import (
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
)

const sampleConfig = `# Site title, shown in the page titles and on the index page.
title: Title

# Stylesheets relative to the site root, linked from every page and
# copied into the output directory.
stylesheet: []

# Optional template for the index page. It must define a "content" block.
# index_template: _templates/index.html

# Output directory, relative to the site root.
out_dir: out

# Copy stylesheets and the images/ directory into the output directory.
copy_resources: true

# Documents rendered in parallel. 0 uses one worker per CPU.
workers: 0

# Optional goldmark extensions: strikethrough, linkify, tasklist, typographer.
markdown:
  extensions: []

# Verify that relative links in the generated pages resolve.
link_check: false

# Record builds in a SQLite database, listed by "madeup history".
history:
  enabled: false
  path: .madeup/history.db

# Publish a message to NATS after every successful build.
notify:
  nats_url: ${MADEUP_NATS_URL}
  subject: madeup.site.built
  retries: 2

# Write build metrics in the node-exporter textfile format.
metrics:
  textfile: ""

# Watch mode: periodic rebuild interval and change debounce.
watch:
  interval: ""
  debounce: 300ms
`

const sampleFileMode os.FileMode = 0o644

// Init writes a commented sample configuration into root and returns its path.
func Init(root string, force bool) (string, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", derrors.New(derrors.CategoryConfig, derrors.SeverityError,
			"configuration file already exists (use --force to overwrite)").
			WithContext("path", path)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return "", derrors.FileSystemError("mkdir", root, err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), sampleFileMode); err != nil {
		return "", derrors.FileSystemError("write", path, err)
	}
	return path, nil
}
