// Package theme bundles the default stylesheets and scripts written next to
// every generated site.
package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed files/*
var files embed.FS

const fileMode os.FileMode = 0o644

// Names returns the theme file names, sorted.
func Names() []string {
	entries, err := fs.ReadDir(files, "files")
	if err != nil {
		panic(fmt.Sprintf("embedded theme missing: %v", err))
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Read returns the content of the named theme file.
func Read(name string) ([]byte, error) {
	return files.ReadFile("files/" + name)
}

// Write copies every theme file into outDir, overwriting existing files.
// It returns the written paths.
func Write(outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, err
	}
	var written []string
	for _, name := range Names() {
		data, err := Read(name)
		if err != nil {
			return written, err
		}
		dst := filepath.Join(outDir, name)
		if err := os.WriteFile(dst, data, fileMode); err != nil {
			return written, fmt.Errorf("write theme file %s: %w", name, err)
		}
		written = append(written, dst)
	}
	return written, nil
}
