// Package config loads and validates the mdup.yml site configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the site root.
const FileName = "mdup.yml"

// Defaults applied before the file is decoded; keys absent from the file keep them.
const (
	DefaultTitle         = "Title"
	DefaultOutDir        = "out"
	DefaultHistoryPath   = ".madeup/history.db"
	DefaultNotifySubject = "madeup.site.built"
	DefaultWatchDebounce = 300 * time.Millisecond
	DefaultImagesDir     = "images"
)

// Config represents the site configuration.
type Config struct {
	Title         string         `yaml:"title"`
	Stylesheet    StringList     `yaml:"stylesheet,omitempty"`
	IndexTemplate string         `yaml:"index_template,omitempty"`
	OutDir        string         `yaml:"out_dir"`
	CopyResources bool           `yaml:"copy_resources"`
	Workers       int            `yaml:"workers,omitempty"`
	LinkCheck     bool           `yaml:"link_check,omitempty"`
	Markdown      MarkdownConfig `yaml:"markdown,omitempty"`
	History       HistoryConfig  `yaml:"history,omitempty"`
	Notify        NotifyConfig   `yaml:"notify,omitempty"`
	Metrics       MetricsConfig  `yaml:"metrics,omitempty"`
	Watch         WatchConfig    `yaml:"watch,omitempty"`

	root string
}

// MarkdownConfig selects optional parser extensions.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions,omitempty"`
}

// HistoryConfig controls the SQLite build history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// NotifyConfig controls NATS build notifications. An empty URL disables them.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	// Retries after a failed publish. Zero keeps the default.
	Retries int `yaml:"retries,omitempty"`
}

// MetricsConfig controls metrics export after a build.
type MetricsConfig struct {
	// Textfile is written in the node-exporter textfile format when set.
	Textfile string `yaml:"textfile,omitempty"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	// Interval triggers a periodic rebuild, e.g. "10m". Empty disables it.
	Interval string `yaml:"interval,omitempty"`
	// Debounce delays a rebuild after file changes, e.g. "500ms".
	Debounce string `yaml:"debounce,omitempty"`
}

// StringList accepts either a single YAML string or a sequence of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value == "" {
			*l = nil
			return nil
		}
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}

// Default returns the configuration used for keys the file leaves out.
func Default() *Config {
	return &Config{
		Title:         DefaultTitle,
		OutDir:        DefaultOutDir,
		CopyResources: true,
		History:       HistoryConfig{Path: DefaultHistoryPath},
		Notify:        NotifyConfig{Subject: DefaultNotifySubject},
	}
}

// Find locates FileName in root and loads it.
func Find(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, derrors.ConfigNotFound(path).WithContext("root", root)
	}
	return Load(path)
}

// Load reads the configuration file at path. Environment variables are
// expanded after .env files next to it have been loaded. The directory of
// path becomes the site root.
func Load(path string) (*Config, error) {
	root := filepath.Dir(path)
	if err := LoadEnv(root); err != nil {
		return nil, derrors.ConfigInvalid(path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.ConfigNotFound(path)
		}
		return nil, derrors.ConfigInvalid(path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, derrors.ConfigInvalid(path, fmt.Errorf("failed to unmarshal config: %w", err))
	}
	cfg.applyDefaults()
	cfg.root = root
	return cfg, nil
}

// applyDefaults fills values that were present in the file but empty.
func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
}

// Root returns the site root directory.
func (c *Config) Root() string { return c.root }

// SetRoot overrides the site root. Relative paths resolve against it.
func (c *Config) SetRoot(root string) { c.root = root }

// Resolve returns p unchanged when absolute, otherwise joined to the root.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, p)
}

// OutPath returns the output directory.
func (c *Config) OutPath() string { return c.Resolve(c.OutDir) }

// IndexTemplatePath returns the user index template, or "" for the built-in one.
func (c *Config) IndexTemplatePath() string { return c.Resolve(c.IndexTemplate) }

// HistoryPath returns the SQLite history database location.
func (c *Config) HistoryPath() string { return c.Resolve(c.History.Path) }

// MetricsTextfilePath returns the metrics textfile location, or "".
func (c *Config) MetricsTextfilePath() string { return c.Resolve(c.Metrics.Textfile) }

// ImagesPath returns the images directory copied into the output.
func (c *Config) ImagesPath() string { return c.Resolve(DefaultImagesDir) }

// WorkerCount returns the number of documents rendered in parallel.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// WatchInterval returns the periodic rebuild interval, zero when disabled.
// Validate guarantees the value parses.
func (c *Config) WatchInterval() time.Duration {
	d, _ := parseDuration(c.Watch.Interval)
	return d
}

// WatchDebounce returns the delay between a file change and the rebuild.
func (c *Config) WatchDebounce() time.Duration {
	if d, _ := parseDuration(c.Watch.Debounce); d > 0 {
		return d
	}
	return DefaultWatchDebounce
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
