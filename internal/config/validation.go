package config

import (
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/markdown"
)

// Validate checks the configuration against the site root. It is run once
// after loading and before any output is produced.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateOutput,
		c.validateIndexTemplate,
		c.validateMarkdown,
		c.validateWorkers,
		c.validateWatch,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateOutput() error {
	if filepath.Clean(c.OutPath()) == filepath.Clean(c.root) {
		return derrors.ValidationFailed("out_dir", "output directory must not be the site root")
	}
	return nil
}

func (c *Config) validateIndexTemplate() error {
	if c.IndexTemplate == "" {
		return nil
	}
	info, err := os.Stat(c.IndexTemplatePath())
	if err != nil || info.IsDir() {
		return derrors.ValidationFailed("index_template", "did not find index template specified in configuration").
			WithContext("path", c.IndexTemplatePath())
	}
	return nil
}

func (c *Config) validateMarkdown() error {
	if err := markdown.ValidateExtensions(c.Markdown.Extensions); err != nil {
		return derrors.ValidationFailed("markdown.extensions", err.Error())
	}
	return nil
}

func (c *Config) validateWorkers() error {
	if c.Workers < 0 {
		return derrors.ValidationFailed("workers", "must not be negative")
	}
	return nil
}

func (c *Config) validateWatch() error {
	for field, value := range map[string]string{
		"watch.interval": c.Watch.Interval,
		"watch.debounce": c.Watch.Debounce,
	} {
		d, err := parseDuration(value)
		if err != nil {
			return derrors.ValidationFailed(field, "invalid duration: "+err.Error())
		}
		if d < 0 {
			return derrors.ValidationFailed(field, "must not be negative")
		}
	}
	return nil
}
