package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/madeup/internal/site"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Root string `arg:"" optional:"" default:"." help:"Root directory of Markdown files"`
}

func (d *DiscoverCmd) Run(g *Global, _ *CLI) error {
	return RunDiscover(g, d.Root, os.Stdout)
}

// RunDiscover prints one "source -> page" line per document.
func RunDiscover(g *Global, root string, w io.Writer) error {
	cfg, err := loadConfig(root, "")
	if err != nil {
		return err
	}
	gen, err := site.NewGenerator(cfg.Root(), cfg, site.WithLogger(g.logger()))
	if err != nil {
		return err
	}
	docs, err := gen.Discover()
	if err != nil {
		return err
	}
	for _, doc := range docs {
		_, _ = fmt.Fprintf(w, "%s -> %s\n", doc.RelPath, doc.OutputPath())
	}
	_, _ = fmt.Fprintf(w, "%d documents\n", len(docs))
	return nil
}
