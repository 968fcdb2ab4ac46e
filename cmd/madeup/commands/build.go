package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"git.home.luguber.info/inful/madeup/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Root string `arg:"" optional:"" default:"." help:"Root directory of Markdown files"`
	Out  string `short:"o" help:"Output directory, overrides out_dir"`
}

func (b *BuildCmd) Run(g *Global, _ *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()
	return RunBuild(ctx, g, b.Root, b.Out, os.Stdout)
}

// RunBuild builds the site at root and prints a summary to w.
func RunBuild(ctx context.Context, g *Global, root, out string, w io.Writer) error {
	cfg, err := loadConfig(root, out)
	if err != nil {
		return err
	}
	setup, err := newGenerator(cfg, g.logger(), false)
	if err != nil {
		return err
	}
	defer setup.Close()

	report, err := setup.gen.Build(ctx)
	if err != nil {
		return err
	}
	printReport(w, report)
	return nil
}

func printReport(w io.Writer, r *site.Report) {
	_, _ = fmt.Fprintf(w, "Built %d pages into %s in %s (build %s)\n",
		r.Pages, r.OutDir, r.Duration.Round(time.Millisecond), r.BuildID)

	docs := make([]string, 0, len(r.Diagnostics))
	for doc := range r.Diagnostics {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	for _, doc := range docs {
		for _, d := range r.Diagnostics[doc] {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", doc, d)
		}
	}
	for _, bl := range r.BrokenLinks {
		_, _ = fmt.Fprintf(w, "  broken link in %s: %s (%s)\n", bl.Page, bl.Target, bl.Tag)
	}
}
