package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/eventstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Root  string `arg:"" optional:"" default:"." help:"Root directory of Markdown files"`
	Limit int    `short:"n" default:"10" help:"Number of builds to show"`
}

func (h *HistoryCmd) Run(_ *Global, _ *CLI) error {
	return RunHistory(context.Background(), h.Root, h.Limit, os.Stdout)
}

// RunHistory prints the most recent builds recorded for the site at root.
func RunHistory(ctx context.Context, root string, limit int, w io.Writer) error {
	cfg, err := loadConfig(root, "")
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return derrors.ValidationFailed("history.enabled", "build history is not enabled in the configuration")
	}
	store, err := eventstore.NewSQLiteStore(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summaries, err := eventstore.Recent(ctx, store, limit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		_, _ = fmt.Fprintln(w, "No builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tSTATUS\tPAGES\tDURATION\tREVISION\tERROR")
	for _, s := range summaries {
		rev := s.Revision
		if len(rev) > 7 {
			rev = rev[:7]
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			s.BuildID,
			s.StartedAt.Local().Format(time.DateTime),
			s.Status,
			s.Pages,
			s.Duration.Round(time.Millisecond),
			rev,
			s.ErrorMessage)
	}
	return tw.Flush()
}
