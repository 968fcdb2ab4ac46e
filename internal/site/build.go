package site

import (
	"context"
	"errors"
	"time"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/eventstore"
	"git.home.luguber.info/inful/madeup/internal/git"
	"git.home.luguber.info/inful/madeup/internal/linkcheck"
	"git.home.luguber.info/inful/madeup/internal/logfields"
	"git.home.luguber.info/inful/madeup/internal/metrics"
	"git.home.luguber.info/inful/madeup/internal/notify"
	"git.home.luguber.info/inful/madeup/internal/render"
	"github.com/google/uuid"
)

// Build stages, used as metric labels and in build.failed events.
const (
	StageGenerate  = "generate"
	StageWrite     = "write"
	StageLinkCheck = "link_check"
)

// Report summarizes a finished build.
type Report struct {
	BuildID  string
	Revision string
	OutDir   string
	Duration time.Duration
	// Pages counts the written pages, index included.
	Pages       int
	Diagnostics map[string][]render.Diagnostic
	BrokenLinks []linkcheck.BrokenLink
}

// DiagnosticCount returns the number of renderer diagnostics.
func (r *Report) DiagnosticCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		n += len(d)
	}
	return n
}

// Outcome classifies the build for metrics: a build with diagnostics or
// broken links is a warning.
func (r *Report) Outcome() metrics.BuildOutcomeLabel {
	if r.DiagnosticCount() > 0 || len(r.BrokenLinks) > 0 {
		return metrics.BuildOutcomeWarning
	}
	return metrics.BuildOutcomeSuccess
}

// Build generates and writes the site, then runs the link check when it
// is enabled. History events, metrics and the notification are side
// effects whose failures are logged and never fail the build.
func (g *Generator) Build(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{BuildID: uuid.NewString(), OutDir: g.cfg.OutPath()}
	logger := g.logger.With(logfields.BuildID(report.BuildID))

	rev, err := git.Revision(g.root)
	if err != nil {
		logger.Warn("Could not read source revision", logfields.Error(err))
	}
	report.Revision = rev

	history := eventstore.NewRecorder(g.store, report.BuildID)
	g.recordEvent(history.BuildStarted(ctx, eventstore.BuildStarted{
		Root:     g.root,
		OutDir:   report.OutDir,
		Revision: rev,
	}))
	logger.Info("Generating site", logfields.Path(g.root), logfields.Revision(rev))

	fail := func(stage string, err error) (*Report, error) {
		report.Duration = time.Since(started)
		outcome := metrics.BuildOutcomeFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.BuildOutcomeCanceled
		}
		g.recorder.IncBuildOutcome(outcome)
		g.recorder.ObserveBuildDuration(report.Duration)
		g.recordEvent(history.BuildFailed(context.WithoutCancel(ctx), eventstore.BuildFailed{
			Stage:    stage,
			Error:    err.Error(),
			Duration: report.Duration,
		}))
		g.exportMetrics()
		return report, err
	}

	var s *Site
	if err := g.stage(StageGenerate, func() error {
		var err error
		s, err = g.GenerateSite(ctx)
		return err
	}); err != nil {
		return fail(StageGenerate, err)
	}
	report.Pages = s.Pages()
	report.Diagnostics = s.Diagnostics()

	if err := g.stage(StageWrite, func() error { return g.WriteFiles(ctx, s) }); err != nil {
		return fail(StageWrite, err)
	}
	for _, f := range s.Files {
		if f.Source == "" {
			continue
		}
		g.recordEvent(history.DocumentRendered(ctx, eventstore.DocumentRendered{
			Path:        f.Source,
			Output:      f.Path,
			Diagnostics: len(f.Diagnostics),
		}))
	}

	if g.cfg.LinkCheck {
		if err := g.stage(StageLinkCheck, func() error {
			var err error
			report.BrokenLinks, err = linkcheck.Check(report.OutDir)
			return err
		}); err != nil {
			return fail(StageLinkCheck, err)
		}
		for _, bl := range report.BrokenLinks {
			logger.Warn("Broken link", logfields.Path(bl.Page), logfields.URL(bl.Target))
		}
	}

	report.Duration = time.Since(started)
	g.recorder.SetPages(report.Pages)
	g.recorder.AddBrokenLinks(len(report.BrokenLinks))
	g.recorder.ObserveBuildDuration(report.Duration)
	g.recorder.IncBuildOutcome(report.Outcome())
	g.recordEvent(history.BuildCompleted(ctx, eventstore.BuildCompleted{
		Pages:       report.Pages,
		Diagnostics: report.DiagnosticCount(),
		BrokenLinks: len(report.BrokenLinks),
		Duration:    report.Duration,
	}))
	g.exportMetrics()

	if err := g.publisher.Publish(ctx, notify.SiteBuilt{
		BuildID:     report.BuildID,
		Revision:    report.Revision,
		Pages:       report.Pages,
		BrokenLinks: len(report.BrokenLinks),
		OutDir:      report.OutDir,
		Duration:    report.Duration,
	}); err != nil {
		logger.Warn("Build notification failed", logfields.Error(err))
	}

	logger.Info("Site generated",
		logfields.Count(report.Pages),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000),
		logfields.Path(report.OutDir))
	return report, nil
}

// stage runs fn and records its duration and result.
func (g *Generator) stage(name string, fn func() error) error {
	started := time.Now()
	err := fn()
	g.recorder.ObserveStageDuration(name, time.Since(started))
	switch {
	case err == nil:
		g.recorder.IncStageResult(name, metrics.ResultSuccess)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		g.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		g.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	if err != nil {
		g.logger.Debug("Stage failed", logfields.Stage(name), logfields.Error(err))
	}
	return err
}

func (g *Generator) recordEvent(err error) {
	if err != nil {
		g.logger.Warn("Failed to record build history", logfields.Error(err))
	}
}

// exportMetrics writes the metrics textfile when one is configured and the
// recorder exports Prometheus metrics.
func (g *Generator) exportMetrics() {
	path := g.cfg.MetricsTextfilePath()
	if path == "" {
		return
	}
	pr, ok := g.recorder.(*metrics.PrometheusRecorder)
	if !ok || pr == nil {
		g.logger.Debug("Metrics textfile configured without a Prometheus recorder", logfields.Path(path))
		return
	}
	if err := metrics.WriteTextfile(pr.Registry(), path); err != nil {
		g.logger.Warn("Failed to write metrics textfile", logfields.Path(path),
			logfields.Error(derrors.FileSystemError("write", path, err)))
	}
}
