package commands

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"git.home.luguber.info/inful/madeup/internal/config"
	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/logfields"
	"git.home.luguber.info/inful/madeup/internal/metrics"
	"git.home.luguber.info/inful/madeup/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Root  string `arg:"" optional:"" default:"." help:"Root directory of Markdown files"`
	Out   string `short:"o" help:"Output directory, overrides out_dir"`
	Serve string `help:"Serve the output directory and /metrics on this address, e.g. :8080"`
}

func (c *WatchCmd) Run(g *Global, _ *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()
	return RunWatch(ctx, g, c.Root, c.Out, c.Serve)
}

// RunWatch builds the site, then rebuilds it on source changes and on the
// configured interval until ctx is canceled.
func RunWatch(ctx context.Context, g *Global, root, out, addr string) error {
	logger := g.logger()
	cfg, err := loadConfig(root, out)
	if err != nil {
		return err
	}
	setup, err := newGenerator(cfg, logger, addr != "")
	if err != nil {
		return err
	}
	defer setup.Close()

	build := func(ctx context.Context, _ string) error {
		report, err := setup.gen.Build(ctx)
		if err != nil {
			return err
		}
		printReport(os.Stdout, report)
		return nil
	}
	if err := build(ctx, "initial"); err != nil {
		logger.Warn("Initial build failed", logfields.Error(err))
	}

	if addr != "" {
		stop, err := serve(addr, cfg, setup.recorder, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	w, err := watch.New(watch.Options{
		Root:     cfg.Root(),
		Exclude:  []string{cfg.OutPath(), cfg.HistoryPath(), cfg.MetricsTextfilePath()},
		Debounce: cfg.WatchDebounce(),
		Interval: cfg.WatchInterval(),
		Logger:   logger,
	}, build)
	if err != nil {
		return err
	}
	logger.Info("Watching for changes", logfields.Path(cfg.Root()))
	return w.Run(ctx)
}

// serve starts an HTTP server for the output directory and the metrics
// endpoint. The returned function shuts it down.
func serve(addr string, cfg *config.Config, recorder *metrics.PrometheusRecorder, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryNetwork, derrors.SeverityFatal, "failed to listen").
			WithContext("addr", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(recorder.Registry()))
	mux.Handle("/", http.FileServer(http.Dir(cfg.OutPath())))
	srv := &http.Server{Handler: mux, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Site server stopped", logfields.Error(err))
		}
	}()
	logger.Info("Serving site", logfields.Addr(ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
