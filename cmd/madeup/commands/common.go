// Package commands implements the madeup command line.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"git.home.luguber.info/inful/madeup/internal/config"
	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/eventstore"
	"git.home.luguber.info/inful/madeup/internal/logfields"
	"git.home.luguber.info/inful/madeup/internal/metrics"
	"git.home.luguber.info/inful/madeup/internal/notify"
	"git.home.luguber.info/inful/madeup/internal/retry"
	"git.home.luguber.info/inful/madeup/internal/site"
	"github.com/alecthomas/kong"
)

// LogLevelEnv overrides the log level chosen by --verbose.
const LogLevelEnv = "MADEUP_LOG_LEVEL"

// Global is shared state handed to every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site"`
	Init     InitCmd     `cmd:"" help:"Write a sample mdup.yml"`
	Discover DiscoverCmd `cmd:"" help:"List the documents that would be rendered"`
	Watch    WatchCmd    `cmd:"" help:"Build, then rebuild on changes"`
	History  HistoryCmd  `cmd:"" help:"Show recorded builds"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Global) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// parseLogLevel returns Debug for verbose runs, Info otherwise, unless
// LogLevelEnv names a level.
func parseLogLevel(verbose bool) slog.Level {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if env := strings.TrimSpace(os.Getenv(LogLevelEnv)); env != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(env)); err == nil {
			level = parsed
		}
	}
	return level
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// loadConfig finds and validates the configuration of the site at root.
// A non-empty out replaces the configured output directory.
func loadConfig(root, out string) (*config.Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, derrors.FileSystemError("abs", root, err)
	}
	cfg, err := config.Find(abs)
	if err != nil {
		return nil, err
	}
	if out != "" {
		if !filepath.IsAbs(out) {
			if out, err = filepath.Abs(out); err != nil {
				return nil, derrors.FileSystemError("abs", out, err)
			}
		}
		cfg.OutDir = out
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generatorSetup holds a Generator and the resources it was given.
type generatorSetup struct {
	gen      *site.Generator
	recorder *metrics.PrometheusRecorder
	closers  []func() error
}

func (s *generatorSetup) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// newGenerator wires history, notifications and metrics from cfg. A
// Prometheus recorder is created when exportMetrics is set or a textfile
// is configured.
func newGenerator(cfg *config.Config, logger *slog.Logger, exportMetrics bool) (*generatorSetup, error) {
	setup := &generatorSetup{}
	opts := []site.Option{site.WithLogger(logger)}

	if exportMetrics || cfg.Metrics.Textfile != "" {
		setup.recorder = metrics.NewPrometheusRecorder(nil)
		opts = append(opts, site.WithRecorder(setup.recorder))
	}

	if cfg.History.Enabled {
		store, err := eventstore.NewSQLiteStore(cfg.HistoryPath())
		if err != nil {
			return nil, err
		}
		setup.closers = append(setup.closers, store.Close)
		opts = append(opts, site.WithHistory(store))
	}

	publisher, err := notify.New(cfg.Notify.NATSURL, cfg.Notify.Subject)
	if err != nil {
		// A build never fails for lack of a notification channel.
		logger.Warn("Build notifications disabled", logfields.URL(cfg.Notify.NATSURL), logfields.Error(err))
		publisher = notify.Noop{}
	}
	policy := retry.DefaultPolicy()
	if cfg.Notify.Retries > 0 {
		policy.MaxRetries = cfg.Notify.Retries
	}
	publisher = notify.WithRetry(publisher, policy)
	setup.closers = append(setup.closers, publisher.Close)
	opts = append(opts, site.WithPublisher(publisher))

	gen, err := site.NewGenerator(cfg.Root(), cfg, opts...)
	if err != nil {
		setup.Close()
		return nil, err
	}
	setup.gen = gen
	return setup, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
