// Package watch rebuilds a site when its sources change or on a schedule.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/logfields"
	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
)

// Rebuild reasons passed to BuildFunc.
const (
	ReasonChange   = "change"
	ReasonInterval = "interval"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one build. Calls are never concurrent.
type BuildFunc func(ctx context.Context, reason string) error

// Options configures a Watcher.
type Options struct {
	Root string
	// Exclude lists directories whose changes are ignored, such as the
	// output directory.
	Exclude  []string
	Debounce time.Duration
	// Interval enables a periodic rebuild when positive.
	Interval time.Duration
	Logger   *slog.Logger
}

// Watcher turns filesystem events and timer ticks into serialized builds.
type Watcher struct {
	opts     Options
	build    BuildFunc
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
	requests chan string

	mu    sync.Mutex
	timer *time.Timer
}

// New watches every directory below opts.Root except excluded and hidden ones.
func New(opts Options, build BuildFunc) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, derrors.FileSystemError("abs", opts.Root, err)
	}
	opts.Root = root
	exclude := make([]string, 0, len(opts.Exclude))
	for _, ex := range opts.Exclude {
		if ex == "" {
			continue
		}
		if abs, err := filepath.Abs(ex); err == nil {
			exclude = append(exclude, abs)
		}
	}
	opts.Exclude = exclude

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryRuntime, derrors.SeverityFatal, "fsnotify")
	}
	w := &Watcher{
		opts:     opts,
		build:    build,
		logger:   logger,
		fsw:      fsw,
		requests: make(chan string, 1),
	}
	if err := w.addDirsRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is canceled. Build errors are logged and do not stop
// the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	scheduler, err := w.startScheduler()
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() { _ = scheduler.Shutdown() }()
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) startScheduler() (gocron.Scheduler, error) {
	if w.opts.Interval <= 0 {
		return nil, nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryRuntime, derrors.SeverityFatal, "failed to create scheduler")
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(w.request, ReasonInterval),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, derrors.Wrap(err, derrors.CategoryRuntime, derrors.SeverityFatal, "failed to create periodic rebuild job")
	}
	s.Start()
	w.logger.Info("Periodic rebuild scheduled", slog.Duration("interval", w.opts.Interval))
	return s, nil
}

// worker runs builds one at a time. A request that arrives during a build
// is coalesced into a single follow-up build.
func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-w.requests:
			w.logger.Info("Rebuilding site", slog.String("reason", reason))
			if err := w.build(ctx, reason); err != nil {
				w.logger.Warn("rebuild failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) request(reason string) {
	select {
	case w.requests <- reason:
	default:
	}
}

// trigger restarts the debounce timer.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.request(ReasonChange) })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if w.ignored(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return derrors.FileSystemError("watch", p, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.opts.Root && (w.excluded(p) || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			w.logger.Warn("watch add failed", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) excluded(p string) bool {
	for _, ex := range w.opts.Exclude {
		if p == ex || strings.HasPrefix(p, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignored reports events that must not trigger a rebuild: excluded
// directories, hidden files and editor temp or swap files.
func (w *Watcher) ignored(p string) bool {
	if w.excluded(p) {
		return true
	}
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
