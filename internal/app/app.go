package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/panegrid/internal/board"
	"github.com/five82/panegrid/internal/config"
	"github.com/five82/panegrid/internal/layout"
	"github.com/five82/panegrid/internal/persist"
	"github.com/five82/panegrid/internal/prefs"
	"github.com/five82/panegrid/internal/state"
	"github.com/five82/panegrid/internal/ui"
)

// Options configure the dashboard.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses ~/.config/panegrid/prefs.toml
	Env        string        // overrides prefs and config
	PollEvery  time.Duration // zero uses the configured poll interval
	Verbose    bool
}

const eventQueueSize = 1024

// Run boots the dashboard until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	logger, closeLog, err := openLogger(cfg.LogPath(), opts.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := persist.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open layout store: %w", err)
	}
	defer func() { _ = store.Close() }()

	client, err := board.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init board client: %w", err)
	}

	env := firstNonEmpty(opts.Env, userPrefs.Env, cfg.Env)
	snk := newSink(store, client, logger)
	rec := layout.New(layout.Options{
		Env:     env,
		Cols:    cfg.Cols,
		Sizes:   cfg.Sizes,
		Records: store,
		Sink:    snk,
		Logger:  logger.WithPrefix("layout"),
	})
	restorePrefs(rec, userPrefs)

	interval := cfg.Poll
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}

	logger.Info("starting dashboard",
		"env", env, "api", cfg.APIBind, "cols", cfg.Cols, "db", store.Path(), "session", client.Session())

	return serve(ctx, runtime{
		rec:      rec,
		source:   client,
		sink:     snk,
		snapshot: &state.Store{},
		grid:     cfg.Grid,
		poll:     interval,
		debounce: cfg.Debounce,
		logger:   logger,
		ui: func(ctx context.Context, uiOpts ui.Options) error {
			uiOpts.Prefs = userPrefs
			uiOpts.PrefsPath = opts.PrefsPath
			return ui.Run(ctx, uiOpts)
		},
	})
}

// runtime bundles the goroutines of a running dashboard.
type runtime struct {
	rec      *layout.Reconciler
	source   board.EventSource
	sink     *sink
	snapshot *state.Store
	grid     layout.Grid
	poll     time.Duration
	debounce time.Duration
	logger   *log.Logger
	ui       func(ctx context.Context, opts ui.Options) error
}

// serve runs the poller, batcher, layout loop, remote pusher and UI. The
// first to return ends the others.
func serve(ctx context.Context, rt runtime) error {
	events := make(chan layout.Event, eventQueueSize)
	batches := make(chan []layout.Event)
	cmds := make(chan command)

	g, ctx := errgroup.WithContext(ctx)

	send := dispatcher(ctx, events, rt.logger)
	run := func(cmd command) {
		select {
		case cmds <- cmd:
		case <-ctx.Done():
		}
	}

	p := &poller{source: rt.source, store: rt.snapshot, grid: rt.grid, interval: rt.poll, logger: rt.logger, out: events}
	b := &batcher{in: events, out: batches, window: rt.debounce, max: maxBatch}
	l := &loop{rec: rt.rec, store: rt.snapshot, batches: batches, cmds: cmds, logger: rt.logger}

	g.Go(func() error { return p.run(ctx) })
	g.Go(func() error { return b.run(ctx) })
	g.Go(func() error { return l.run(ctx) })
	if rt.sink != nil {
		g.Go(func() error { return rt.sink.push(ctx) })
	}
	g.Go(func() error {
		err := rt.ui(ctx, ui.Options{
			Store:      rt.snapshot,
			Dispatch:   send,
			SaveView:   func(name string) { go run(saveView(name, rt.logger)) },
			DeleteView: func(name string) { go run(deleteView(name)) },
		})
		if err != nil {
			return err
		}
		return errQuit
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

// dispatcher returns the UI's event callback. It never blocks: the UI runs
// inside bubbletea's Update, so a full queue drops the event with a warning.
func dispatcher(ctx context.Context, events chan<- layout.Event, logger *log.Logger) func(layout.Event) {
	return func(ev layout.Event) {
		if ctx.Err() != nil {
			return
		}
		select {
		case events <- ev:
		default:
			logger.Warn("event queue full, dropping", "event", fmt.Sprintf("%T", ev))
		}
	}
}

// errQuit ends the errgroup when the UI exits normally.
var errQuit = errors.New("quit")

// restorePrefs reapplies the view and filter the user last had.
func restorePrefs(rec *layout.Reconciler, p prefs.Prefs) {
	if p.Env != "" && p.Env != rec.Env() {
		return
	}
	if p.View != "" {
		rec.SelectView(p.View)
	}
	if p.Filter != "" {
		rec.SetFilter(p.Filter)
	}
}

// openLogger writes the dashboard log to path so the TUI is not disturbed.
func openLogger(path string, verbose bool) (*log.Logger, func(), error) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(file, level), func() { _ = file.Close() }, nil
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
