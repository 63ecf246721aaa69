// Package app implements the application layer for montauk.
package app

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/montauk/internal/adapters/cache"
	"go.trai.ch/montauk/internal/adapters/fs"
	"go.trai.ch/montauk/internal/adapters/telemetry"
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/montauk/internal/engine/compiler"
	"go.trai.ch/montauk/internal/engine/directives"
	"go.trai.ch/montauk/internal/tui"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
	hasher       ports.Fingerprinter
	walker       *fs.Walker
	tokens       ports.TokenSource
	watcher      ports.Watcher
	registry     Registry

	workDir       string
	teaOptions    []tea.ProgramOption
	shutdownTrace func(context.Context) error
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	tracer ports.Tracer,
	hasher ports.Fingerprinter,
	walker *fs.Walker,
	tokens ports.TokenSource,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		tracer:       tracer,
		hasher:       hasher,
		walker:       walker,
		tokens:       tokens,
		watcher:      w,
		workDir:      ".",
	}
}

// WithWorkDir sets the directory montauk.yaml is looked up from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithTeaOptions sets the Bubble Tea program options used by the watch dashboard.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// Register sets the application served by Dispatch.
func (a *App) Register(factory Factory) {
	a.registry.Register(factory)
}

// Options configures the App before a command runs.
type Options struct {
	// WorkDir is where montauk.yaml is looked up from. Empty keeps the current value.
	WorkDir string
	// JSON switches logs to JSON lines.
	JSON bool
	// Trace reports every span through the logger.
	Trace bool
}

// Configure applies opts. It is called once before any command runs.
func (a *App) Configure(opts Options) {
	if opts.WorkDir != "" {
		a.WithWorkDir(opts.WorkDir)
	}
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(opts.JSON)
	}
	if opts.Trace && a.shutdownTrace == nil {
		a.shutdownTrace = telemetry.Setup(a.logger)
	}
}

// Close flushes tracing.
func (a *App) Close(ctx context.Context) error {
	if a.shutdownTrace == nil {
		return nil
	}
	return a.shutdownTrace(ctx)
}

// Engine loads the configuration and assembles an engine from it. The returned func releases the
// cache store.
func (a *App) Engine() (*Engine, func() error, error) {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}

	loader, err := fs.NewLoader(cfg.ViewRootPaths(), a.walker, a.hasher)
	if err != nil {
		return nil, nil, err
	}

	codec, err := cache.NewCodec(cfg.Cache.Format)
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := cache.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	bundles := directives.NewBundle(directives.StaticBundles(cfg.Bundles), cfg.Debug, cfg.SharedResourceFolder)
	dirs, subs := directives.Defaults(bundles, a.tokens.Create)
	comp := compiler.New(dirs, subs)

	return NewEngine(cfg, loader, comp, codec, store, a.watcher, a.tracer, a.logger), closeStore, nil
}

// withEngine runs fn against a started engine and releases it afterwards.
func (a *App) withEngine(ctx context.Context, opts StartOptions, fn func(*Engine) error) (err error) {
	eng, release, err := a.Engine()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, release())
	}()

	if err := eng.Start(ctx, opts); err != nil {
		return err
	}
	return fn(eng)
}

// CompileOptions configures Compile.
type CompileOptions struct {
	// Fresh ignores the persisted cache and rescans the view roots first.
	Fresh bool
}

// Compile compiles the named views, or all of them, and writes the cache. A failed cache write is
// logged and does not fail the compile.
func (a *App) Compile(ctx context.Context, names []string, opts CompileOptions) ([]domain.TemplateRecord, error) {
	var views []domain.TemplateRecord
	err := a.withEngine(ctx, StartOptions{IgnoreCache: opts.Fresh}, func(eng *Engine) error {
		var compileErr error
		views, compileErr = eng.Compile(ctx, names...)
		eng.persist(ctx)
		return compileErr
	})
	return views, err
}

// Render renders one view with tags.
func (a *App) Render(ctx context.Context, name string, tags map[string]string) (string, error) {
	var out string
	err := a.withEngine(ctx, StartOptions{}, func(eng *Engine) error {
		var renderErr error
		out, renderErr = eng.LoadView(ctx, name, tags)
		return renderErr
	})
	return out, err
}

// Dispatch runs the registered application's action for route.
func (a *App) Dispatch(ctx context.Context, route string, tags map[string]string) (string, error) {
	var out string
	err := a.withEngine(ctx, StartOptions{}, func(eng *Engine) error {
		var dispatchErr error
		out, dispatchErr = a.registry.Dispatch(ctx, eng, route, tags)
		return dispatchErr
	})
	return out, err
}

// WatchOptions configures Watch.
type WatchOptions struct {
	// Dashboard shows reloads in a terminal dashboard instead of the log.
	Dashboard bool
}

// Watch recompiles views as their templates change until ctx ends.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	return a.withEngine(ctx, StartOptions{}, func(eng *Engine) error {
		roots := eng.loader.Roots()
		if opts.Dashboard {
			return a.watchDashboard(ctx, eng, roots)
		}
		a.logger.Info("watching " + strings.Join(roots, ", "))
		return ignoreCanceled(eng.Watch(ctx))
	})
}

// watchDashboard runs the watch loop behind the dashboard. Quitting the dashboard stops the
// loop; the loop ending closes the dashboard.
func (a *App) watchDashboard(ctx context.Context, eng *Engine, roots []string) error {
	feed := tui.NewFeed()
	eng.Observe(feed)

	if l, ok := a.logger.(interface{ SetOutput(io.Writer) }); ok {
		l.SetOutput(io.Discard)
		defer l.SetOutput(nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer feed.Close()
		return ignoreCanceled(eng.Watch(gctx))
	})
	g.Go(func() error {
		defer cancel()
		return tui.Run(gctx, feed, roots, a.teaOptions...)
	})
	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ShowCache returns the encoded cache.
func (a *App) ShowCache(ctx context.Context) (string, error) {
	var out string
	err := a.withEngine(ctx, StartOptions{}, func(eng *Engine) error {
		var cacheErr error
		out, cacheErr = eng.GetCache()
		return cacheErr
	})
	return out, err
}

// ClearCache removes the persisted cache and returns where it was.
func (a *App) ClearCache(ctx context.Context) (location string, err error) {
	eng, release, err := a.Engine()
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.Join(err, release())
	}()

	return eng.CacheLocation(), eng.ClearCache(ctx)
}

// Dependencies describes how a view relates to the others.
func (a *App) Dependencies(ctx context.Context, name string) (Dependencies, error) {
	var deps Dependencies
	err := a.withEngine(ctx, StartOptions{}, func(eng *Engine) error {
		var depErr error
		deps, depErr = eng.Dependencies(name)
		return depErr
	})
	return deps, err
}
