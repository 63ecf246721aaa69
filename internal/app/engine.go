package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.trai.ch/montauk/internal/adapters/watcher"
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/montauk/internal/engine/compiler"
	"go.trai.ch/montauk/internal/engine/reload"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ViewRenderer renders compiled views. It is what applications receive.
type ViewRenderer interface {
	RenderView(ctx context.Context, name string, tags map[string]string) (string, error)
}

// Engine ties the loader, the persisted cache, the compiler and the change watcher together.
type Engine struct {
	cfg      *domain.Config
	loader   ports.TemplateLoader
	compiler *compiler.Compiler
	codec    ports.CacheCodec
	store    ports.CacheStore
	watcher  ports.Watcher
	reloader *reload.Reloader
	tracer   ports.Tracer
	logger   ports.Logger

	dirty atomic.Bool
}

var _ ViewRenderer = (*Engine)(nil)

// NewEngine creates an Engine. Start must be called before views are rendered.
func NewEngine(
	cfg *domain.Config,
	loader ports.TemplateLoader,
	comp *compiler.Compiler,
	codec ports.CacheCodec,
	store ports.CacheStore,
	w ports.Watcher,
	tracer ports.Tracer,
	logger ports.Logger,
) *Engine {
	return &Engine{
		cfg:      cfg,
		loader:   loader,
		compiler: comp,
		codec:    codec,
		store:    store,
		watcher:  w,
		reloader: reload.New(loader, comp, w, tracer, logger, cfg.Watch),
		tracer:   tracer,
		logger:   logger,
	}
}

// StartOptions configures Start.
type StartOptions struct {
	// IgnoreCache rescans the view roots even when a persisted cache exists.
	IgnoreCache bool
}

// Start fills the registries from the persisted cache, or scans and compiles every template when
// there is no usable cache. A fresh scan is written back best-effort.
func (e *Engine) Start(ctx context.Context, opts StartOptions) error {
	ctx, span := e.tracer.Start(ctx, "start")
	defer span.End()

	if !e.cfg.Debug && !opts.IgnoreCache && e.restore(ctx) {
		span.SetAttribute("source", "cache")
		return nil
	}
	span.SetAttribute("source", "scan")

	records, err := e.loader.LoadAll(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	e.compiler.Reset(records)

	views, err := e.compiler.CompileAll()
	span.SetAttribute("views", len(views))
	if err != nil {
		e.logger.Error(err)
	}

	e.dirty.Store(true)
	e.persist(ctx)
	return nil
}

// restore reports whether the registries were filled from the persisted cache.
func (e *Engine) restore(ctx context.Context) bool {
	data, err := e.store.Read(ctx)
	if err != nil {
		e.logger.Error(err)
		return false
	}
	if data == nil {
		return false
	}

	cache, err := e.codec.Decode(data)
	if err != nil {
		e.logger.Error(zerr.With(err, "location", e.store.Location()))
		return false
	}

	e.compiler.Restore(cache)
	if len(cache.CompiledViews) == 0 {
		if _, err := e.compiler.CompileAll(); err != nil {
			e.logger.Error(err)
		}
		e.dirty.Store(true)
	}
	return true
}

// persist writes the cache and logs instead of failing.
func (e *Engine) persist(ctx context.Context) {
	if err := e.UpdateCache(ctx); err != nil {
		e.logger.Warn(fmt.Sprintf("view cache not written: %v", err))
	}
}

// LoadView renders a compiled view with tags and returns the result.
func (e *Engine) LoadView(ctx context.Context, name string, tags map[string]string) (string, error) {
	_, span := e.tracer.Start(ctx, "render", ports.WithAttribute("view", name))
	defer span.End()

	view, err := e.compiler.Render(name, tags)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return view.LastRenderResult, nil
}

// RenderView implements ViewRenderer.
func (e *Engine) RenderView(ctx context.Context, name string, tags map[string]string) (string, error) {
	return e.LoadView(ctx, name, tags)
}

// Compile recompiles the named views, or every view when names is empty. Views that compiled are
// returned even when others failed.
func (e *Engine) Compile(ctx context.Context, names ...string) ([]domain.TemplateRecord, error) {
	_, span := e.tracer.Start(ctx, "compile", ports.WithAttribute("views", names))
	defer span.End()

	defer e.dirty.Store(true)

	if len(names) == 0 {
		views, err := e.compiler.CompileAll()
		if err != nil {
			span.RecordError(err)
		}
		return views, err
	}

	var (
		views []domain.TemplateRecord
		errs  []error
	)
	for _, name := range names {
		view, err := e.compiler.Compile(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		views = append(views, view)
	}
	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
	}
	return views, err
}

// GetCache encodes the current registries and clears the updated flag.
func (e *Engine) GetCache() (string, error) {
	data, err := e.encode()
	if err != nil {
		return "", err
	}
	e.dirty.Store(false)
	return string(data), nil
}

func (e *Engine) encode() ([]byte, error) {
	return e.codec.Encode(e.compiler.ViewCache())
}

// CacheUpdated reports whether the registries changed since the cache was last read or written.
func (e *Engine) CacheUpdated() bool {
	return e.dirty.Load()
}

// UpdateCache encodes the registries and writes them to the store.
func (e *Engine) UpdateCache(ctx context.Context) error {
	data, err := e.encode()
	if err != nil {
		return err
	}
	if err := e.store.Write(ctx, data); err != nil {
		return err
	}
	e.dirty.Store(false)
	return nil
}

// ClearCache removes the persisted cache.
func (e *Engine) ClearCache(ctx context.Context) error {
	return e.store.Clear(ctx)
}

// CacheLocation describes where the cache is persisted.
func (e *Engine) CacheLocation() string {
	return e.store.Location()
}

// Observe reports every reload performed by Watch to o.
func (e *Engine) Observe(o reload.Observer) {
	e.reloader.Observe(o)
}

// Dependencies describes how one view relates to the others.
type Dependencies struct {
	View string
	// Includes are the views the view pulls in through Master or Partial.
	Includes []string
	// IncludedBy are the views that include it directly.
	IncludedBy []string
	// Cascade is every view rebuilt when it changes, breadth first.
	Cascade []string
}

// Dependencies returns the dependency information for a known view.
func (e *Engine) Dependencies(name string) (Dependencies, error) {
	snap := e.compiler.Snapshot()
	if _, ok := snap.Template(name); !ok {
		return Dependencies{}, zerr.With(zerr.Wrap(domain.ErrTemplateNotFound, "cannot describe view"), "view", name)
	}
	return Dependencies{
		View:       name,
		Includes:   snap.DependenciesOf(name),
		IncludedBy: snap.DependentsOf(name),
		Cascade:    snap.Cascade(name),
	}, nil
}

// Views returns the logical names of every known template, sorted.
func (e *Engine) Views() []string {
	return e.compiler.Snapshot().TemplateNames()
}

// Watch reloads changed templates until ctx ends. Bursts of events are debounced into batches;
// each batch that reloads anything is persisted best-effort.
func (e *Engine) Watch(ctx context.Context) error {
	if err := e.watcher.Start(ctx, e.loader.Roots()...); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "roots", e.loader.Roots())
	}

	debouncer := watcher.NewDebouncer(e.cfg.Watch.Debounce, func(paths []string) {
		if e.reloader.HandleBatch(ctx, paths) > 0 {
			e.dirty.Store(true)
			e.persist(ctx)
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer debouncer.Stop()
		for ev := range e.watcher.Events() {
			switch ev.Operation {
			case ports.OpWrite, ports.OpCreate:
				debouncer.Add(ev.Path)
			case ports.OpRemove, ports.OpRename:
				// Records are superseded, never deleted; the last version stays servable.
			}
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return e.watcher.Stop()
	})

	return g.Wait()
}
