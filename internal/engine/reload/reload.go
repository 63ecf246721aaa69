// Package reload turns template change notifications into recompiles.
package reload

import (
	"context"
	"os"
	"time"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/zerr"
)

// ViewCompiler is the part of the compiler a reload drives.
type ViewCompiler interface {
	Replace(rec domain.TemplateRecord) bool
	Compile(name string) (domain.TemplateRecord, error)
	RecompileDependencies(name string) ([]domain.TemplateRecord, error)
	Cascade(name string) []string
}

// Observer is told about every reload HandleBatch performs.
type Observer interface {
	Reloading(path string)
	Reloaded(path string, views []domain.TemplateRecord, err error)
}

// Reloader reloads a changed template file and recompiles what depends on it.
type Reloader struct {
	loader   ports.TemplateLoader
	compiler ViewCompiler
	watcher  ports.Watcher
	tracer   ports.Tracer
	logger   ports.Logger
	observer Observer

	interval time.Duration
	attempts int
	canRead  func(path string) bool
}

// New creates a Reloader. The watch config bounds the wait for a file that is still being written.
func New(
	loader ports.TemplateLoader,
	compiler ViewCompiler,
	watcher ports.Watcher,
	tracer ports.Tracer,
	logger ports.Logger,
	cfg domain.WatchConfig,
) *Reloader {
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return &Reloader{
		loader:   loader,
		compiler: compiler,
		watcher:  watcher,
		tracer:   tracer,
		logger:   logger,
		interval: cfg.Interval,
		attempts: attempts,
		canRead:  readable,
	}
}

// Observe registers o for later batches. It must be called before the watch loop starts.
func (r *Reloader) Observe(o Observer) {
	r.observer = o
}

// HandleBatch reloads every path and returns how many reloads succeeded. Failures are logged,
// never returned, so a bad template cannot stop the watch loop.
func (r *Reloader) HandleBatch(ctx context.Context, paths []string) int {
	ok := 0
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		if r.observer != nil {
			r.observer.Reloading(path)
		}
		views, err := r.Reload(ctx, path)
		if r.observer != nil {
			r.observer.Reloaded(path, views, err)
		}
		if err != nil {
			r.logger.Error(err)
			continue
		}
		ok++
		for _, v := range views {
			r.logger.Info("recompiled " + v.LogicalName)
		}
	}
	return ok
}

// Reload replaces the template at path and recompiles it. When the previous compiled view was
// stale, every view that includes it is rebuilt as well. Notifications are paused for the
// duration and a panic is reported as an error.
func (r *Reloader) Reload(ctx context.Context, path string) (views []domain.TemplateRecord, err error) {
	ctx, span := r.tracer.Start(ctx, "reload", ports.WithAttribute("path", path))
	defer span.End()

	r.watcher.Pause()
	defer r.watcher.Resume()

	defer func() {
		if err != nil {
			span.RecordError(err)
		}
	}()
	defer zerr.Defer(func(perr error) {
		err = zerr.With(zerr.Wrap(perr, "reload panicked"), "path", path)
	})

	if err = r.waitReadable(ctx, path); err != nil {
		return nil, err
	}

	rec, err := r.loader.Load(path)
	if err != nil {
		return nil, err
	}
	span.SetAttribute("view", rec.LogicalName)

	if r.compiler.Replace(rec) {
		r.tracer.EmitCascade(ctx, r.compiler.Cascade(rec.LogicalName))
		return r.compiler.RecompileDependencies(rec.LogicalName)
	}

	view, err := r.compiler.Compile(rec.LogicalName)
	if err != nil {
		return nil, err
	}
	return []domain.TemplateRecord{view}, nil
}

func (r *Reloader) waitReadable(ctx context.Context, path string) error {
	for attempt := range r.attempts {
		if r.canRead(path) {
			return nil
		}
		if attempt == r.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
	return zerr.With(zerr.Wrap(domain.ErrReloadTimeout, "template stayed unreadable"), "path", path)
}

func readable(path string) bool {
	f, err := os.Open(path) //nolint:gosec // path comes from the watcher
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
