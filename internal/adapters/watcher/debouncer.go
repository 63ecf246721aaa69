// Package watcher reports template file changes and batches them for reloading.
package watcher

import (
	"maps"
	"slices"
	"sync"
	"time"
	"unique"
)

// Debouncer coalesces rapid file events into one batch per quiet window. Closed batches are queued
// and delivered one at a time, in the order they closed.
type Debouncer struct {
	mu         sync.Mutex
	pending    map[unique.Handle[string]]struct{}
	timer      *time.Timer
	window     time.Duration
	stopped    bool
	queue      []batch
	delivering bool
	callback   func(paths []string)
}

type batch struct {
	paths []string
	done  chan struct{}
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add adds a file path to the pending set and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[unique.Make(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Pending returns the number of paths waiting for the window to close.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// drain must be called with d.mu held.
func (d *Debouncer) drain() []string {
	paths := slices.Sorted(func(yield func(string) bool) {
		for handle := range maps.Keys(d.pending) {
			if !yield(handle.Value()) {
				return
			}
		}
	})
	d.pending = make(map[unique.Handle[string]]struct{})
	return paths
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.timer = nil
	if len(d.pending) == 0 {
		return
	}
	paths := d.drain()
	if d.callback != nil {
		d.enqueue(paths)
	}
}

// enqueue must be called with d.mu held. At most one goroutine delivers the queue.
func (d *Debouncer) enqueue(paths []string) <-chan struct{} {
	b := batch{paths: paths, done: make(chan struct{})}
	d.queue = append(d.queue, b)
	if !d.delivering {
		d.delivering = true
		go d.deliver()
	}
	return b.done
}

func (d *Debouncer) deliver() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.delivering = false
			d.mu.Unlock()
			return
		}
		b := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		func() {
			defer close(b.done)
			d.callback(b.paths)
		}()
	}
}

// Flush delivers every pending path now and blocks until the callback returns.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	paths := d.drain()
	var done <-chan struct{}
	if len(paths) > 0 && d.callback != nil {
		done = d.enqueue(paths)
	}
	d.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Stop discards pending paths and ignores later Adds. A batch already being delivered is not
// interrupted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[unique.Handle[string]]struct{})
}
