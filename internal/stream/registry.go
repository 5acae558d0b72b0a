// File: internal/stream/registry.go
// Package stream implements the write stage: one dedicated worker per
// destination draining a private frame inbox.
// License: MIT

package stream

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/BrokenSource/TurboPipe/api"
)

// Registry maps destination handles to their active writers. Creation is
// lazy and idempotent: the first submission to a handle spawns its writer,
// later submissions reuse it. Close tears one entry down and waits for its
// worker to exit.
type Registry struct {
	mu       sync.Mutex
	writers  map[api.Handle]*Writer
	resolver api.Resolver
	log      zerolog.Logger

	// Recycle returns frame buffers to the pool after the write call.
	Recycle func([]byte)
	// OnWrite observes every successful write.
	OnWrite func(bytes int)
	// OnError observes every swallowed write failure.
	OnError func(dest api.Handle, err error)
}

// NewRegistry creates an empty registry resolving sinks through r.
func NewRegistry(r api.Resolver, log zerolog.Logger) *Registry {
	return &Registry{
		writers:  make(map[api.Handle]*Writer),
		resolver: r,
		log:      log,
	}
}

// Ensure returns dest's writer, spawning one on first use. Safe for
// concurrent callers; exactly one writer exists per handle at a time.
func (r *Registry) Ensure(dest api.Handle) *Writer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.writers[dest]; ok {
		return w
	}
	sk, ok := r.resolver.Resolve(dest)
	if !ok {
		// Contract violation: destination was never opened. Writing to it
		// is undefined, so the frames go nowhere.
		r.log.Warn().Int64("dest", int64(dest)).Msg("unresolvable destination, frames will be discarded")
		sk = api.SinkFunc(func(p []byte) (int, error) { return len(p), nil })
	}
	w := newWriter(dest, sk, r.log)
	w.recycle = r.Recycle
	w.onWrite = r.OnWrite
	w.onError = r.OnError
	r.writers[dest] = w
	go w.run()
	return w
}

// Offer hands a frame to dest's writer. false means no writer exists (or
// its inbox already closed) and the caller keeps ownership of the frame.
func (r *Registry) Offer(dest api.Handle, frame []byte) bool {
	r.mu.Lock()
	w, ok := r.writers[dest]
	r.mu.Unlock()
	if !ok {
		return false
	}
	return w.offer(frame)
}

// Close removes dest's entry, closes its inbox and waits for the worker to
// drain and exit. The destination's OS resource stays open. Returns
// api.ErrNotFound when dest has no writer.
func (r *Registry) Close(dest api.Handle) error {
	r.mu.Lock()
	w, ok := r.writers[dest]
	if ok {
		delete(r.writers, dest)
	}
	r.mu.Unlock()
	if !ok {
		return api.ErrNotFound
	}
	w.stop()
	return nil
}

// CloseAll tears down every writer, waiting for each to exit.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	writers := make([]*Writer, 0, len(r.writers))
	for dest, w := range r.writers {
		writers = append(writers, w)
		delete(r.writers, dest)
	}
	r.mu.Unlock()
	for _, w := range writers {
		w.stop()
	}
}

// Count returns the number of destinations with a live writer.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writers)
}

// Stats sums write-stage counters across live writers.
func (r *Registry) Stats() (written, bytes, errors int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.writers {
		written += w.written.Load()
		bytes += w.bytesWritten.Load()
		errors += w.errors.Load()
	}
	return
}
