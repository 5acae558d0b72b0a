// File: engine.go
// Package turbopipe decouples a producer's buffer lifetime from the latency
// of writing that buffer to a file or pipe.
// License: MIT
//
// Engine aggregates the dispatch pipeline: the shared work queue, the fixed
// reader pool performing copy-out, the pending-buffer registry backing the
// Sync/Close barriers, and one writer worker per open destination. All
// construction happens in New; Shutdown is the single teardown point.

package turbopipe

import (
	"io"
	"sync/atomic"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/BrokenSource/TurboPipe/api"
	"github.com/BrokenSource/TurboPipe/control"
	"github.com/BrokenSource/TurboPipe/internal/concurrency"
	"github.com/BrokenSource/TurboPipe/internal/stream"
	"github.com/BrokenSource/TurboPipe/pool"
	"github.com/BrokenSource/TurboPipe/sink"
)

// Engine is the buffer-dispatch engine. Construct with New; the zero value
// is not usable.
type Engine struct {
	cfg     *control.Config
	log     zerolog.Logger
	metrics *control.Metrics
	probes  *control.Probes

	table   *sink.Table
	frames  *pool.FramePool
	pending *concurrency.PendingSet
	queue   *concurrency.WorkQueue[concurrency.Work]
	readers *concurrency.ReaderPool
	streams *stream.Registry

	submitted   atomic.Int64
	written     atomic.Int64
	bytesOut    atomic.Int64
	writeErrors atomic.Int64

	closed atomic.Bool
}

// New builds an engine and starts its reader pool. A nil cfg reads the
// environment (TURBOPIPE_READ_THREADS and friends); the configuration is
// fixed for the engine's lifetime.
func New(cfg *control.Config) *Engine {
	if cfg == nil {
		cfg = control.FromEnv()
	}
	cfg.Normalize()

	e := &Engine{
		cfg:     cfg,
		log:     cfg.Logger(),
		probes:  control.NewProbes(),
		table:   sink.NewTable(),
		frames:  pool.NewFramePool(),
		pending: concurrency.NewPendingSet(),
		queue:   concurrency.NewWorkQueue[concurrency.Work](),
	}

	e.streams = stream.NewRegistry(e.table, e.log)
	e.streams.Recycle = e.frames.Put
	e.streams.OnWrite = func(n int) {
		e.written.Add(1)
		e.bytesOut.Add(int64(n))
		e.metrics.ObserveWrite(n)
	}
	e.streams.OnError = func(dest api.Handle, err error) {
		e.writeErrors.Add(1)
		e.metrics.ObserveWriteError()
		if cfg.OnWriteError != nil {
			cfg.OnWriteError(dest, err)
		}
	}

	e.readers = concurrency.NewReaderPool(e.queue, e.pending, e.frames, e.streams.Offer)
	e.readers.OnCopied = func(n int) { e.metrics.ObserveCopy(n) }
	e.readers.OnDropped = func() { e.metrics.ObserveDrop() }

	if cfg.Metrics {
		e.metrics = control.NewMetrics(
			func() float64 { return float64(e.pending.Len()) },
			func() float64 { return float64(e.streams.Count()) },
		)
	}

	e.probes.Register("frame_pool", func() any { return e.frames.Stats() })
	e.probes.Register("pending_buffers", func() any { return e.pending.Len() })
	e.probes.Register("active_writers", func() any { return e.streams.Count() })
	e.probes.Register("work_queue_depth", func() any { return e.queue.Len() })
	e.probes.Register("writer_counters", func() any {
		written, bytesOut, errs := e.streams.Stats()
		return map[string]int64{
			"frames_written": written,
			"bytes_written":  bytesOut,
			"write_errors":   errs,
		}
	})

	e.readers.Start(cfg.ReadThreads)
	e.log.Debug().Int("read_threads", cfg.ReadThreads).Msg("engine started")
	return e
}

// Submit copies data out asynchronously and delivers it to dest. The region
// is borrowed: it must stay valid and unmodified until its copy completes,
// observable via Sync or SyncBuffer. Submit never blocks on queue capacity,
// only while a prior submission of the same buffer is still being copied.
func (e *Engine) Submit(data []byte, dest api.Handle) {
	if e.closed.Load() {
		return
	}
	if len(data) == 0 {
		// Nothing to track: deliver an empty frame straight away.
		e.streams.Ensure(dest)
		e.submitted.Add(1)
		e.queue.Push(concurrency.Work{Dest: dest})
		return
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	e.streams.Ensure(dest)
	// Blocks while a prior copy of the same address is in flight.
	e.pending.Acquire(addr, dest)
	e.submitted.Add(1)
	if !e.queue.Push(concurrency.Work{Addr: addr, Size: len(data), Dest: dest, Data: data}) {
		// Lost the race against Shutdown; do not strand the barrier.
		e.pending.Release(addr)
	}
}

// SubmitPointer is Submit for callers holding a raw address instead of a
// slice. The region starting at addr must stay valid and unmodified for n
// bytes until the copy completes; violating this is undefined behavior.
func (e *Engine) SubmitPointer(addr uintptr, n int, dest api.Handle) {
	if e.closed.Load() || addr == 0 || n <= 0 {
		return
	}
	e.streams.Ensure(dest)
	// Blocks while a prior copy of the same address is in flight.
	e.pending.Acquire(addr, dest)
	e.submitted.Add(1)
	if !e.queue.Push(concurrency.Work{Addr: addr, Size: n, Dest: dest}) {
		e.pending.Release(addr)
	}
}

// Sync blocks until every submitted buffer has been copied out. After Sync
// returns the caller may reuse or free any buffer it submitted before the
// call. Sync says nothing about bytes reaching their destination.
func (e *Engine) Sync() {
	e.pending.WaitEmpty()
}

// SyncBuffer blocks until the given buffer's copy has completed, leaving
// other in-flight submissions alone.
func (e *Engine) SyncBuffer(data []byte) {
	if len(data) == 0 {
		return
	}
	e.pending.WaitAddr(uintptr(unsafe.Pointer(unsafe.SliceData(data))))
}

// Close tears down the engine-side resources of one destination: it waits
// for outstanding copies to that destination, closes the writer's inbox and
// waits for the writer to drain and exit. Every frame submitted before the
// call has been handed to a write call when Close returns. The underlying
// OS resource stays open. Submitting to dest afterwards recreates the
// writer.
func (e *Engine) Close(dest api.Handle) {
	e.pending.WaitDest(dest)
	if err := e.streams.Close(dest); err == nil {
		e.log.Debug().Int64("dest", int64(dest)).Msg("destination closed")
	}
}

// Shutdown drains all pending work, closes every destination and stops the
// reader pool. The engine accepts no submissions afterwards.
func (e *Engine) Shutdown() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.Sync()
	e.streams.CloseAll()
	e.queue.Close()
	e.readers.Wait()
	e.log.Debug().Msg("engine stopped")
}

// Register allocates a destination handle backed by w, for endpoints that
// are not raw file descriptors (in-memory sinks, network writers). The
// writer is borrowed and never closed by the engine.
func (e *Engine) Register(w io.Writer) api.Handle {
	return e.table.Register(w)
}

// Unregister drops a handle previously returned by Register. Call Close
// first if the destination has a live writer.
func (e *Engine) Unregister(h api.Handle) {
	e.table.Unregister(h)
}

// ActiveWriters returns the number of destinations with a live writer.
func (e *Engine) ActiveWriters() int {
	return e.streams.Count()
}

// Stats returns a snapshot of engine counters.
func (e *Engine) Stats() api.EngineStats {
	copied, copiedBytes, dropped := e.readers.Stats()
	return api.EngineStats{
		Submitted:      e.submitted.Load(),
		FramesCopied:   copied,
		BytesCopied:    copiedBytes,
		FramesWritten:  e.written.Load(),
		BytesWritten:   e.bytesOut.Load(),
		FramesDropped:  dropped,
		WriteErrors:    e.writeErrors.Load(),
		PendingBuffers: int64(e.pending.Len()),
		ActiveWriters:  int64(e.streams.Count()),
	}
}

// MetricsRegistry exposes the engine's prometheus registry, nil when
// metrics are disabled.
func (e *Engine) MetricsRegistry() *prometheus.Registry {
	return e.metrics.Registry()
}

// DumpState evaluates the engine's debug probes.
func (e *Engine) DumpState() map[string]any {
	return e.probes.Dump()
}
