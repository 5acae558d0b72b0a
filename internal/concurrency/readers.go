// File: internal/concurrency/readers.go
// Package concurrency provides the queueing and synchronization primitives
// of the dispatch engine.
// License: MIT
//
// ReaderPool is the fixed-size copy-out stage: each worker pops work items
// from the shared queue, copies the borrowed source region into an owned
// frame, hands the frame to the destination's writer, then clears the
// pending entry. The handoff happens before the pending entry clears so the
// Close barrier (pending drained implies frames delivered) holds.

package concurrency

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/BrokenSource/TurboPipe/api"
)

// Work describes one copy-out job: a borrowed source region and the
// destination its bytes go to. Addr zero marks an empty submission with no
// pending-registry entry. Data, when set, pins the region for the garbage
// collector; raw-pointer submissions leave it nil and the caller vouches
// for the region's lifetime.
type Work struct {
	Addr uintptr
	Size int
	Dest api.Handle
	Data []byte
}

// FrameAllocator hands out and recycles frame buffers.
type FrameAllocator interface {
	Get(n int) []byte
	Put(buf []byte)
}

// DeliverFunc hands a copied frame to its destination's writer. It returns
// false when the destination has no writer anymore; the frame is then
// discarded without error, per the engine contract.
type DeliverFunc func(dest api.Handle, frame []byte) bool

// ReaderPool runs a fixed number of copy workers over a shared work queue.
// The size is fixed for the pool's lifetime.
type ReaderPool struct {
	queue   *WorkQueue[Work]
	pending *PendingSet
	frames  FrameAllocator
	deliver DeliverFunc
	wg      sync.WaitGroup

	// statistics
	copied      atomic.Int64
	bytesCopied atomic.Int64
	dropped     atomic.Int64

	// OnCopied, if set, observes every completed copy. Used by the engine
	// to feed metrics without coupling this package to a collector.
	OnCopied func(bytes int)
	// OnDropped observes frames discarded because their destination closed.
	OnDropped func()
}

// NewReaderPool creates the pool without starting it.
func NewReaderPool(q *WorkQueue[Work], pending *PendingSet, frames FrameAllocator, deliver DeliverFunc) *ReaderPool {
	return &ReaderPool{
		queue:   q,
		pending: pending,
		frames:  frames,
		deliver: deliver,
	}
}

// Start spawns n workers. n must be at least 1.
func (p *ReaderPool) Start(n int) {
	if n < 1 {
		n = 1
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.run()
	}
}

// Wait blocks until every worker has exited. Workers exit when the shared
// queue is closed and drained.
func (p *ReaderPool) Wait() {
	p.wg.Wait()
}

// Stats returns copy-stage counters.
func (p *ReaderPool) Stats() (copied, bytes, dropped int64) {
	return p.copied.Load(), p.bytesCopied.Load(), p.dropped.Load()
}

// regionAt reconstructs a raw-address source region. Only pointer-only
// submissions reach this conversion: the caller vouches that the region
// stays valid and unmodified until the copy completes, so the uintptr
// round-trip is the documented boundary contract, not a stray pointer.
func regionAt(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}

// run is the main loop of one copy worker.
func (p *ReaderPool) run() {
	defer p.wg.Done()
	for {
		w, ok := p.queue.Pop()
		if !ok {
			return
		}
		frame := p.frames.Get(w.Size)
		if w.Size > 0 {
			src := w.Data
			if src == nil {
				src = regionAt(w.Addr, w.Size)
			}
			copy(frame, src)
		}
		p.copied.Add(1)
		p.bytesCopied.Add(int64(w.Size))
		if p.OnCopied != nil {
			p.OnCopied(w.Size)
		}
		if !p.deliver(w.Dest, frame) {
			// Destination closed between submit and delivery.
			p.frames.Put(frame)
			p.dropped.Add(1)
			if p.OnDropped != nil {
				p.OnDropped()
			}
		}
		if w.Addr != 0 {
			p.pending.Release(w.Addr)
		}
	}
}
