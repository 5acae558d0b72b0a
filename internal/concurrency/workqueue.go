// File: internal/concurrency/workqueue.go
// Package concurrency provides the queueing and synchronization primitives
// of the dispatch engine.
// License: MIT
//
// WorkQueue is an unbounded multi-producer/multi-consumer FIFO. Push never
// blocks on capacity; Pop parks the caller on a condition variable until an
// item arrives or the queue closes. The backing store is eapache/queue's
// amortized O(1) ring deque.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

// WorkQueue is an unbounded FIFO safe for any number of producers and
// consumers.
type WorkQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *queue.Queue
	closed bool
}

// NewWorkQueue creates an empty open queue.
func NewWorkQueue[T any]() *WorkQueue[T] {
	q := &WorkQueue[T]{items: queue.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues v and wakes one waiting consumer. Pushing onto a closed
// queue is a silent discard; the return value reports acceptance.
func (q *WorkQueue[T]) Push(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items.Add(v)
	q.mu.Unlock()
	q.cond.Signal()
	return true
}

// Pop blocks until an item is available or the queue is closed and drained.
// ok is false only on closed-and-drained.
func (q *WorkQueue[T]) Pop() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Length() == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.items.Length() == 0 {
		return item, false
	}
	return q.items.Remove().(T), true
}

// Close stops accepting new items. Items already queued still drain; once
// empty, every blocked and future Pop returns ok=false.
func (q *WorkQueue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (q *WorkQueue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of queued items.
func (q *WorkQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}
