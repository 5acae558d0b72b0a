// File: internal/concurrency/pending.go
// Package concurrency provides the queueing and synchronization primitives
// of the dispatch engine.
// License: MIT
//
// PendingSet tracks which source addresses currently have outstanding
// copy-out work. It exists purely for synchronization: Acquire blocks a
// resubmission of a still-pending address, and the Wait* methods implement
// the Sync/Close barriers. All blocking is condition-variable parking, no
// busy spinning.

package concurrency

import (
	"sync"

	"github.com/BrokenSource/TurboPipe/api"
)

// PendingSet is the registry of addresses between "submitted" and
// "copy completed", scoped by destination for the per-destination barrier.
type PendingSet struct {
	mu    sync.Mutex
	cond  *sync.Cond
	addrs map[uintptr]api.Handle
	dests map[api.Handle]int
}

// NewPendingSet creates an empty registry.
func NewPendingSet() *PendingSet {
	p := &PendingSet{
		addrs: make(map[uintptr]api.Handle),
		dests: make(map[api.Handle]int),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Acquire inserts addr for dest, blocking while a prior entry for the same
// address has not cleared. This guarantees at most one in-flight copy per
// address at a time.
func (p *PendingSet) Acquire(addr uintptr, dest api.Handle) {
	p.mu.Lock()
	for {
		if _, busy := p.addrs[addr]; !busy {
			break
		}
		p.cond.Wait()
	}
	p.addrs[addr] = dest
	p.dests[dest]++
	p.mu.Unlock()
}

// Release clears addr and wakes every waiter. Releasing an absent address
// is a no-op.
func (p *PendingSet) Release(addr uintptr) {
	p.mu.Lock()
	if dest, ok := p.addrs[addr]; ok {
		delete(p.addrs, addr)
		if p.dests[dest]--; p.dests[dest] == 0 {
			delete(p.dests, dest)
		}
	}
	p.mu.Unlock()
	p.cond.Broadcast()
}

// WaitEmpty blocks until no address is pending for any destination.
func (p *PendingSet) WaitEmpty() {
	p.mu.Lock()
	for len(p.addrs) > 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// WaitAddr blocks until addr has no outstanding copy work.
func (p *PendingSet) WaitAddr(addr uintptr) {
	p.mu.Lock()
	for {
		if _, busy := p.addrs[addr]; !busy {
			break
		}
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// WaitDest blocks until dest has no outstanding copy work.
func (p *PendingSet) WaitDest(dest api.Handle) {
	p.mu.Lock()
	for p.dests[dest] > 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Len returns the number of pending addresses.
func (p *PendingSet) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.addrs)
}
