// File: pool/framepool.go
// Package pool implements size-classed recycling of frame buffers.
// License: MIT
//
// Every submission copies the caller's region into an engine-owned frame
// that lives only until its write call returns, so frame buffers churn at
// the submission rate. The pool keeps one free list per power-of-two size
// class to absorb that churn; requests above the largest class fall back
// to plain allocation.

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/BrokenSource/TurboPipe/api"
)

const (
	minClassBits = 8  // 256 B
	maxClassBits = 22 // 4 MiB
	numClasses   = maxClassBits - minClassBits + 1
)

// FramePool hands out byte buffers for copy-out frames.
type FramePool struct {
	classes [numClasses]sync.Pool

	totalAlloc atomic.Int64
	totalReuse atomic.Int64
	totalFree  atomic.Int64
	oversize   atomic.Int64
}

// NewFramePool creates an empty pool.
func NewFramePool() *FramePool {
	return &FramePool{}
}

// classIndex returns the smallest class holding n bytes, or -1 when n
// exceeds the largest class.
func classIndex(n int) int {
	size := 1 << minClassBits
	for i := 0; i < numClasses; i++ {
		if n <= size {
			return i
		}
		size <<= 1
	}
	return -1
}

// Get returns a buffer of length n. The buffer's capacity is the class
// size, so Put can route it back by capacity.
func (p *FramePool) Get(n int) []byte {
	idx := classIndex(n)
	if idx < 0 {
		p.oversize.Add(1)
		p.totalAlloc.Add(1)
		return make([]byte, n)
	}
	if v := p.classes[idx].Get(); v != nil {
		p.totalReuse.Add(1)
		return v.(*frame).buf[:n]
	}
	p.totalAlloc.Add(1)
	return make([]byte, 1<<(minClassBits+idx))[:n]
}

// Put returns buf to its size class. Oversize buffers are left to the GC.
func (p *FramePool) Put(buf []byte) {
	c := cap(buf)
	idx := classIndex(c)
	if idx < 0 || c != 1<<(minClassBits+idx) {
		return
	}
	p.totalFree.Add(1)
	p.classes[idx].Put(&frame{buf: buf[:c]})
}

// Stats returns allocation and reuse counters.
func (p *FramePool) Stats() api.FramePoolStats {
	return api.FramePoolStats{
		TotalAlloc: p.totalAlloc.Load(),
		TotalReuse: p.totalReuse.Load(),
		TotalFree:  p.totalFree.Load(),
		Oversize:   p.oversize.Load(),
	}
}

// frame wraps a buffer so sync.Pool stores a pointer-shaped value.
type frame struct {
	buf []byte
}
