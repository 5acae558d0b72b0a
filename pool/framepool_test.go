// File: pool/framepool_test.go
// License: MIT

package pool

import (
	"testing"
)

// TestFramePool_GetLength tests that Get returns exactly n usable bytes.
func TestFramePool_GetLength(t *testing.T) {
	p := NewFramePool()
	for _, n := range []int{1, 255, 256, 257, 4096, 1 << 20} {
		buf := p.Get(n)
		if len(buf) != n {
			t.Errorf("Get(%d) returned len %d", n, len(buf))
		}
	}
}

// TestFramePool_ClassCapacity tests rounding up to the size class.
func TestFramePool_ClassCapacity(t *testing.T) {
	p := NewFramePool()
	cases := []struct{ n, wantCap int }{
		{1, 256},
		{256, 256},
		{300, 512},
		{4096, 4096},
		{4097, 8192},
		{1 << 22, 1 << 22},
	}
	for _, c := range cases {
		buf := p.Get(c.n)
		if cap(buf) != c.wantCap {
			t.Errorf("Get(%d): cap %d, want %d", c.n, cap(buf), c.wantCap)
		}
	}
}

// TestFramePool_Oversize tests the fallback above the largest class.
func TestFramePool_Oversize(t *testing.T) {
	p := NewFramePool()
	n := (1 << 22) + 1
	buf := p.Get(n)
	if len(buf) != n {
		t.Fatalf("oversize Get(%d) returned len %d", n, len(buf))
	}
	// Returning it must not panic and must not be retained.
	p.Put(buf)
	if s := p.Stats(); s.Oversize != 1 {
		t.Errorf("expected 1 oversize allocation, got %d", s.Oversize)
	}
}

// TestFramePool_Accounting tests the alloc/free counters.
func TestFramePool_Accounting(t *testing.T) {
	p := NewFramePool()
	a := p.Get(1000)
	b := p.Get(1000)
	p.Put(a)
	p.Put(b)

	s := p.Stats()
	if s.TotalAlloc != 2 {
		t.Errorf("expected 2 allocations, got %d", s.TotalAlloc)
	}
	if s.TotalFree != 2 {
		t.Errorf("expected 2 frees, got %d", s.TotalFree)
	}

	// A served-from-pool buffer counts as reuse, not allocation. sync.Pool
	// may legally discard entries, so only check the invariant that no
	// extra allocation was miscounted as reuse.
	c := p.Get(1000)
	_ = c
	s = p.Stats()
	if s.TotalAlloc+s.TotalReuse != 3 {
		t.Errorf("expected alloc+reuse == 3, got %d+%d", s.TotalAlloc, s.TotalReuse)
	}
}
