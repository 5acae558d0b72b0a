// File: sink/memory.go
// Package sink resolves destination handles to writable endpoints.
// License: MIT

package sink

import (
	"bytes"
	"sync"
)

// Memory is an in-memory destination capturing everything written to it.
// Safe for concurrent writers, though the engine serializes writes per
// destination anyway.
type Memory struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewMemory creates an empty capture sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Write implements api.Sink.
func (m *Memory) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.Write(p)
}

// Bytes returns a copy of everything written so far.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, m.buf.Len())
	copy(out, m.buf.Bytes())
	return out
}

// Len returns the number of captured bytes.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.Len()
}

// Reset discards captured bytes.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.buf.Reset()
	m.mu.Unlock()
}
