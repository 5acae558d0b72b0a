// File: sink/sink.go
// Package sink resolves destination handles to writable endpoints.
// License: MIT
//
// Handles below api.RegisteredBase are raw OS file descriptors and resolve
// to the platform fd write path. Handles at or above it are allocated by
// Register and resolve to whatever io.Writer the caller supplied, which is
// how in-memory and test destinations plug into the engine.

package sink

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/BrokenSource/TurboPipe/api"
)

// Table maps handles to sinks. The zero value is not usable; call NewTable.
type Table struct {
	mu    sync.RWMutex
	sinks map[api.Handle]api.Sink
	next  atomic.Int64
}

// NewTable creates a table whose registered handles start at
// api.RegisteredBase.
func NewTable() *Table {
	t := &Table{sinks: make(map[api.Handle]api.Sink)}
	t.next.Store(int64(api.RegisteredBase))
	return t
}

// Register allocates a fresh handle for w. The writer is borrowed: it is
// never closed through the table.
func (t *Table) Register(w io.Writer) api.Handle {
	h := api.Handle(t.next.Add(1) - 1)
	t.mu.Lock()
	t.sinks[h] = writerSink{w}
	t.mu.Unlock()
	return h
}

// Unregister drops a registered handle. Raw descriptor handles are not
// tracked and cannot be unregistered.
func (t *Table) Unregister(h api.Handle) {
	t.mu.Lock()
	delete(t.sinks, h)
	t.mu.Unlock()
}

// Resolve implements api.Resolver.
func (t *Table) Resolve(h api.Handle) (api.Sink, bool) {
	if h < api.RegisteredBase {
		if h < 0 {
			return nil, false
		}
		return FD(int(h)), true
	}
	t.mu.RLock()
	sk, ok := t.sinks[h]
	t.mu.RUnlock()
	return sk, ok
}

// writerSink adapts an io.Writer to api.Sink.
type writerSink struct {
	w io.Writer
}

func (s writerSink) Write(p []byte) (int, error) { return s.w.Write(p) }

var _ api.Resolver = (*Table)(nil)
