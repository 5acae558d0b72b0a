// File: default.go
// Package turbopipe decouples a producer's buffer lifetime from the latency
// of writing that buffer to a file or pipe.
// License: MIT
//
// Package-level convenience API over a process-wide engine, configured from
// the environment on first use. Callers wanting explicit construction and
// teardown boundaries use New directly.

package turbopipe

import (
	"sync"

	"github.com/BrokenSource/TurboPipe/api"
)

var (
	defaultMu     sync.Mutex
	defaultEngine *Engine
)

// Default returns the process-wide engine, creating it from the environment
// on first use.
func Default() *Engine {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEngine == nil {
		defaultEngine = New(nil)
	}
	return defaultEngine
}

// Pipe submits data for asynchronous delivery to dest on the default
// engine. The buffer must stay untouched until Sync returns.
func Pipe(data []byte, dest api.Handle) {
	Default().Submit(data, dest)
}

// Sync waits until every buffer piped so far is safe to reuse or free.
func Sync() {
	Default().Sync()
}

// Close tears down the default engine's writer for one destination.
func Close(dest api.Handle) {
	Default().Close(dest)
}

// Shutdown stops the default engine. A later Pipe creates a fresh one.
func Shutdown() {
	defaultMu.Lock()
	e := defaultEngine
	defaultEngine = nil
	defaultMu.Unlock()
	if e != nil {
		e.Shutdown()
	}
}
