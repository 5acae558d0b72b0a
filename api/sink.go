// File: api/sink.go
// Package api defines the public types and contracts of the TurboPipe engine.
// License: MIT
//
// Destinations are opaque handles over writable OS endpoints. The engine
// writes to them but never closes them; the underlying resource lifecycle
// stays with the caller.

package api

// Handle identifies an open, writable OS-level endpoint (file, pipe, device).
// Raw file descriptors map directly onto the non-negative handle space below
// RegisteredBase; sinks registered at runtime are allocated handles above it.
type Handle int64

// RegisteredBase is the first handle value used for registered sinks.
// Everything below it is treated as a raw file descriptor.
const RegisteredBase Handle = 1 << 32

// Sink is the write side of a destination. Write must attempt a full write
// of p and report how many bytes were consumed. A Sink must never close the
// resource it wraps on behalf of the engine.
type Sink interface {
	Write(p []byte) (n int, err error)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(p []byte) (int, error)

// Write implements Sink.
func (f SinkFunc) Write(p []byte) (int, error) { return f(p) }

// Resolver maps a destination handle to its Sink. Resolution happens once,
// when the destination's writer is spawned.
type Resolver interface {
	Resolve(h Handle) (Sink, bool)
}
