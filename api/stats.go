// File: api/stats.go
// Package api defines the public types and contracts of the TurboPipe engine.
// License: MIT

package api

// EngineStats aggregates dispatch-side counters for observability.
type EngineStats struct {
	Submitted      int64 // work items accepted by Submit
	FramesCopied   int64 // frames copied out of caller memory
	BytesCopied    int64
	FramesWritten  int64 // frames handed to a successful write call
	BytesWritten   int64
	FramesDropped  int64 // frames discarded: destination closed before delivery
	WriteErrors    int64 // frames discarded at the write stage
	PendingBuffers int64 // addresses currently between submit and copy-done
	ActiveWriters  int64 // destinations with a live writer worker
}

// FramePoolStats aggregates frame-buffer allocation and reuse counters.
type FramePoolStats struct {
	TotalAlloc int64 // buffers newly allocated
	TotalReuse int64 // buffers served from the pool
	TotalFree  int64 // buffers returned to the pool
	Oversize   int64 // requests larger than the biggest size class
}
