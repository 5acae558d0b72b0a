// File: doc.go
// License: MIT

// Package turbopipe is an asynchronous buffer-dispatch engine: it copies
// caller-owned buffers out on a fixed worker pool and streams them to
// per-destination writer workers, so producers never wait on slow write
// syscalls.
//
// The typical producer loop renders into a scratch buffer, pipes it, and
// syncs before reusing the buffer:
//
//	eng := turbopipe.New(nil)
//	defer eng.Shutdown()
//
//	dest := api.Handle(file.Fd())
//	for frame := range frames {
//		eng.Submit(frame, dest)
//		eng.Sync() // frame is reusable from here
//	}
//	eng.Close(dest) // all frames handed to write(2); file stays open
//
// Submissions to one destination are written in the order the writer
// receives them; with several copy workers in flight that is copy-completion
// order, not submission order. Producers needing strict ordering submit and
// sync one buffer at a time, as above.
//
// Write failures are swallowed by design: the frame is dropped and the
// writer moves on. They are observable through Config.OnWriteError and the
// engine's metrics, but never surfaced to Submit.
package turbopipe
