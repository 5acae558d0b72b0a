// File: internal/stream/writer.go
// Package stream implements the write stage: one dedicated worker per
// destination draining a private frame inbox.
// License: MIT
//
// A Writer owns the engine-side write path of exactly one destination for
// its lifetime. It preserves the order frames arrive in its inbox, performs
// one best-effort write per frame, and swallows write failures: the frame
// is dropped, counted, and the loop continues. The underlying OS resource
// is never closed here.

package stream

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BrokenSource/TurboPipe/api"
	"github.com/BrokenSource/TurboPipe/internal/concurrency"
)

// Writer drains frames for a single destination.
type Writer struct {
	id    string
	dest  api.Handle
	sink  api.Sink
	inbox *concurrency.WorkQueue[[]byte]
	done  chan struct{}
	log   zerolog.Logger

	recycle func([]byte)
	onWrite func(bytes int)
	onError func(dest api.Handle, err error)

	written      atomic.Int64
	bytesWritten atomic.Int64
	errors       atomic.Int64
}

// newWriter builds a writer; the registry starts its loop.
func newWriter(dest api.Handle, sk api.Sink, log zerolog.Logger) *Writer {
	id := uuid.NewString()[:8]
	return &Writer{
		id:    id,
		dest:  dest,
		sink:  sk,
		inbox: concurrency.NewWorkQueue[[]byte](),
		done:  make(chan struct{}),
		log:   log.With().Str("writer", id).Int64("dest", int64(dest)).Logger(),
	}
}

// offer hands a frame to the inbox. false means the inbox is closed and the
// caller keeps ownership of the frame.
func (w *Writer) offer(frame []byte) bool {
	return w.inbox.Push(frame)
}

// run drains the inbox until it is closed and empty.
func (w *Writer) run() {
	defer close(w.done)
	w.log.Debug().Msg("writer started")
	for {
		frame, ok := w.inbox.Pop()
		if !ok {
			w.log.Debug().
				Int64("frames", w.written.Load()).
				Int64("bytes", w.bytesWritten.Load()).
				Msg("writer exiting")
			return
		}
		n, err := w.sink.Write(frame)
		if err != nil {
			// Best-effort contract: drop the frame and keep going.
			w.errors.Add(1)
			w.log.Debug().Err(err).Int("size", len(frame)).Msg("write failed, frame dropped")
			if w.onError != nil {
				w.onError(w.dest, err)
			}
		} else {
			w.written.Add(1)
			w.bytesWritten.Add(int64(n))
			if w.onWrite != nil {
				w.onWrite(n)
			}
		}
		if w.recycle != nil {
			w.recycle(frame)
		}
	}
}

// stop closes the inbox and blocks until the loop has drained and exited.
func (w *Writer) stop() {
	w.inbox.Close()
	<-w.done
}
