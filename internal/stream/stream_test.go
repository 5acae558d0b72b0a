// File: internal/stream/stream_test.go
// License: MIT

package stream

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/BrokenSource/TurboPipe/api"
)

// tableResolver is a fixed handle->sink map for tests.
type tableResolver struct {
	mu    sync.Mutex
	sinks map[api.Handle]api.Sink
}

func (r *tableResolver) Resolve(h api.Handle) (api.Sink, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sk, ok := r.sinks[h]
	return sk, ok
}

// memSink is a minimal capture sink.
type memSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (m *memSink) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.Write(p)
}

func (m *memSink) bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.buf.Bytes()...)
}

func newTestRegistry(sinks map[api.Handle]api.Sink) *Registry {
	return NewRegistry(&tableResolver{sinks: sinks}, zerolog.Nop())
}

// TestRegistry_EnsureIdempotent tests one writer per handle.
func TestRegistry_EnsureIdempotent(t *testing.T) {
	mem := &memSink{}
	r := newTestRegistry(map[api.Handle]api.Sink{1: mem})

	w1 := r.Ensure(1)
	w2 := r.Ensure(1)
	if w1 != w2 {
		t.Errorf("Ensure created a second writer for the same handle")
	}
	if r.Count() != 1 {
		t.Errorf("expected 1 writer, got %d", r.Count())
	}
	if err := r.Close(1); err != nil {
		t.Errorf("Close returned %v", err)
	}
}

// TestRegistry_OfferDeliversInOrder tests the drain path end to end.
func TestRegistry_OfferDeliversInOrder(t *testing.T) {
	mem := &memSink{}
	r := newTestRegistry(map[api.Handle]api.Sink{5: mem})
	r.Ensure(5)

	for _, part := range []string{"alpha-", "beta-", "gamma"} {
		if !r.Offer(5, []byte(part)) {
			t.Fatalf("Offer(%q) rejected on live writer", part)
		}
	}
	if err := r.Close(5); err != nil {
		t.Fatalf("Close returned %v", err)
	}
	if got := string(mem.bytes()); got != "alpha-beta-gamma" {
		t.Errorf("expected alpha-beta-gamma, got %q", got)
	}
	if r.Count() != 0 {
		t.Errorf("expected 0 writers after Close, got %d", r.Count())
	}
}

// TestRegistry_OfferUnknownDest tests that frames for closed or unknown
// destinations are refused, leaving ownership with the caller.
func TestRegistry_OfferUnknownDest(t *testing.T) {
	r := newTestRegistry(nil)
	if r.Offer(42, []byte("orphan")) {
		t.Errorf("Offer accepted for a destination with no writer")
	}
	if err := r.Close(42); !errors.Is(err, api.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestWriter_ErrorDropsFrameAndContinues tests that a failing write does
// not stop the writer or poison later frames.
func TestWriter_ErrorDropsFrameAndContinues(t *testing.T) {
	mem := &memSink{}
	calls := 0
	flaky := api.SinkFunc(func(p []byte) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("broken pipe")
		}
		return mem.Write(p)
	})
	r := newTestRegistry(map[api.Handle]api.Sink{2: flaky})

	var errCount int
	var errMu sync.Mutex
	r.OnError = func(dest api.Handle, err error) {
		errMu.Lock()
		errCount++
		errMu.Unlock()
	}

	r.Ensure(2)
	r.Offer(2, []byte("lost"))
	r.Offer(2, []byte("kept"))
	if err := r.Close(2); err != nil {
		t.Fatalf("Close returned %v", err)
	}

	if got := string(mem.bytes()); got != "kept" {
		t.Errorf("expected only the second frame, got %q", got)
	}
	errMu.Lock()
	if errCount != 1 {
		t.Errorf("expected 1 observed write error, got %d", errCount)
	}
	errMu.Unlock()
}

// TestRegistry_CloseAll tests teardown of every writer.
func TestRegistry_CloseAll(t *testing.T) {
	m1, m2 := &memSink{}, &memSink{}
	r := newTestRegistry(map[api.Handle]api.Sink{1: m1, 2: m2})
	r.Ensure(1)
	r.Ensure(2)
	r.Offer(1, []byte("one"))
	r.Offer(2, []byte("two"))
	r.CloseAll()

	if r.Count() != 0 {
		t.Errorf("expected 0 writers after CloseAll, got %d", r.Count())
	}
	if string(m1.bytes()) != "one" || string(m2.bytes()) != "two" {
		t.Errorf("frames lost during CloseAll: %q %q", m1.bytes(), m2.bytes())
	}
}
