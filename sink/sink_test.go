// File: sink/sink_test.go
// License: MIT

package sink

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/BrokenSource/TurboPipe/api"
)

// TestMemory_CaptureAndReset tests the in-memory sink.
func TestMemory_CaptureAndReset(t *testing.T) {
	m := NewMemory()
	m.Write([]byte("hello "))
	m.Write([]byte("world"))
	if got := string(m.Bytes()); got != "hello world" {
		t.Errorf("expected hello world, got %q", got)
	}
	if m.Len() != 11 {
		t.Errorf("expected 11 bytes, got %d", m.Len())
	}
	m.Reset()
	if m.Len() != 0 {
		t.Errorf("expected empty sink after Reset, got %d bytes", m.Len())
	}
}

// TestTable_RegisterResolve tests registered-handle resolution.
func TestTable_RegisterResolve(t *testing.T) {
	tb := NewTable()
	var buf bytes.Buffer
	h := tb.Register(&buf)
	if h < api.RegisteredBase {
		t.Fatalf("registered handle %d below RegisteredBase", h)
	}

	sk, ok := tb.Resolve(h)
	if !ok {
		t.Fatal("Resolve failed for a registered handle")
	}
	sk.Write([]byte("via table"))
	if buf.String() != "via table" {
		t.Errorf("expected write to reach the registered writer, got %q", buf.String())
	}

	tb.Unregister(h)
	if _, ok := tb.Resolve(h); ok {
		t.Errorf("Resolve succeeded after Unregister")
	}
}

// TestTable_DistinctHandles tests that registrations never collide.
func TestTable_DistinctHandles(t *testing.T) {
	tb := NewTable()
	h1 := tb.Register(io.Discard)
	h2 := tb.Register(io.Discard)
	if h1 == h2 {
		t.Errorf("two registrations returned the same handle %d", h1)
	}
}

// TestTable_ResolveDescriptor tests that low handles resolve to the fd
// write path and negative handles fail.
func TestTable_ResolveDescriptor(t *testing.T) {
	tb := NewTable()
	if _, ok := tb.Resolve(1); !ok {
		t.Errorf("Resolve rejected a plausible descriptor handle")
	}
	if _, ok := tb.Resolve(-1); ok {
		t.Errorf("Resolve accepted a negative handle")
	}
}

// TestFD_WriteThroughPipe tests the platform write path against a real
// pipe, including frames larger than one chunk.
func TestFD_WriteThroughPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	payload := bytes.Repeat([]byte("0123456789abcdef"), 1024) // 16 KiB, several chunks
	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, len(payload))
		if _, err := io.ReadFull(r, buf); err != nil {
			got <- nil
			return
		}
		got <- buf
	}()

	sk := FD(int(w.Fd()))
	n, err := sk.Write(payload)
	if err != nil {
		t.Fatalf("Write returned %v", err)
	}
	if n != len(payload) {
		t.Errorf("expected %d bytes written, got %d", len(payload), n)
	}
	if out := <-got; !bytes.Equal(out, payload) {
		t.Errorf("pipe content does not match payload")
	}

	// The sink must not have closed the descriptor.
	if _, err := w.Write([]byte("x")); err != nil {
		t.Errorf("descriptor unusable after sink writes: %v", err)
	}
	io.CopyN(io.Discard, r, 1)
}
