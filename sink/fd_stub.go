// File: sink/fd_stub.go
// Package sink resolves destination handles to writable endpoints.
// License: MIT
//
// Fallback for platforms without a raw descriptor write path. Registered
// io.Writer destinations still work everywhere.

//go:build !unix && !windows

package sink

import (
	"fmt"

	"github.com/BrokenSource/TurboPipe/api"
)

// FD wraps a raw descriptor on platforms with no syscall write path.
// Every write fails; use Register with an io.Writer instead.
func FD(fd int) api.Sink {
	return fdSink(fd)
}

type fdSink int

func (s fdSink) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("raw descriptor writes not supported on this platform")
}
