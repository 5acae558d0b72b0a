// File: sink/fd_windows.go
// Package sink resolves destination handles to writable endpoints.
// License: MIT
//
// Windows fd write path: one unchunked WriteFile per frame.

//go:build windows

package sink

import (
	"syscall"

	"github.com/BrokenSource/TurboPipe/api"
)

// FD wraps a raw OS handle as a Sink. The handle is borrowed and never
// closed.
func FD(fd int) api.Sink {
	return fdSink(fd)
}

type fdSink int

func (s fdSink) Write(p []byte) (int, error) {
	var done uint32
	err := syscall.WriteFile(syscall.Handle(s), p, &done, nil)
	return int(done), err
}
