// File: sink/fd_unix.go
// Package sink resolves destination handles to writable endpoints.
// License: MIT
//
// Unix fd write path. Writes go out in page-sized chunks; a short write
// advances by what the kernel took, a write error ends the attempt with
// whatever was already written.

//go:build unix

package sink

import (
	"golang.org/x/sys/unix"

	"github.com/BrokenSource/TurboPipe/api"
)

const writeChunk = 4096

// FD wraps a raw file descriptor as a Sink. The descriptor is borrowed and
// never closed.
func FD(fd int) api.Sink {
	return fdSink(fd)
}

type fdSink int

func (s fdSink) Write(p []byte) (int, error) {
	fd := int(s)
	tell := 0
	for tell < len(p) {
		chunk := len(p) - tell
		if chunk > writeChunk {
			chunk = writeChunk
		}
		n, err := unix.Write(fd, p[tell:tell+chunk])
		if err != nil {
			return tell, err
		}
		tell += n
	}
	return tell, nil
}
