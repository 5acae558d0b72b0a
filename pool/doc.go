// File: pool/doc.go
// License: MIT

// Package pool provides the size-classed buffer pool backing frame
// allocation in the copy-out stage.
package pool
