// File: api/errors.go
// Package api defines the public types and contracts of the TurboPipe engine.
// License: MIT

package api

import "fmt"

// Common errors used across the engine.
var (
	ErrEngineClosed    = fmt.Errorf("engine is closed")
	ErrNotFound        = fmt.Errorf("destination not found")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
