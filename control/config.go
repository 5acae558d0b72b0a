// File: control/config.go
// Package control carries engine configuration and observability plumbing.
// License: MIT
//
// Configuration is read once, at engine construction, and is immutable for
// the engine's lifetime. Sources, in increasing precedence: defaults, a
// TOML file named by TURBOPIPE_CONFIG, individual environment variables.

package control

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/BrokenSource/TurboPipe/api"
)

// Environment variables honored by FromEnv.
const (
	EnvReadThreads = "TURBOPIPE_READ_THREADS"
	EnvMetrics     = "TURBOPIPE_METRICS"
	EnvLogLevel    = "TURBOPIPE_LOG"
	EnvConfigFile  = "TURBOPIPE_CONFIG"
)

// DefaultReadThreads is the copy-worker count when nothing configures it.
const DefaultReadThreads = 4

// Config fixes engine parameters for the lifetime of one Engine.
type Config struct {
	// ReadThreads is the size of the copy-out worker pool.
	ReadThreads int `toml:"read_threads"`
	// Metrics enables the prometheus collectors.
	Metrics bool `toml:"metrics"`
	// LogLevel enables logging when non-empty ("debug", "info", "warn", ...).
	LogLevel string `toml:"log_level"`

	// OnWriteError, if set, observes write failures the engine would
	// otherwise swallow. The delivery contract is unchanged: the frame is
	// dropped either way.
	OnWriteError func(dest api.Handle, err error) `toml:"-"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		ReadThreads: DefaultReadThreads,
	}
}

// FromEnv builds a Config from defaults, an optional TOML file named by
// TURBOPIPE_CONFIG, and the TURBOPIPE_* variables.
func FromEnv() *Config {
	cfg := DefaultConfig()
	if path := os.Getenv(EnvConfigFile); path != "" {
		// A broken config file falls back to defaults rather than failing
		// first use of the engine.
		_ = cfg.LoadFile(path)
	}
	if v := os.Getenv(EnvReadThreads); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReadThreads = n
		}
	}
	if v := os.Getenv(EnvMetrics); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics = b
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

// LoadFile merges a TOML file into c. Keys absent from the file keep their
// current values.
func (c *Config) LoadFile(path string) error {
	_, err := toml.DecodeFile(path, c)
	return err
}

// Logger builds the engine logger. Logging is off unless LogLevel is set.
func (c *Config) Logger() zerolog.Logger {
	if c.LogLevel == "" {
		return zerolog.Nop()
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", "turbopipe").Logger().Level(level)
}

// Normalize clamps invalid values back to defaults.
func (c *Config) Normalize() {
	if c.ReadThreads < 1 {
		c.ReadThreads = DefaultReadThreads
	}
}
