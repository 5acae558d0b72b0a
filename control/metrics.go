// File: control/metrics.go
// Package control carries engine configuration and observability plumbing.
// License: MIT
//
// Each engine owns a private prometheus registry so that multiple engines
// in one process never collide on collector registration. A nil *Metrics
// is a valid no-op collector set, which is how disabled metrics avoid
// branching at every call site.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	framesCopied  prometheus.Counter
	bytesCopied   prometheus.Counter
	framesWritten prometheus.Counter
	bytesWritten  prometheus.Counter
	writeErrors   prometheus.Counter
	framesDropped prometheus.Counter
}

// NewMetrics builds and registers the collector set. pending and writers
// report live gauge values when scraped.
func NewMetrics(pending, writers func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesCopied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turbopipe",
			Name:      "frames_copied_total",
			Help:      "Frames copied out of caller memory.",
		}),
		bytesCopied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turbopipe",
			Name:      "bytes_copied_total",
			Help:      "Bytes copied out of caller memory.",
		}),
		framesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turbopipe",
			Name:      "frames_written_total",
			Help:      "Frames delivered to a successful write call.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turbopipe",
			Name:      "bytes_written_total",
			Help:      "Bytes delivered to destinations.",
		}),
		writeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turbopipe",
			Name:      "write_errors_total",
			Help:      "Frames dropped because their write call failed.",
		}),
		framesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turbopipe",
			Name:      "frames_dropped_total",
			Help:      "Frames discarded because their destination closed first.",
		}),
	}
	m.registry.MustRegister(
		m.framesCopied, m.bytesCopied,
		m.framesWritten, m.bytesWritten,
		m.writeErrors, m.framesDropped,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "turbopipe",
			Name:      "pending_buffers",
			Help:      "Addresses currently between submit and copy completion.",
		}, pending),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "turbopipe",
			Name:      "active_writers",
			Help:      "Destinations with a live writer worker.",
		}, writers),
	)
	return m
}

// Registry exposes the engine's collector registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveCopy records one completed copy-out.
func (m *Metrics) ObserveCopy(bytes int) {
	if m == nil {
		return
	}
	m.framesCopied.Inc()
	m.bytesCopied.Add(float64(bytes))
}

// ObserveWrite records one successful write.
func (m *Metrics) ObserveWrite(bytes int) {
	if m == nil {
		return
	}
	m.framesWritten.Inc()
	m.bytesWritten.Add(float64(bytes))
}

// ObserveWriteError records one swallowed write failure.
func (m *Metrics) ObserveWriteError() {
	if m == nil {
		return
	}
	m.writeErrors.Inc()
}

// ObserveDrop records one frame discarded for a closed destination.
func (m *Metrics) ObserveDrop() {
	if m == nil {
		return
	}
	m.framesDropped.Inc()
}
