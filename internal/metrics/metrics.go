// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the seeding pipeline.
//
// The package is intentionally minimal and opinionated:
//
//   - It exposes a narrow interface (Backend) focused on counters and
//     duration observations.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured (the common case for a one-shot seeding run).
//   - It mirrors the storage abstraction pattern: the pipeline depends only
//     on this interface while concrete metric systems (Prometheus Pushgateway,
//     Datadog) stay isolated in subpackages.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value in seconds.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend needs it (Pushgateway
	// has no scrape endpoint to poll a short-lived process).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage measures one pipeline stage: latency plus success/failure.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status,
	}

	backend.IncCounter("seed_stage_total", 1, lbls)
	backend.ObserveDuration("seed_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordRows counts rows written to a destination table.
func RecordRows(job, table string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("seed_rows_total", float64(delta), Labels{
		"job":   job,
		"table": table,
	})
}
