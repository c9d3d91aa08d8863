// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A seeding run is a short-lived process, so exposing a scrape endpoint is
// useless; instead the collected registry is pushed to a Pushgateway once at
// the end of the run (metrics.Flush). This package adapts the generic
// metrics.Backend interface to Prometheus by:
//
//   - Using client_golang CounterVec and SummaryVec collectors.
//   - Mapping the pipeline labels (stage, status, table) onto Prometheus
//     labels; the job name becomes the Pushgateway grouping key.
//
// All Prometheus-specific dependencies live here so the rest of the project
// can swap to alternative backends (e.g. Datadog) without changes.
package prompush

import (
	"fmt"

	"seeder/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec // "seed_stage_total"
	stageDuration *prometheus.SummaryVec // "seed_stage_duration_seconds"
	rowCounter    *prometheus.CounterVec // "seed_rows_total"
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName is the Pushgateway "job" name; gatewayURL is the server base URL.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "seeder"
	}

	reg := prometheus.NewRegistry()

	stageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_stage_total",
			Help: "Total number of seeding stage executions, partitioned by stage and status.",
		},
		[]string{"stage", "status"},
	)
	stageDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "seed_stage_duration_seconds",
			Help:       "Duration of seeding stages in seconds, partitioned by stage and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"stage", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_rows_total",
			Help: "Rows written per destination table.",
		},
		[]string{"table"},
	)

	if err := reg.Register(stageCounter); err != nil {
		return nil, fmt.Errorf("prompush: register stage counter: %w", err)
	}
	if err := reg.Register(stageDuration); err != nil {
		return nil, fmt.Errorf("prompush: register stage summary: %w", err)
	}
	if err := reg.Register(rowCounter); err != nil {
		return nil, fmt.Errorf("prompush: register row counter: %w", err)
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stageCounter:  stageCounter,
		stageDuration: stageDuration,
		rowCounter:    rowCounter,
	}, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "seed_stage_total":
		b.stageCounter.WithLabelValues(labels["stage"], labels["status"]).Add(delta)
	case "seed_rows_total":
		b.rowCounter.WithLabelValues(labels["table"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

// ObserveDuration implements metrics.Backend.
func (b *Backend) ObserveDuration(name string, value float64, labels metrics.Labels) {
	if name != "seed_stage_duration_seconds" {
		return
	}
	b.stageDuration.WithLabelValues(labels["stage"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
