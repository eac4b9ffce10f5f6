// Package metrics provides Prometheus metrics for the fingerprinting engine:
// how many fields were fingerprinted, how many rows were folded, and how
// long fingerprint passes take. The core fold path records nothing itself;
// the pipeline driver observes these around each pass.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FieldsFingerprinted counts finalized per-field fingerprints.
	// Labels: pipeline (the type category that handled the field).
	FieldsFingerprinted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_fields_fingerprinted_total",
			Help: "Total number of field fingerprints produced",
		},
		[]string{"pipeline"},
	)

	// RowsFolded counts rows consumed by fingerprint passes.
	RowsFolded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prism_rows_folded_total",
			Help: "Total number of rows folded into fingerprints",
		},
	)

	// FingerprintDuration tracks the wall time of one shared fingerprint
	// pass over a dataset.
	FingerprintDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prism_fingerprint_duration_seconds",
			Help:    "Duration of fingerprint passes",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	// Comparisons counts fingerprint distance computations.
	// Labels: status (ok/error).
	Comparisons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_comparisons_total",
			Help: "Total number of fingerprint comparisons",
		},
		[]string{"status"},
	)
)

// Timer measures one operation's duration.
type Timer struct {
	start time.Time
}

// NewTimer starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveFingerprint stops the timer and records the duration in
// FingerprintDuration, returning the elapsed time.
func (t *Timer) ObserveFingerprint() time.Duration {
	d := time.Since(t.start)
	FingerprintDuration.Observe(d.Seconds())
	return d
}
