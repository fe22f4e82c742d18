package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain/repository.Metrics using Prometheus.
type Recorder struct {
	decisions    *prometheus.CounterVec
	authFailures *prometheus.CounterVec
	failOpen     prometheus.Counter
	storeLatency prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_admission_decisions_total",
				Help: "Total admission decisions by filter and outcome",
			},
			[]string{"filter", "outcome"},
		),
		authFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_auth_failures_total",
				Help: "Total authentication failures by reason",
			},
			[]string{"reason"},
		),
		failOpen: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_ratelimit_fail_open_total",
				Help: "Requests admitted because the rate-limit store was unreachable",
			},
		),
		storeLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gateway_ratelimit_store_duration_seconds",
				Help:    "Rate-limit store round-trip duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordDecision records an admission decision for a filter.
func (r *Recorder) RecordDecision(filter, outcome string) {
	r.decisions.WithLabelValues(filter, outcome).Inc()
}

// RecordAuthFailure records an authentication failure.
func (r *Recorder) RecordAuthFailure(reason string) {
	r.authFailures.WithLabelValues(reason).Inc()
}

// RecordFailOpen records a request admitted on store failure.
func (r *Recorder) RecordFailOpen() {
	r.failOpen.Inc()
}

// RecordStoreLatency records a store round-trip duration in seconds.
func (r *Recorder) RecordStoreLatency(seconds float64) {
	r.storeLatency.Observe(seconds)
}
