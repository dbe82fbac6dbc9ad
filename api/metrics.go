/*
metrics.go - Prometheus instrumentation for the HTTP layer

PURPOSE:
  Counts optimization runs and schedule reviews, and tracks how long an
  optimization takes end to end. Exposed on /metrics via promhttp.

METRICS:
  loan_calculations_total{outcome}     Runs, labelled ok/client_error/error
  loan_calculation_duration_seconds    End-to-end optimization latency
  loan_validations_total{corrected}    Schedule reviews, labelled true/false
*/
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP layer's Prometheus collectors.
type Metrics struct {
	Calculations        *prometheus.CounterVec
	CalculationDuration prometheus.Histogram
	Validations         *prometheus.CounterVec
}

// NewMetrics registers the collectors on the given registerer. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry
// to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_calculations_total",
			Help: "Optimization runs by outcome.",
		}, []string{"outcome"}),
		CalculationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "loan_calculation_duration_seconds",
			Help:    "End-to-end optimization latency.",
			Buckets: prometheus.DefBuckets,
		}),
		Validations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_validations_total",
			Help: "Schedule reviews by whether a correction was issued.",
		}, []string{"corrected"}),
	}
}
