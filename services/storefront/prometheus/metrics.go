package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the storefront client collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	CatalogRequestsCounter *prometheus.CounterVec
	CatalogRequestDuration *prometheus.HistogramVec
	SubmissionsCounter     *prometheus.CounterVec
	AuthAttemptsCounter    *prometheus.CounterVec
}

// NewMetrics registers the storefront metrics with the given prefix
func NewMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CatalogRequestsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_catalog_requests_total",
				Help: "Total number of catalog API calls by outcome",
			},
			[]string{"operation", "outcome"},
		),
		CatalogRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_catalog_request_duration_seconds",
				Help:    "Duration of catalog API calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "outcome"},
		),
		SubmissionsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_submissions_total",
				Help: "Total number of product form submissions by outcome",
			},
			[]string{"outcome"},
		),
		AuthAttemptsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of identity calls by outcome",
			},
			[]string{"operation", "outcome"},
		),
	}
}

// ObserveCatalogRequest records one catalog call started at startTime
func (m *Metrics) ObserveCatalogRequest(operation, outcome string, startTime time.Time) {
	if m == nil {
		return
	}
	m.CatalogRequestsCounter.WithLabelValues(operation, outcome).Inc()
	m.CatalogRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(startTime).Seconds())
}

// RecordSubmission counts a product form submission
func (m *Metrics) RecordSubmission(outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsCounter.WithLabelValues(outcome).Inc()
}

// RecordAuthAttempt counts a register or sign-in call
func (m *Metrics) RecordAuthAttempt(operation, outcome string) {
	if m == nil {
		return
	}
	m.AuthAttemptsCounter.WithLabelValues(operation, outcome).Inc()
}
