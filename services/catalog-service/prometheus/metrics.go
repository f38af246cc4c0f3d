package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the catalog business collectors. All methods are nil-safe.
type Metrics struct {
	AuthAttemptsCounter       *prometheus.CounterVec
	AuthErrorsCounter         *prometheus.CounterVec
	DbOperationDuration       *prometheus.HistogramVec
	ProductOperationsCounter  *prometheus.CounterVec
	CategoryOperationsCounter *prometheus.CounterVec
	ProductInventoryGauge     *prometheus.GaugeVec
	ProductViewsCounter       *prometheus.CounterVec
}

// NewMetrics registers the catalog metrics with the given prefix
func NewMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		AuthAttemptsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
			[]string{"operation"},
		),
		AuthErrorsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of authentication errors",
			},
			[]string{"reason"},
		),
		DbOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
		ProductOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_operations_total",
				Help: "Total number of product operations",
			},
			[]string{"operation"},
		),
		CategoryOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_category_operations_total",
				Help: "Total number of category operations",
			},
			[]string{"operation"},
		),
		ProductInventoryGauge: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_inventory",
				Help: "Current inventory level for products",
			},
			[]string{"product_id", "category"},
		),
		ProductViewsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_views_total",
				Help: "Total number of product views",
			},
			[]string{"product_id"},
		),
	}
}

// TrackDBOperation returns a function that records the duration of a database operation
func (m *Metrics) TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if m == nil {
			return
		}
		m.DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordAuthAttempt counts a login or registration attempt
func (m *Metrics) RecordAuthAttempt(operation string) {
	if m == nil {
		return
	}
	m.AuthAttemptsCounter.WithLabelValues(operation).Inc()
}

// RecordAuthError counts a failed authentication by reason
func (m *Metrics) RecordAuthError(reason string) {
	if m == nil {
		return
	}
	m.AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordProductOperation increments the counter for product operations
func (m *Metrics) RecordProductOperation(operation string) {
	if m == nil {
		return
	}
	m.ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCategoryOperation increments the counter for category operations
func (m *Metrics) RecordCategoryOperation(operation string) {
	if m == nil {
		return
	}
	m.CategoryOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateProductInventory updates the gauge for product inventory
func (m *Metrics) UpdateProductInventory(productID, category string, count float64) {
	if m == nil {
		return
	}
	m.ProductInventoryGauge.WithLabelValues(productID, category).Set(count)
}

// DropProductInventory removes the inventory series of a deleted product
func (m *Metrics) DropProductInventory(productID string) {
	if m == nil {
		return
	}
	m.ProductInventoryGauge.DeletePartialMatch(prometheus.Labels{"product_id": productID})
}

// RecordProductView increments the counter for product views
func (m *Metrics) RecordProductView(productID string) {
	if m == nil {
		return
	}
	m.ProductViewsCounter.WithLabelValues(productID).Inc()
}
