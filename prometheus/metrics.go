package prometheus

import (
	"time"

	"github.com/refracc/de-store/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Purchase metrics
	PurchasesTotal    prometheus.CounterVec
	OutOfStockCounter prometheus.Counter

	// Inventory metrics
	RestockedProductsCounter prometheus.Counter

	// Loyalty metrics
	LoyaltyEnrollmentsCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Purchase metrics
	PurchasesTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_purchases_total",
			Help: "Total number of purchase attempts by outcome",
		},
		[]string{"outcome"},
	)

	OutOfStockCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_out_of_stock_total",
			Help: "Total number of purchases rejected for lack of stock",
		},
	)

	// Inventory metrics
	RestockedProductsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_restocked_products_total",
			Help: "Total number of products restocked",
		},
	)

	// Loyalty metrics
	LoyaltyEnrollmentsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_loyalty_enrollments_total",
			Help: "Total number of loyalty scheme enrollments",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordPurchase increments the purchase counter for the given outcome
func RecordPurchase(outcome string) {
	PurchasesTotal.WithLabelValues(outcome).Inc()
}
