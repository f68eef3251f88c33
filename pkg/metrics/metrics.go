package metricsx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "assistant",
			Name:      "queries_total",
			Help:      "Total number of handled queries",
		},
		[]string{"action", "status"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shop",
			Subsystem: "assistant",
			Name:      "query_duration_seconds",
			Help:      "Query handling duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"action"},
	)

	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "assistant",
			Name:      "tool_calls_total",
			Help:      "Total number of catalog and calculator calls",
		},
		[]string{"tool", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	CatalogOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "catalog",
			Name:      "operations_total",
			Help:      "Total catalog operations served",
		},
		[]string{"operation", "status"},
	)
)

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// RecordQuery records a handled query
func RecordQuery(action string, ok bool, durationSec float64) {
	QueriesTotal.WithLabelValues(action, status(ok)).Inc()
	QueryDuration.WithLabelValues(action).Observe(durationSec)
}

// RecordToolCall records one traced tool invocation
func RecordToolCall(tool string, ok bool) {
	ToolCallsTotal.WithLabelValues(tool, status(ok)).Inc()
}

// RecordRequest records an HTTP request
func RecordRequest(method, path, statusCode string, durationSec float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSec)
}

// RecordCatalogOperation records an operation served by the catalog collaborator
func RecordCatalogOperation(operation string, ok bool) {
	CatalogOperationsTotal.WithLabelValues(operation, status(ok)).Inc()
}
