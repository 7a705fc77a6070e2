package storage

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring storage facade.
var (
	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of storage facade operations",
			Name:      "storage_operations_total",
			Namespace: "mochishell",
		},
		[]string{"area", "op"},
	)
	parseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of stored values that failed to parse",
			Name:      "storage_parse_failures_total",
			Namespace: "mochishell",
		},
		[]string{"area"},
	)
	serializeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of values that failed to serialize or to be written",
			Name:      "storage_serialize_failures_total",
			Namespace: "mochishell",
		},
		[]string{"area"},
	)
)

func init() {
	prometheus.MustRegister(
		operations,
		parseFailures,
		serializeFailures,
	)
}

func countOperation(area, op string) {
	operations.WithLabelValues(area, op).Inc()
}

func countParseFailure(area string) {
	parseFailures.WithLabelValues(area).Inc()
}

func countSerializeFailure(area string) {
	serializeFailures.WithLabelValues(area).Inc()
}
