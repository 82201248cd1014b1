package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. Classification of a large document
	// may take tens of seconds, so the tail is long.
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "doctagger_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doctagger_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "path"},
	)

	DocumentsProcessed = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "doctagger_documents_processed_total",
			Help: "Documents processed, labeled by resulting classification",
		},
		[]string{"classification"},
	)

	ProcessingErrors = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "doctagger_processing_errors_total",
			Help: "Documents that failed processing",
		},
	)

	ClassifierLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doctagger_classifier_latency_ms",
			Help:    "External classification API latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"operation"},
	)

	BatchSize = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "doctagger_batch_size",
			Help:    "Number of files per batch upload",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)
)

type MetricsConfig struct {
	EnableLatency bool // Request latency histogram
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency: true,
	}
}

var Config MetricsConfig

// Handler exposes the registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
