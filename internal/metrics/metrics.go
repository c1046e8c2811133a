package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safespace_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safespace_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ChatResponsesTotal counts chat envelopes by outcome: "ok" or the error code.
	ChatResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safespace_chat_responses_total",
			Help: "Total number of chat responses by outcome code.",
		},
		[]string{"code"},
	)

	CompletionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safespace_completion_duration_seconds",
			Help:    "Completion API call duration in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 12, 18, 30},
		},
		[]string{"purpose"},
	)

	// ExtractionsTotal outcomes: updated, empty, failed, dropped, skipped.
	ExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safespace_extractions_total",
			Help: "Total number of background continuity extractions by outcome.",
		},
		[]string{"outcome"},
	)

	ExtractionQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "safespace_extraction_queue_depth",
			Help: "Number of extraction jobs waiting in the in-process queue.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ChatResponsesTotal,
		CompletionDuration,
		ExtractionsTotal,
		ExtractionQueueDepth,
	)
}
