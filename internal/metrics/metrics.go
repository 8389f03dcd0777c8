// Package metrics exposes Prometheus collectors for the detection service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voicedetect"

var (
	// requestsTotal counts handled requests by endpoint and outcome class.
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of handled requests",
		},
		[]string{"endpoint", "status"}, // status: ok, client_error, server_error
	)

	// requestDuration is a histogram of request handling duration.
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Histogram of request handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// detectionsTotal counts classifications by label.
	detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_total",
			Help:      "Total number of classifications by label",
		},
		[]string{"label"},
	)

	// audioDuration is a histogram of analyzed clip length.
	audioDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "audio_duration_seconds",
			Help:      "Histogram of analyzed clip duration in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// allMetrics is a list of all metrics for registration.
	allMetrics = []prometheus.Collector{
		requestsTotal,
		requestDuration,
		detectionsTotal,
		audioDuration,
	}
)

// Registry returns a private registry holding the service collectors plus
// Go runtime and process collectors.
func Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()

	for _, collector := range allMetrics {
		reg.MustRegister(collector)
	}
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return reg
}

// Handler serves a registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// RecordRequest records one handled request.
func RecordRequest(endpoint, status string, durationSeconds float64) {
	requestsTotal.WithLabelValues(endpoint, status).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordDetection records one classification outcome.
func RecordDetection(label string, clipSeconds float64) {
	detectionsTotal.WithLabelValues(label).Inc()
	audioDuration.Observe(clipSeconds)
}
