package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetricsCollector records ESI traffic. A status code of 0 marks a transport failure.
type APIMetricsCollector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	retries      *prometheus.CounterVec
	limiterWaits *prometheus.HistogramVec
}

// NewAPIMetricsCollector builds the ESI collector under the current namespace
func NewAPIMetricsCollector() *APIMetricsCollector {
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: namespace, Subsystem: "esi", Name: name, Help: help}
	}
	return &APIMetricsCollector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("api_requests_total", "ESI responses by endpoint and status code")),
			[]string{"method", "endpoint", "status_code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "esi",
				Name:      "api_request_duration_seconds",
				Help:      "ESI request latency including failed attempts",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
			},
			[]string{"method", "endpoint"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("api_retries_total", "ESI retries by reason (network, rate_limited, server_error)")),
			[]string{"method", "endpoint", "reason"},
		),
		limiterWaits: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "esi",
				Name:      "api_rate_limit_wait_seconds",
				Help:      "Time spent blocked on the client-side rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "endpoint"},
		),
	}
}

// Register adds the ESI metrics to the global registry
func (c *APIMetricsCollector) Register() error {
	return register(c.requests, c.latency, c.retries, c.limiterWaits)
}

func (c *APIMetricsCollector) RecordAPIRequest(method, endpoint string, statusCode int, duration float64) {
	c.requests.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(method, endpoint).Observe(duration)
}

func (c *APIMetricsCollector) RecordAPIRetry(method, endpoint, reason string) {
	c.retries.WithLabelValues(method, endpoint, reason).Inc()
}

func (c *APIMetricsCollector) RecordRateLimitWait(method, endpoint string, duration float64) {
	c.limiterWaits.WithLabelValues(method, endpoint).Observe(duration)
}
