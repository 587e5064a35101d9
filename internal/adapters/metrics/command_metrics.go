package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetricsCollector counts and times mediator requests by type name
type CommandMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewCommandMetricsCollector builds the mediator collector under the current namespace
func NewCommandMetricsCollector() *CommandMetricsCollector {
	labels := []string{"command", "status"}
	return &CommandMetricsCollector{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mediator",
			Name:      "command_duration_seconds",
			Help:      "Command and query handling duration",
			// planning a deep tree against postgres can take seconds
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5, 30},
		}, labels),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mediator",
			Name:      "commands_total",
			Help:      "Commands and queries handled, by outcome",
		}, labels),
	}
}

// Register adds the mediator metrics to the global registry
func (c *CommandMetricsCollector) Register() error {
	return register(c.duration, c.total)
}

// RecordCommandExecution records one handled request
func (c *CommandMetricsCollector) RecordCommandExecution(commandName string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.duration.WithLabelValues(commandName, status).Observe(duration)
	c.total.WithLabelValues(commandName, status).Inc()
}
