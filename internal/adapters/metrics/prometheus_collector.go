package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// namespace prefixes every metric name; set by InitRegistry
	namespace = "industry_planner"

	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalPlannerCollector is the singleton planner metrics collector
	// Set by SetGlobalPlannerCollector() when metrics are enabled
	globalPlannerCollector PlannerMetricsRecorder

	// globalAPICollector is the singleton API metrics collector
	// Set by SetGlobalAPICollector() when metrics are enabled
	globalAPICollector APIMetricsRecorder
)

// PlannerMetricsRecorder defines the interface for recording planner events
// This interface is used by application code to record metrics
type PlannerMetricsRecorder interface {
	RecordExpansion(status string, steps int, duration float64)
	RecordSplitGroups(count int)
	RecordReconciliation(matched int, warnings map[string]int)
	RecordFeedError(feed string)
}

// APIMetricsRecorder defines the interface for recording external API calls
type APIMetricsRecorder interface {
	RecordAPIRequest(method string, endpoint string, statusCode int, duration float64)
	RecordAPIRetry(method string, endpoint string, reason string)
	RecordRateLimitWait(method string, endpoint string, duration float64)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry(ns string) {
	if ns != "" {
		namespace = ns
	}
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// WriteTextfile dumps the registry in the node exporter textfile format
func WriteTextfile(path string) error {
	if Registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Reset drops the registry and global collectors; used between tests
func Reset() {
	Registry = nil
	globalPlannerCollector = nil
	globalAPICollector = nil
}

// SetGlobalPlannerCollector sets the global planner metrics collector
func SetGlobalPlannerCollector(collector PlannerMetricsRecorder) {
	globalPlannerCollector = collector
}

// RecordExpansion records one expansion attempt globally
func RecordExpansion(status string, steps int, duration float64) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordExpansion(status, steps, duration)
	}
}

// RecordSplitGroups records newly created split groups globally
func RecordSplitGroups(count int) {
	if globalPlannerCollector != nil && count > 0 {
		globalPlannerCollector.RecordSplitGroups(count)
	}
}

// RecordReconciliation records the outcome of one reconciliation globally
func RecordReconciliation(matched int, warnings map[string]int) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordReconciliation(matched, warnings)
	}
}

// RecordFeedError records a failed external feed call globally
func RecordFeedError(feed string) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordFeedError(feed)
	}
}

// SetGlobalAPICollector sets the global API metrics collector
func SetGlobalAPICollector(collector APIMetricsRecorder) {
	globalAPICollector = collector
}

// RecordAPIRequest records an API request completion globally
func RecordAPIRequest(method string, endpoint string, statusCode int, duration float64) {
	if globalAPICollector != nil {
		globalAPICollector.RecordAPIRequest(method, endpoint, statusCode, duration)
	}
}

// RecordAPIRetry records an API retry attempt globally
func RecordAPIRetry(method string, endpoint string, reason string) {
	if globalAPICollector != nil {
		globalAPICollector.RecordAPIRetry(method, endpoint, reason)
	}
}

// RecordRateLimitWait records time spent waiting for the rate limiter globally
func RecordRateLimitWait(method string, endpoint string, duration float64) {
	if globalAPICollector != nil {
		globalAPICollector.RecordRateLimitWait(method, endpoint, duration)
	}
}

// register adds collectors to the global registry; without a registry it is a no-op
func register(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil
	}
	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return nil
}
