package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PlannerMetricsCollector handles production planner metrics
type PlannerMetricsCollector struct {
	expansionsTotal      *prometheus.CounterVec
	expansionDuration    prometheus.Histogram
	stepsGenerated       prometheus.Histogram
	splitGroupsTotal     prometheus.Counter
	reconcileMatches     prometheus.Counter
	reconcileWarnings    *prometheus.CounterVec
	feedErrorsTotal      *prometheus.CounterVec
	reconciliationsTotal prometheus.Counter
}

// NewPlannerMetricsCollector creates a new planner metrics collector
func NewPlannerMetricsCollector() *PlannerMetricsCollector {
	return &PlannerMetricsCollector{
		expansionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "expansions_total",
				Help:      "Total number of BOM expansions by outcome",
			},
			[]string{"status"},
		),

		expansionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "expansion_duration_seconds",
				Help:      "BOM expansion duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),

		stepsGenerated: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "steps_generated",
				Help:      "Number of steps produced per expansion",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
		),

		splitGroupsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "split_groups_total",
				Help:      "Total number of split groups created by the duration splitter",
			},
		),

		reconciliationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconciler",
				Name:      "runs_total",
				Help:      "Total number of job reconciliations",
			},
		),

		reconcileMatches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconciler",
				Name:      "matches_total",
				Help:      "Total number of external jobs newly bound to steps",
			},
		),

		reconcileWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconciler",
				Name:      "warnings_total",
				Help:      "Total number of reconciliation warnings by kind",
			},
			[]string{"kind"},
		),

		feedErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "errors_total",
				Help:      "Total number of failed external feed calls",
			},
			[]string{"feed"},
		),
	}
}

// Register adds the planner metrics to the global registry
func (c *PlannerMetricsCollector) Register() error {
	return register(
		c.expansionsTotal,
		c.expansionDuration,
		c.stepsGenerated,
		c.splitGroupsTotal,
		c.reconciliationsTotal,
		c.reconcileMatches,
		c.reconcileWarnings,
		c.feedErrorsTotal,
	)
}

// RecordExpansion records one expansion attempt
func (c *PlannerMetricsCollector) RecordExpansion(status string, steps int, duration float64) {
	c.expansionsTotal.WithLabelValues(status).Inc()
	c.expansionDuration.Observe(duration)
	if status == "success" {
		c.stepsGenerated.Observe(float64(steps))
	}
}

// RecordSplitGroups records newly created split groups
func (c *PlannerMetricsCollector) RecordSplitGroups(count int) {
	c.splitGroupsTotal.Add(float64(count))
}

// RecordReconciliation records matches and warnings of one reconciliation
func (c *PlannerMetricsCollector) RecordReconciliation(matched int, warnings map[string]int) {
	c.reconciliationsTotal.Inc()
	c.reconcileMatches.Add(float64(matched))
	for kind, n := range warnings {
		c.reconcileWarnings.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordFeedError records a failed external feed call
func (c *PlannerMetricsCollector) RecordFeedError(feed string) {
	c.feedErrorsTotal.WithLabelValues(feed).Inc()
}
