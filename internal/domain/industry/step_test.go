package industry_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

func TestStep_DerivedJobCounters(t *testing.T) {
	step := productionStep("s", 100, 3600)
	step.Matches = []industry.JobMatch{
		{JobID: 1, Runs: 40, Status: industry.JobStatusActive, Cost: decimal.NewFromInt(100)},
		{JobID: 2, Runs: 30, Status: industry.JobStatusDelivered, Cost: decimal.NewFromInt(50)},
		{JobID: 3, Runs: 10, Status: industry.JobStatusReady, Cost: decimal.RequireFromString("0.25")},
	}

	assert.Equal(t, 3, step.MatchedJobCount())
	assert.Equal(t, 80, step.MatchedRuns())
	assert.Equal(t, 50, step.ActiveRuns())
	assert.Equal(t, 30, step.DeliveredRuns())
	assert.Equal(t, 20, step.RemainingRuns())
	assert.False(t, step.IsComplete())
	assert.True(t, step.HasMatch(2))
	assert.False(t, step.HasMatch(4))
	assert.True(t, decimal.RequireFromString("150.25").Equal(step.JobCost()))
}

func TestStep_RemainingRunsNeverNegative(t *testing.T) {
	step := productionStep("s", 10, 3600)
	step.Matches = []industry.JobMatch{{JobID: 1, Runs: 40}}

	assert.Zero(t, step.RemainingRuns())
	assert.True(t, step.IsComplete())
}

func TestStep_MissingQuantity(t *testing.T) {
	leaf := industry.Step{Leaf: true, Quantity: 100, InStockQuantity: 30}
	assert.Equal(t, 70, leaf.MissingQuantity())

	leaf.InStockQuantity = 150
	assert.Zero(t, leaf.MissingQuantity())
	assert.False(t, leaf.IsComplete(), "leaves never complete through jobs")
}

func TestStep_CloneIsDeep(t *testing.T) {
	me := 10
	step := productionStep("s", 10, 3600)
	step.MELevel = &me
	step.Matches = []industry.JobMatch{{JobID: 1}}
	step.SimilarJobs = []industry.SimilarJob{{JobID: 2}}

	c := step.Clone()
	*c.MELevel = 5
	c.Matches[0].JobID = 99
	c.SimilarJobs[0].JobID = 98

	assert.Equal(t, 10, *step.MELevel)
	assert.Equal(t, int64(1), step.Matches[0].JobID)
	assert.Equal(t, int64(2), step.SimilarJobs[0].JobID)
}

func TestStep_IsRoot(t *testing.T) {
	root := industry.Step{Depth: 0}
	leaf := industry.Step{Depth: 0, Leaf: true}
	child := industry.Step{Depth: 1}

	assert.True(t, root.IsRoot())
	assert.False(t, leaf.IsRoot())
	assert.False(t, child.IsRoot())
}

func TestJobStatus(t *testing.T) {
	assert.True(t, industry.JobStatusCancelled.IsVoid())
	assert.True(t, industry.JobStatusReverted.IsVoid())
	assert.False(t, industry.JobStatusDelivered.IsVoid())
	assert.True(t, industry.JobStatusPaused.IsInProgress())
	assert.False(t, industry.JobStatusDelivered.IsInProgress())
}

func TestJobMatch_Refresh(t *testing.T) {
	m := industry.NewJobMatch("s", industry.IndustryJob{JobID: 5, Runs: 10, Status: industry.JobStatusActive})

	m.Refresh(industry.IndustryJob{JobID: 5, Runs: 99, Status: industry.JobStatusDelivered, Cost: decimal.NewFromInt(7)})

	assert.Equal(t, industry.JobStatusDelivered, m.Status)
	assert.Equal(t, 10, m.Runs, "runs are fixed at match time")
	assert.True(t, decimal.NewFromInt(7).Equal(m.Cost))
}
