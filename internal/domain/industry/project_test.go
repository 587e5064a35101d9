package industry_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

var projectStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func defaultSettings() industry.ProjectSettings {
	return industry.ProjectSettings{Runs: 10, MELevel: 10, TELevel: 20, MaxDurationDays: 30}
}

func newProject(t *testing.T, clock shared.Clock) *industry.Project {
	t.Helper()
	p, err := industry.NewProject("project-1", shared.MustNewUserID(1), 587, "Rifter", defaultSettings(), time.Time{}, clock)
	require.NoError(t, err)
	return p
}

func TestNewProject_Defaults(t *testing.T) {
	clock := shared.NewMockClock(projectStart)

	p := newProject(t, clock)

	assert.Equal(t, industry.ProjectStatusActive, p.Status())
	assert.Equal(t, projectStart, p.JobsStartDate(), "jobs start date defaults to creation time")
	assert.Equal(t, projectStart, p.CreatedAt())
	assert.Nil(t, p.CompletedAt())
	assert.Nil(t, p.SellPrice())
	assert.Empty(t, p.Steps())
}

func TestNewProject_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*industry.ProjectSettings)
		field  string
	}{
		{"zero runs", func(s *industry.ProjectSettings) { s.Runs = 0 }, "runs"},
		{"ME above ten", func(s *industry.ProjectSettings) { s.MELevel = 11 }, "me_level"},
		{"negative ME", func(s *industry.ProjectSettings) { s.MELevel = -1 }, "me_level"},
		{"odd TE", func(s *industry.ProjectSettings) { s.TELevel = 7 }, "te_level"},
		{"TE above twenty", func(s *industry.ProjectSettings) { s.TELevel = 22 }, "te_level"},
		{"zero duration", func(s *industry.ProjectSettings) { s.MaxDurationDays = 0 }, "max_duration_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := defaultSettings()
			tt.mutate(&settings)

			_, err := industry.NewProject("p", shared.MustNewUserID(1), 587, "Rifter", settings, time.Time{}, nil)

			var validation *shared.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestProject_ReconfigureReportsChange(t *testing.T) {
	clock := shared.NewMockClock(projectStart)
	p := newProject(t, clock)

	changed, err := p.Reconfigure(defaultSettings())
	require.NoError(t, err)
	assert.False(t, changed)

	clock.Advance(time.Hour)
	next := defaultSettings()
	next.Exclusions = industry.NewExclusionSet([]int{11532}, nil)
	changed, err = p.Reconfigure(next)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, p.Settings().Exclusions.IsExcluded(11532, 0))
	assert.Equal(t, projectStart.Add(time.Hour), p.UpdatedAt())
}

func TestProject_ReconfigureRejectsCompletedProject(t *testing.T) {
	p := newProject(t, shared.NewMockClock(projectStart))
	require.NoError(t, p.Complete())

	next := defaultSettings()
	next.Runs = 20
	_, err := p.Reconfigure(next)

	var stateErr *industry.ErrInvalidProjectState
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, 10, p.Settings().Runs)
}

func TestProject_CompleteAndReopen(t *testing.T) {
	clock := shared.NewMockClock(projectStart)
	p := newProject(t, clock)

	clock.Advance(48 * time.Hour)
	require.NoError(t, p.Complete())
	require.NotNil(t, p.CompletedAt())
	assert.Equal(t, projectStart.Add(48*time.Hour), *p.CompletedAt())

	var stateErr *industry.ErrInvalidProjectState
	assert.ErrorAs(t, p.Complete(), &stateErr)

	require.NoError(t, p.Reopen())
	assert.Equal(t, industry.ProjectStatusActive, p.Status())
	assert.Nil(t, p.CompletedAt())
	assert.ErrorAs(t, p.Reopen(), &stateErr)
}

func TestProject_ReplaceStepsStampsProjectID(t *testing.T) {
	p := newProject(t, nil)

	p.ReplaceSteps([]industry.Step{productionStep("a", 1, 60), {ID: "b", Leaf: true}})

	for _, st := range p.Steps() {
		assert.Equal(t, "project-1", st.ProjectID)
	}
}

func splitProject(t *testing.T) *industry.Project {
	t.Helper()
	s := industry.NewDurationSplitter(sequence("id"))
	p := newProject(t, nil)
	p.ReplaceSteps(s.SplitAll([]industry.Step{
		productionStep("root", 100, 3600),
		{ID: "leaf", Leaf: true, Quantity: 10},
	}, industry.MaxDurationSeconds(2)))
	return p
}

func TestProject_RemoveStepNormalizesTheGroup(t *testing.T) {
	// Arrange
	p := splitProject(t)
	middle := p.Steps()[1].ID

	// Act
	require.NoError(t, p.RemoveStep(middle))

	// Assert
	steps := p.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, 0, steps[0].SplitIndex)
	assert.Equal(t, 1, steps[1].SplitIndex)
	assert.Equal(t, 52, steps[0].TotalGroupRuns)
	assert.True(t, steps[0].ManualSplit)
	assert.Equal(t, 2, steps[2].SortOrder)
}

func TestProject_RemoveStepDissolvesSingleMemberGroup(t *testing.T) {
	p := splitProject(t)
	require.NoError(t, p.RemoveStep(p.Steps()[2].ID))
	require.NoError(t, p.RemoveStep(p.Steps()[1].ID))

	root := p.Steps()[0]
	assert.False(t, root.IsSplit())
	assert.False(t, root.ManualSplit)
	assert.Zero(t, root.TotalGroupRuns)
}

func TestProject_RemoveStepUnknown(t *testing.T) {
	p := newProject(t, nil)

	var notFound *industry.ErrStepNotFound
	assert.ErrorAs(t, p.RemoveStep("nope"), &notFound)
}

func TestProject_ChangeStepRunsMarksGroupManual(t *testing.T) {
	p := splitProject(t)
	last := p.Steps()[2].ID

	require.NoError(t, p.ChangeStepRuns(last, 10))

	step, err := p.StepByID(last)
	require.NoError(t, err)
	assert.Equal(t, 10, step.Runs)
	assert.Equal(t, 10, step.Quantity)
	for _, st := range p.Steps()[:3] {
		assert.True(t, st.ManualSplit)
		assert.Equal(t, 106, st.TotalGroupRuns)
	}
}

func TestProject_ChangeStepRunsValidation(t *testing.T) {
	p := splitProject(t)

	var runErr *industry.ErrInvalidRunCount
	assert.ErrorAs(t, p.ChangeStepRuns("root", 0), &runErr)

	var validation *shared.ValidationError
	assert.ErrorAs(t, p.ChangeStepRuns("leaf", 3), &validation)
}

func jobProject(t *testing.T) *industry.Project {
	t.Helper()
	p := newProject(t, nil)
	root := productionStep("root", 40, 60)
	root.SimilarJobs = []industry.SimilarJob{
		{CharacterID: 9001, Runs: 40, JobID: 501, Status: industry.JobStatusActive},
		{CharacterID: 9001, Runs: 12, JobID: 502, Status: industry.JobStatusReady},
	}
	p.ReplaceSteps([]industry.Step{root, {ID: "leaf", Leaf: true, Quantity: 10}})
	return p
}

func TestProject_AttachJobAcceptsASimilarJob(t *testing.T) {
	// Arrange
	p := jobProject(t)

	// Act
	require.NoError(t, p.AttachJob("root", industry.JobMatch{JobID: 501, Cost: decimal.NewFromInt(2500)}))

	// Assert
	root, err := p.StepByID("root")
	require.NoError(t, err)
	require.Len(t, root.Matches, 1)
	m := root.Matches[0]
	assert.Equal(t, "root", m.StepID)
	assert.Equal(t, int64(9001), m.CharacterID)
	assert.Equal(t, 1001, m.BlueprintID)
	assert.Equal(t, 40, m.Runs)
	assert.Equal(t, industry.JobStatusActive, m.Status)
	assert.True(t, m.Cost.Equal(decimal.NewFromInt(2500)))
	assert.True(t, root.ManualJobData)
	require.Len(t, root.SimilarJobs, 1)
	assert.Equal(t, int64(502), root.SimilarJobs[0].JobID)
}

func TestProject_AttachJobWithExplicitFields(t *testing.T) {
	p := jobProject(t)

	require.NoError(t, p.AttachJob("root", industry.JobMatch{JobID: 777, CharacterID: 9002, Runs: 5}))

	root, err := p.StepByID("root")
	require.NoError(t, err)
	require.Len(t, root.Matches, 1)
	assert.Equal(t, industry.JobStatusActive, root.Matches[0].Status, "status defaults to active")
	assert.Equal(t, 5, root.MatchedRuns())
	assert.Len(t, root.SimilarJobs, 2)
}

func TestProject_AttachJobRejections(t *testing.T) {
	p := jobProject(t)
	require.NoError(t, p.AttachJob("root", industry.JobMatch{JobID: 501}))

	var bound *industry.ErrJobAlreadyBound
	require.ErrorAs(t, p.AttachJob("root", industry.JobMatch{JobID: 501, Runs: 40}), &bound)
	assert.Equal(t, "root", bound.StepID)

	var runErr *industry.ErrInvalidRunCount
	assert.ErrorAs(t, p.AttachJob("root", industry.JobMatch{JobID: 888}), &runErr, "unknown job needs runs")

	var validation *shared.ValidationError
	assert.ErrorAs(t, p.AttachJob("leaf", industry.JobMatch{JobID: 889, Runs: 1}), &validation)

	var notFound *industry.ErrStepNotFound
	assert.ErrorAs(t, p.AttachJob("nope", industry.JobMatch{JobID: 890, Runs: 1}), &notFound)

	root, err := p.StepByID("root")
	require.NoError(t, err)
	assert.Len(t, root.Matches, 1)
	assert.Len(t, root.SimilarJobs, 1)
}

func TestProject_DetachJob(t *testing.T) {
	p := jobProject(t)
	require.NoError(t, p.AttachJob("root", industry.JobMatch{JobID: 501}))
	require.NoError(t, p.AttachJob("root", industry.JobMatch{JobID: 502}))

	require.NoError(t, p.DetachJob("root", 501))

	root, err := p.StepByID("root")
	require.NoError(t, err)
	require.Len(t, root.Matches, 1)
	assert.Equal(t, int64(502), root.Matches[0].JobID)
	assert.True(t, root.ManualJobData)

	var validation *shared.ValidationError
	require.ErrorAs(t, p.DetachJob("root", 501), &validation)
	assert.Equal(t, "job_id", validation.Field)
}

func TestProjectCosts_Total(t *testing.T) {
	costs := industry.ProjectCosts{
		BlueprintCost: decimal.NewFromInt(1000),
		MaterialCost:  decimal.RequireFromString("250.50"),
		TransportCost: decimal.NewFromInt(10),
		Tax:           decimal.RequireFromString("0.5"),
	}

	assert.True(t, decimal.NewFromInt(1261).Equal(costs.Total()))
}
