package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

var (
	reconcileStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owner          = shared.MustNewUserID(1)
	builder        = account.NewCharacter(9001, owner, "Builder One", "token-1")
	alt            = account.NewCharacter(9002, owner, "Builder Two", "token-2")
)

// reconcileProject plans 40 runs of the thruster and a purchasable leaf
func reconcileProject(t *testing.T) *industry.Project {
	t.Helper()
	settings := industry.ProjectSettings{Runs: 40, MELevel: 10, TELevel: 20, MaxDurationDays: 30}
	p, err := industry.NewProject("project-1", owner, helpers.ItemFusionThruster, "Fusion Thruster", settings, reconcileStart, shared.NewMockClock(reconcileStart))
	require.NoError(t, err)
	p.ReplaceSteps([]industry.Step{
		{
			ID:           "thruster",
			BlueprintID:  helpers.BlueprintFusionThruster,
			ProductID:    helpers.ItemFusionThruster,
			ProductName:  "Fusion Thruster",
			Activity:     industry.ActivityManufacturing,
			Quantity:     40,
			Runs:         40,
			OutputPerRun: 1,
			TimePerRun:   2880,
		},
		{ID: "tritanium", ProductID: helpers.ItemTritanium, ProductName: "Tritanium", Leaf: true, Quantity: 3600, Depth: 1, SortOrder: 1},
	})
	return p
}

func thrusterJob(jobID, characterID int64, runs int, offset time.Duration) industry.IndustryJob {
	return industry.IndustryJob{
		JobID:       jobID,
		BlueprintID: helpers.BlueprintFusionThruster,
		Activity:    industry.ActivityManufacturing,
		CharacterID: characterID,
		Runs:        runs,
		Status:      industry.JobStatusActive,
		Cost:        decimal.NewFromInt(1000),
		StartDate:   reconcileStart.Add(offset),
		EndDate:     reconcileStart.Add(offset + 48*time.Hour),
	}
}

func matchedIDs(p *industry.Project, stepID string) []int64 {
	step, err := p.StepByID(stepID)
	if err != nil {
		return nil
	}
	var ids []int64
	for _, m := range step.Matches {
		ids = append(ids, m.JobID)
	}
	return ids
}

func TestJobReconciler_ExactMatch(t *testing.T) {
	// Arrange
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(501, 9001, 40, time.Hour))
	project := reconcileProject(t)

	// Act
	report, err := services.NewJobReconciler(feed, 2).Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int64{501}, matchedIDs(project, "thruster"))
	require.Len(t, report.Matched, 1)
	assert.Equal(t, []int64{501}, report.Matched[0].NewJobIDs)
	assert.Equal(t, 40, report.Matched[0].ActiveRuns)
	assert.Equal(t, 1, report.NewMatchCount())
	assert.Empty(t, report.Warnings)
}

func TestJobReconciler_SubsetMatch(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(601, 9001, 25, time.Hour))
	feed.AddJob(thrusterJob(602, 9001, 15, 2*time.Hour))
	feed.AddJob(thrusterJob(603, 9001, 7, 3*time.Hour))
	project := reconcileProject(t)

	report, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{601, 602}, matchedIDs(project, "thruster"))
	assert.Empty(t, report.Warnings, "complete steps list no similar jobs")
}

func TestJobReconciler_PrefersSmallestSubset(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(1, 9001, 10, time.Hour))
	feed.AddJob(thrusterJob(2, 9001, 10, 2*time.Hour))
	feed.AddJob(thrusterJob(3, 9001, 20, 3*time.Hour))
	feed.AddJob(thrusterJob(4, 9001, 20, 4*time.Hour))
	project := reconcileProject(t)

	_, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, matchedIDs(project, "thruster"))
}

func TestJobReconciler_ReportsSimilarJobsWithoutMatching(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(701, 9001, 30, time.Hour))
	feed.AddJob(thrusterJob(702, 9001, 7, 2*time.Hour))
	project := reconcileProject(t)

	report, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	require.NoError(t, err)
	assert.Empty(t, matchedIDs(project, "thruster"))
	step, _ := project.StepByID("thruster")
	require.Len(t, step.SimilarJobs, 2)
	assert.Equal(t, int64(701), step.SimilarJobs[0].JobID)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, services.WarningSimilarJobs, report.Warnings[0].Kind)
	assert.Equal(t, "thruster", report.Warnings[0].StepID)
}

func TestJobReconciler_IsIdempotent(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(501, 9001, 40, time.Hour))
	project := reconcileProject(t)
	r := services.NewJobReconciler(feed, 1)

	_, err := r.Reconcile(context.Background(), project, []*account.Character{builder}, nil)
	require.NoError(t, err)
	report, err := r.Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{501}, matchedIDs(project, "thruster"))
	assert.Zero(t, report.NewMatchCount())
}

func TestJobReconciler_IgnoresIneligibleJobs(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(801, 9001, 40, -time.Hour)) // before the project
	cancelled := thrusterJob(802, 9001, 40, time.Hour)
	cancelled.Status = industry.JobStatusCancelled
	feed.AddJob(cancelled)
	other := thrusterJob(803, 9001, 40, time.Hour)
	other.BlueprintID = helpers.BlueprintRifter
	feed.AddJob(other)
	project := reconcileProject(t)

	report, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	require.NoError(t, err)
	assert.Empty(t, matchedIDs(project, "thruster"))
	assert.Empty(t, report.Warnings)
}

func TestJobReconciler_RefreshesAndDropsVoidMatches(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(501, 9001, 40, time.Hour))
	project := reconcileProject(t)
	r := services.NewJobReconciler(feed, 1)
	_, err := r.Reconcile(context.Background(), project, []*account.Character{builder}, nil)
	require.NoError(t, err)

	feed.SetJobStatus(501, industry.JobStatusDelivered)
	report, err := r.Reconcile(context.Background(), project, []*account.Character{builder}, nil)
	require.NoError(t, err)
	require.Len(t, report.Matched, 1)
	assert.Equal(t, 40, report.Matched[0].DeliveredRuns)

	feed.SetJobStatus(501, industry.JobStatusReverted)
	report, err = r.Reconcile(context.Background(), project, []*account.Character{builder}, nil)
	require.NoError(t, err)
	assert.Empty(t, matchedIDs(project, "thruster"))
	assert.Empty(t, report.Matched)
}

func TestJobReconciler_LeavesManualStepsAlone(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(501, 9001, 40, time.Hour))
	project := reconcileProject(t)
	step, err := project.StepByID("thruster")
	require.NoError(t, err)
	step.ManualJobData = true

	report, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	require.NoError(t, err)
	assert.Empty(t, matchedIDs(project, "thruster"))
	assert.Empty(t, report.Warnings)
}

func TestJobReconciler_SkipsUnavailableFeeds(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(501, 9001, 40, time.Hour))
	feed.FailCharacter(9002, errors.New("token expired"))
	project := reconcileProject(t)

	report, err := services.NewJobReconciler(feed, 4).Reconcile(context.Background(), project, []*account.Character{builder, alt}, nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{501}, matchedIDs(project, "thruster"))
	require.Len(t, report.Warnings, 1)
	w := report.Warnings[0]
	assert.Equal(t, services.WarningFeedUnavailable, w.Kind)
	assert.Equal(t, int64(9002), w.CharacterID)
	var feedErr *industry.ErrExternalFeedUnavailable
	assert.ErrorAs(t, w.Err, &feedErr)
	assert.Equal(t, 1, feed.Calls(9002))
}

func TestJobReconciler_DoesNotRewrapFeedErrors(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.FailCharacter(9002, &industry.ErrExternalFeedUnavailable{CharacterID: 9002, Err: errors.New("token expired")})
	project := reconcileProject(t)

	report, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project, []*account.Character{alt}, nil)

	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "job feed unavailable for character 9002: token expired", report.Warnings[0].Message)
}

func TestJobReconciler_IgnoresNonProductionActivities(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	research := thrusterJob(801, 9001, 40, time.Hour)
	research.Activity = industry.ActivityKind("research")
	copying := thrusterJob(802, 9001, 10, 2*time.Hour)
	copying.Activity = industry.ActivityKind("copying")
	feed.AddJob(research)
	feed.AddJob(copying)
	project := reconcileProject(t)

	report, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	require.NoError(t, err)
	assert.Empty(t, matchedIDs(project, "thruster"))
	step, err := project.StepByID("thruster")
	require.NoError(t, err)
	assert.Empty(t, step.SimilarJobs)
	assert.Empty(t, report.Warnings)
}

func TestJobReconciler_SkipsJobsBoundElsewhere(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(501, 9001, 40, time.Hour))
	feed.AddJob(thrusterJob(502, 9001, 40, 2*time.Hour))
	project := reconcileProject(t)

	_, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project,
		[]*account.Character{builder}, map[int64]struct{}{501: {}})

	require.NoError(t, err)
	assert.Equal(t, []int64{502}, matchedIDs(project, "thruster"))
}

func TestJobReconciler_IgnoresJobsOfUnknownCharacters(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	stranger := account.NewCharacter(7777, shared.MustNewUserID(2), "Stranger", "")
	feed.AddJob(thrusterJob(901, 7777, 40, time.Hour))
	project := reconcileProject(t)

	_, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	require.NoError(t, err)
	assert.Empty(t, matchedIDs(project, "thruster"))
	assert.Zero(t, feed.Calls(stranger.ID))
}

func TestJobReconciler_FragmentsMatchIndependently(t *testing.T) {
	feed := helpers.NewMockJobFeed()
	feed.AddJob(thrusterJob(1, 9001, 20, time.Hour))
	feed.AddJob(thrusterJob(2, 9001, 20, 2*time.Hour))
	project := reconcileProject(t)
	split := industry.NewDurationSplitter(helpers.NewSequentialIDs("frag").Next).
		SplitAll(project.Steps(), 20*2880)
	project.ReplaceSteps(split)

	report, err := services.NewJobReconciler(feed, 1).Reconcile(context.Background(), project, []*account.Character{builder}, nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, matchedIDs(project, split[0].ID))
	assert.Equal(t, []int64{2}, matchedIDs(project, split[1].ID))
	assert.Equal(t, 2, report.NewMatchCount())
}
