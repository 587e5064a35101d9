package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/adapters/cli"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

type plannerFixture struct {
	repos   *cli.Repositories
	planner *services.PlannerService
	clock   *shared.MockClock
}

func newPlannerFixture(t *testing.T) *plannerFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	helpers.SeedUser(t, db, 1, "builder")

	clock := shared.NewMockClock(reconcileStart)
	repos := cli.NewRepositories(db, clock)
	require.NoError(t, repos.Reference.ReplaceAll(context.Background(), helpers.FixtureItems(), helpers.FixtureBlueprints()))

	bonuses, err := industry.NewBonusResolver(industry.StandardRigCatalog(), 16)
	require.NoError(t, err)
	ids := helpers.NewSequentialIDs("step")
	expander := services.NewTreeExpander(repos.Reference, bonuses, services.ExpanderOptions{ComponentME: 10, ComponentTE: 20}, ids.Next)
	splitter := industry.NewDurationSplitter(ids.Next)

	return &plannerFixture{
		repos:   repos,
		planner: services.NewPlannerService(expander, splitter, repos.Reference, repos.Projects, repos.Facilities, repos.Exclusions),
		clock:   clock,
	}
}

func (f *plannerFixture) newProject(t *testing.T, settings industry.ProjectSettings) *industry.Project {
	t.Helper()
	p, err := industry.NewProject("project-1", owner, helpers.ItemRifter, "Rifter", settings, reconcileStart, f.clock)
	require.NoError(t, err)
	return p
}

func (f *plannerFixture) reload(t *testing.T) *industry.Project {
	t.Helper()
	p, err := f.repos.Projects.FindByID(context.Background(), "project-1", owner)
	require.NoError(t, err)
	return p
}

func rifterSettings() industry.ProjectSettings {
	return industry.ProjectSettings{Runs: 10, MELevel: 10, TELevel: 20, MaxDurationDays: 30}
}

func stepFor(steps []industry.Step, itemID int) *industry.Step {
	for i := range steps {
		if steps[i].ProductID == itemID {
			return &steps[i]
		}
	}
	return nil
}

func TestPlannerService_PlanPersistsTheStepList(t *testing.T) {
	// Arrange
	f := newPlannerFixture(t)
	p := f.newProject(t, rifterSettings())

	// Act
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))

	// Assert
	stored := f.reload(t)
	require.Len(t, stored.Steps(), 9)
	assert.Equal(t, helpers.ItemRifter, stored.Steps()[0].ProductID)
	assert.Equal(t, 90, stepFor(stored.Steps(), helpers.ItemFusionThruster).Runs)
}

func TestPlannerService_PlanCarriesLeafStateAcrossReexpansion(t *testing.T) {
	f := newPlannerFixture(t)
	p := f.newProject(t, rifterSettings())
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))

	stepFor(p.Steps(), helpers.ItemMexallon).Purchased = true
	stepFor(p.Steps(), helpers.ItemHydrocarbons).InStockQuantity = 60
	settings := rifterSettings()
	settings.Runs = 20
	_, err := p.Reconfigure(settings)
	require.NoError(t, err)

	require.NoError(t, f.planner.Plan(context.Background(), p, nil))

	stored := f.reload(t)
	mex := stepFor(stored.Steps(), helpers.ItemMexallon)
	assert.Equal(t, 180, mex.Quantity)
	assert.True(t, mex.Purchased)
	assert.Equal(t, 60, stepFor(stored.Steps(), helpers.ItemHydrocarbons).InStockQuantity)
}

func TestPlannerService_PlanKeepsInStockComponentsAsLeaves(t *testing.T) {
	f := newPlannerFixture(t)
	p := f.newProject(t, rifterSettings())
	require.NoError(t, f.planner.Plan(context.Background(), p, map[int]bool{helpers.ItemFerniteCarbide: true}))
	require.Len(t, p.Steps(), 7)

	require.NoError(t, f.planner.Plan(context.Background(), p, nil))

	fernite := stepFor(p.Steps(), helpers.ItemFerniteCarbide)
	require.NotNil(t, fernite)
	assert.True(t, fernite.Leaf)
	assert.Len(t, p.Steps(), 7)
}

func TestPlannerService_FailedPlanLeavesStoredProjectUntouched(t *testing.T) {
	f := newPlannerFixture(t)
	p := f.newProject(t, rifterSettings())
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))
	require.NoError(t, f.repos.Reference.ReplaceAll(context.Background(), nil, nil))

	err := f.planner.Plan(context.Background(), p, nil)

	var noBP *industry.ErrNoBlueprintFound
	require.ErrorAs(t, err, &noBP)
	assert.Len(t, f.reload(t).Steps(), 9)
}

func TestPlannerService_UsesDefaultFacility(t *testing.T) {
	f := newPlannerFixture(t)
	facility, err := industry.NewFacility("null", 1, "Null Station", industry.SecurityNullsec, industry.StructureStation,
		[]string{"Standup M-Set Advanced Component Manufacturing Material Efficiency I"})
	require.NoError(t, err)
	facility.IsDefault = true
	require.NoError(t, f.repos.Facilities.Save(context.Background(), facility))
	p := f.newProject(t, rifterSettings())

	require.NoError(t, f.planner.Plan(context.Background(), p, nil))

	assert.Equal(t, 86, stepFor(p.Steps(), helpers.ItemFusionThruster).Quantity)
}

func TestPlannerService_ExplicitFacilityMustExist(t *testing.T) {
	f := newPlannerFixture(t)
	settings := rifterSettings()
	settings.FacilityID = "missing"

	_, err := f.planner.Expand(context.Background(), owner, settings, helpers.ItemRifter, nil)

	var notFound *industry.ErrFacilityNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestPlannerService_MergesOwnerExclusions(t *testing.T) {
	f := newPlannerFixture(t)
	require.NoError(t, f.repos.Exclusions.Add(context.Background(), industry.Exclusion{
		OwnerID: 1, Kind: industry.ExclusionItem, TargetID: helpers.ItemFusionThruster,
	}))

	steps, err := f.planner.Expand(context.Background(), owner, rifterSettings(), helpers.ItemRifter, nil)

	require.NoError(t, err)
	assert.True(t, stepFor(steps, helpers.ItemFusionThruster).Leaf)
}

func TestPlannerService_ResplitFollowsTheNewCeiling(t *testing.T) {
	// Arrange
	f := newPlannerFixture(t)
	settings := rifterSettings()
	settings.MaxDurationDays = 1
	p := f.newProject(t, settings)
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))
	var fragments []int
	for _, s := range p.Steps() {
		if s.ProductID == helpers.ItemFusionThruster {
			fragments = append(fragments, s.Runs)
		}
	}
	require.Equal(t, []int{30, 30, 30}, fragments)

	// Act
	steps, err := f.planner.Resplit(context.Background(), p, 30)

	// Assert
	require.NoError(t, err)
	thruster := stepFor(steps, helpers.ItemFusionThruster)
	assert.Equal(t, 90, thruster.Runs)
	assert.False(t, thruster.IsSplit())
	assert.Equal(t, 30.0, f.reload(t).Settings().MaxDurationDays)
}

func bindJob(step *industry.Step, jobID int64, runs int, cost int64) {
	step.Matches = append(step.Matches, industry.JobMatch{
		StepID:      step.ID,
		JobID:       jobID,
		CharacterID: builder.ID,
		BlueprintID: step.BlueprintID,
		Runs:        runs,
		Status:      industry.JobStatusActive,
		Cost:        decimal.NewFromInt(cost),
		StartDate:   reconcileStart,
		EndDate:     reconcileStart.Add(48 * time.Hour),
	})
}

func TestPlannerService_ResplitKeepsBoundJobs(t *testing.T) {
	// Arrange
	f := newPlannerFixture(t)
	p := f.newProject(t, rifterSettings())
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))
	bindJob(stepFor(p.Steps(), helpers.ItemFusionThruster), 501, 90, 1000)
	require.NoError(t, f.repos.Projects.Save(context.Background(), p))

	// Act
	_, err := f.planner.Resplit(context.Background(), p, 1)

	// Assert
	require.NoError(t, err)
	thruster := stepFor(f.reload(t).Steps(), helpers.ItemFusionThruster)
	assert.Equal(t, 90, thruster.Runs)
	assert.False(t, thruster.IsSplit(), "installed jobs fix the layout")
	assert.True(t, decimal.NewFromInt(1000).Equal(thruster.JobCost()))
}

func TestPlannerService_PlanCarriesJobStateWhenRunsAreUnchanged(t *testing.T) {
	// Arrange
	f := newPlannerFixture(t)
	p := f.newProject(t, rifterSettings())
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))
	bindJob(stepFor(p.Steps(), helpers.ItemFusionThruster), 501, 90, 1000)
	root := &p.Steps()[0]
	root.ManualJobData = true
	bindJob(root, 700, 10, 250)
	require.NoError(t, f.repos.Projects.Save(context.Background(), p))

	settings := rifterSettings()
	settings.TELevel = 10
	_, err := p.Reconfigure(settings)
	require.NoError(t, err)

	// Act
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))

	// Assert
	stored := f.reload(t)
	thruster := stepFor(stored.Steps(), helpers.ItemFusionThruster)
	require.Len(t, thruster.Matches, 1)
	assert.Equal(t, thruster.ID, thruster.Matches[0].StepID)
	assert.True(t, decimal.NewFromInt(1000).Equal(thruster.JobCost()))
	assert.True(t, stored.Steps()[0].ManualJobData)
	assert.Equal(t, int64(700), stored.Steps()[0].Matches[0].JobID)
}

func TestPlannerService_PlanDropsJobStateWhenRunsChange(t *testing.T) {
	f := newPlannerFixture(t)
	p := f.newProject(t, rifterSettings())
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))
	bindJob(stepFor(p.Steps(), helpers.ItemFusionThruster), 501, 90, 1000)
	require.NoError(t, f.repos.Projects.Save(context.Background(), p))

	settings := rifterSettings()
	settings.Runs = 20
	_, err := p.Reconfigure(settings)
	require.NoError(t, err)
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))

	thruster := stepFor(f.reload(t).Steps(), helpers.ItemFusionThruster)
	assert.Equal(t, 180, thruster.Runs)
	assert.Empty(t, thruster.Matches)
}

func TestPlannerService_AddFragmentRejectsCompletedProject(t *testing.T) {
	f := newPlannerFixture(t)
	p := f.newProject(t, rifterSettings())
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))
	require.NoError(t, p.Complete())

	_, err := f.planner.AddFragment(context.Background(), p, p.Steps()[0].ID, 5)

	var stateErr *industry.ErrInvalidProjectState
	assert.ErrorAs(t, err, &stateErr)
}

func TestPlannerService_AddFragmentUnknownStepNamesTheProject(t *testing.T) {
	f := newPlannerFixture(t)
	p := f.newProject(t, rifterSettings())
	require.NoError(t, f.planner.Plan(context.Background(), p, nil))

	_, err := f.planner.AddFragment(context.Background(), p, "nope", 5)

	var notFound *industry.ErrStepNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "project-1", notFound.ProjectID)
}
