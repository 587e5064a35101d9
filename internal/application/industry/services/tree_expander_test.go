package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

func newExpander(t *testing.T, oracle industry.BlueprintOracle) *services.TreeExpander {
	t.Helper()
	bonuses, err := industry.NewBonusResolver(industry.StandardRigCatalog(), 16)
	require.NoError(t, err)
	return services.NewTreeExpander(oracle, bonuses, services.ExpanderOptions{
		ComponentME: 10,
		ComponentTE: 20,
		MaxDepth:    8,
	}, helpers.NewSequentialIDs("step").Next)
}

func rifterRequest() services.ExpansionRequest {
	return services.ExpansionRequest{RootItemID: helpers.ItemRifter, Runs: 10, MELevel: 10, TELevel: 20}
}

type expandedRow struct {
	item  int
	qty   int
	runs  int
	depth int
	leaf  bool
}

func rows(steps []industry.Step) []expandedRow {
	out := make([]expandedRow, len(steps))
	for i, s := range steps {
		out[i] = expandedRow{item: s.ProductID, qty: s.Quantity, runs: s.Runs, depth: s.Depth, leaf: s.Leaf}
	}
	return out
}

func TestTreeExpander_ExpandsInPreOrderByItemID(t *testing.T) {
	// Arrange
	e := newExpander(t, helpers.NewFixtureOracle())

	// Act
	steps, err := e.Expand(context.Background(), rifterRequest())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []expandedRow{
		{helpers.ItemRifter, 10, 10, 0, false},
		{helpers.ItemTritanium, 21600, 0, 1, true},
		{helpers.ItemMexallon, 90, 0, 1, true},
		{helpers.ItemFusionThruster, 90, 90, 1, false},
		{helpers.ItemTritanium, 8100, 0, 2, true},
		{helpers.ItemPyerite, 3240, 0, 2, true},
		{helpers.ItemFerniteCarbide, 180, 1, 1, false},
		{helpers.ItemHydrocarbons, 100, 0, 2, true},
		{helpers.ItemSilicates, 100, 0, 2, true},
	}, rows(steps))

	for i, s := range steps {
		assert.Equal(t, i, s.SortOrder)
		assert.NotEmpty(t, s.ID)
	}
}

func TestTreeExpander_RootCarriesProjectLevels(t *testing.T) {
	e := newExpander(t, helpers.NewFixtureOracle())

	steps, err := e.Expand(context.Background(), rifterRequest())
	require.NoError(t, err)

	root := steps[0]
	require.NotNil(t, root.MELevel)
	require.NotNil(t, root.TELevel)
	assert.Equal(t, 10, *root.MELevel)
	assert.Equal(t, 20, *root.TELevel)
	assert.Equal(t, 4800, root.TimePerRun)
	assert.Nil(t, steps[3].MELevel, "components do not carry levels")
}

func TestTreeExpander_ReactionsIgnoreResearchLevels(t *testing.T) {
	e := newExpander(t, helpers.NewFixtureOracle())

	steps, err := e.Expand(context.Background(), rifterRequest())
	require.NoError(t, err)

	fernite := steps[6]
	assert.Equal(t, industry.ActivityReaction, fernite.Activity)
	assert.Equal(t, 10800, fernite.TimePerRun)
	assert.Equal(t, 100, steps[7].Quantity, "one reaction run at ME 0")
}

func TestTreeExpander_IsDeterministic(t *testing.T) {
	oracle := helpers.NewFixtureOracle()

	first, err := newExpander(t, oracle).Expand(context.Background(), rifterRequest())
	require.NoError(t, err)
	second, err := newExpander(t, oracle).Expand(context.Background(), rifterRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTreeExpander_ExcludedItemBecomesLeaf(t *testing.T) {
	e := newExpander(t, helpers.NewFixtureOracle())
	req := rifterRequest()
	req.Exclusions = industry.NewExclusionSet([]int{helpers.ItemFusionThruster}, nil)

	steps, err := e.Expand(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, steps, 7)
	thruster := steps[3]
	assert.True(t, thruster.Leaf)
	assert.Equal(t, 90, thruster.Quantity)
	assert.Zero(t, thruster.Runs)
	for _, s := range steps {
		assert.NotEqual(t, helpers.ItemPyerite, s.ProductID)
	}
}

func TestTreeExpander_ExcludedGroupAndRootExclusion(t *testing.T) {
	e := newExpander(t, helpers.NewFixtureOracle())
	req := rifterRequest()
	req.Exclusions = industry.NewExclusionSet([]int{helpers.ItemRifter}, []int{helpers.GroupComposites})

	steps, err := e.Expand(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, steps[0].Leaf, "the root is always built")
	assert.True(t, steps[6].Leaf)
	assert.Equal(t, helpers.ItemFerniteCarbide, steps[6].ProductID)
}

func TestTreeExpander_InStockItemBecomesLeaf(t *testing.T) {
	e := newExpander(t, helpers.NewFixtureOracle())
	req := rifterRequest()
	req.InStock = map[int]bool{helpers.ItemFerniteCarbide: true}

	steps, err := e.Expand(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, steps, 7)
	assert.True(t, steps[6].Leaf)
	assert.Equal(t, 180, steps[6].Quantity)
}

func TestTreeExpander_FacilityBonusReducesComponentMaterials(t *testing.T) {
	e := newExpander(t, helpers.NewFixtureOracle())
	facility, err := industry.NewFacility("f1", 1, "Null Station", industry.SecurityNullsec, industry.StructureStation,
		[]string{"Standup M-Set Advanced Component Manufacturing Material Efficiency I"})
	require.NoError(t, err)
	req := rifterRequest()
	req.Facility = facility

	steps, err := e.Expand(context.Background(), req)

	require.NoError(t, err)
	thruster := steps[3]
	assert.Equal(t, 86, thruster.Quantity)
	assert.Equal(t, 86, thruster.Runs)
	assert.Equal(t, 4.2, thruster.FacilityME)
}

func TestTreeExpander_RootWithoutBlueprintFails(t *testing.T) {
	e := newExpander(t, helpers.NewFixtureOracle())
	req := rifterRequest()
	req.RootItemID = helpers.ItemTritanium

	_, err := e.Expand(context.Background(), req)

	var noBP *industry.ErrNoBlueprintFound
	require.ErrorAs(t, err, &noBP)
	assert.Equal(t, helpers.ItemTritanium, noBP.ItemID)
}

func TestTreeExpander_RejectsInvalidInputBeforeLookup(t *testing.T) {
	oracle := helpers.NewFixtureOracle()
	e := newExpander(t, oracle)
	req := rifterRequest()
	req.MELevel = 11

	_, err := e.Expand(context.Background(), req)

	var levelErr *industry.ErrInvalidEfficiencyLevel
	assert.ErrorAs(t, err, &levelErr)
	assert.Zero(t, oracle.Lookups())
}

func TestTreeExpander_RecursionLimit(t *testing.T) {
	loop := industry.Blueprint{
		BlueprintID:     2,
		ProductID:       1,
		ProductName:     "Ouroboros",
		OutputPerRun:    1,
		BaseTimeSeconds: 60,
		Activity:        industry.ActivityManufacturing,
		Materials:       []industry.Material{{ItemID: 1, Name: "Ouroboros", BaseQuantity: 1}},
	}
	e := newExpander(t, helpers.NewMockBlueprintOracle(loop))

	_, err := e.Expand(context.Background(), services.ExpansionRequest{RootItemID: 1, Runs: 1})

	var limit *industry.ErrRecursionLimit
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 8, limit.Depth)
}

func TestTreeExpander_OracleFailureIsWrapped(t *testing.T) {
	oracle := helpers.NewFixtureOracle()
	oracle.Err = errors.New("database gone")
	e := newExpander(t, oracle)

	_, err := e.Expand(context.Background(), rifterRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database gone")
}
