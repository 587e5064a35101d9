package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/adapters/persistence"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

func TestReferenceRepository_ReplaceAllAndFindBlueprint(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormReferenceRepository(db)

	// Act
	require.NoError(t, repo.ReplaceAll(context.Background(), helpers.FixtureItems(), helpers.FixtureBlueprints()))
	bp, found, err := repo.FindBlueprint(context.Background(), helpers.ItemRifter)

	// Assert
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, helpers.BlueprintRifter, bp.BlueprintID)
	assert.Equal(t, "Rifter", bp.ProductName)
	assert.Equal(t, helpers.GroupFrigate, bp.ProductGroupID)
	assert.Equal(t, 6000, bp.BaseTimeSeconds)

	var ids []int
	for _, m := range bp.Materials {
		ids = append(ids, m.ItemID)
	}
	assert.Equal(t, []int{helpers.ItemTritanium, helpers.ItemMexallon, helpers.ItemFusionThruster, helpers.ItemFerniteCarbide}, ids)
	assert.Equal(t, "Fusion Thruster", bp.Materials[2].Name)
	assert.Equal(t, "advanced_component", bp.Materials[2].Category)
}

func TestReferenceRepository_ReactionsAndRawMaterials(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormReferenceRepository(db)
	require.NoError(t, repo.ReplaceAll(context.Background(), helpers.FixtureItems(), helpers.FixtureBlueprints()))

	reaction, found, err := repo.FindBlueprint(context.Background(), helpers.ItemFerniteCarbide)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, industry.ActivityReaction, reaction.Activity)
	assert.Equal(t, 200, reaction.OutputPerRun)

	_, found, err = repo.FindBlueprint(context.Background(), helpers.ItemTritanium)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReferenceRepository_ReplaceAllDropsCachedTables(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormReferenceRepository(db)
	require.NoError(t, repo.ReplaceAll(context.Background(), helpers.FixtureItems(), helpers.FixtureBlueprints()))
	_, found, err := repo.FindBlueprint(context.Background(), helpers.ItemRifter)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, repo.ReplaceAll(context.Background(), helpers.FixtureItems(), nil))

	_, found, err = repo.FindBlueprint(context.Background(), helpers.ItemRifter)
	require.NoError(t, err)
	assert.False(t, found)
}
