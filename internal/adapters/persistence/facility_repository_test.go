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

func facility(t *testing.T, id string, owner int, isDefault bool) *industry.Facility {
	t.Helper()
	f, err := industry.NewFacility(id, owner, "Facility "+id, industry.SecurityLowsec, industry.StructureEngineeringComplex,
		[]string{"Standup M-Set Equipment Manufacturing Time Efficiency I"})
	require.NoError(t, err)
	f.IsDefault = isDefault
	return f
}

func TestFacilityRepository_SaveAndFind(t *testing.T) {
	db := helpers.NewTestDB(t)
	owner := helpers.SeedUser(t, db, 1, "builder")
	repo := persistence.NewGormFacilityRepository(db)

	require.NoError(t, repo.Save(context.Background(), facility(t, "a", 1, false)))
	found, err := repo.FindByID(context.Background(), "a", owner)

	require.NoError(t, err)
	assert.Equal(t, "Facility a", found.Name)
	assert.Equal(t, industry.SecurityLowsec, found.Security)
	assert.Equal(t, industry.StructureEngineeringComplex, found.Structure)
	assert.Equal(t, []string{"Standup M-Set Equipment Manufacturing Time Efficiency I"}, found.Rigs)
	assert.False(t, found.IsDefault)
}

func TestFacilityRepository_AtMostOneDefault(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	owner := helpers.SeedUser(t, db, 1, "builder")
	repo := persistence.NewGormFacilityRepository(db)
	require.NoError(t, repo.Save(context.Background(), facility(t, "a", 1, true)))

	// Act
	require.NoError(t, repo.Save(context.Background(), facility(t, "b", 1, true)))

	// Assert
	def, err := repo.FindDefault(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "b", def.ID)

	require.NoError(t, repo.SetDefault(context.Background(), "a", owner))
	all, err := repo.FindByOwner(context.Background(), owner)
	require.NoError(t, err)
	defaults := 0
	for _, f := range all {
		if f.IsDefault {
			defaults++
			assert.Equal(t, "a", f.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestFacilityRepository_DefaultsArePerOwner(t *testing.T) {
	db := helpers.NewTestDB(t)
	owner := helpers.SeedUser(t, db, 1, "builder")
	other := helpers.SeedUser(t, db, 2, "rival")
	repo := persistence.NewGormFacilityRepository(db)
	require.NoError(t, repo.Save(context.Background(), facility(t, "a", 1, true)))
	require.NoError(t, repo.Save(context.Background(), facility(t, "b", 2, true)))

	mine, err := repo.FindDefault(context.Background(), owner)
	require.NoError(t, err)
	theirs, err := repo.FindDefault(context.Background(), other)
	require.NoError(t, err)

	assert.Equal(t, "a", mine.ID)
	assert.Equal(t, "b", theirs.ID)
}

func TestFacilityRepository_NoDefaultIsNil(t *testing.T) {
	db := helpers.NewTestDB(t)
	owner := helpers.SeedUser(t, db, 1, "builder")
	repo := persistence.NewGormFacilityRepository(db)

	def, err := repo.FindDefault(context.Background(), owner)

	require.NoError(t, err)
	assert.Nil(t, def)
}

func TestFacilityRepository_UnknownFacility(t *testing.T) {
	db := helpers.NewTestDB(t)
	owner := helpers.SeedUser(t, db, 1, "builder")
	other := helpers.SeedUser(t, db, 2, "rival")
	repo := persistence.NewGormFacilityRepository(db)
	require.NoError(t, repo.Save(context.Background(), facility(t, "a", 1, false)))

	var notFound *industry.ErrFacilityNotFound
	assert.ErrorAs(t, repo.SetDefault(context.Background(), "a", other), &notFound)
	_, err := repo.FindByID(context.Background(), "a", other)
	assert.ErrorAs(t, err, &notFound)

	require.NoError(t, repo.Delete(context.Background(), "a", owner))
	assert.ErrorAs(t, repo.Delete(context.Background(), "a", owner), &notFound)
}
