package industry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

func TestRequiredQuantity(t *testing.T) {
	tests := []struct {
		name       string
		base       int
		runs       int
		efficiency float64
		want       int
	}{
		{"blueprint ME plus facility bonus", 10, 5, 14.4, 43},
		{"no reduction", 10, 5, 0, 50},
		{"exact product stays exact", 100, 10, 10, 900},
		{"float noise does not add a unit", 2400, 10, 10, 21600},
		{"never below one unit", 1, 1, 10, 1},
		{"zero base needs nothing", 0, 5, 10, 0},
		{"zero runs needs nothing", 10, 0, 10, 0},
		{"nullsec basic rig on ME 10", 10, 5, 14.2, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, industry.RequiredQuantity(tt.base, tt.runs, tt.efficiency))
		})
	}
}

func TestRunsFor(t *testing.T) {
	assert.Equal(t, 1, industry.RunsFor(180, 200))
	assert.Equal(t, 2, industry.RunsFor(201, 200))
	assert.Equal(t, 90, industry.RunsFor(90, 1))
	assert.Equal(t, 7, industry.RunsFor(7, 0), "non-positive output counts as one per run")
}

func TestTimePerRun(t *testing.T) {
	assert.Equal(t, 6000, industry.TimePerRun(6000, 0, 0))
	assert.Equal(t, 2880, industry.TimePerRun(3600, 20, 0))
	assert.Equal(t, 2448, industry.TimePerRun(3600, 20, 15))
}

func TestActivityKind_IsValid(t *testing.T) {
	assert.True(t, industry.ActivityManufacturing.IsValid())
	assert.True(t, industry.ActivityReaction.IsValid())
	assert.False(t, industry.ActivityKind("invention").IsValid())
}
