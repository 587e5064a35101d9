package industry

import "math"

// ActivityKind identifies the industry activity a blueprint runs
type ActivityKind string

const (
	ActivityManufacturing ActivityKind = "manufacturing"
	ActivityReaction      ActivityKind = "reaction"
)

// IsValid reports whether the activity is one the planner can schedule
func (a ActivityKind) IsValid() bool {
	return a == ActivityManufacturing || a == ActivityReaction
}

// Material is one input of a blueprint with its unmodified per-run quantity
type Material struct {
	ItemID       int
	Name         string
	GroupID      int
	Category     string
	BaseQuantity int
}

// Blueprint describes how one product item is made
type Blueprint struct {
	BlueprintID     int
	ProductID       int
	ProductName     string
	ProductGroupID  int
	ProductCategory string
	OutputPerRun    int
	BaseTimeSeconds int
	Activity        ActivityKind
	Materials       []Material
}

// RequiredQuantity applies an efficiency reduction to a material requirement.
// Partial units round up and a nonzero base never yields zero demand.
func RequiredQuantity(baseQuantity, runs int, efficiencyPercent float64) int {
	raw := float64(baseQuantity) * float64(runs)
	if raw <= 0 {
		return 0
	}
	// Round away float noise before ceiling so 42.0000000001 stays 42
	reduced := math.Round(raw*(1-efficiencyPercent/100)*1e6) / 1e6
	qty := int(math.Ceil(reduced))
	if qty < 1 {
		return 1
	}
	return qty
}

// RunsFor returns how many runs produce at least quantity units
func RunsFor(quantity, outputPerRun int) int {
	if outputPerRun <= 0 {
		outputPerRun = 1
	}
	return (quantity + outputPerRun - 1) / outputPerRun
}

// TimePerRun applies blueprint and facility time reductions to a base run time
func TimePerRun(baseSeconds int, blueprintTE, facilityTE float64) int {
	return int(math.Round(float64(baseSeconds) * (1 - blueprintTE/100) * (1 - facilityTE/100)))
}
