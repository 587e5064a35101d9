package helpers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// Item ids of the fixture universe
const (
	ItemTritanium = 34
	ItemPyerite   = 35
	ItemMexallon  = 36

	ItemHydrocarbons   = 16633
	ItemSilicates      = 16636
	ItemFerniteCarbide = 16673

	ItemFusionThruster = 11532
	ItemRifter         = 587

	GroupMinerals        = 18
	GroupMoonMaterials   = 427
	GroupComposites      = 429
	GroupConstructionCmp = 334
	GroupFrigate         = 25
)

// Blueprint ids of the fixture universe
const (
	BlueprintRifter         = 691
	BlueprintFusionThruster = 11533
	BlueprintFerniteCarbide = 17959
)

// FixtureItems returns the item rows of the fixture universe
func FixtureItems() []industry.ItemType {
	return []industry.ItemType{
		{ItemID: ItemTritanium, Name: "Tritanium", GroupID: GroupMinerals, Category: "mineral"},
		{ItemID: ItemPyerite, Name: "Pyerite", GroupID: GroupMinerals, Category: "mineral"},
		{ItemID: ItemMexallon, Name: "Mexallon", GroupID: GroupMinerals, Category: "mineral"},
		{ItemID: ItemHydrocarbons, Name: "Hydrocarbons", GroupID: GroupMoonMaterials, Category: "moon_material"},
		{ItemID: ItemSilicates, Name: "Silicates", GroupID: GroupMoonMaterials, Category: "moon_material"},
		{ItemID: ItemFerniteCarbide, Name: "Fernite Carbide", GroupID: GroupComposites, Category: "composite"},
		{ItemID: ItemFusionThruster, Name: "Fusion Thruster", GroupID: GroupConstructionCmp, Category: "advanced_component"},
		{ItemID: ItemRifter, Name: "Rifter", GroupID: GroupFrigate, Category: "basic_small_ship"},
	}
}

// FixtureBlueprints returns a three level universe: Rifter consumes Fusion Thrusters
// and Fernite Carbide, the thruster consumes minerals, the carbide is a reaction.
func FixtureBlueprints() []industry.Blueprint {
	items := make(map[int]industry.ItemType)
	for _, it := range FixtureItems() {
		items[it.ItemID] = it
	}
	mat := func(id, qty int) industry.Material {
		it := items[id]
		return industry.Material{ItemID: id, Name: it.Name, GroupID: it.GroupID, Category: it.Category, BaseQuantity: qty}
	}
	product := func(bp industry.Blueprint) industry.Blueprint {
		it := items[bp.ProductID]
		bp.ProductName = it.Name
		bp.ProductGroupID = it.GroupID
		bp.ProductCategory = it.Category
		return bp
	}

	return []industry.Blueprint{
		product(industry.Blueprint{
			BlueprintID:     BlueprintRifter,
			ProductID:       ItemRifter,
			OutputPerRun:    1,
			BaseTimeSeconds: 6000,
			Activity:        industry.ActivityManufacturing,
			Materials: []industry.Material{
				mat(ItemTritanium, 2400),
				mat(ItemMexallon, 10),
				mat(ItemFusionThruster, 10),
				mat(ItemFerniteCarbide, 20),
			},
		}),
		product(industry.Blueprint{
			BlueprintID:     BlueprintFusionThruster,
			ProductID:       ItemFusionThruster,
			OutputPerRun:    1,
			BaseTimeSeconds: 3600,
			Activity:        industry.ActivityManufacturing,
			Materials: []industry.Material{
				mat(ItemTritanium, 100),
				mat(ItemPyerite, 40),
			},
		}),
		product(industry.Blueprint{
			BlueprintID:     BlueprintFerniteCarbide,
			ProductID:       ItemFerniteCarbide,
			OutputPerRun:    200,
			BaseTimeSeconds: 10800,
			Activity:        industry.ActivityReaction,
			Materials: []industry.Material{
				mat(ItemHydrocarbons, 100),
				mat(ItemSilicates, 100),
			},
		}),
	}
}

// MockBlueprintOracle is a test double for industry.BlueprintOracle
type MockBlueprintOracle struct {
	mu         sync.RWMutex
	blueprints map[int]*industry.Blueprint
	lookups    int

	// Err is returned by every lookup when set
	Err error
}

// NewMockBlueprintOracle creates an oracle serving the given blueprints
func NewMockBlueprintOracle(blueprints ...industry.Blueprint) *MockBlueprintOracle {
	m := &MockBlueprintOracle{blueprints: make(map[int]*industry.Blueprint)}
	for _, bp := range blueprints {
		m.AddBlueprint(bp)
	}
	return m
}

// NewFixtureOracle creates an oracle over the fixture universe
func NewFixtureOracle() *MockBlueprintOracle {
	return NewMockBlueprintOracle(FixtureBlueprints()...)
}

// AddBlueprint registers a blueprint under its product id
func (m *MockBlueprintOracle) AddBlueprint(bp industry.Blueprint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copyBP := bp
	copyBP.Materials = append([]industry.Material(nil), bp.Materials...)
	sort.Slice(copyBP.Materials, func(i, j int) bool { return copyBP.Materials[i].ItemID < copyBP.Materials[j].ItemID })
	m.blueprints[bp.ProductID] = &copyBP
}

// FindBlueprint returns the blueprint producing the item
func (m *MockBlueprintOracle) FindBlueprint(ctx context.Context, productID int) (*industry.Blueprint, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++

	if m.Err != nil {
		return nil, false, fmt.Errorf("oracle lookup failed: %w", m.Err)
	}
	bp, ok := m.blueprints[productID]
	return bp, ok, nil
}

// Lookups returns how many lookups were served
func (m *MockBlueprintOracle) Lookups() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookups
}
