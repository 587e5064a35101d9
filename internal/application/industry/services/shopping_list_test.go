package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

func expandedRifter(t *testing.T) *industry.Project {
	t.Helper()
	steps, err := newExpander(t, helpers.NewFixtureOracle()).Expand(context.Background(), rifterRequest())
	require.NoError(t, err)

	settings := industry.ProjectSettings{Runs: 10, MELevel: 10, TELevel: 20, MaxDurationDays: 30}
	p, err := industry.NewProject("project-1", owner, helpers.ItemRifter, "Rifter", settings, reconcileStart, shared.NewMockClock(reconcileStart))
	require.NoError(t, err)
	p.ReplaceSteps(steps)
	return p
}

func quantities(items []services.ShoppingItem) map[int]int {
	out := make(map[int]int, len(items))
	for _, it := range items {
		out[it.ItemID] = it.Quantity
	}
	return out
}

func itemOrder(items []services.ShoppingItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ItemID
	}
	return out
}

func TestBuildShoppingList_AccumulatesByItemInFirstSeenOrder(t *testing.T) {
	p := expandedRifter(t)

	items := services.BuildShoppingList(p.Steps())

	assert.Equal(t, []int{
		helpers.ItemTritanium,
		helpers.ItemMexallon,
		helpers.ItemPyerite,
		helpers.ItemHydrocarbons,
		helpers.ItemSilicates,
	}, itemOrder(items))
	assert.Equal(t, 29700, quantities(items)[helpers.ItemTritanium])
	assert.Equal(t, "Tritanium", items[0].Name)
}

func TestBuildShoppingList_SkipsPurchasedAndCoveredLeaves(t *testing.T) {
	p := expandedRifter(t)
	steps := p.Steps()
	steps[2].Purchased = true         // Mexallon
	steps[7].InStockQuantity = 100    // Hydrocarbons
	steps[1].InStockQuantity = 1600   // first Tritanium leaf
	steps[0].InStockQuantity = 999999 // production steps are ignored

	items := services.BuildShoppingList(steps)

	q := quantities(items)
	assert.NotContains(t, q, helpers.ItemMexallon)
	assert.NotContains(t, q, helpers.ItemHydrocarbons)
	assert.Equal(t, 28100, q[helpers.ItemTritanium])
}

func TestNetAgainstStock(t *testing.T) {
	items := []services.ShoppingItem{
		{ItemID: 34, Quantity: 29700},
		{ItemID: 36, Quantity: 90},
	}

	out := services.NetAgainstStock(items, map[int]int{34: 10000, 36: 500})

	require.Len(t, out, 1)
	assert.Equal(t, 19700, out[0].Quantity)
	assert.Equal(t, 29700, items[0].Quantity, "input is not modified")
}

func TestShoppingListService_NetsAssetsAndAttachesPrices(t *testing.T) {
	// Arrange
	p := expandedRifter(t)
	stock := helpers.NewMockStockProvider()
	stock.SetStock(owner, helpers.ItemTritanium, 10000)
	prices := helpers.NewMockPriceFeed()
	prices.SetPrice(helpers.ItemPyerite, decimal.RequireFromString("12.5"))
	svc := services.NewShoppingListService(stock, prices)

	// Act
	items, err := svc.Build(context.Background(), p, services.ShoppingListOptions{NetAssets: true, WithPrices: true})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 19700, quantities(items)[helpers.ItemTritanium])
	for _, it := range items {
		switch it.ItemID {
		case helpers.ItemPyerite:
			require.NotNil(t, it.EstimatedCost)
			assert.True(t, decimal.NewFromInt(40500).Equal(*it.EstimatedCost))
			assert.True(t, decimal.RequireFromString("12.5").Equal(*it.UnitPrice))
		default:
			assert.Nil(t, it.UnitPrice)
			assert.Nil(t, it.EstimatedCost)
		}
	}
}

func TestShoppingListService_PriceFailureLeavesPricesEmpty(t *testing.T) {
	p := expandedRifter(t)
	prices := helpers.NewMockPriceFeed()
	prices.Err = errors.New("market closed")
	svc := services.NewShoppingListService(nil, prices)

	items, err := svc.Build(context.Background(), p, services.ShoppingListOptions{WithPrices: true, NetAssets: true})

	require.NoError(t, err)
	assert.Len(t, items, 5)
	for _, it := range items {
		assert.Nil(t, it.UnitPrice)
	}
}

func TestComputeTotals(t *testing.T) {
	p := expandedRifter(t)
	p.Steps()[0].Matches = []industry.JobMatch{{JobID: 501, Runs: 10, Cost: decimal.NewFromInt(15000)}}
	p.SetCosts(industry.ProjectCosts{MaterialCost: decimal.NewFromInt(500000)})

	totals := services.ComputeTotals(p)
	assert.True(t, decimal.NewFromInt(15000).Equal(totals.JobCost))
	assert.True(t, decimal.NewFromInt(515000).Equal(totals.TotalCost))
	assert.Nil(t, totals.Profit)

	sell := decimal.NewFromInt(2000000)
	p.SetSellPrice(&sell)
	totals = services.ComputeTotals(p)
	require.NotNil(t, totals.Profit)
	assert.True(t, decimal.NewFromInt(1485000).Equal(*totals.Profit))
}
