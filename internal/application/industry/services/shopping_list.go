package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// ShoppingItem is one purchasable material still missing
type ShoppingItem struct {
	ItemID        int
	Name          string
	Quantity      int
	UnitPrice     *decimal.Decimal
	EstimatedCost *decimal.Decimal
}

// ShoppingListOptions selects the optional enrichments
type ShoppingListOptions struct {
	// Subtract the owner's recorded asset stock from each item
	NetAssets bool

	// Attach unit prices and estimated costs from the price feed
	WithPrices bool
}

// BuildShoppingList accumulates the missing quantity of every unpurchased leaf by
// item, in order of first appearance. Items with nothing missing are omitted.
func BuildShoppingList(steps []industry.Step) []ShoppingItem {
	index := make(map[int]int)
	var items []ShoppingItem
	for i := range steps {
		s := &steps[i]
		if !s.Leaf || s.Purchased {
			continue
		}
		missing := s.MissingQuantity()
		if pos, ok := index[s.ProductID]; ok {
			items[pos].Quantity += missing
			continue
		}
		index[s.ProductID] = len(items)
		items = append(items, ShoppingItem{ItemID: s.ProductID, Name: s.ProductName, Quantity: missing})
	}
	return compact(items)
}

// NetAgainstStock reduces each item by the on-hand quantity, never below zero
func NetAgainstStock(items []ShoppingItem, stock map[int]int) []ShoppingItem {
	out := make([]ShoppingItem, len(items))
	for i, it := range items {
		it.Quantity -= stock[it.ItemID]
		if it.Quantity < 0 {
			it.Quantity = 0
		}
		out[i] = it
	}
	return compact(out)
}

func compact(items []ShoppingItem) []ShoppingItem {
	out := items[:0]
	for _, it := range items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

// ShoppingListService enriches the shopping list with stock and prices
type ShoppingListService struct {
	stock  industry.StockProvider
	prices industry.PriceFeed
}

// NewShoppingListService creates a shopping list service; either port may be nil
func NewShoppingListService(stock industry.StockProvider, prices industry.PriceFeed) *ShoppingListService {
	return &ShoppingListService{stock: stock, prices: prices}
}

// Build returns the project's shopping list with the requested enrichments.
// A failing price feed leaves prices empty instead of failing the list.
func (s *ShoppingListService) Build(ctx context.Context, project *industry.Project, opts ShoppingListOptions) ([]ShoppingItem, error) {
	items := BuildShoppingList(project.Steps())

	if opts.NetAssets && s.stock != nil {
		stock, err := s.stock.StockByItem(ctx, project.OwnerID())
		if err != nil {
			return nil, fmt.Errorf("failed to load asset stock: %w", err)
		}
		items = NetAgainstStock(items, stock)
	}

	if opts.WithPrices && s.prices != nil && len(items) > 0 {
		ids := make([]int, len(items))
		for i, it := range items {
			ids[i] = it.ItemID
		}
		prices, err := s.prices.Prices(ctx, ids)
		if err != nil {
			common.LoggerFromContext(ctx).Warn("price feed unavailable, listing without prices", "error", err)
			return items, nil
		}
		for i := range items {
			if p, ok := prices[items[i].ItemID]; ok {
				unit := p
				cost := p.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
				items[i].UnitPrice = &unit
				items[i].EstimatedCost = &cost
			}
		}
	}
	return items, nil
}

// ProjectTotals is the cost roll-up of a project
type ProjectTotals struct {
	BlueprintCost decimal.Decimal
	MaterialCost  decimal.Decimal
	TransportCost decimal.Decimal
	Tax           decimal.Decimal
	JobCost       decimal.Decimal
	TotalCost     decimal.Decimal
	SellPrice     *decimal.Decimal

	// Absent when no sell price is recorded
	Profit *decimal.Decimal
}

// ComputeTotals sums recorded costs and the cost of every matched job
func ComputeTotals(project *industry.Project) ProjectTotals {
	costs := project.Costs()
	jobCost := decimal.Zero
	for i := range project.Steps() {
		jobCost = jobCost.Add(project.Steps()[i].JobCost())
	}

	totals := ProjectTotals{
		BlueprintCost: costs.BlueprintCost,
		MaterialCost:  costs.MaterialCost,
		TransportCost: costs.TransportCost,
		Tax:           costs.Tax,
		JobCost:       jobCost,
		TotalCost:     costs.Total().Add(jobCost),
		SellPrice:     project.SellPrice(),
	}
	if sell := project.SellPrice(); sell != nil {
		profit := sell.Sub(totals.TotalCost)
		totals.Profit = &profit
	}
	return totals
}

// StockSnapshot is a StockProvider over a fixed map, used when callers pass stock inline
type StockSnapshot map[int]int

func (s StockSnapshot) StockByItem(_ context.Context, _ shared.UserID) (map[int]int, error) {
	return s, nil
}
