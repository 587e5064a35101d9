package esi

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/adapters/metrics"
)

type pricePayload struct {
	TypeID        int     `json:"type_id"`
	AveragePrice  float64 `json:"average_price"`
	AdjustedPrice float64 `json:"adjusted_price"`
}

// PriceFeed reads reference market prices from the API
type PriceFeed struct {
	client *Client
}

// NewPriceFeed creates a price feed over the client
func NewPriceFeed(client *Client) *PriceFeed {
	return &PriceFeed{client: client}
}

// Prices returns the average price of each requested item, falling back to the
// adjusted price. Items without either are absent.
func (f *PriceFeed) Prices(ctx context.Context, itemIDs []int) (map[int]decimal.Decimal, error) {
	var payload []pricePayload
	if err := f.client.get(ctx, "/markets/prices/", "/markets/prices/", "", nil, &payload); err != nil {
		metrics.RecordFeedError("prices")
		return nil, fmt.Errorf("failed to fetch market prices: %w", err)
	}

	wanted := make(map[int]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}

	prices := make(map[int]decimal.Decimal, len(itemIDs))
	for _, p := range payload {
		if _, ok := wanted[p.TypeID]; !ok {
			continue
		}
		switch {
		case p.AveragePrice > 0:
			prices[p.TypeID] = decimal.NewFromFloat(p.AveragePrice)
		case p.AdjustedPrice > 0:
			prices[p.TypeID] = decimal.NewFromFloat(p.AdjustedPrice)
		}
	}
	return prices, nil
}
