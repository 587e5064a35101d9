package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// MockJobFeed is a test double for industry.JobFeed
type MockJobFeed struct {
	mu     sync.RWMutex
	jobs   map[int64][]industry.IndustryJob // characterID -> jobs
	errors map[int64]error                  // characterID -> failure
	calls  map[int64]int
}

// NewMockJobFeed creates an empty job feed
func NewMockJobFeed() *MockJobFeed {
	return &MockJobFeed{
		jobs:   make(map[int64][]industry.IndustryJob),
		errors: make(map[int64]error),
		calls:  make(map[int64]int),
	}
}

// AddJob publishes a job under its installer
func (m *MockJobFeed) AddJob(job industry.IndustryJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.CharacterID] = append(m.jobs[job.CharacterID], job)
}

// SetJobStatus changes the status of a published job
func (m *MockJobFeed) SetJobStatus(jobID int64, status industry.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for char, jobs := range m.jobs {
		for i := range jobs {
			if jobs[i].JobID == jobID {
				m.jobs[char][i].Status = status
			}
		}
	}
}

// FailCharacter makes every call for the character fail with err
func (m *MockJobFeed) FailCharacter(characterID int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[characterID] = err
}

// ListJobs returns the character's published jobs
func (m *MockJobFeed) ListJobs(ctx context.Context, character *account.Character) ([]industry.IndustryJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[character.ID]++

	if err, ok := m.errors[character.ID]; ok {
		return nil, err
	}
	return append([]industry.IndustryJob(nil), m.jobs[character.ID]...), nil
}

// Calls returns how often the character's feed was read
func (m *MockJobFeed) Calls(characterID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[characterID]
}

// MockPriceFeed is a test double for industry.PriceFeed
type MockPriceFeed struct {
	mu     sync.RWMutex
	prices map[int]decimal.Decimal

	// Err is returned by every call when set
	Err error
}

// NewMockPriceFeed creates a price feed without prices
func NewMockPriceFeed() *MockPriceFeed {
	return &MockPriceFeed{prices: make(map[int]decimal.Decimal)}
}

// SetPrice sets the reference price of an item
func (m *MockPriceFeed) SetPrice(itemID int, price decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[itemID] = price
}

// Prices returns the known prices among the requested items
func (m *MockPriceFeed) Prices(ctx context.Context, itemIDs []int) (map[int]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, fmt.Errorf("price feed failed: %w", m.Err)
	}
	out := make(map[int]decimal.Decimal)
	for _, id := range itemIDs {
		if p, ok := m.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// MockStockProvider is a test double for industry.StockProvider
type MockStockProvider struct {
	mu    sync.RWMutex
	stock map[int]map[int]int // ownerID -> itemID -> quantity
}

// NewMockStockProvider creates a provider with no stock
func NewMockStockProvider() *MockStockProvider {
	return &MockStockProvider{stock: make(map[int]map[int]int)}
}

// SetStock records the owner's on-hand quantity of an item
func (m *MockStockProvider) SetStock(ownerID shared.UserID, itemID, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stock[ownerID.Value()] == nil {
		m.stock[ownerID.Value()] = make(map[int]int)
	}
	m.stock[ownerID.Value()][itemID] = quantity
}

// StockByItem returns the owner's stock
func (m *MockStockProvider) StockByItem(ctx context.Context, ownerID shared.UserID) (map[int]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int]int)
	for id, qty := range m.stock[ownerID.Value()] {
		out[id] = qty
	}
	return out, nil
}
