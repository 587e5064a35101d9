package helpers

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/industry-planner/internal/adapters/cli"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/database"
)

// TestEnvironment is a fully wired planner over an in-memory database with
// mocked external feeds
type TestEnvironment struct {
	DB       *gorm.DB
	Repos    *cli.Repositories
	Mediator mediator.Mediator
	Jobs     *MockJobFeed
	Prices   *MockPriceFeed
	Clock    *shared.MockClock
	Config   *config.Config
}

// NewTestEnvironment opens a fresh database, seeds the fixture universe and wires
// every handler the way the CLI does
func NewTestEnvironment() (*TestEnvironment, error) {
	db, err := database.NewTestConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repos := cli.NewRepositories(db, clock)
	if err := repos.Reference.ReplaceAll(context.Background(), FixtureItems(), FixtureBlueprints()); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	cfg := config.Defaults()
	cfg.Database.Type = "sqlite"
	jobs := NewMockJobFeed()
	prices := NewMockPriceFeed()

	m, err := cli.BuildMediator(cfg, repos, cli.Feeds{Jobs: jobs, Prices: prices}, nil, clock)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	return &TestEnvironment{
		DB:       db,
		Repos:    repos,
		Mediator: m,
		Jobs:     jobs,
		Prices:   prices,
		Clock:    clock,
		Config:   cfg,
	}, nil
}

// Close releases the database
func (e *TestEnvironment) Close() error {
	return database.Close(e.DB)
}
