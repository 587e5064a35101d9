package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/adapters/persistence"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/database"
)

func TestNewTestConnection_MigratesPlannerTables(t *testing.T) {
	db, err := database.NewTestConnection()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	for _, model := range persistence.AllModels() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
}

func TestNewConnection_RejectsUnknownType(t *testing.T) {
	_, err := database.NewConnection(&config.DatabaseConfig{Type: "oracle"})

	assert.ErrorContains(t, err, "unsupported database type")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{"sqlite memory", config.DatabaseConfig{Type: "sqlite"}, ":memory:"},
		{"sqlite file", config.DatabaseConfig{Type: "sqlite", Path: "planner.db"}, "planner.db"},
		{"postgres url", config.DatabaseConfig{Type: "postgres", URL: "postgresql://u:p@db:5432/ind", Host: "ignored"}, "postgresql://u:p@db:5432/ind"},
		{
			"postgres fields",
			config.DatabaseConfig{Type: "postgres", Host: "localhost", Port: 5432, User: "planner", Password: "secret", Name: "industry"},
			"host=localhost port=5432 user=planner password=secret dbname=industry sslmode=disable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
