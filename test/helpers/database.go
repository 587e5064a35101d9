package helpers

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/industry-planner/internal/adapters/persistence"
	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/database"
)

// NewTestDB creates a new SQLite in-memory database for testing
func NewTestDB(t *testing.T) *gorm.DB {
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Cleanup after test
	if t != nil {
		t.Cleanup(func() {
			database.Close(db)
		})
	}

	return db
}

// SeedUser inserts a user and returns its id
func SeedUser(t *testing.T, db *gorm.DB, id int, name string) shared.UserID {
	userID := shared.MustNewUserID(id)
	if err := persistence.NewGormUserRepository(db).Add(context.Background(), account.NewUser(userID, name)); err != nil {
		t.Fatalf("failed to seed user %d: %v", id, err)
	}
	return userID
}
