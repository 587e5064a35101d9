package account

import (
	"context"

	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// UserRepository defines user persistence operations
type UserRepository interface {
	FindByID(ctx context.Context, userID shared.UserID) (*User, error)
	Add(ctx context.Context, user *User) error
}

// CharacterRepository defines character persistence operations
type CharacterRepository interface {
	FindByOwner(ctx context.Context, ownerID shared.UserID) ([]*Character, error)
	Add(ctx context.Context, character *Character) error
}
