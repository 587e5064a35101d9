package common

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// OwnerResolver turns a raw user id from a caller into a verified owner.
//
// Business rules:
//   - The id must be positive
//   - The user must exist; commands never create owners implicitly
type OwnerResolver struct {
	userRepo account.UserRepository
}

// NewOwnerResolver creates a new owner resolver with required dependencies.
func NewOwnerResolver(userRepo account.UserRepository) *OwnerResolver {
	return &OwnerResolver{
		userRepo: userRepo,
	}
}

// ResolveOwner validates the id and checks that the user exists.
func (r *OwnerResolver) ResolveOwner(ctx context.Context, userID int) (shared.UserID, error) {
	uid, err := shared.NewUserID(userID)
	if err != nil {
		return shared.UserID{}, fmt.Errorf("invalid user ID: %w", err)
	}

	if _, err := r.userRepo.FindByID(ctx, uid); err != nil {
		return shared.UserID{}, fmt.Errorf("failed to find user %d: %w", userID, err)
	}

	return uid, nil
}
