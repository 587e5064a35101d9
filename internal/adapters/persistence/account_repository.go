package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// GormUserRepository implements account.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID retrieves a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, userID shared.UserID) (*account.User, error) {
	var model UserModel
	result := r.db.WithContext(ctx).Where("id = ?", userID.Value()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("user", userID.String())
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}

	id, err := shared.NewUserID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %w", err)
	}
	return account.NewUser(id, model.Name), nil
}

// Add persists a user; an existing id is updated in place
func (r *GormUserRepository) Add(ctx context.Context, user *account.User) error {
	model := &UserModel{
		ID:        user.ID.Value(),
		Name:      user.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	return nil
}

// GormCharacterRepository implements account.CharacterRepository using GORM
type GormCharacterRepository struct {
	db *gorm.DB
}

// NewGormCharacterRepository creates a new GORM character repository
func NewGormCharacterRepository(db *gorm.DB) *GormCharacterRepository {
	return &GormCharacterRepository{db: db}
}

// FindByOwner retrieves the owner's characters ordered by id
func (r *GormCharacterRepository) FindByOwner(ctx context.Context, ownerID shared.UserID) ([]*account.Character, error) {
	var models []CharacterModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.Value()).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	characters := make([]*account.Character, 0, len(models))
	for _, m := range models {
		characters = append(characters, account.NewCharacter(m.ID, ownerID, m.Name, m.AccessToken))
	}
	return characters, nil
}

// Add persists a character
func (r *GormCharacterRepository) Add(ctx context.Context, character *account.Character) error {
	model := &CharacterModel{
		ID:          character.ID,
		OwnerID:     character.OwnerID.Value(),
		Name:        character.Name,
		AccessToken: character.AccessToken,
	}
	if err := r.db.WithContext(ctx).Omit("Owner").Save(model).Error; err != nil {
		return fmt.Errorf("failed to add character: %w", err)
	}
	return nil
}
