package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// GormExclusionRepository implements industry.ExclusionRepository using GORM
type GormExclusionRepository struct {
	db *gorm.DB
}

// NewGormExclusionRepository creates a new GORM exclusion repository
func NewGormExclusionRepository(db *gorm.DB) *GormExclusionRepository {
	return &GormExclusionRepository{db: db}
}

// Add stores an exclusion; adding an existing entry is a no-op
func (r *GormExclusionRepository) Add(ctx context.Context, exclusion industry.Exclusion) error {
	model := &ExclusionModel{
		OwnerID:  exclusion.OwnerID,
		Kind:     string(exclusion.Kind),
		TargetID: exclusion.TargetID,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add exclusion: %w", err)
	}
	return nil
}

// Remove deletes an exclusion if present
func (r *GormExclusionRepository) Remove(ctx context.Context, exclusion industry.Exclusion) error {
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ? AND target_id = ?", exclusion.OwnerID, string(exclusion.Kind), exclusion.TargetID).
		Delete(&ExclusionModel{}).Error; err != nil {
		return fmt.Errorf("failed to remove exclusion: %w", err)
	}
	return nil
}

// FindByOwner returns every exclusion of the owner
func (r *GormExclusionRepository) FindByOwner(ctx context.Context, ownerID shared.UserID) ([]industry.Exclusion, error) {
	var models []ExclusionModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.Value()).
		Order("kind ASC, target_id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list exclusions: %w", err)
	}

	exclusions := make([]industry.Exclusion, 0, len(models))
	for _, m := range models {
		exclusions = append(exclusions, industry.Exclusion{
			OwnerID:  m.OwnerID,
			Kind:     industry.ExclusionKind(m.Kind),
			TargetID: m.TargetID,
		})
	}
	return exclusions, nil
}
