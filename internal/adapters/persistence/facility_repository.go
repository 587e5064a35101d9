package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// GormFacilityRepository implements industry.FacilityRepository using GORM
type GormFacilityRepository struct {
	db *gorm.DB
}

// NewGormFacilityRepository creates a new GORM facility repository
func NewGormFacilityRepository(db *gorm.DB) *GormFacilityRepository {
	return &GormFacilityRepository{db: db}
}

// Save upserts a facility. Saving a default facility clears the owner's other
// defaults in the same transaction.
func (r *GormFacilityRepository) Save(ctx context.Context, facility *industry.Facility) error {
	model := facilityToModel(facility)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing FacilityModel
		err := tx.Where("id = ?", model.ID).First(&existing).Error
		switch {
		case err == nil:
			model.CreatedAt = existing.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			model.CreatedAt = time.Now().UTC()
		default:
			return fmt.Errorf("failed to load facility: %w", err)
		}

		if model.IsDefault {
			if err := clearDefaults(tx, model.OwnerID); err != nil {
				return err
			}
		}
		if err := tx.Save(model).Error; err != nil {
			return fmt.Errorf("failed to save facility: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a facility owned by the user
func (r *GormFacilityRepository) FindByID(ctx context.Context, id string, ownerID shared.UserID) (*industry.Facility, error) {
	var model FacilityModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID.Value()).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &industry.ErrFacilityNotFound{FacilityID: id}
		}
		return nil, fmt.Errorf("failed to find facility: %w", result.Error)
	}
	return modelToFacility(&model), nil
}

// FindByOwner retrieves the owner's facilities ordered by name
func (r *GormFacilityRepository) FindByOwner(ctx context.Context, ownerID shared.UserID) ([]*industry.Facility, error) {
	var models []FacilityModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.Value()).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}

	facilities := make([]*industry.Facility, 0, len(models))
	for i := range models {
		facilities = append(facilities, modelToFacility(&models[i]))
	}
	return facilities, nil
}

// FindDefault returns the owner's default facility or nil when none is marked
func (r *GormFacilityRepository) FindDefault(ctx context.Context, ownerID shared.UserID) (*industry.Facility, error) {
	var model FacilityModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_default = ?", ownerID.Value(), true).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find default facility: %w", result.Error)
	}
	return modelToFacility(&model), nil
}

// SetDefault marks the facility as the owner's only default
func (r *GormFacilityRepository) SetDefault(ctx context.Context, id string, ownerID shared.UserID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&FacilityModel{}).
			Where("id = ? AND owner_id = ?", id, ownerID.Value()).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check facility: %w", err)
		}
		if count == 0 {
			return &industry.ErrFacilityNotFound{FacilityID: id}
		}

		if err := clearDefaults(tx, ownerID.Value()); err != nil {
			return err
		}
		if err := tx.Model(&FacilityModel{}).
			Where("id = ? AND owner_id = ?", id, ownerID.Value()).
			Update("is_default", true).Error; err != nil {
			return fmt.Errorf("failed to set default facility: %w", err)
		}
		return nil
	})
}

// Delete removes a facility
func (r *GormFacilityRepository) Delete(ctx context.Context, id string, ownerID shared.UserID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID.Value()).
		Delete(&FacilityModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete facility: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &industry.ErrFacilityNotFound{FacilityID: id}
	}
	return nil
}

func clearDefaults(tx *gorm.DB, ownerID int) error {
	if err := tx.Model(&FacilityModel{}).
		Where("owner_id = ? AND is_default = ?", ownerID, true).
		Update("is_default", false).Error; err != nil {
		return fmt.Errorf("failed to clear default facilities: %w", err)
	}
	return nil
}

func facilityToModel(f *industry.Facility) *FacilityModel {
	return &FacilityModel{
		ID:        f.ID,
		OwnerID:   f.OwnerID,
		Name:      f.Name,
		Security:  string(f.Security),
		Structure: string(f.Structure),
		Rigs:      f.Rigs,
		IsDefault: f.IsDefault,
	}
}

func modelToFacility(m *FacilityModel) *industry.Facility {
	return &industry.Facility{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		Security:  industry.SecurityClass(m.Security),
		Structure: industry.StructureClass(m.Structure),
		Rigs:      m.Rigs,
		IsDefault: m.IsDefault,
	}
}
