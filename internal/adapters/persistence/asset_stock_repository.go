package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// GormAssetStockRepository reads and writes on-hand item quantities.
// It implements industry.StockProvider.
type GormAssetStockRepository struct {
	db *gorm.DB
}

// NewGormAssetStockRepository creates a new GORM asset stock repository
func NewGormAssetStockRepository(db *gorm.DB) *GormAssetStockRepository {
	return &GormAssetStockRepository{db: db}
}

// StockByItem returns on-hand quantity per item id for the owner
func (r *GormAssetStockRepository) StockByItem(ctx context.Context, ownerID shared.UserID) (map[int]int, error) {
	var models []AssetStockModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND quantity > 0", ownerID.Value()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load asset stock: %w", err)
	}

	stock := make(map[int]int, len(models))
	for _, m := range models {
		stock[m.ItemID] = m.Quantity
	}
	return stock, nil
}

// Upsert records the on-hand quantity of one item
func (r *GormAssetStockRepository) Upsert(ctx context.Context, ownerID shared.UserID, itemID, quantity int) error {
	model := &AssetStockModel{
		OwnerID:   ownerID.Value(),
		ItemID:    itemID,
		Quantity:  quantity,
		UpdatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert asset stock: %w", err)
	}
	return nil
}
