package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// GormReferenceRepository serves the static blueprint tables. It implements both
// industry.BlueprintOracle and industry.ReferenceDataStore.
//
// The tables are read once into memory on first lookup; expansion never touches the
// database after that. ReplaceAll drops the in-memory copy.
type GormReferenceRepository struct {
	db *gorm.DB

	mu        sync.RWMutex
	loaded    bool
	byProduct map[int]*industry.Blueprint
}

// NewGormReferenceRepository creates a new GORM reference repository
func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// FindBlueprint returns the blueprint producing the item
func (r *GormReferenceRepository) FindBlueprint(ctx context.Context, productID int) (*industry.Blueprint, bool, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	bp, ok := r.byProduct[productID]
	return bp, ok, nil
}

// Load reads all reference tables into memory
func (r *GormReferenceRepository) Load(ctx context.Context) error {
	var items []SDEItemModel
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	var blueprints []SDEBlueprintModel
	if err := r.db.WithContext(ctx).Order("blueprint_id ASC").Find(&blueprints).Error; err != nil {
		return fmt.Errorf("failed to load blueprints: %w", err)
	}
	var materials []SDEBlueprintMaterialModel
	if err := r.db.WithContext(ctx).Order("blueprint_id ASC, material_id ASC").Find(&materials).Error; err != nil {
		return fmt.Errorf("failed to load blueprint materials: %w", err)
	}

	itemByID := make(map[int]SDEItemModel, len(items))
	for _, it := range items {
		itemByID[it.TypeID] = it
	}

	type bpKey struct {
		id       int
		activity string
	}
	materialsByBP := make(map[bpKey][]industry.Material)
	for _, m := range materials {
		it := itemByID[m.MaterialID]
		key := bpKey{m.BlueprintID, m.Activity}
		materialsByBP[key] = append(materialsByBP[key], industry.Material{
			ItemID:       m.MaterialID,
			Name:         it.Name,
			GroupID:      it.GroupID,
			Category:     it.Category,
			BaseQuantity: m.Quantity,
		})
	}

	byProduct := make(map[int]*industry.Blueprint, len(blueprints))
	for _, b := range blueprints {
		// lowest blueprint id wins when several produce the same item
		if _, exists := byProduct[b.ProductID]; exists {
			continue
		}
		product := itemByID[b.ProductID]
		mats := materialsByBP[bpKey{b.BlueprintID, b.Activity}]
		sort.Slice(mats, func(i, j int) bool { return mats[i].ItemID < mats[j].ItemID })

		byProduct[b.ProductID] = &industry.Blueprint{
			BlueprintID:     b.BlueprintID,
			ProductID:       b.ProductID,
			ProductName:     product.Name,
			ProductGroupID:  product.GroupID,
			ProductCategory: product.Category,
			OutputPerRun:    b.OutputPerRun,
			BaseTimeSeconds: b.BaseTimeSeconds,
			Activity:        industry.ActivityKind(b.Activity),
			Materials:       mats,
		}
	}

	r.mu.Lock()
	r.byProduct = byProduct
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// ReplaceAll swaps the reference tables for the given rows in one transaction
func (r *GormReferenceRepository) ReplaceAll(ctx context.Context, items []industry.ItemType, blueprints []industry.Blueprint) error {
	itemModels := make([]SDEItemModel, 0, len(items))
	for _, it := range items {
		itemModels = append(itemModels, SDEItemModel{
			TypeID:   it.ItemID,
			Name:     it.Name,
			GroupID:  it.GroupID,
			Category: it.Category,
		})
	}

	bpModels := make([]SDEBlueprintModel, 0, len(blueprints))
	var matModels []SDEBlueprintMaterialModel
	for _, b := range blueprints {
		bpModels = append(bpModels, SDEBlueprintModel{
			BlueprintID:     b.BlueprintID,
			Activity:        string(b.Activity),
			ProductID:       b.ProductID,
			OutputPerRun:    b.OutputPerRun,
			BaseTimeSeconds: b.BaseTimeSeconds,
		})
		for _, m := range b.Materials {
			matModels = append(matModels, SDEBlueprintMaterialModel{
				BlueprintID: b.BlueprintID,
				Activity:    string(b.Activity),
				MaterialID:  m.ItemID,
				Quantity:    m.BaseQuantity,
			})
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&SDEBlueprintMaterialModel{}, &SDEBlueprintModel{}, &SDEItemModel{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear reference table: %w", err)
			}
		}
		if len(itemModels) > 0 {
			if err := tx.CreateInBatches(itemModels, 500).Error; err != nil {
				return fmt.Errorf("failed to insert items: %w", err)
			}
		}
		if len(bpModels) > 0 {
			if err := tx.CreateInBatches(bpModels, 500).Error; err != nil {
				return fmt.Errorf("failed to insert blueprints: %w", err)
			}
		}
		if len(matModels) > 0 {
			if err := tx.CreateInBatches(matModels, 500).Error; err != nil {
				return fmt.Errorf("failed to insert blueprint materials: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.loaded = false
	r.byProduct = nil
	r.mu.Unlock()
	return nil
}

func (r *GormReferenceRepository) ensureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}
	return r.Load(ctx)
}
