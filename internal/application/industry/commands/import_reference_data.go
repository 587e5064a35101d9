package commands

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// ImportReferenceDataCommand replaces the item and blueprint reference tables with
// the contents of a YAML dump
type ImportReferenceDataCommand struct {
	Data []byte `validate:"required"`
}

// ImportReferenceDataResponse counts the imported rows
type ImportReferenceDataResponse struct {
	Items      int
	Blueprints int
	Materials  int
}

type referenceDump struct {
	Items      []referenceItem      `yaml:"items"`
	Blueprints []referenceBlueprint `yaml:"blueprints"`
}

type referenceItem struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	GroupID  int    `yaml:"group_id"`
	Category string `yaml:"category"`
}

type referenceBlueprint struct {
	BlueprintID     int                 `yaml:"blueprint_id"`
	ProductID       int                 `yaml:"product_id"`
	Activity        string              `yaml:"activity"`
	OutputPerRun    int                 `yaml:"output_per_run"`
	BaseTimeSeconds int                 `yaml:"base_time_seconds"`
	Materials       []referenceMaterial `yaml:"materials"`
}

type referenceMaterial struct {
	ItemID   int `yaml:"item_id"`
	Quantity int `yaml:"quantity"`
}

// ImportReferenceDataHandler handles the ImportReferenceData command
type ImportReferenceDataHandler struct {
	store industry.ReferenceDataStore
}

// NewImportReferenceDataHandler creates a new ImportReferenceDataHandler
func NewImportReferenceDataHandler(store industry.ReferenceDataStore) *ImportReferenceDataHandler {
	return &ImportReferenceDataHandler{store: store}
}

// Handle executes the ImportReferenceData command
func (h *ImportReferenceDataHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportReferenceDataCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportReferenceDataCommand")
	}

	var dump referenceDump
	dec := yaml.NewDecoder(bytes.NewReader(cmd.Data))
	dec.KnownFields(true)
	if err := dec.Decode(&dump); err != nil {
		return nil, shared.NewValidationError("data", fmt.Sprintf("invalid reference dump: %v", err))
	}

	items, blueprints, err := dump.toDomain()
	if err != nil {
		return nil, err
	}

	if err := h.store.ReplaceAll(ctx, items, blueprints); err != nil {
		return nil, fmt.Errorf("failed to replace reference data: %w", err)
	}

	resp := &ImportReferenceDataResponse{Items: len(items), Blueprints: len(blueprints)}
	for _, b := range blueprints {
		resp.Materials += len(b.Materials)
	}
	common.LoggerFromContext(ctx).Info("imported reference data",
		"items", resp.Items, "blueprints", resp.Blueprints, "materials", resp.Materials)
	return resp, nil
}

func (d referenceDump) toDomain() ([]industry.ItemType, []industry.Blueprint, error) {
	known := make(map[int]industry.ItemType, len(d.Items))
	items := make([]industry.ItemType, 0, len(d.Items))
	for _, it := range d.Items {
		if it.ID <= 0 {
			return nil, nil, shared.NewValidationError("items", fmt.Sprintf("item id %d must be positive", it.ID))
		}
		if _, dup := known[it.ID]; dup {
			return nil, nil, shared.NewValidationError("items", fmt.Sprintf("duplicate item %d", it.ID))
		}
		item := industry.ItemType{ItemID: it.ID, Name: it.Name, GroupID: it.GroupID, Category: it.Category}
		known[it.ID] = item
		items = append(items, item)
	}

	blueprints := make([]industry.Blueprint, 0, len(d.Blueprints))
	for _, b := range d.Blueprints {
		activity := industry.ActivityKind(b.Activity)
		if activity == "" {
			activity = industry.ActivityManufacturing
		}
		if !activity.IsValid() {
			return nil, nil, shared.NewValidationError("blueprints", fmt.Sprintf("blueprint %d has unknown activity %q", b.BlueprintID, b.Activity))
		}
		if b.OutputPerRun < 1 {
			return nil, nil, shared.NewValidationError("blueprints", fmt.Sprintf("blueprint %d must output at least one unit per run", b.BlueprintID))
		}
		product, ok := known[b.ProductID]
		if !ok {
			return nil, nil, shared.NewValidationError("blueprints", fmt.Sprintf("blueprint %d produces unknown item %d", b.BlueprintID, b.ProductID))
		}

		bp := industry.Blueprint{
			BlueprintID:     b.BlueprintID,
			ProductID:       b.ProductID,
			ProductName:     product.Name,
			ProductGroupID:  product.GroupID,
			ProductCategory: product.Category,
			OutputPerRun:    b.OutputPerRun,
			BaseTimeSeconds: b.BaseTimeSeconds,
			Activity:        activity,
		}
		for _, m := range b.Materials {
			mat, ok := known[m.ItemID]
			if !ok {
				return nil, nil, shared.NewValidationError("blueprints", fmt.Sprintf("blueprint %d consumes unknown item %d", b.BlueprintID, m.ItemID))
			}
			bp.Materials = append(bp.Materials, industry.Material{
				ItemID:       m.ItemID,
				Name:         mat.Name,
				GroupID:      mat.GroupID,
				Category:     mat.Category,
				BaseQuantity: m.Quantity,
			})
		}
		blueprints = append(blueprints, bp)
	}
	return items, blueprints, nil
}
