package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// PreviewExpansionQuery expands and splits an item without creating a project
type PreviewExpansionQuery struct {
	UserID           int     `validate:"required,gt=0"`
	ItemID           int     `validate:"required,gt=0"`
	Runs             int     `validate:"required,min=1"`
	MELevel          int     `validate:"min=0,max=10"`
	TELevel          int     `validate:"min=0,max=20,even"`
	MaxDurationDays  float64 `validate:"min=0"`
	ExcludedItemIDs  []int   `validate:"dive,gt=0"`
	ExcludedGroupIDs []int   `validate:"dive,gt=0"`
	InStockItemIDs   []int   `validate:"dive,gt=0"`
	FacilityID       string
}

// PreviewExpansionResponse carries the unsaved step list
type PreviewExpansionResponse struct {
	Steps    []StepDTO
	Shopping []services.ShoppingItem
}

// PreviewExpansionHandler handles the PreviewExpansion query
type PreviewExpansionHandler struct {
	ownerResolver      *common.OwnerResolver
	planner            *services.PlannerService
	defaultMaxDuration float64
}

// NewPreviewExpansionHandler creates a new PreviewExpansionHandler
func NewPreviewExpansionHandler(
	ownerResolver *common.OwnerResolver,
	planner *services.PlannerService,
	defaultMaxDuration float64,
) *PreviewExpansionHandler {
	return &PreviewExpansionHandler{
		ownerResolver:      ownerResolver,
		planner:            planner,
		defaultMaxDuration: defaultMaxDuration,
	}
}

// Handle executes the PreviewExpansion query
func (h *PreviewExpansionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*PreviewExpansionQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PreviewExpansionQuery")
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	maxDuration := query.MaxDurationDays
	if maxDuration == 0 {
		maxDuration = h.defaultMaxDuration
	}
	inStock := make(map[int]bool, len(query.InStockItemIDs))
	for _, id := range query.InStockItemIDs {
		inStock[id] = true
	}

	steps, err := h.planner.Expand(ctx, ownerID, industry.ProjectSettings{
		Runs:            query.Runs,
		MELevel:         query.MELevel,
		TELevel:         query.TELevel,
		MaxDurationDays: maxDuration,
		Exclusions:      industry.NewExclusionSet(query.ExcludedItemIDs, query.ExcludedGroupIDs),
		FacilityID:      query.FacilityID,
	}, query.ItemID, inStock)
	if err != nil {
		return nil, err
	}

	return &PreviewExpansionResponse{
		Steps:    toStepDTOs(steps),
		Shopping: services.BuildShoppingList(steps),
	}, nil
}
