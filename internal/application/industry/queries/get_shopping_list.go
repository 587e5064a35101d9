package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// GetShoppingListQuery builds the purchase list of a project
type GetShoppingListQuery struct {
	UserID     int    `validate:"required,gt=0"`
	ProjectID  string `validate:"required"`
	NetAssets  bool
	WithPrices bool
}

// GetShoppingListResponse carries the purchase list
type GetShoppingListResponse struct {
	ProjectID string
	Items     []services.ShoppingItem
}

// GetShoppingListHandler handles the GetShoppingList query
type GetShoppingListHandler struct {
	ownerResolver *common.OwnerResolver
	projects      industry.ProjectRepository
	shopping      *services.ShoppingListService
}

// NewGetShoppingListHandler creates a new GetShoppingListHandler
func NewGetShoppingListHandler(
	ownerResolver *common.OwnerResolver,
	projects industry.ProjectRepository,
	shopping *services.ShoppingListService,
) *GetShoppingListHandler {
	return &GetShoppingListHandler{ownerResolver: ownerResolver, projects: projects, shopping: shopping}
}

// Handle executes the GetShoppingList query
func (h *GetShoppingListHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetShoppingListQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetShoppingListQuery")
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	project, err := h.projects.FindByID(ctx, query.ProjectID, ownerID)
	if err != nil {
		return nil, err
	}

	items, err := h.shopping.Build(ctx, project, services.ShoppingListOptions{
		NetAssets:  query.NetAssets,
		WithPrices: query.WithPrices,
	})
	if err != nil {
		return nil, err
	}
	return &GetShoppingListResponse{ProjectID: project.ID(), Items: items}, nil
}
