package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// GetProjectTotalsQuery computes a project's cost roll-up
type GetProjectTotalsQuery struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`
}

// GetProjectTotalsResponse carries the totals
type GetProjectTotalsResponse struct {
	ProjectID string
	Totals    services.ProjectTotals
}

// GetProjectTotalsHandler handles the GetProjectTotals query
type GetProjectTotalsHandler struct {
	ownerResolver *common.OwnerResolver
	projects      industry.ProjectRepository
}

// NewGetProjectTotalsHandler creates a new GetProjectTotalsHandler
func NewGetProjectTotalsHandler(ownerResolver *common.OwnerResolver, projects industry.ProjectRepository) *GetProjectTotalsHandler {
	return &GetProjectTotalsHandler{ownerResolver: ownerResolver, projects: projects}
}

// Handle executes the GetProjectTotals query
func (h *GetProjectTotalsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetProjectTotalsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetProjectTotalsQuery")
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	project, err := h.projects.FindByID(ctx, query.ProjectID, ownerID)
	if err != nil {
		return nil, err
	}
	return &GetProjectTotalsResponse{ProjectID: project.ID(), Totals: services.ComputeTotals(project)}, nil
}
