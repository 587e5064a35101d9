package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// GetProjectQuery retrieves one project with its steps
type GetProjectQuery struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`
}

// GetProjectResponse carries the project read model
type GetProjectResponse struct {
	Project *ProjectDTO
}

// GetProjectHandler handles the GetProject query
type GetProjectHandler struct {
	ownerResolver *common.OwnerResolver
	projects      industry.ProjectRepository
}

// NewGetProjectHandler creates a new GetProjectHandler
func NewGetProjectHandler(ownerResolver *common.OwnerResolver, projects industry.ProjectRepository) *GetProjectHandler {
	return &GetProjectHandler{ownerResolver: ownerResolver, projects: projects}
}

// Handle executes the GetProject query
func (h *GetProjectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetProjectQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetProjectQuery")
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	project, err := h.projects.FindByID(ctx, query.ProjectID, ownerID)
	if err != nil {
		return nil, err
	}
	return &GetProjectResponse{Project: toProjectDTO(project)}, nil
}
