package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// ListProjectsQuery lists an owner's projects, optionally by status
type ListProjectsQuery struct {
	UserID int    `validate:"required,gt=0"`
	Status string `validate:"omitempty,oneof=active completed"`
}

// ListProjectsResponse carries project summaries
type ListProjectsResponse struct {
	Projects []ProjectSummaryDTO
}

// ListProjectsHandler handles the ListProjects query
type ListProjectsHandler struct {
	ownerResolver *common.OwnerResolver
	projects      industry.ProjectRepository
}

// NewListProjectsHandler creates a new ListProjectsHandler
func NewListProjectsHandler(ownerResolver *common.OwnerResolver, projects industry.ProjectRepository) *ListProjectsHandler {
	return &ListProjectsHandler{ownerResolver: ownerResolver, projects: projects}
}

// Handle executes the ListProjects query
func (h *ListProjectsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListProjectsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListProjectsQuery")
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	projects, err := h.projects.FindByOwner(ctx, ownerID, industry.ProjectStatus(query.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	resp := &ListProjectsResponse{Projects: make([]ProjectSummaryDTO, 0, len(projects))}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, ProjectSummaryDTO{
			ID:          p.ID(),
			TargetName:  p.TargetName(),
			Status:      string(p.Status()),
			Runs:        p.Settings().Runs,
			StepCount:   len(p.Steps()),
			CompletedAt: p.CompletedAt(),
			CreatedAt:   p.CreatedAt(),
		})
	}
	return resp, nil
}
