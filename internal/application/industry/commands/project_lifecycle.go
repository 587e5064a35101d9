package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// CompleteProjectCommand marks a project completed
type CompleteProjectCommand struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`
}

// ReopenProjectCommand returns a completed project to active
type ReopenProjectCommand struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`
}

// DeleteProjectCommand removes a project with its steps and job matches
type DeleteProjectCommand struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`
}

// ProjectStatusResponse reports a project's status after a lifecycle change
type ProjectStatusResponse struct {
	ProjectID string
	Status    string
}

// ProjectLifecycleHandler handles CompleteProject, ReopenProject and DeleteProject
type ProjectLifecycleHandler struct {
	ownerResolver *common.OwnerResolver
	projects      industry.ProjectRepository
}

// NewProjectLifecycleHandler creates a new ProjectLifecycleHandler
func NewProjectLifecycleHandler(ownerResolver *common.OwnerResolver, projects industry.ProjectRepository) *ProjectLifecycleHandler {
	return &ProjectLifecycleHandler{
		ownerResolver: ownerResolver,
		projects:      projects,
	}
}

// Handle executes one of the lifecycle commands
func (h *ProjectLifecycleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	switch cmd := request.(type) {
	case *CompleteProjectCommand:
		return h.transition(ctx, cmd.UserID, cmd.ProjectID, (*industry.Project).Complete)
	case *ReopenProjectCommand:
		return h.transition(ctx, cmd.UserID, cmd.ProjectID, (*industry.Project).Reopen)
	case *DeleteProjectCommand:
		ownerID, err := h.ownerResolver.ResolveOwner(ctx, cmd.UserID)
		if err != nil {
			return nil, err
		}
		if err := h.projects.Delete(ctx, cmd.ProjectID, ownerID); err != nil {
			return nil, err
		}
		common.LoggerFromContext(ctx).Info("deleted project", "project", cmd.ProjectID)
		return &ProjectStatusResponse{ProjectID: cmd.ProjectID, Status: "deleted"}, nil
	default:
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
}

func (h *ProjectLifecycleHandler) transition(
	ctx context.Context,
	userID int,
	projectID string,
	apply func(*industry.Project) error,
) (mediator.Response, error) {
	ownerID, err := h.ownerResolver.ResolveOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	project, err := h.projects.FindByID(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := apply(project); err != nil {
		return nil, err
	}
	if err := h.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	return &ProjectStatusResponse{ProjectID: project.ID(), Status: string(project.Status())}, nil
}
