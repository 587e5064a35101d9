package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// ReconcileJobsCommand matches the owner's external industry jobs onto a project's steps
type ReconcileJobsCommand struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`
}

// ReconcileJobsResponse carries the reconciliation report
type ReconcileJobsResponse struct {
	ProjectID string
	Report    *services.ReconciliationReport
}

// ReconcileJobsHandler handles the ReconcileJobs command
type ReconcileJobsHandler struct {
	ownerResolver *common.OwnerResolver
	projects      industry.ProjectRepository
	characters    account.CharacterRepository
	reconciler    *services.JobReconciler
}

// NewReconcileJobsHandler creates a new ReconcileJobsHandler
func NewReconcileJobsHandler(
	ownerResolver *common.OwnerResolver,
	projects industry.ProjectRepository,
	characters account.CharacterRepository,
	reconciler *services.JobReconciler,
) *ReconcileJobsHandler {
	return &ReconcileJobsHandler{
		ownerResolver: ownerResolver,
		projects:      projects,
		characters:    characters,
		reconciler:    reconciler,
	}
}

// Handle executes the ReconcileJobs command
func (h *ReconcileJobsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ReconcileJobsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ReconcileJobsCommand")
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	project, err := h.projects.FindByID(ctx, cmd.ProjectID, ownerID)
	if err != nil {
		return nil, err
	}
	if project.IsCompleted() {
		return nil, &industry.ErrInvalidProjectState{CurrentState: string(project.Status()), Attempted: "reconcile"}
	}

	characters, err := h.characters.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load characters: %w", err)
	}
	matchedElsewhere, err := h.projects.MatchedJobIDs(ctx, ownerID, project.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load matched jobs: %w", err)
	}

	report, err := h.reconciler.Reconcile(ctx, project, characters, matchedElsewhere)
	if err != nil {
		return nil, err
	}
	if err := h.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save reconciled project: %w", err)
	}

	return &ReconcileJobsResponse{ProjectID: project.ID(), Report: report}, nil
}
