package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// UpdateStepCommand edits one step. Nil fields are left unchanged.
type UpdateStepCommand struct {
	UserID          int    `validate:"required,gt=0"`
	ProjectID       string `validate:"required"`
	StepID          string `validate:"required"`
	Runs            *int   `validate:"omitempty,min=1"`
	Purchased       *bool
	InStockQuantity *int `validate:"omitempty,min=0"`
	ManualJobData   *bool
}

// DeleteStepCommand removes one step from a project
type DeleteStepCommand struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`
	StepID    string `validate:"required"`
}

// AttachJobCommand binds an external job to a step by hand. A job listed among the
// step's similar jobs needs only its id; any other job needs its runs.
type AttachJobCommand struct {
	UserID      int    `validate:"required,gt=0"`
	ProjectID   string `validate:"required"`
	StepID      string `validate:"required"`
	JobID       int64  `validate:"required,gt=0"`
	CharacterID int64  `validate:"omitempty,gt=0"`
	Runs        int    `validate:"omitempty,min=1"`
	Cost        string `validate:"omitempty,numeric"`
	Status      string `validate:"omitempty,oneof=active paused ready delivered"`
}

// DetachJobCommand unbinds an external job from a step
type DetachJobCommand struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`
	StepID    string `validate:"required"`
	JobID     int64  `validate:"required,gt=0"`
}

// StepResponse identifies the edited step
type StepResponse struct {
	ProjectID string
	StepID    string
	StepCount int
}

// StepHandler handles step edits and manual job binding
type StepHandler struct {
	ownerResolver *common.OwnerResolver
	projects      industry.ProjectRepository
}

// NewStepHandler creates a new StepHandler
func NewStepHandler(ownerResolver *common.OwnerResolver, projects industry.ProjectRepository) *StepHandler {
	return &StepHandler{
		ownerResolver: ownerResolver,
		projects:      projects,
	}
}

// Handle executes UpdateStep, DeleteStep, AttachJob or DetachJob
func (h *StepHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	switch cmd := request.(type) {
	case *UpdateStepCommand:
		return h.withProject(ctx, cmd.UserID, cmd.ProjectID, cmd.StepID, func(_ shared.UserID, p *industry.Project) error {
			return applyStepUpdate(p, cmd)
		})
	case *DeleteStepCommand:
		return h.withProject(ctx, cmd.UserID, cmd.ProjectID, cmd.StepID, func(_ shared.UserID, p *industry.Project) error {
			return p.RemoveStep(cmd.StepID)
		})
	case *AttachJobCommand:
		return h.withProject(ctx, cmd.UserID, cmd.ProjectID, cmd.StepID, func(ownerID shared.UserID, p *industry.Project) error {
			return h.attachJob(ctx, ownerID, p, cmd)
		})
	case *DetachJobCommand:
		return h.withProject(ctx, cmd.UserID, cmd.ProjectID, cmd.StepID, func(_ shared.UserID, p *industry.Project) error {
			return p.DetachJob(cmd.StepID, cmd.JobID)
		})
	default:
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
}

func (h *StepHandler) withProject(
	ctx context.Context,
	userID int,
	projectID, stepID string,
	edit func(shared.UserID, *industry.Project) error,
) (mediator.Response, error) {
	ownerID, err := h.ownerResolver.ResolveOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	project, err := h.projects.FindByID(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	if project.IsCompleted() {
		return nil, &industry.ErrInvalidProjectState{CurrentState: string(project.Status()), Attempted: "edit step"}
	}
	if err := edit(ownerID, project); err != nil {
		return nil, err
	}
	if err := h.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	return &StepResponse{ProjectID: project.ID(), StepID: stepID, StepCount: len(project.Steps())}, nil
}

func applyStepUpdate(project *industry.Project, cmd *UpdateStepCommand) error {
	if cmd.Runs != nil {
		if err := project.ChangeStepRuns(cmd.StepID, *cmd.Runs); err != nil {
			return err
		}
	}

	step, err := project.StepByID(cmd.StepID)
	if err != nil {
		return err
	}
	if cmd.Purchased != nil {
		step.Purchased = *cmd.Purchased
	}
	if cmd.InStockQuantity != nil {
		if *cmd.InStockQuantity > step.Quantity {
			return shared.NewValidationError("in_stock_quantity", fmt.Sprintf("exceeds required quantity %d", step.Quantity))
		}
		step.InStockQuantity = *cmd.InStockQuantity
	}
	if cmd.ManualJobData != nil {
		step.ManualJobData = *cmd.ManualJobData
	}
	return nil
}

func (h *StepHandler) attachJob(ctx context.Context, ownerID shared.UserID, project *industry.Project, cmd *AttachJobCommand) error {
	elsewhere, err := h.projects.MatchedJobIDs(ctx, ownerID, project.ID())
	if err != nil {
		return fmt.Errorf("failed to load matched jobs: %w", err)
	}
	if _, taken := elsewhere[cmd.JobID]; taken {
		return &industry.ErrJobAlreadyBound{JobID: cmd.JobID}
	}

	match := industry.JobMatch{
		JobID:       cmd.JobID,
		CharacterID: cmd.CharacterID,
		Runs:        cmd.Runs,
		Status:      industry.JobStatus(cmd.Status),
	}
	if cmd.Cost != "" {
		cost, err := decimal.NewFromString(cmd.Cost)
		if err != nil || cost.IsNegative() {
			return shared.NewValidationError("cost", "must be a non-negative amount")
		}
		match.Cost = cost
	}
	return project.AttachJob(cmd.StepID, match)
}
