package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// ExclusionInput replaces a project's own exclusion set
type ExclusionInput struct {
	ItemIDs  []int `validate:"dive,gt=0"`
	GroupIDs []int `validate:"dive,gt=0"`
}

// UpdateProjectCommand edits a project. Nil fields are left unchanged.
// Expansion inputs trigger a re-expansion; a duration-only change re-splits the
// existing steps; cost and date fields are plain updates.
type UpdateProjectCommand struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`

	Runs            *int            `validate:"omitempty,min=1"`
	MELevel         *int            `validate:"omitempty,min=0,max=10"`
	TELevel         *int            `validate:"omitempty,min=0,max=20,even"`
	MaxDurationDays *float64        `validate:"omitempty,gt=0"`
	Exclusions      *ExclusionInput `validate:"omitempty"`
	FacilityID      *string         `validate:"omitempty"`
	InStockItemIDs  []int           `validate:"dive,gt=0"`

	BlueprintCost  *decimal.Decimal
	MaterialCost   *decimal.Decimal
	TransportCost  *decimal.Decimal
	Tax            *decimal.Decimal
	SellPrice      *decimal.Decimal
	ClearSellPrice bool
	JobsStartDate  *time.Time
}

// UpdateProjectResponse reports what the update did to the step list
type UpdateProjectResponse struct {
	ProjectID  string
	Reexpanded bool
	Resplit    bool
	StepCount  int
}

// UpdateProjectHandler handles the UpdateProject command
type UpdateProjectHandler struct {
	ownerResolver *common.OwnerResolver
	projects      industry.ProjectRepository
	planner       *services.PlannerService
}

// NewUpdateProjectHandler creates a new UpdateProjectHandler
func NewUpdateProjectHandler(
	ownerResolver *common.OwnerResolver,
	projects industry.ProjectRepository,
	planner *services.PlannerService,
) *UpdateProjectHandler {
	return &UpdateProjectHandler{
		ownerResolver: ownerResolver,
		projects:      projects,
		planner:       planner,
	}
}

// Handle executes the UpdateProject command
func (h *UpdateProjectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*UpdateProjectCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpdateProjectCommand")
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	project, err := h.projects.FindByID(ctx, cmd.ProjectID, ownerID)
	if err != nil {
		return nil, err
	}

	h.applyFieldUpdates(project, cmd)

	current := project.Settings()
	next := current
	if cmd.Runs != nil {
		next.Runs = *cmd.Runs
	}
	if cmd.MELevel != nil {
		next.MELevel = *cmd.MELevel
	}
	if cmd.TELevel != nil {
		next.TELevel = *cmd.TELevel
	}
	if cmd.Exclusions != nil {
		next.Exclusions = industry.NewExclusionSet(cmd.Exclusions.ItemIDs, cmd.Exclusions.GroupIDs)
	}
	if cmd.FacilityID != nil {
		next.FacilityID = *cmd.FacilityID
	}

	resp := &UpdateProjectResponse{ProjectID: project.ID()}

	expansionChanged := !next.Equals(current) || len(cmd.InStockItemIDs) > 0
	switch {
	case expansionChanged:
		if cmd.MaxDurationDays != nil {
			next.MaxDurationDays = *cmd.MaxDurationDays
		}
		if _, err := project.Reconfigure(next); err != nil {
			return nil, err
		}
		if err := h.planner.Plan(ctx, project, toSet(cmd.InStockItemIDs)); err != nil {
			return nil, err
		}
		resp.Reexpanded = true
	case cmd.MaxDurationDays != nil && *cmd.MaxDurationDays != current.MaxDurationDays:
		if _, err := h.planner.Resplit(ctx, project, *cmd.MaxDurationDays); err != nil {
			return nil, err
		}
		resp.Resplit = true
	default:
		if err := h.projects.Save(ctx, project); err != nil {
			return nil, fmt.Errorf("failed to save project: %w", err)
		}
	}

	resp.StepCount = len(project.Steps())
	return resp, nil
}

func (h *UpdateProjectHandler) applyFieldUpdates(project *industry.Project, cmd *UpdateProjectCommand) {
	costs := project.Costs()
	changed := false
	for _, f := range []struct {
		src *decimal.Decimal
		dst *decimal.Decimal
	}{
		{cmd.BlueprintCost, &costs.BlueprintCost},
		{cmd.MaterialCost, &costs.MaterialCost},
		{cmd.TransportCost, &costs.TransportCost},
		{cmd.Tax, &costs.Tax},
	} {
		if f.src != nil {
			*f.dst = *f.src
			changed = true
		}
	}
	if changed {
		project.SetCosts(costs)
	}

	if cmd.ClearSellPrice {
		project.SetSellPrice(nil)
	} else if cmd.SellPrice != nil {
		price := *cmd.SellPrice
		project.SetSellPrice(&price)
	}
	if cmd.JobsStartDate != nil {
		project.SetJobsStartDate(*cmd.JobsStartDate)
	}
}
