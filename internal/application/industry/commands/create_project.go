package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// CreateProjectCommand creates a production project and expands its step list
type CreateProjectCommand struct {
	UserID           int     `validate:"required,gt=0"`
	TargetItemID     int     `validate:"required,gt=0"`
	Runs             int     `validate:"required,min=1"`
	MELevel          int     `validate:"min=0,max=10"`
	TELevel          int     `validate:"min=0,max=20,even"`
	MaxDurationDays  float64 `validate:"min=0"` // 0 uses the configured default
	ExcludedItemIDs  []int   `validate:"dive,gt=0"`
	ExcludedGroupIDs []int   `validate:"dive,gt=0"`
	InStockItemIDs   []int   `validate:"dive,gt=0"`
	FacilityID       string  `validate:"omitempty,uuid"`
	JobsStartDate    *time.Time
}

// CreateProjectResponse reports the created project
type CreateProjectResponse struct {
	ProjectID  string
	TargetName string
	StepCount  int
}

// CreateProjectHandler handles the CreateProject command
type CreateProjectHandler struct {
	ownerResolver      *common.OwnerResolver
	planner            *services.PlannerService
	oracle             industry.BlueprintOracle
	defaultMaxDuration float64
	clock              shared.Clock
}

// NewCreateProjectHandler creates a new CreateProjectHandler
func NewCreateProjectHandler(
	ownerResolver *common.OwnerResolver,
	planner *services.PlannerService,
	oracle industry.BlueprintOracle,
	defaultMaxDuration float64,
	clock shared.Clock,
) *CreateProjectHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CreateProjectHandler{
		ownerResolver:      ownerResolver,
		planner:            planner,
		oracle:             oracle,
		defaultMaxDuration: defaultMaxDuration,
		clock:              clock,
	}
}

// Handle executes the CreateProject command
func (h *CreateProjectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateProjectCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateProjectCommand")
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	bp, found, err := h.oracle.FindBlueprint(ctx, cmd.TargetItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up target blueprint: %w", err)
	}
	if !found {
		return nil, &industry.ErrNoBlueprintFound{ItemID: cmd.TargetItemID}
	}

	maxDuration := cmd.MaxDurationDays
	if maxDuration == 0 {
		maxDuration = h.defaultMaxDuration
	}
	settings := industry.ProjectSettings{
		Runs:            cmd.Runs,
		MELevel:         cmd.MELevel,
		TELevel:         cmd.TELevel,
		MaxDurationDays: maxDuration,
		Exclusions:      industry.NewExclusionSet(cmd.ExcludedItemIDs, cmd.ExcludedGroupIDs),
		FacilityID:      cmd.FacilityID,
	}

	var jobsStart time.Time
	if cmd.JobsStartDate != nil {
		jobsStart = *cmd.JobsStartDate
	}

	project, err := industry.NewProject(uuid.NewString(), ownerID, cmd.TargetItemID, bp.ProductName, settings, jobsStart, h.clock)
	if err != nil {
		return nil, err
	}

	if err := h.planner.Plan(ctx, project, toSet(cmd.InStockItemIDs)); err != nil {
		return nil, err
	}

	return &CreateProjectResponse{
		ProjectID:  project.ID(),
		TargetName: project.TargetName(),
		StepCount:  len(project.Steps()),
	}, nil
}

func toSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
