package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// ResplitProjectCommand applies a new max job duration without re-expanding
type ResplitProjectCommand struct {
	UserID          int     `validate:"required,gt=0"`
	ProjectID       string  `validate:"required"`
	MaxDurationDays float64 `validate:"required,gt=0"`
}

// AddSplitFragmentCommand adds a manually sized fragment to a step's split group
type AddSplitFragmentCommand struct {
	UserID    int    `validate:"required,gt=0"`
	ProjectID string `validate:"required"`
	StepID    string `validate:"required"`
	Runs      int    `validate:"required,min=1"`
}

// SplitResponse summarizes the step list after a split change
type SplitResponse struct {
	ProjectID   string
	StepCount   int
	SplitGroups int
}

// SplitHandler handles ResplitProject and AddSplitFragment
type SplitHandler struct {
	ownerResolver *common.OwnerResolver
	projects      industry.ProjectRepository
	planner       *services.PlannerService
}

// NewSplitHandler creates a new SplitHandler
func NewSplitHandler(
	ownerResolver *common.OwnerResolver,
	projects industry.ProjectRepository,
	planner *services.PlannerService,
) *SplitHandler {
	return &SplitHandler{
		ownerResolver: ownerResolver,
		projects:      projects,
		planner:       planner,
	}
}

// Handle executes ResplitProject or AddSplitFragment
func (h *SplitHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	var userID int
	var projectID string
	switch cmd := request.(type) {
	case *ResplitProjectCommand:
		userID, projectID = cmd.UserID, cmd.ProjectID
	case *AddSplitFragmentCommand:
		userID, projectID = cmd.UserID, cmd.ProjectID
	default:
		return nil, fmt.Errorf("invalid request type: %T", request)
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	project, err := h.projects.FindByID(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}

	var steps []industry.Step
	switch cmd := request.(type) {
	case *ResplitProjectCommand:
		steps, err = h.planner.Resplit(ctx, project, cmd.MaxDurationDays)
	case *AddSplitFragmentCommand:
		steps, err = h.planner.AddFragment(ctx, project, cmd.StepID, cmd.Runs)
	}
	if err != nil {
		return nil, err
	}

	groups := make(map[string]struct{})
	for _, st := range steps {
		if st.SplitGroupID != "" {
			groups[st.SplitGroupID] = struct{}{}
		}
	}
	return &SplitResponse{
		ProjectID:   project.ID(),
		StepCount:   len(steps),
		SplitGroups: len(groups),
	}, nil
}
