package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// AddExclusionCommand excludes an item or a whole group from production in every
// future expansion of the owner's projects
type AddExclusionCommand struct {
	UserID   int    `validate:"required,gt=0"`
	Kind     string `validate:"required,oneof=item group"`
	TargetID int    `validate:"required,gt=0"`
}

// RemoveExclusionCommand drops an owner-wide exclusion
type RemoveExclusionCommand struct {
	UserID   int    `validate:"required,gt=0"`
	Kind     string `validate:"required,oneof=item group"`
	TargetID int    `validate:"required,gt=0"`
}

// ExclusionResponse lists the owner's exclusions after the change
type ExclusionResponse struct {
	ItemIDs  []int
	GroupIDs []int
}

// ExclusionHandler handles AddExclusion and RemoveExclusion
type ExclusionHandler struct {
	ownerResolver *common.OwnerResolver
	exclusions    industry.ExclusionRepository
}

// NewExclusionHandler creates a new ExclusionHandler
func NewExclusionHandler(ownerResolver *common.OwnerResolver, exclusions industry.ExclusionRepository) *ExclusionHandler {
	return &ExclusionHandler{
		ownerResolver: ownerResolver,
		exclusions:    exclusions,
	}
}

// Handle executes AddExclusion or RemoveExclusion
func (h *ExclusionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	var (
		userID int
		entry  industry.Exclusion
		add    bool
	)
	switch cmd := request.(type) {
	case *AddExclusionCommand:
		userID, add = cmd.UserID, true
		entry = industry.Exclusion{Kind: industry.ExclusionKind(cmd.Kind), TargetID: cmd.TargetID}
	case *RemoveExclusionCommand:
		userID = cmd.UserID
		entry = industry.Exclusion{Kind: industry.ExclusionKind(cmd.Kind), TargetID: cmd.TargetID}
	default:
		return nil, fmt.Errorf("invalid request type: %T", request)
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry.OwnerID = ownerID.Value()

	if add {
		err = h.exclusions.Add(ctx, entry)
	} else {
		err = h.exclusions.Remove(ctx, entry)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update exclusions: %w", err)
	}

	entries, err := h.exclusions.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusions: %w", err)
	}
	set := industry.ExclusionSetFromEntries(entries)
	return &ExclusionResponse{ItemIDs: set.ItemIDs(), GroupIDs: set.GroupIDs()}, nil
}
