package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// SaveFacilityCommand creates a facility, or replaces one when FacilityID is set
type SaveFacilityCommand struct {
	UserID      int      `validate:"required,gt=0"`
	FacilityID  string   `validate:"omitempty,uuid"`
	Name        string   `validate:"required,max=100"`
	Security    string   `validate:"required,oneof=highsec lowsec nullsec"`
	Structure   string   `validate:"omitempty,oneof=station engineering_complex refinery"`
	Rigs        []string `validate:"max=3,dive,required"`
	MakeDefault bool
}

// SetDefaultFacilityCommand makes one facility the owner's default
type SetDefaultFacilityCommand struct {
	UserID     int    `validate:"required,gt=0"`
	FacilityID string `validate:"required"`
}

// DeleteFacilityCommand removes a facility
type DeleteFacilityCommand struct {
	UserID     int    `validate:"required,gt=0"`
	FacilityID string `validate:"required"`
}

// FacilityResponse identifies the affected facility
type FacilityResponse struct {
	FacilityID  string
	IsDefault   bool
	UnknownRigs []string
}

// FacilityHandler handles SaveFacility, SetDefaultFacility and DeleteFacility
type FacilityHandler struct {
	ownerResolver *common.OwnerResolver
	facilities    industry.FacilityRepository
	bonuses       *industry.BonusResolver
}

// NewFacilityHandler creates a new FacilityHandler
func NewFacilityHandler(
	ownerResolver *common.OwnerResolver,
	facilities industry.FacilityRepository,
	bonuses *industry.BonusResolver,
) *FacilityHandler {
	return &FacilityHandler{
		ownerResolver: ownerResolver,
		facilities:    facilities,
		bonuses:       bonuses,
	}
}

// Handle executes one of the facility commands
func (h *FacilityHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	switch cmd := request.(type) {
	case *SaveFacilityCommand:
		return h.save(ctx, cmd)
	case *SetDefaultFacilityCommand:
		ownerID, err := h.ownerResolver.ResolveOwner(ctx, cmd.UserID)
		if err != nil {
			return nil, err
		}
		if err := h.facilities.SetDefault(ctx, cmd.FacilityID, ownerID); err != nil {
			return nil, err
		}
		return &FacilityResponse{FacilityID: cmd.FacilityID, IsDefault: true}, nil
	case *DeleteFacilityCommand:
		ownerID, err := h.ownerResolver.ResolveOwner(ctx, cmd.UserID)
		if err != nil {
			return nil, err
		}
		if err := h.facilities.Delete(ctx, cmd.FacilityID, ownerID); err != nil {
			return nil, err
		}
		return &FacilityResponse{FacilityID: cmd.FacilityID}, nil
	default:
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
}

func (h *FacilityHandler) save(ctx context.Context, cmd *SaveFacilityCommand) (mediator.Response, error) {
	ownerID, err := h.ownerResolver.ResolveOwner(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	id := cmd.FacilityID
	isDefault := cmd.MakeDefault
	if id == "" {
		id = uuid.NewString()
	} else {
		existing, err := h.facilities.FindByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		isDefault = isDefault || existing.IsDefault
	}

	facility, err := industry.NewFacility(
		id,
		ownerID.Value(),
		cmd.Name,
		industry.SecurityClass(cmd.Security),
		industry.StructureClass(cmd.Structure),
		cmd.Rigs,
	)
	if err != nil {
		return nil, err
	}
	facility.IsDefault = isDefault

	unknown := h.bonuses.UnknownRigs(facility)
	if len(unknown) > 0 {
		common.LoggerFromContext(ctx).Warn("facility has rigs missing from the rig catalog", "facility", facility.Name, "rigs", unknown)
	}

	if err := h.facilities.Save(ctx, facility); err != nil {
		return nil, fmt.Errorf("failed to save facility: %w", err)
	}
	return &FacilityResponse{FacilityID: facility.ID, IsDefault: facility.IsDefault, UnknownRigs: unknown}, nil
}
