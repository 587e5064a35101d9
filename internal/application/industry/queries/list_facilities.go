package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// ListFacilitiesQuery lists an owner's facility configurations
type ListFacilitiesQuery struct {
	UserID int `validate:"required,gt=0"`
}

// FacilityDTO is the read model of a facility configuration
type FacilityDTO struct {
	ID        string
	Name      string
	Security  string
	Structure string
	Rigs      []string
	IsDefault bool
}

// ListFacilitiesResponse carries the facilities
type ListFacilitiesResponse struct {
	Facilities []FacilityDTO
}

// ListFacilitiesHandler handles the ListFacilities query
type ListFacilitiesHandler struct {
	ownerResolver *common.OwnerResolver
	facilities    industry.FacilityRepository
}

// NewListFacilitiesHandler creates a new ListFacilitiesHandler
func NewListFacilitiesHandler(ownerResolver *common.OwnerResolver, facilities industry.FacilityRepository) *ListFacilitiesHandler {
	return &ListFacilitiesHandler{ownerResolver: ownerResolver, facilities: facilities}
}

// Handle executes the ListFacilities query
func (h *ListFacilitiesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListFacilitiesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListFacilitiesQuery")
	}

	ownerID, err := h.ownerResolver.ResolveOwner(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	facilities, err := h.facilities.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}

	resp := &ListFacilitiesResponse{Facilities: make([]FacilityDTO, 0, len(facilities))}
	for _, f := range facilities {
		resp.Facilities = append(resp.Facilities, FacilityDTO{
			ID:        f.ID,
			Name:      f.Name,
			Security:  string(f.Security),
			Structure: string(f.Structure),
			Rigs:      f.Rigs,
			IsDefault: f.IsDefault,
		})
	}
	return resp, nil
}
