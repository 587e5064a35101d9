package industry

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// SecurityClass is the security band of the system a structure is anchored in
type SecurityClass string

const (
	SecurityHighsec SecurityClass = "highsec"
	SecurityLowsec  SecurityClass = "lowsec"
	SecurityNullsec SecurityClass = "nullsec"
)

// Multiplier scales rig bonuses by security band
func (s SecurityClass) Multiplier() float64 {
	switch s {
	case SecurityLowsec:
		return 1.9
	case SecurityNullsec:
		return 2.1
	default:
		return 1.0
	}
}

func (s SecurityClass) IsValid() bool {
	return s == SecurityHighsec || s == SecurityLowsec || s == SecurityNullsec
}

// StructureClass is the hull type of the facility
type StructureClass string

const (
	StructureStation            StructureClass = "station"
	StructureEngineeringComplex StructureClass = "engineering_complex"
	StructureRefinery           StructureClass = "refinery"
)

// TimeRoleBonus returns the hull's built-in time reduction for an activity, in percent
func (s StructureClass) TimeRoleBonus(activity ActivityKind) float64 {
	switch {
	case s == StructureEngineeringComplex && activity == ActivityManufacturing:
		return 15
	case s == StructureRefinery && activity == ActivityReaction:
		return 25
	default:
		return 0
	}
}

func (s StructureClass) IsValid() bool {
	return s == StructureStation || s == StructureEngineeringComplex || s == StructureRefinery
}

// Facility is a named facility configuration owned by a user
type Facility struct {
	ID        string
	OwnerID   int
	Name      string
	Security  SecurityClass
	Structure StructureClass
	Rigs      []string
	IsDefault bool
}

// NewFacility validates and creates a facility configuration
func NewFacility(id string, ownerID int, name string, security SecurityClass, structure StructureClass, rigs []string) (*Facility, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("name", "facility name is required")
	}
	if !security.IsValid() {
		return nil, shared.NewValidationError("security", fmt.Sprintf("unknown security class %q", security))
	}
	if structure == "" {
		structure = StructureStation
	}
	if !structure.IsValid() {
		return nil, shared.NewValidationError("structure", fmt.Sprintf("unknown structure class %q", structure))
	}

	return &Facility{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Security:  security,
		Structure: structure,
		Rigs:      append([]string(nil), rigs...),
	}, nil
}

// Fingerprint identifies the bonus-relevant part of the configuration
func (f *Facility) Fingerprint() string {
	if f == nil {
		return ""
	}
	return string(f.Security) + "|" + string(f.Structure) + "|" + strings.Join(f.Rigs, "\x1f")
}
