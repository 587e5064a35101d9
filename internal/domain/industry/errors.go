package industry

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// Domain errors for production planning

// ErrNoBlueprintFound indicates the requested root item cannot be manufactured
type ErrNoBlueprintFound struct {
	ItemID int
}

func (e *ErrNoBlueprintFound) Error() string {
	return fmt.Sprintf("no blueprint produces item %d", e.ItemID)
}

// ErrInvalidEfficiencyLevel indicates an ME or TE level outside its allowed range
type ErrInvalidEfficiencyLevel struct {
	Kind  string // "ME" or "TE"
	Level int
	Max   int
}

func (e *ErrInvalidEfficiencyLevel) Error() string {
	return fmt.Sprintf("invalid %s level %d: must be between 0 and %d", e.Kind, e.Level, e.Max)
}

// Unwrap exposes the failure as a validation error for errors.As
func (e *ErrInvalidEfficiencyLevel) Unwrap() error {
	return shared.NewValidationError(strings.ToLower(e.Kind)+"_level", e.Error())
}

// ErrInvalidRunCount indicates a run count below one
type ErrInvalidRunCount struct {
	Runs int
}

func (e *ErrInvalidRunCount) Error() string {
	return fmt.Sprintf("invalid run count %d: must be at least 1", e.Runs)
}

func (e *ErrInvalidRunCount) Unwrap() error {
	return shared.NewValidationError("runs", e.Error())
}

// ErrInvalidDuration indicates a non-positive maximum job duration
type ErrInvalidDuration struct {
	Days float64
}

func (e *ErrInvalidDuration) Error() string {
	return fmt.Sprintf("invalid max job duration %.2f days: must be positive", e.Days)
}

func (e *ErrInvalidDuration) Unwrap() error {
	return shared.NewValidationError("max_duration_days", e.Error())
}

// ErrRecursionLimit indicates the blueprint graph is deeper than the configured ceiling
type ErrRecursionLimit struct {
	ItemID int
	Depth  int
}

func (e *ErrRecursionLimit) Error() string {
	return fmt.Sprintf("expansion of item %d exceeded max depth %d", e.ItemID, e.Depth)
}

// ErrExternalFeedUnavailable indicates a character's job feed could not be read
type ErrExternalFeedUnavailable struct {
	CharacterID int64
	Err         error
}

func (e *ErrExternalFeedUnavailable) Error() string {
	return fmt.Sprintf("job feed unavailable for character %d: %v", e.CharacterID, e.Err)
}

func (e *ErrExternalFeedUnavailable) Unwrap() error {
	return e.Err
}

// ErrProjectNotFound indicates the project does not exist for the owner
type ErrProjectNotFound struct {
	ProjectID string
}

func (e *ErrProjectNotFound) Error() string {
	return fmt.Sprintf("project not found: %s", e.ProjectID)
}

// ErrStepNotFound indicates the step does not belong to the project
type ErrStepNotFound struct {
	ProjectID string
	StepID    string
}

func (e *ErrStepNotFound) Error() string {
	return fmt.Sprintf("step %s not found in project %s", e.StepID, e.ProjectID)
}

// ErrFacilityNotFound indicates the facility configuration does not exist for the owner
type ErrFacilityNotFound struct {
	FacilityID string
}

func (e *ErrFacilityNotFound) Error() string {
	return fmt.Sprintf("facility not found: %s", e.FacilityID)
}

// ErrInvalidProjectState indicates a transition the project status does not allow
type ErrInvalidProjectState struct {
	CurrentState string
	Attempted    string
}

func (e *ErrInvalidProjectState) Error() string {
	return fmt.Sprintf("cannot %s project in %s state", e.Attempted, e.CurrentState)
}

// ErrJobAlreadyBound indicates the external job is matched to another step
type ErrJobAlreadyBound struct {
	JobID     int64
	ProjectID string
	StepID    string
}

func (e *ErrJobAlreadyBound) Error() string {
	if e.StepID == "" {
		return fmt.Sprintf("job %d is already bound to another project", e.JobID)
	}
	return fmt.Sprintf("job %d is already bound to step %s of project %s", e.JobID, e.StepID, e.ProjectID)
}
