package industry

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// ProjectStatus represents the lifecycle state of a production project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
)

const (
	MaxMELevel = 10
	MaxTELevel = 20
)

// ProjectSettings are the inputs that determine a project's expansion.
// Changing any of them requires re-expanding the step list.
type ProjectSettings struct {
	Runs            int
	MELevel         int
	TELevel         int
	MaxDurationDays float64
	Exclusions      ExclusionSet
	FacilityID      string
}

// Validate checks run count, efficiency levels and duration
func (s ProjectSettings) Validate() error {
	if err := ValidateExpansionInput(s.Runs, s.MELevel, s.TELevel); err != nil {
		return err
	}
	if s.MaxDurationDays <= 0 {
		return &ErrInvalidDuration{Days: s.MaxDurationDays}
	}
	return nil
}

// Equals reports whether two settings produce the same expansion
func (s ProjectSettings) Equals(other ProjectSettings) bool {
	return s.Runs == other.Runs &&
		s.MELevel == other.MELevel &&
		s.TELevel == other.TELevel &&
		s.MaxDurationDays == other.MaxDurationDays &&
		s.FacilityID == other.FacilityID &&
		s.Exclusions.Equals(other.Exclusions)
}

// ValidateExpansionInput checks the inputs the tree expander accepts
func ValidateExpansionInput(runs, me, te int) error {
	if runs < 1 {
		return &ErrInvalidRunCount{Runs: runs}
	}
	if me < 0 || me > MaxMELevel {
		return &ErrInvalidEfficiencyLevel{Kind: "ME", Level: me, Max: MaxMELevel}
	}
	if te < 0 || te > MaxTELevel || te%2 != 0 {
		return &ErrInvalidEfficiencyLevel{Kind: "TE", Level: te, Max: MaxTELevel}
	}
	return nil
}

// ProjectCosts are the operator-recorded cost inputs
type ProjectCosts struct {
	BlueprintCost decimal.Decimal
	MaterialCost  decimal.Decimal
	TransportCost decimal.Decimal
	Tax           decimal.Decimal
}

// Total sums every recorded cost field
func (c ProjectCosts) Total() decimal.Decimal {
	return c.BlueprintCost.Add(c.MaterialCost).Add(c.TransportCost).Add(c.Tax)
}

// Project is the aggregate root of a production plan. It owns its step list;
// repositories persist both together.
type Project struct {
	id            string
	ownerID       shared.UserID
	targetItemID  int
	targetName    string
	settings      ProjectSettings
	status        ProjectStatus
	completedAt   *time.Time
	costs         ProjectCosts
	sellPrice     *decimal.Decimal
	jobsStartDate time.Time
	createdAt     time.Time
	updatedAt     time.Time
	steps         []Step
	clock         shared.Clock
}

// NewProject validates settings and creates an active project with no steps
// If clock is nil, uses the wall clock
func NewProject(
	id string,
	ownerID shared.UserID,
	targetItemID int,
	targetName string,
	settings ProjectSettings,
	jobsStartDate time.Time,
	clock shared.Clock,
) (*Project, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if ownerID.IsZero() {
		return nil, shared.NewValidationError("owner_id", "owner is required")
	}
	if targetItemID <= 0 {
		return nil, shared.NewValidationError("target_item_id", "must be positive")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	now := clock.Now()
	if jobsStartDate.IsZero() {
		jobsStartDate = now
	}

	return &Project{
		id:            id,
		ownerID:       ownerID,
		targetItemID:  targetItemID,
		targetName:    targetName,
		settings:      settings,
		status:        ProjectStatusActive,
		jobsStartDate: jobsStartDate,
		createdAt:     now,
		updatedAt:     now,
		clock:         clock,
	}, nil
}

// ProjectData carries persisted project state for reconstruction
type ProjectData struct {
	ID            string
	OwnerID       shared.UserID
	TargetItemID  int
	TargetName    string
	Settings      ProjectSettings
	Status        ProjectStatus
	CompletedAt   *time.Time
	Costs         ProjectCosts
	SellPrice     *decimal.Decimal
	JobsStartDate time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReconstructProject rebuilds a project from persistence without validation
func ReconstructProject(data ProjectData, steps []Step, clock shared.Clock) *Project {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Project{
		id:            data.ID,
		ownerID:       data.OwnerID,
		targetItemID:  data.TargetItemID,
		targetName:    data.TargetName,
		settings:      data.Settings,
		status:        data.Status,
		completedAt:   data.CompletedAt,
		costs:         data.Costs,
		sellPrice:     data.SellPrice,
		jobsStartDate: data.JobsStartDate,
		createdAt:     data.CreatedAt,
		updatedAt:     data.UpdatedAt,
		steps:         steps,
		clock:         clock,
	}
}

// Getters

func (p *Project) ID() string                  { return p.id }
func (p *Project) OwnerID() shared.UserID      { return p.ownerID }
func (p *Project) TargetItemID() int           { return p.targetItemID }
func (p *Project) TargetName() string          { return p.targetName }
func (p *Project) Settings() ProjectSettings   { return p.settings }
func (p *Project) Status() ProjectStatus       { return p.status }
func (p *Project) CompletedAt() *time.Time     { return p.completedAt }
func (p *Project) Costs() ProjectCosts         { return p.costs }
func (p *Project) SellPrice() *decimal.Decimal { return p.sellPrice }
func (p *Project) JobsStartDate() time.Time    { return p.jobsStartDate }
func (p *Project) CreatedAt() time.Time        { return p.createdAt }
func (p *Project) UpdatedAt() time.Time        { return p.updatedAt }
func (p *Project) Steps() []Step               { return p.steps }

func (p *Project) IsCompleted() bool {
	return p.status == ProjectStatusCompleted
}

// Reconfigure applies new expansion settings and reports whether they changed
func (p *Project) Reconfigure(settings ProjectSettings) (bool, error) {
	if p.IsCompleted() {
		return false, &ErrInvalidProjectState{CurrentState: string(p.status), Attempted: "reconfigure"}
	}
	if err := settings.Validate(); err != nil {
		return false, err
	}
	if p.settings.Equals(settings) {
		return false, nil
	}
	p.settings = settings
	p.touch()
	return true, nil
}

// SetCosts replaces the recorded cost fields
func (p *Project) SetCosts(costs ProjectCosts) {
	p.costs = costs
	p.touch()
}

// SetSellPrice records the sell price; nil clears it
func (p *Project) SetSellPrice(price *decimal.Decimal) {
	p.sellPrice = price
	p.touch()
}

// SetJobsStartDate moves the lower bound for job reconciliation
func (p *Project) SetJobsStartDate(t time.Time) {
	p.jobsStartDate = t
	p.touch()
}

// Complete marks the project completed with a timestamp
func (p *Project) Complete() error {
	if p.IsCompleted() {
		return &ErrInvalidProjectState{CurrentState: string(p.status), Attempted: "complete"}
	}
	now := p.clock.Now()
	p.status = ProjectStatusCompleted
	p.completedAt = &now
	p.touch()
	return nil
}

// Reopen returns a completed project to active
func (p *Project) Reopen() error {
	if !p.IsCompleted() {
		return &ErrInvalidProjectState{CurrentState: string(p.status), Attempted: "reopen"}
	}
	p.status = ProjectStatusActive
	p.completedAt = nil
	p.touch()
	return nil
}

// ReplaceSteps swaps in a complete step list
func (p *Project) ReplaceSteps(steps []Step) {
	for i := range steps {
		steps[i].ProjectID = p.id
	}
	p.steps = steps
	p.touch()
}

// StepByID returns a pointer to the step for in-place edits
func (p *Project) StepByID(stepID string) (*Step, error) {
	for i := range p.steps {
		if p.steps[i].ID == stepID {
			return &p.steps[i], nil
		}
	}
	return nil, &ErrStepNotFound{ProjectID: p.id, StepID: stepID}
}

// RemoveStep deletes one step and renumbers the rest. Removing a split fragment
// recomputes the group's total runs from the remaining members.
func (p *Project) RemoveStep(stepID string) error {
	idx := -1
	for i := range p.steps {
		if p.steps[i].ID == stepID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &ErrStepNotFound{ProjectID: p.id, StepID: stepID}
	}

	groupID := p.steps[idx].SplitGroupID
	p.steps = append(p.steps[:idx], p.steps[idx+1:]...)

	if groupID != "" {
		p.normalizeGroup(groupID)
	}
	renumber(p.steps)
	p.touch()
	return nil
}

// AttachJob binds an external job to a step by hand. Fields left zero on match are
// taken from the step's similar job with the same id. The step is marked as manual
// job data so reconciliation stops editing it.
func (p *Project) AttachJob(stepID string, match JobMatch) error {
	step, err := p.StepByID(stepID)
	if err != nil {
		return err
	}
	if step.Leaf {
		return shared.NewValidationError("step_id", "purchasable materials have no jobs")
	}
	if match.JobID <= 0 {
		return shared.NewValidationError("job_id", "must be positive")
	}
	for i := range p.steps {
		for _, m := range p.steps[i].Matches {
			if m.JobID == match.JobID {
				return &ErrJobAlreadyBound{JobID: match.JobID, ProjectID: p.id, StepID: p.steps[i].ID}
			}
		}
	}

	var similar []SimilarJob
	for _, sj := range step.SimilarJobs {
		if sj.JobID != match.JobID {
			similar = append(similar, sj)
			continue
		}
		if match.CharacterID == 0 {
			match.CharacterID = sj.CharacterID
		}
		if match.Runs == 0 {
			match.Runs = sj.Runs
		}
		if match.Status == "" {
			match.Status = sj.Status
		}
	}
	if match.Runs < 1 {
		return &ErrInvalidRunCount{Runs: match.Runs}
	}
	if match.Status == "" {
		match.Status = JobStatusActive
	}
	match.StepID = step.ID
	match.BlueprintID = step.BlueprintID

	step.SimilarJobs = similar
	step.Matches = append(step.Matches, match)
	step.ManualJobData = true
	p.touch()
	return nil
}

// DetachJob unbinds a job from a step and marks the step as manual job data
func (p *Project) DetachJob(stepID string, jobID int64) error {
	step, err := p.StepByID(stepID)
	if err != nil {
		return err
	}
	idx := -1
	for i, m := range step.Matches {
		if m.JobID == jobID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.NewValidationError("job_id", fmt.Sprintf("job %d is not bound to step %s", jobID, stepID))
	}
	step.Matches = append(step.Matches[:idx], step.Matches[idx+1:]...)
	step.ManualJobData = true
	p.touch()
	return nil
}

// ChangeStepRuns edits a step's run count, keeping split group totals consistent
func (p *Project) ChangeStepRuns(stepID string, runs int) error {
	if runs < 1 {
		return &ErrInvalidRunCount{Runs: runs}
	}
	step, err := p.StepByID(stepID)
	if err != nil {
		return err
	}
	if step.Leaf {
		return shared.NewValidationError("runs", "purchasable materials have no runs")
	}
	output := step.OutputPerRun
	if output <= 0 {
		output = 1
	}
	step.Runs = runs
	step.Quantity = runs * output

	if step.SplitGroupID != "" {
		// an edited fragment no longer follows the automatic layout
		p.markGroupManual(step.SplitGroupID)
	}
	p.touch()
	return nil
}

// normalizeGroup re-indexes the remaining fragments and dissolves single-member groups
func (p *Project) normalizeGroup(groupID string) {
	var members []int
	for i := range p.steps {
		if p.steps[i].SplitGroupID == groupID {
			members = append(members, i)
		}
	}
	if len(members) == 1 {
		s := &p.steps[members[0]]
		s.SplitGroupID = ""
		s.SplitIndex = 0
		s.TotalGroupRuns = 0
		s.ManualSplit = false
		return
	}
	for n, i := range members {
		p.steps[i].SplitIndex = n
	}
	p.markGroupManual(groupID)
}

func (p *Project) markGroupManual(groupID string) {
	total := 0
	for i := range p.steps {
		if p.steps[i].SplitGroupID == groupID {
			total += p.steps[i].Runs
		}
	}
	for i := range p.steps {
		if p.steps[i].SplitGroupID == groupID {
			p.steps[i].ManualSplit = true
			p.steps[i].TotalGroupRuns = total
		}
	}
}

func (p *Project) touch() {
	p.updatedAt = p.clock.Now()
}
