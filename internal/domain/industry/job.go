package industry

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus is the lifecycle state an external industry job reports
type JobStatus string

const (
	JobStatusActive    JobStatus = "active"
	JobStatusPaused    JobStatus = "paused"
	JobStatusReady     JobStatus = "ready"
	JobStatusDelivered JobStatus = "delivered"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusReverted  JobStatus = "reverted"
)

// IsVoid reports whether the job no longer produces anything
func (s JobStatus) IsVoid() bool {
	return s == JobStatusCancelled || s == JobStatusReverted
}

// IsInProgress reports whether the job's runs are still counted as active
func (s JobStatus) IsInProgress() bool {
	return s == JobStatusActive || s == JobStatusPaused || s == JobStatusReady
}

// IndustryJob is an externally observed production job. Research, copying and
// invention never reach the planner, so Activity is manufacturing or reaction.
type IndustryJob struct {
	JobID       int64
	BlueprintID int
	Activity    ActivityKind
	CharacterID int64
	Runs        int
	Status      JobStatus
	Cost        decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	FacilityID  int64
}

// JobMatch binds one external job to one step
type JobMatch struct {
	StepID      string
	JobID       int64
	CharacterID int64
	BlueprintID int
	Runs        int
	Status      JobStatus
	Cost        decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	FacilityID  int64
}

// NewJobMatch records a job as matched to the given step
func NewJobMatch(stepID string, job IndustryJob) JobMatch {
	return JobMatch{
		StepID:      stepID,
		JobID:       job.JobID,
		CharacterID: job.CharacterID,
		BlueprintID: job.BlueprintID,
		Runs:        job.Runs,
		Status:      job.Status,
		Cost:        job.Cost,
		StartDate:   job.StartDate,
		EndDate:     job.EndDate,
		FacilityID:  job.FacilityID,
	}
}

// Refresh copies the mutable job fields observed in the feed
func (m *JobMatch) Refresh(job IndustryJob) {
	m.Status = job.Status
	m.Cost = job.Cost
	m.EndDate = job.EndDate
}

// SimilarJob is a same-blueprint job that could not be matched automatically
type SimilarJob struct {
	CharacterID int64     `json:"character_id"`
	Runs        int       `json:"runs"`
	JobID       int64     `json:"job_id"`
	Status      JobStatus `json:"status"`
}
