package esi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

type jobPayload struct {
	JobID           int64     `json:"job_id"`
	InstallerID     int64     `json:"installer_id"`
	BlueprintTypeID int       `json:"blueprint_type_id"`
	ActivityID      int       `json:"activity_id"`
	Runs            int       `json:"runs"`
	Status          string    `json:"status"`
	Cost            float64   `json:"cost"`
	FacilityID      int64     `json:"facility_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

// JobFeed reads character industry jobs from the API
type JobFeed struct {
	client *Client
}

// NewJobFeed creates a job feed over the client
func NewJobFeed(client *Client) *JobFeed {
	return &JobFeed{client: client}
}

// ListJobs returns the character's current and recently finished jobs.
// Any failure is reported as ErrExternalFeedUnavailable.
func (f *JobFeed) ListJobs(ctx context.Context, character *account.Character) ([]industry.IndustryJob, error) {
	path := fmt.Sprintf("/characters/%d/industry/jobs/", character.ID)
	query := url.Values{"include_completed": {"true"}}

	var payload []jobPayload
	if err := f.client.get(ctx, path, "/characters/{id}/industry/jobs/", character.AccessToken, query, &payload); err != nil {
		return nil, &industry.ErrExternalFeedUnavailable{CharacterID: character.ID, Err: err}
	}

	jobs := make([]industry.IndustryJob, 0, len(payload))
	for _, p := range payload {
		activity, ok := productionActivity(p.ActivityID)
		if !ok {
			continue
		}
		jobs = append(jobs, industry.IndustryJob{
			JobID:       p.JobID,
			BlueprintID: p.BlueprintTypeID,
			Activity:    activity,
			CharacterID: p.InstallerID,
			Runs:        p.Runs,
			Status:      industry.JobStatus(p.Status),
			Cost:        decimal.NewFromFloat(p.Cost),
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			FacilityID:  p.FacilityID,
		})
	}
	return jobs, nil
}

// productionActivity maps an ESI activity id to a planner activity. Research (3, 4),
// copying (5) and invention (8) produce no planned items and are dropped.
func productionActivity(activityID int) (industry.ActivityKind, bool) {
	switch activityID {
	case 1:
		return industry.ActivityManufacturing, true
	case 9, 11:
		return industry.ActivityReaction, true
	default:
		return "", false
	}
}
