package queries

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// ProjectDTO is the read model of a project
type ProjectDTO struct {
	ID              string
	TargetItemID    int
	TargetName      string
	Status          string
	Runs            int
	MELevel         int
	TELevel         int
	MaxDurationDays float64
	FacilityID      string
	ExcludedItems   []int
	ExcludedGroups  []int
	JobsStartDate   time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Steps           []StepDTO
}

// StepDTO is the read model of a step with its derived job counters
type StepDTO struct {
	ID              string
	ProductID       int
	ProductName     string
	Activity        string
	Leaf            bool
	Depth           int
	SortOrder       int
	Quantity        int
	Runs            int
	TimePerRun      int
	Purchased       bool
	InStockQuantity int
	FacilityME      float64
	FacilityTE      float64
	SplitGroupID    string
	SplitIndex      int
	TotalGroupRuns  int
	ManualSplit     bool
	ManualJobData   bool
	MatchedJobs     int
	MatchedRuns     int
	ActiveRuns      int
	DeliveredRuns   int
	JobCost         decimal.Decimal
	SimilarJobs     []industry.SimilarJob
}

// ProjectSummaryDTO is a project row without steps
type ProjectSummaryDTO struct {
	ID          string
	TargetName  string
	Status      string
	Runs        int
	StepCount   int
	CompletedAt *time.Time
	CreatedAt   time.Time
}

func toProjectDTO(p *industry.Project) *ProjectDTO {
	settings := p.Settings()
	dto := &ProjectDTO{
		ID:              p.ID(),
		TargetItemID:    p.TargetItemID(),
		TargetName:      p.TargetName(),
		Status:          string(p.Status()),
		Runs:            settings.Runs,
		MELevel:         settings.MELevel,
		TELevel:         settings.TELevel,
		MaxDurationDays: settings.MaxDurationDays,
		FacilityID:      settings.FacilityID,
		ExcludedItems:   settings.Exclusions.ItemIDs(),
		ExcludedGroups:  settings.Exclusions.GroupIDs(),
		JobsStartDate:   p.JobsStartDate(),
		CompletedAt:     p.CompletedAt(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
	dto.Steps = toStepDTOs(p.Steps())
	return dto
}

func toStepDTOs(steps []industry.Step) []StepDTO {
	out := make([]StepDTO, len(steps))
	for i := range steps {
		s := &steps[i]
		out[i] = StepDTO{
			ID:              s.ID,
			ProductID:       s.ProductID,
			ProductName:     s.ProductName,
			Activity:        string(s.Activity),
			Leaf:            s.Leaf,
			Depth:           s.Depth,
			SortOrder:       s.SortOrder,
			Quantity:        s.Quantity,
			Runs:            s.Runs,
			TimePerRun:      s.TimePerRun,
			Purchased:       s.Purchased,
			InStockQuantity: s.InStockQuantity,
			FacilityME:      s.FacilityME,
			FacilityTE:      s.FacilityTE,
			SplitGroupID:    s.SplitGroupID,
			SplitIndex:      s.SplitIndex,
			TotalGroupRuns:  s.TotalGroupRuns,
			ManualSplit:     s.ManualSplit,
			ManualJobData:   s.ManualJobData,
			MatchedJobs:     s.MatchedJobCount(),
			MatchedRuns:     s.MatchedRuns(),
			ActiveRuns:      s.ActiveRuns(),
			DeliveredRuns:   s.DeliveredRuns(),
			JobCost:         s.JobCost(),
			SimilarJobs:     s.SimilarJobs,
		}
	}
	return out
}
