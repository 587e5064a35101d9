package industry

import (
	"github.com/shopspring/decimal"
)

// Step is one node of a flattened expansion. Production steps carry a blueprint
// and a run count; leaf steps are purchasable materials with zero runs.
//
// Tree shape is not persisted: steps carry depth and sort order only. Anything that
// needs parent/child edges re-expands the project.
type Step struct {
	ID           string
	ProjectID    string
	BlueprintID  int
	ProductID    int
	ProductName  string
	GroupID      int
	Category     string
	Activity     ActivityKind
	Leaf         bool
	Quantity     int
	Runs         int
	OutputPerRun int
	Depth        int
	SortOrder    int
	TimePerRun   int // seconds

	Purchased       bool
	InStockQuantity int

	// Root only
	MELevel *int
	TELevel *int

	FacilityME float64
	FacilityTE float64

	SplitGroupID   string
	SplitIndex     int
	TotalGroupRuns int
	ManualSplit    bool

	ManualJobData bool
	Matches       []JobMatch
	SimilarJobs   []SimilarJob
}

// IsSplit reports whether the step is a fragment of a split group
func (s *Step) IsSplit() bool {
	return s.SplitGroupID != ""
}

// IsRoot reports whether the step is the project's target
func (s *Step) IsRoot() bool {
	return s.Depth == 0 && !s.Leaf
}

// TotalDuration returns the step's job length in seconds
func (s *Step) TotalDuration() int64 {
	return int64(s.Runs) * int64(s.TimePerRun)
}

// MatchedJobCount returns the number of jobs bound to the step
func (s *Step) MatchedJobCount() int {
	return len(s.Matches)
}

// MatchedRuns sums the runs of every bound job
func (s *Step) MatchedRuns() int {
	total := 0
	for _, m := range s.Matches {
		total += m.Runs
	}
	return total
}

// ActiveRuns sums the runs of bound jobs still in progress
func (s *Step) ActiveRuns() int {
	total := 0
	for _, m := range s.Matches {
		if m.Status.IsInProgress() {
			total += m.Runs
		}
	}
	return total
}

// DeliveredRuns sums the runs of bound jobs already delivered
func (s *Step) DeliveredRuns() int {
	total := 0
	for _, m := range s.Matches {
		if m.Status == JobStatusDelivered {
			total += m.Runs
		}
	}
	return total
}

// JobCost sums the installation cost of every bound job
func (s *Step) JobCost() decimal.Decimal {
	total := decimal.Zero
	for _, m := range s.Matches {
		total = total.Add(m.Cost)
	}
	return total
}

// RemainingRuns returns the runs not yet covered by bound jobs
func (s *Step) RemainingRuns() int {
	remaining := s.Runs - s.MatchedRuns()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsComplete reports whether bound jobs cover every planned run
func (s *Step) IsComplete() bool {
	return !s.Leaf && s.RemainingRuns() == 0
}

// HasMatch reports whether the job is already bound to the step
func (s *Step) HasMatch(jobID int64) bool {
	for _, m := range s.Matches {
		if m.JobID == jobID {
			return true
		}
	}
	return false
}

// MissingQuantity is the part of a leaf's requirement not covered by stock
func (s *Step) MissingQuantity() int {
	missing := s.Quantity - s.InStockQuantity
	if missing < 0 {
		return 0
	}
	return missing
}

// Clone returns a deep copy safe to mutate independently
func (s Step) Clone() Step {
	c := s
	if s.MELevel != nil {
		me := *s.MELevel
		c.MELevel = &me
	}
	if s.TELevel != nil {
		te := *s.TELevel
		c.TELevel = &te
	}
	c.Matches = append([]JobMatch(nil), s.Matches...)
	c.SimilarJobs = append([]SimilarJob(nil), s.SimilarJobs...)
	return c
}
