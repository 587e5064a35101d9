package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/industry-planner/internal/adapters/metrics"
	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// maxSubsetCandidates bounds the subset-sum search per step
const maxSubsetCandidates = 16

// WarningKind classifies a reconciliation warning
type WarningKind string

const (
	WarningFeedUnavailable WarningKind = "feed_unavailable"
	WarningSimilarJobs     WarningKind = "similar_jobs"
)

// ReconciliationWarning is a non-fatal finding surfaced to the operator
type ReconciliationWarning struct {
	Kind        WarningKind
	StepID      string
	CharacterID int64
	Message     string
	Jobs        []industry.SimilarJob
	Err         error
}

// StepMatchSummary reports the matched state of one step after reconciliation
type StepMatchSummary struct {
	StepID        string
	ProductName   string
	Runs          int
	JobIDs        []int64
	NewJobIDs     []int64
	MatchedRuns   int
	ActiveRuns    int
	DeliveredRuns int
}

// ReconciliationReport is the outcome of one reconciliation
type ReconciliationReport struct {
	Matched  []StepMatchSummary
	Warnings []ReconciliationWarning
}

// NewMatchCount returns the number of jobs bound during this run
func (r *ReconciliationReport) NewMatchCount() int {
	n := 0
	for _, m := range r.Matched {
		n += len(m.NewJobIDs)
	}
	return n
}

// JobReconciler binds externally observed industry jobs to planned steps.
//
// A job is accepted only when its runs, alone or summed with other unassigned jobs
// of the same blueprint, equal a step's remaining runs exactly. Everything else of the
// same blueprint is reported as a similar job and never merged automatically.
type JobReconciler struct {
	feed        industry.JobFeed
	concurrency int
}

// NewJobReconciler creates a reconciler reading at most concurrency feeds at once
func NewJobReconciler(feed industry.JobFeed, concurrency int) *JobReconciler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &JobReconciler{feed: feed, concurrency: concurrency}
}

// Reconcile updates the project's steps in place from the characters' job feeds.
// matchedElsewhere holds job ids already bound to the owner's other projects.
// Steps with manual job data are never modified.
func (r *JobReconciler) Reconcile(
	ctx context.Context,
	project *industry.Project,
	characters []*account.Character,
	matchedElsewhere map[int64]struct{},
) (*ReconciliationReport, error) {
	logger := common.LoggerFromContext(ctx)
	report := &ReconciliationReport{}

	feedJobs, warnings := r.fetchJobs(ctx, characters)
	report.Warnings = append(report.Warnings, warnings...)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reconciliation cancelled: %w", err)
	}

	owned := make(map[int64]bool, len(characters))
	for _, c := range characters {
		owned[c.ID] = true
	}

	// Every observed job by id, including void ones, for refreshing matches
	observed := make(map[int64]industry.IndustryJob, len(feedJobs))
	for _, j := range feedJobs {
		observed[j.JobID] = j
	}

	eligible := make([]industry.IndustryJob, 0, len(observed))
	for _, j := range observed {
		if !owned[j.CharacterID] || j.Status.IsVoid() || j.StartDate.Before(project.JobsStartDate()) {
			continue
		}
		eligible = append(eligible, j)
	}
	sortJobs(eligible)

	assigned := make(map[int64]bool, len(matchedElsewhere))
	for id := range matchedElsewhere {
		assigned[id] = true
	}

	steps := project.Steps()

	// Refresh existing matches first so their job ids are reserved before any new binding
	newIDs := make(map[string][]int64)
	for i := range steps {
		step := &steps[i]
		if step.Leaf {
			continue
		}
		if step.ManualJobData {
			for _, m := range step.Matches {
				assigned[m.JobID] = true
			}
			continue
		}
		kept := step.Matches[:0]
		for _, m := range step.Matches {
			if job, ok := observed[m.JobID]; ok {
				if job.Status.IsVoid() {
					logger.Info("dropping match for void job", "step", step.ID, "job_id", m.JobID, "status", job.Status)
					continue
				}
				m.Refresh(job)
			}
			assigned[m.JobID] = true
			kept = append(kept, m)
		}
		step.Matches = kept
	}

	for i := range steps {
		step := &steps[i]
		if step.Leaf || step.ManualJobData {
			continue
		}
		remaining := step.RemainingRuns()
		if remaining == 0 {
			continue
		}

		candidates := unassignedFor(eligible, step, assigned)
		chosen := selectJobs(candidates, remaining)
		for _, job := range chosen {
			step.Matches = append(step.Matches, industry.NewJobMatch(step.ID, job))
			assigned[job.JobID] = true
			newIDs[step.ID] = append(newIDs[step.ID], job.JobID)
		}
	}

	// Similar-job lists are rebuilt from scratch on every run
	for i := range steps {
		step := &steps[i]
		if step.Leaf || step.ManualJobData {
			continue
		}
		step.SimilarJobs = nil
		if step.IsComplete() {
			continue
		}
		for _, job := range unassignedFor(eligible, step, assigned) {
			step.SimilarJobs = append(step.SimilarJobs, industry.SimilarJob{
				CharacterID: job.CharacterID,
				Runs:        job.Runs,
				JobID:       job.JobID,
				Status:      job.Status,
			})
		}
		if len(step.SimilarJobs) > 0 {
			report.Warnings = append(report.Warnings, ReconciliationWarning{
				Kind:    WarningSimilarJobs,
				StepID:  step.ID,
				Message: fmt.Sprintf("%d unmatched %s job(s) need review", len(step.SimilarJobs), step.ProductName),
				Jobs:    append([]industry.SimilarJob(nil), step.SimilarJobs...),
			})
		}
	}

	for i := range steps {
		step := &steps[i]
		if step.Leaf || len(step.Matches) == 0 {
			continue
		}
		summary := StepMatchSummary{
			StepID:        step.ID,
			ProductName:   step.ProductName,
			Runs:          step.Runs,
			NewJobIDs:     newIDs[step.ID],
			MatchedRuns:   step.MatchedRuns(),
			ActiveRuns:    step.ActiveRuns(),
			DeliveredRuns: step.DeliveredRuns(),
		}
		for _, m := range step.Matches {
			summary.JobIDs = append(summary.JobIDs, m.JobID)
		}
		report.Matched = append(report.Matched, summary)
	}

	warningCounts := make(map[string]int)
	for _, w := range report.Warnings {
		warningCounts[string(w.Kind)]++
	}
	metrics.RecordReconciliation(report.NewMatchCount(), warningCounts)

	logger.Info("reconciled project jobs",
		"project", project.ID(),
		"jobs_seen", len(eligible),
		"new_matches", report.NewMatchCount(),
		"warnings", len(report.Warnings))
	return report, nil
}

// fetchJobs reads every character's feed concurrently. A failing character is
// skipped and reported; it never aborts the batch.
func (r *JobReconciler) fetchJobs(ctx context.Context, characters []*account.Character) ([]industry.IndustryJob, []ReconciliationWarning) {
	results := make([][]industry.IndustryJob, len(characters))
	failures := make([]*industry.ErrExternalFeedUnavailable, len(characters))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, c := range characters {
		g.Go(func() error {
			jobs, err := r.feed.ListJobs(ctx, c)
			if err != nil {
				var feedErr *industry.ErrExternalFeedUnavailable
				if !errors.As(err, &feedErr) {
					feedErr = &industry.ErrExternalFeedUnavailable{CharacterID: c.ID, Err: err}
				}
				failures[i] = feedErr
				return nil
			}
			results[i] = jobs
			return nil
		})
	}
	_ = g.Wait()

	logger := common.LoggerFromContext(ctx)
	var jobs []industry.IndustryJob
	var warnings []ReconciliationWarning
	for i, c := range characters {
		if failures[i] != nil {
			logger.Warn("skipping character with unavailable job feed", "character_id", c.ID, "error", failures[i].Err)
			metrics.RecordFeedError("jobs")
			warnings = append(warnings, ReconciliationWarning{
				Kind:        WarningFeedUnavailable,
				CharacterID: c.ID,
				Message:     failures[i].Error(),
				Err:         failures[i],
			})
			continue
		}
		jobs = append(jobs, results[i]...)
	}
	return jobs, warnings
}

// sortJobs orders jobs by start date, then job id
func sortJobs(jobs []industry.IndustryJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		if !jobs[i].StartDate.Equal(jobs[j].StartDate) {
			return jobs[i].StartDate.Before(jobs[j].StartDate)
		}
		return jobs[i].JobID < jobs[j].JobID
	})
}

// unassignedFor lists free jobs running the step's blueprint under the step's activity
func unassignedFor(jobs []industry.IndustryJob, step *industry.Step, assigned map[int64]bool) []industry.IndustryJob {
	var out []industry.IndustryJob
	for _, j := range jobs {
		if j.BlueprintID == step.BlueprintID && j.Activity == step.Activity && !assigned[j.JobID] {
			out = append(out, j)
		}
	}
	return out
}

// selectJobs returns the first single job whose runs equal target, otherwise the
// smallest subset of the first candidates whose runs sum to target. Candidates must be
// in deterministic order; among equal-size subsets the lexicographically first wins.
func selectJobs(candidates []industry.IndustryJob, target int) []industry.IndustryJob {
	for _, j := range candidates {
		if j.Runs == target {
			return []industry.IndustryJob{j}
		}
	}

	pool := make([]industry.IndustryJob, 0, maxSubsetCandidates)
	for _, j := range candidates {
		if j.Runs > 0 && j.Runs < target {
			pool = append(pool, j)
			if len(pool) == maxSubsetCandidates {
				break
			}
		}
	}

	for size := 2; size <= len(pool); size++ {
		if picked := findSubset(pool, target, size, 0, nil); picked != nil {
			out := make([]industry.IndustryJob, len(picked))
			for i, idx := range picked {
				out[i] = pool[idx]
			}
			return out
		}
	}
	return nil
}

func findSubset(pool []industry.IndustryJob, remaining, size, start int, picked []int) []int {
	if size == 0 {
		if remaining == 0 {
			return append([]int(nil), picked...)
		}
		return nil
	}
	for i := start; i <= len(pool)-size; i++ {
		if pool[i].Runs > remaining {
			continue
		}
		if found := findSubset(pool, remaining-pool[i].Runs, size-1, i+1, append(picked, i)); found != nil {
			return found
		}
	}
	return nil
}
