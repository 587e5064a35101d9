package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/andrescamacho/industry-planner/internal/adapters/metrics"
	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// PlannerService builds and rebuilds project step lists. Every rebuild replaces the
// whole list through a single repository save, so a failure leaves the stored
// project untouched.
type PlannerService struct {
	expander   *TreeExpander
	splitter   *industry.DurationSplitter
	oracle     industry.BlueprintOracle
	projects   industry.ProjectRepository
	facilities industry.FacilityRepository
	exclusions industry.ExclusionRepository
}

// NewPlannerService creates a planner service
func NewPlannerService(
	expander *TreeExpander,
	splitter *industry.DurationSplitter,
	oracle industry.BlueprintOracle,
	projects industry.ProjectRepository,
	facilities industry.FacilityRepository,
	exclusions industry.ExclusionRepository,
) *PlannerService {
	return &PlannerService{
		expander:   expander,
		splitter:   splitter,
		oracle:     oracle,
		projects:   projects,
		facilities: facilities,
		exclusions: exclusions,
	}
}

// ResolveFacility returns the explicit facility, else the owner's default, else nil
func (s *PlannerService) ResolveFacility(ctx context.Context, ownerID shared.UserID, facilityID string) (*industry.Facility, error) {
	if facilityID != "" {
		return s.facilities.FindByID(ctx, facilityID, ownerID)
	}
	return s.facilities.FindDefault(ctx, ownerID)
}

// Expand runs the expansion and duration split for arbitrary inputs without
// persisting anything
func (s *PlannerService) Expand(
	ctx context.Context,
	ownerID shared.UserID,
	settings industry.ProjectSettings,
	rootItemID int,
	inStock map[int]bool,
) ([]industry.Step, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	facility, err := s.ResolveFacility(ctx, ownerID, settings.FacilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve facility: %w", err)
	}

	global, err := s.exclusions.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusions: %w", err)
	}
	exclusions := industry.ExclusionSetFromEntries(global).Merge(settings.Exclusions)

	start := time.Now()
	steps, err := s.expander.Expand(ctx, ExpansionRequest{
		RootItemID: rootItemID,
		Runs:       settings.Runs,
		MELevel:    settings.MELevel,
		TELevel:    settings.TELevel,
		Exclusions: exclusions,
		InStock:    inStock,
		Facility:   facility,
	})
	if err != nil {
		metrics.RecordExpansion("error", 0, time.Since(start).Seconds())
		return nil, err
	}

	split := s.splitter.SplitAll(steps, industry.MaxDurationSeconds(settings.MaxDurationDays))
	metrics.RecordExpansion("success", len(split), time.Since(start).Seconds())
	metrics.RecordSplitGroups(countGroups(split))
	return split, nil
}

// Plan expands the project from its current settings and saves it with the new
// step list. Leaf purchase flags and stock quantities carry over by item; job
// matches and manual job data carry over for production steps whose runs are unchanged.
func (s *PlannerService) Plan(ctx context.Context, project *industry.Project, inStock map[int]bool) error {
	logger := common.LoggerFromContext(ctx)

	previous := project.Steps()
	flagged, err := s.previouslyStocked(ctx, previous, project.Settings().Exclusions)
	if err != nil {
		return err
	}
	for id := range inStock {
		flagged[id] = true
	}

	steps, err := s.Expand(ctx, project.OwnerID(), project.Settings(), project.TargetItemID(), flagged)
	if err != nil {
		return err
	}
	carryLeafState(previous, steps)
	carryJobState(previous, steps)

	project.ReplaceSteps(steps)
	if err := s.projects.Save(ctx, project); err != nil {
		return fmt.Errorf("failed to save project steps: %w", err)
	}

	logger.Info("planned project", "project", project.ID(), "steps", len(steps))
	return nil
}

// Resplit applies a new max job duration to the existing step list without
// re-expanding. Unchanged automatic groups and manual groups keep their ids and matches.
func (s *PlannerService) Resplit(ctx context.Context, project *industry.Project, maxDurationDays float64) ([]industry.Step, error) {
	settings := project.Settings()
	settings.MaxDurationDays = maxDurationDays
	if _, err := project.Reconfigure(settings); err != nil {
		return nil, err
	}

	steps := s.splitter.Resplit(cloneSteps(project.Steps()), industry.MaxDurationSeconds(maxDurationDays))
	project.ReplaceSteps(steps)
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save resplit project: %w", err)
	}
	metrics.RecordSplitGroups(countGroups(steps))
	return steps, nil
}

// AddFragment adds a manually sized fragment to a step's split group and saves the project
func (s *PlannerService) AddFragment(ctx context.Context, project *industry.Project, stepID string, runs int) ([]industry.Step, error) {
	if project.IsCompleted() {
		return nil, &industry.ErrInvalidProjectState{CurrentState: string(project.Status()), Attempted: "add fragment"}
	}
	steps, err := s.splitter.AddFragment(project.Steps(), stepID, runs)
	if err != nil {
		var notFound *industry.ErrStepNotFound
		if errors.As(err, &notFound) {
			notFound.ProjectID = project.ID()
		}
		return nil, err
	}
	project.ReplaceSteps(steps)
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save fragment: %w", err)
	}
	return steps, nil
}

// previouslyStocked recovers the in-stock flags of an earlier expansion: a leaf that
// has a blueprint and is not excluded can only be a leaf because it was flagged.
func (s *PlannerService) previouslyStocked(ctx context.Context, steps []industry.Step, exclusions industry.ExclusionSet) (map[int]bool, error) {
	flagged := make(map[int]bool)
	for i := range steps {
		st := &steps[i]
		if !st.Leaf || exclusions.IsExcluded(st.ProductID, st.GroupID) {
			continue
		}
		_, found, err := s.oracle.FindBlueprint(ctx, st.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up blueprint for item %d: %w", st.ProductID, err)
		}
		if found {
			flagged[st.ProductID] = true
		}
	}
	return flagged, nil
}

// carryLeafState copies purchased flags and stock quantities onto the new leaves
func carryLeafState(previous, next []industry.Step) {
	type leafState struct {
		purchased bool
		inStock   int
	}
	state := make(map[int]leafState)
	for _, st := range previous {
		if st.Leaf {
			if _, seen := state[st.ProductID]; !seen {
				state[st.ProductID] = leafState{purchased: st.Purchased, inStock: st.InStockQuantity}
			}
		}
	}
	for i := range next {
		if !next[i].Leaf {
			continue
		}
		if ls, ok := state[next[i].ProductID]; ok {
			next[i].Purchased = ls.purchased
			next[i].InStockQuantity = min(ls.inStock, next[i].Quantity)
		}
	}
}

type productionKey struct {
	productID int
	depth     int
}

// carryJobState copies matches, similar jobs and the manual job flag from the previous
// expansion. Production steps pair up by product and depth in plan order, a split group
// counting as one unit, and state moves only when the fragment runs are identical.
func carryJobState(previous, next []industry.Step) {
	before := productionUnits(previous)
	occurrence := make(map[productionKey]int)
	for _, unit := range logicalSteps(next) {
		key := productionKey{next[unit[0]].ProductID, next[unit[0]].Depth}
		k := occurrence[key]
		occurrence[key]++
		if k >= len(before[key]) {
			continue
		}
		old := before[key][k]
		if len(old) != len(unit) {
			continue
		}
		same := true
		for i := range unit {
			if previous[old[i]].Runs != next[unit[i]].Runs {
				same = false
				break
			}
		}
		if !same {
			continue
		}
		for i, idx := range unit {
			src := previous[old[i]].Clone()
			dst := &next[idx]
			dst.ManualJobData = src.ManualJobData
			dst.SimilarJobs = src.SimilarJobs
			dst.Matches = src.Matches
			for j := range dst.Matches {
				dst.Matches[j].StepID = dst.ID
			}
		}
	}
}

// productionUnits indexes production steps by product and depth. Each unit holds the
// step indices of one logical step: a lone step, or a split group in fragment order.
func productionUnits(steps []industry.Step) map[productionKey][][]int {
	byKey := make(map[productionKey][][]int)
	for _, unit := range logicalSteps(steps) {
		key := productionKey{steps[unit[0]].ProductID, steps[unit[0]].Depth}
		byKey[key] = append(byKey[key], unit)
	}
	return byKey
}

// logicalSteps lists production steps in plan order, grouping split fragments by index
func logicalSteps(steps []industry.Step) [][]int {
	var units [][]int
	groupAt := make(map[string]int)
	for i := range steps {
		st := &steps[i]
		if st.Leaf {
			continue
		}
		if !st.IsSplit() {
			units = append(units, []int{i})
			continue
		}
		at, ok := groupAt[st.SplitGroupID]
		if !ok {
			at = len(units)
			groupAt[st.SplitGroupID] = at
			units = append(units, nil)
		}
		units[at] = append(units[at], i)
	}
	for _, unit := range units {
		sort.SliceStable(unit, func(a, b int) bool {
			return steps[unit[a]].SplitIndex < steps[unit[b]].SplitIndex
		})
	}
	return units
}

func cloneSteps(steps []industry.Step) []industry.Step {
	out := make([]industry.Step, len(steps))
	for i := range steps {
		out[i] = steps[i].Clone()
	}
	return out
}

func countGroups(steps []industry.Step) int {
	groups := make(map[string]struct{})
	for _, st := range steps {
		if st.SplitGroupID != "" && !st.ManualSplit {
			groups[st.SplitGroupID] = struct{}{}
		}
	}
	return len(groups)
}
