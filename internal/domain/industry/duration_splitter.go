package industry

import (
	"math"
	"sort"

	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

const secondsPerDay = 86400

// MaxDurationSeconds converts a max job duration in days to whole seconds
func MaxDurationSeconds(days float64) int64 {
	return int64(math.Floor(days * secondsPerDay))
}

// RunsPerFragment is the largest run count that fits the duration ceiling, never below 1
func RunsPerFragment(maxSeconds int64, timePerRun int) int {
	if timePerRun <= 0 {
		return math.MaxInt32
	}
	runs := int(maxSeconds / int64(timePerRun))
	if runs < 1 {
		return 1
	}
	return runs
}

// FragmentLayout distributes runs into fragments of at most perFragment runs.
// The last fragment absorbs the remainder.
func FragmentLayout(runs, perFragment int) []int {
	if perFragment < 1 {
		perFragment = 1
	}
	if runs <= perFragment {
		return []int{runs}
	}
	n := (runs + perFragment - 1) / perFragment
	layout := make([]int, n)
	for i := 0; i < n-1; i++ {
		layout[i] = perFragment
	}
	layout[n-1] = runs - perFragment*(n-1)
	return layout
}

// DurationSplitter breaks steps whose total run time exceeds the max job duration
// into split groups, and maintains those groups when the ceiling changes.
type DurationSplitter struct {
	newID func() string
}

// NewDurationSplitter creates a splitter that draws group and fragment ids from newID
func NewDurationSplitter(newID func() string) *DurationSplitter {
	return &DurationSplitter{newID: newID}
}

// Split returns the step unchanged when it fits, otherwise its fragments.
// The first fragment keeps the step id and the similar-job list; bound job matches
// are spread over the fragments by remaining run capacity.
func (s *DurationSplitter) Split(step Step, maxSeconds int64) []Step {
	if step.Leaf || step.TimePerRun <= 0 || step.Runs <= 0 || step.TotalDuration() <= maxSeconds {
		return []Step{step}
	}

	layout := FragmentLayout(step.Runs, RunsPerFragment(maxSeconds, step.TimePerRun))
	if len(layout) < 2 {
		return []Step{step}
	}

	output := step.OutputPerRun
	if output <= 0 {
		output = 1
	}

	groupID := s.newID()
	fragments := make([]Step, 0, len(layout))
	produced := 0
	for i, runs := range layout {
		f := step.Clone()
		if i > 0 {
			f.ID = s.newID()
		}
		f.Runs = runs
		f.Quantity = runs * output
		if i == len(layout)-1 {
			if remaining := step.Quantity - produced; remaining > 0 && remaining < f.Quantity {
				f.Quantity = remaining
			}
		}
		produced += f.Quantity
		f.SplitGroupID = groupID
		f.SplitIndex = i
		f.TotalGroupRuns = step.Runs
		f.ManualSplit = false
		f.Matches = nil
		if i > 0 {
			f.SimilarJobs = nil
		}
		fragments = append(fragments, f)
	}
	distributeMatches(fragments, step.Matches)
	return fragments
}

// SplitAll splits every step of a fresh expansion and renumbers sort order
func (s *DurationSplitter) SplitAll(steps []Step, maxSeconds int64) []Step {
	out := make([]Step, 0, len(steps))
	for _, st := range steps {
		out = append(out, s.Split(st, maxSeconds)...)
	}
	renumber(out)
	return out
}

// Resplit applies a new duration ceiling to an already split step list.
// Automatic groups whose layout is unchanged are kept verbatim; others are merged
// back to their logical step and split again. Manual groups, and steps or groups
// with bound jobs or manual job data, are left alone: installed jobs fix the layout.
func (s *DurationSplitter) Resplit(steps []Step, maxSeconds int64) []Step {
	groups := groupMembers(steps)
	seen := make(map[string]bool, len(groups))

	out := make([]Step, 0, len(steps))
	for _, st := range steps {
		if !st.IsSplit() {
			if hasJobData(st) {
				out = append(out, st)
				continue
			}
			out = append(out, s.Split(st, maxSeconds)...)
			continue
		}
		if seen[st.SplitGroupID] {
			continue
		}
		seen[st.SplitGroupID] = true

		members := groups[st.SplitGroupID]
		if members[0].ManualSplit || hasJobData(members...) {
			out = append(out, members...)
			continue
		}

		total := members[0].TotalGroupRuns
		want := []int{total}
		if int64(total)*int64(members[0].TimePerRun) > maxSeconds {
			want = FragmentLayout(total, RunsPerFragment(maxSeconds, members[0].TimePerRun))
		}
		if layoutMatches(members, want) {
			out = append(out, members...)
			continue
		}
		out = append(out, s.Split(mergeGroup(members), maxSeconds)...)
	}
	renumber(out)
	return out
}

// AddFragment appends a manually sized fragment to the step's split group, promoting
// a standalone step to a two-member group. The group becomes manual and every member's
// total group runs is recomputed as the sum of fragment runs.
func (s *DurationSplitter) AddFragment(steps []Step, stepID string, runs int) ([]Step, error) {
	if runs < 1 {
		return nil, &ErrInvalidRunCount{Runs: runs}
	}

	idx := -1
	for i := range steps {
		if steps[i].ID == stepID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &ErrStepNotFound{StepID: stepID}
	}
	target := steps[idx]
	if target.Leaf {
		return nil, shared.NewValidationError("step_id", "purchasable materials cannot be split")
	}

	out := make([]Step, len(steps))
	for i := range steps {
		out[i] = steps[i].Clone()
	}

	groupID := target.SplitGroupID
	if groupID == "" {
		groupID = s.newID()
		out[idx].SplitGroupID = groupID
		out[idx].SplitIndex = 0
	}

	last := -1
	count := 0
	for i := range out {
		if out[i].SplitGroupID == groupID {
			last = i
			count++
		}
	}

	output := target.OutputPerRun
	if output <= 0 {
		output = 1
	}
	fragment := out[last].Clone()
	fragment.ID = s.newID()
	fragment.Runs = runs
	fragment.Quantity = runs * output
	fragment.SplitIndex = count
	fragment.Matches = nil
	fragment.SimilarJobs = nil
	fragment.ManualJobData = false

	out = append(out, Step{})
	copy(out[last+2:], out[last+1:])
	out[last+1] = fragment

	total := 0
	for i := range out {
		if out[i].SplitGroupID == groupID {
			total += out[i].Runs
		}
	}
	for i := range out {
		if out[i].SplitGroupID == groupID {
			out[i].ManualSplit = true
			out[i].TotalGroupRuns = total
		}
	}

	renumber(out)
	return out, nil
}

func groupMembers(steps []Step) map[string][]Step {
	groups := make(map[string][]Step)
	for _, st := range steps {
		if st.IsSplit() {
			groups[st.SplitGroupID] = append(groups[st.SplitGroupID], st)
		}
	}
	for _, members := range groups {
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].SplitIndex < members[j].SplitIndex
		})
	}
	return groups
}

func layoutMatches(members []Step, want []int) bool {
	if len(members) != len(want) {
		return false
	}
	for i := range members {
		if members[i].Runs != want[i] {
			return false
		}
	}
	return true
}

func mergeGroup(members []Step) Step {
	logical := members[0].Clone()
	logical.Runs = members[0].TotalGroupRuns
	logical.Quantity = 0
	for _, m := range members {
		logical.Quantity += m.Quantity
	}
	logical.SplitGroupID = ""
	logical.SplitIndex = 0
	logical.TotalGroupRuns = 0
	logical.ManualSplit = false
	logical.Matches = nil
	logical.SimilarJobs = nil
	for _, m := range members {
		for _, match := range m.Matches {
			match.StepID = logical.ID
			logical.Matches = append(logical.Matches, match)
		}
		logical.SimilarJobs = append(logical.SimilarJobs, m.SimilarJobs...)
	}
	return logical
}

func hasJobData(steps ...Step) bool {
	for _, st := range steps {
		if st.ManualJobData || len(st.Matches) > 0 {
			return true
		}
	}
	return false
}

// distributeMatches binds each match to the first fragment whose unbound runs it fills
// exactly, otherwise to the fragment with the most unbound runs. No job and no job
// cost is lost.
func distributeMatches(fragments []Step, matches []JobMatch) {
	bound := make([]int, len(fragments))
	for _, m := range matches {
		best := -1
		for i := range fragments {
			if fragments[i].Runs-bound[i] == m.Runs {
				best = i
				break
			}
		}
		if best < 0 {
			best = 0
			for i := range fragments {
				if fragments[i].Runs-bound[i] > fragments[best].Runs-bound[best] {
					best = i
				}
			}
		}
		m.StepID = fragments[best].ID
		fragments[best].Matches = append(fragments[best].Matches, m)
		bound[best] += m.Runs
	}
}

func renumber(steps []Step) {
	for i := range steps {
		steps[i].SortOrder = i
	}
}
