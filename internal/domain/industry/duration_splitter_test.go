package industry_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func productionStep(id string, runs, timePerRun int) industry.Step {
	return industry.Step{
		ID:           id,
		BlueprintID:  1001,
		ProductID:    1000,
		ProductName:  "Widget",
		Activity:     industry.ActivityManufacturing,
		Quantity:     runs,
		Runs:         runs,
		OutputPerRun: 1,
		TimePerRun:   timePerRun,
	}
}

func runsOf(steps []industry.Step) []int {
	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = s.Runs
	}
	return out
}

func TestFragmentLayout(t *testing.T) {
	assert.Equal(t, []int{48, 48, 4}, industry.FragmentLayout(100, 48))
	assert.Equal(t, []int{50, 50}, industry.FragmentLayout(100, 50))
	assert.Equal(t, []int{10}, industry.FragmentLayout(10, 48))
	assert.Equal(t, []int{1, 1, 1}, industry.FragmentLayout(3, 0))
}

func TestRunsPerFragment(t *testing.T) {
	assert.Equal(t, 48, industry.RunsPerFragment(172800, 3600))
	assert.Equal(t, 1, industry.RunsPerFragment(172800, 200000))
}

func TestDurationSplitter_SplitsIntoFullFragmentsAndRemainder(t *testing.T) {
	// Arrange
	s := industry.NewDurationSplitter(sequence("id"))
	step := productionStep("root", 100, 3600)

	// Act
	fragments := s.Split(step, industry.MaxDurationSeconds(2))

	// Assert
	require.Len(t, fragments, 3)
	assert.Equal(t, []int{48, 48, 4}, runsOf(fragments))
	assert.Equal(t, "root", fragments[0].ID, "first fragment keeps the step id")
	total := 0
	for i, f := range fragments {
		assert.Equal(t, fragments[0].SplitGroupID, f.SplitGroupID)
		assert.NotEmpty(t, f.SplitGroupID)
		assert.Equal(t, i, f.SplitIndex)
		assert.Equal(t, 100, f.TotalGroupRuns)
		assert.False(t, f.ManualSplit)
		total += f.Quantity
	}
	assert.Equal(t, 100, total)
}

func TestDurationSplitter_LastFragmentQuantityIsCappedByRequirement(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))
	step := productionStep("root", 3, 100000)
	step.OutputPerRun = 200
	step.Quantity = 450

	fragments := s.Split(step, industry.MaxDurationSeconds(2))

	require.Len(t, fragments, 3)
	assert.Equal(t, 200, fragments[0].Quantity)
	assert.Equal(t, 200, fragments[1].Quantity)
	assert.Equal(t, 50, fragments[2].Quantity)
}

func TestDurationSplitter_PassesThroughStepsThatFit(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))

	fits := productionStep("fits", 48, 3600)
	leaf := industry.Step{ID: "leaf", Leaf: true, Quantity: 500}
	instant := productionStep("instant", 1000, 0)

	out := s.SplitAll([]industry.Step{fits, leaf, instant}, industry.MaxDurationSeconds(2))

	require.Len(t, out, 3)
	for i, st := range out {
		assert.False(t, st.IsSplit())
		assert.Equal(t, i, st.SortOrder)
	}
}

func TestDurationSplitter_SplitAllRenumbersSortOrder(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))
	steps := []industry.Step{
		productionStep("a", 100, 3600),
		{ID: "leaf", Leaf: true, Quantity: 10},
	}

	out := s.SplitAll(steps, industry.MaxDurationSeconds(2))

	require.Len(t, out, 4)
	assert.Equal(t, "leaf", out[3].ID)
	for i, st := range out {
		assert.Equal(t, i, st.SortOrder)
	}
}

func TestDurationSplitter_ResplitIsIdempotent(t *testing.T) {
	// Arrange
	s := industry.NewDurationSplitter(sequence("id"))
	first := s.SplitAll([]industry.Step{productionStep("root", 100, 3600)}, industry.MaxDurationSeconds(2))
	first[0].Matches = []industry.JobMatch{{StepID: first[0].ID, JobID: 42, Runs: 48}}

	// Act
	second := s.Resplit(first, industry.MaxDurationSeconds(2))

	// Assert
	require.Len(t, second, 3)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].SplitGroupID, second[i].SplitGroupID)
	}
	assert.Len(t, second[0].Matches, 1, "unchanged groups keep their matches")
}

func TestDurationSplitter_SplitCarriesJobMatchesOntoFragments(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))
	step := productionStep("root", 100, 3600)
	step.Matches = []industry.JobMatch{
		{StepID: "root", JobID: 1, Runs: 48, Cost: decimal.NewFromInt(100)},
		{StepID: "root", JobID: 2, Runs: 4, Cost: decimal.NewFromInt(20)},
		{StepID: "root", JobID: 3, Runs: 30, Cost: decimal.NewFromInt(5)},
	}
	step.SimilarJobs = []industry.SimilarJob{{JobID: 9, Runs: 7}}

	fragments := s.Split(step, industry.MaxDurationSeconds(2))

	require.Len(t, fragments, 3)
	jobCost := decimal.Zero
	var ids [][]int64
	for _, f := range fragments {
		var fragmentIDs []int64
		for _, m := range f.Matches {
			assert.Equal(t, f.ID, m.StepID)
			fragmentIDs = append(fragmentIDs, m.JobID)
		}
		ids = append(ids, fragmentIDs)
		jobCost = jobCost.Add(f.JobCost())
	}
	assert.Equal(t, [][]int64{{1}, {3}, {2}}, ids)
	assert.True(t, decimal.NewFromInt(125).Equal(jobCost), "job cost survives the split")
	assert.Len(t, fragments[0].SimilarJobs, 1)
	assert.Empty(t, fragments[1].SimilarJobs)
}

func TestDurationSplitter_ResplitLeavesStepsWithJobsAlone(t *testing.T) {
	// Arrange
	s := industry.NewDurationSplitter(sequence("id"))
	matched := productionStep("thruster", 40, 2880)
	matched.Matches = []industry.JobMatch{{StepID: "thruster", JobID: 501, Runs: 40, Cost: decimal.NewFromInt(1000)}}
	manual := productionStep("plates", 40, 2880)
	manual.ManualJobData = true
	free := productionStep("wiring", 40, 2880)

	// Act
	out := s.Resplit([]industry.Step{matched, manual, free}, industry.MaxDurationSeconds(1))

	// Assert
	assert.Equal(t, []int{40, 40, 30, 10}, runsOf(out))
	assert.Equal(t, "thruster", out[0].ID)
	assert.False(t, out[0].IsSplit())
	assert.True(t, decimal.NewFromInt(1000).Equal(out[0].JobCost()))
	assert.True(t, out[1].ManualJobData)
	assert.False(t, out[1].IsSplit())
	assert.True(t, out[2].IsSplit())
}

func TestDurationSplitter_ResplitKeepsGroupsWithJobs(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))
	split := s.SplitAll([]industry.Step{productionStep("root", 100, 3600)}, industry.MaxDurationSeconds(2))
	split[2].Matches = []industry.JobMatch{{StepID: split[2].ID, JobID: 77, Runs: 4, Cost: decimal.NewFromInt(40)}}

	resplit := s.Resplit(split, industry.MaxDurationSeconds(5))

	assert.Equal(t, []int{48, 48, 4}, runsOf(resplit))
	assert.Equal(t, split[0].SplitGroupID, resplit[0].SplitGroupID)
	assert.Equal(t, []int64{77}, []int64{resplit[2].Matches[0].JobID})
}

func TestDurationSplitter_ResplitMergesWhenTheCeilingGrows(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))
	split := s.SplitAll([]industry.Step{productionStep("root", 100, 3600)}, industry.MaxDurationSeconds(2))

	merged := s.Resplit(split, industry.MaxDurationSeconds(5))

	require.Len(t, merged, 1)
	assert.Equal(t, 100, merged[0].Runs)
	assert.Equal(t, 100, merged[0].Quantity)
	assert.False(t, merged[0].IsSplit())
	assert.Equal(t, "root", merged[0].ID)
}

func TestDurationSplitter_ResplitRelayoutsWhenTheCeilingShrinks(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))
	split := s.SplitAll([]industry.Step{productionStep("root", 100, 3600)}, industry.MaxDurationSeconds(2))

	resplit := s.Resplit(split, industry.MaxDurationSeconds(1))

	assert.Equal(t, []int{24, 24, 24, 24, 4}, runsOf(resplit))
	assert.NotEqual(t, split[0].SplitGroupID, resplit[0].SplitGroupID)
}

func TestDurationSplitter_AddFragmentMakesTheGroupManual(t *testing.T) {
	// Arrange
	s := industry.NewDurationSplitter(sequence("id"))
	split := s.SplitAll([]industry.Step{
		productionStep("root", 100, 3600),
		{ID: "leaf", Leaf: true, Quantity: 10},
	}, industry.MaxDurationSeconds(2))

	// Act
	out, err := s.AddFragment(split, split[1].ID, 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.Equal(t, []int{48, 48, 4, 10, 0}, runsOf(out))
	for _, f := range out[:4] {
		assert.True(t, f.ManualSplit)
		assert.Equal(t, 110, f.TotalGroupRuns)
		assert.Equal(t, split[0].SplitGroupID, f.SplitGroupID)
	}
	assert.Equal(t, 3, out[3].SplitIndex)
	assert.Equal(t, "leaf", out[4].ID)
	assert.Equal(t, 4, out[4].SortOrder)

	// the input is not mutated
	assert.False(t, split[0].ManualSplit)
}

func TestDurationSplitter_AddFragmentPromotesAStandaloneStep(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))
	steps := []industry.Step{productionStep("root", 10, 3600)}

	out, err := s.AddFragment(steps, "root", 5)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, out[0].SplitGroupID, out[1].SplitGroupID)
	assert.NotEmpty(t, out[0].SplitGroupID)
	assert.Equal(t, 15, out[0].TotalGroupRuns)
	assert.Equal(t, 15, out[1].TotalGroupRuns)
	assert.Equal(t, []int{0, 1}, []int{out[0].SplitIndex, out[1].SplitIndex})
}

func TestDurationSplitter_ManualGroupsSurviveResplit(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))
	split := s.SplitAll([]industry.Step{productionStep("root", 100, 3600)}, industry.MaxDurationSeconds(2))
	manual, err := s.AddFragment(split, "root", 10)
	require.NoError(t, err)

	out := s.Resplit(manual, industry.MaxDurationSeconds(30))

	assert.Equal(t, []int{48, 48, 4, 10}, runsOf(out))
	for i := range out {
		assert.Equal(t, manual[i].ID, out[i].ID)
	}
}

func TestDurationSplitter_AddFragmentRejectsBadInput(t *testing.T) {
	s := industry.NewDurationSplitter(sequence("id"))
	steps := []industry.Step{productionStep("root", 10, 3600), {ID: "leaf", Leaf: true}}

	_, err := s.AddFragment(steps, "root", 0)
	var runErr *industry.ErrInvalidRunCount
	assert.ErrorAs(t, err, &runErr)

	_, err = s.AddFragment(steps, "missing", 1)
	var notFound *industry.ErrStepNotFound
	assert.ErrorAs(t, err, &notFound)

	_, err = s.AddFragment(steps, "leaf", 1)
	assert.Error(t, err)
}
