package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

type durationSplitContext struct {
	splitter  *industry.DurationSplitter
	step      industry.Step
	fragments []industry.Step
	groupIDs  []string
}

func (c *durationSplitContext) reset() {
	c.splitter = industry.NewDurationSplitter(helpers.NewSequentialIDs("split").Next)
	c.step = industry.Step{}
	c.fragments = nil
	c.groupIDs = nil
}

func (c *durationSplitContext) aProductionStepWithRuns(runs, secondsPerRun int) error {
	c.step = industry.Step{
		ID:           "step-root",
		BlueprintID:  1001,
		ProductID:    1000,
		ProductName:  "Widget",
		Activity:     industry.ActivityManufacturing,
		Quantity:     runs,
		Runs:         runs,
		OutputPerRun: 1,
		TimePerRun:   secondsPerRun,
	}
	return nil
}

func (c *durationSplitContext) iSplitIt(days float64) error {
	c.fragments = c.splitter.SplitAll([]industry.Step{c.step}, industry.MaxDurationSeconds(days))
	c.groupIDs = fragmentGroupIDs(c.fragments)
	return nil
}

func (c *durationSplitContext) iResplitTheFragments(days float64) error {
	c.fragments = c.splitter.Resplit(c.fragments, industry.MaxDurationSeconds(days))
	return nil
}

func (c *durationSplitContext) iAddAManualFragment(runs int) error {
	if len(c.fragments) == 0 {
		return fmt.Errorf("no fragments to extend")
	}
	out, err := c.splitter.AddFragment(c.fragments, c.fragments[0].ID, runs)
	if err != nil {
		return err
	}
	c.fragments = out
	return nil
}

func (c *durationSplitContext) theFragmentsShouldHaveRuns(expected string) error {
	runs := make([]string, len(c.fragments))
	for i, f := range c.fragments {
		runs[i] = strconv.Itoa(f.Runs)
	}
	if got := strings.Join(runs, ","); got != expected {
		return fmt.Errorf("expected fragment runs %s, got %s", expected, got)
	}
	return nil
}

func (c *durationSplitContext) everyFragmentShouldShareOneGroup(total int) error {
	groups := fragmentGroupIDs(c.fragments)
	if len(groups) != 1 || groups[0] == "" {
		return fmt.Errorf("expected one split group, got %v", groups)
	}
	for _, f := range c.fragments {
		if f.TotalGroupRuns != total {
			return fmt.Errorf("fragment %s has %d total group runs, expected %d", f.ID, f.TotalGroupRuns, total)
		}
	}
	return nil
}

func (c *durationSplitContext) theFragmentIndexesShouldBe(expected string) error {
	idx := make([]string, len(c.fragments))
	for i, f := range c.fragments {
		idx[i] = strconv.Itoa(f.SplitIndex)
	}
	if got := strings.Join(idx, ","); got != expected {
		return fmt.Errorf("expected split indexes %s, got %s", expected, got)
	}
	return nil
}

func (c *durationSplitContext) theStepShouldNotBelongToASplitGroup() error {
	for _, f := range c.fragments {
		if f.IsSplit() {
			return fmt.Errorf("step %s still belongs to split group %s", f.ID, f.SplitGroupID)
		}
	}
	return nil
}

func (c *durationSplitContext) theSplitGroupShouldBeUnchanged() error {
	groups := fragmentGroupIDs(c.fragments)
	if len(groups) != 1 || len(c.groupIDs) != 1 || groups[0] != c.groupIDs[0] {
		return fmt.Errorf("split group changed from %v to %v", c.groupIDs, groups)
	}
	return nil
}

func (c *durationSplitContext) theSplitGroupShouldBeManual() error {
	for _, f := range c.fragments {
		if !f.ManualSplit {
			return fmt.Errorf("fragment %s is not marked manual", f.ID)
		}
	}
	return nil
}

func fragmentGroupIDs(steps []industry.Step) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range steps {
		if s.SplitGroupID != "" && !seen[s.SplitGroupID] {
			seen[s.SplitGroupID] = true
			ids = append(ids, s.SplitGroupID)
		}
	}
	return ids
}

// InitializeDurationSplitScenario registers duration splitter steps
func InitializeDurationSplitScenario(sc *godog.ScenarioContext) {
	c := &durationSplitContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a production step with (\d+) runs of (\d+) seconds each$`, c.aProductionStepWithRuns)
	sc.Step(`^I split it with a maximum duration of ([\d.]+) days$`, c.iSplitIt)
	sc.Step(`^I resplit the fragments with a maximum duration of ([\d.]+) days$`, c.iResplitTheFragments)
	sc.Step(`^I add a manual fragment of (\d+) runs$`, c.iAddAManualFragment)
	sc.Step(`^the fragments should have runs "([^"]*)"$`, c.theFragmentsShouldHaveRuns)
	sc.Step(`^every fragment should share one split group with (\d+) total runs$`, c.everyFragmentShouldShareOneGroup)
	sc.Step(`^the fragment indexes should be "([^"]*)"$`, c.theFragmentIndexesShouldBe)
	sc.Step(`^the step should not belong to a split group$`, c.theStepShouldNotBelongToASplitGroup)
	sc.Step(`^the split group should be unchanged$`, c.theSplitGroupShouldBeUnchanged)
	sc.Step(`^the split group should be manual$`, c.theSplitGroupShouldBeManual)
}
