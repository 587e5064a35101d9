package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

type efficiencyContext struct {
	quantity int
	facility *industry.Facility
	resolver *industry.BonusResolver
	bonus    industry.Bonus
}

func (c *efficiencyContext) reset() {
	c.quantity = 0
	c.facility = nil
	c.bonus = industry.Bonus{}
	c.resolver, _ = industry.NewBonusResolver(industry.StandardRigCatalog(), 64)
}

func (c *efficiencyContext) iComputeTheRequirement(base, runs int, efficiency float64) error {
	c.quantity = industry.RequiredQuantity(base, runs, efficiency)
	return nil
}

func (c *efficiencyContext) theRequiredQuantityShouldBe(expected int) error {
	if c.quantity != expected {
		return fmt.Errorf("expected quantity %d, got %d", expected, c.quantity)
	}
	return nil
}

func (c *efficiencyContext) aFacilityWithRig(security, structure, rig string) error {
	f, err := industry.NewFacility("facility-1", 1, "Test Facility",
		industry.SecurityClass(security), industry.StructureClass(structure), []string{rig})
	if err != nil {
		return err
	}
	c.facility = f
	return nil
}

func (c *efficiencyContext) iResolveTheManufacturingBonus(category string) error {
	c.bonus = c.resolver.Resolve(c.facility, industry.ActivityManufacturing, category)
	return nil
}

func (c *efficiencyContext) theMaterialBonusShouldBe(expected float64) error {
	if c.bonus.MaterialPercent != expected {
		return fmt.Errorf("expected material bonus %.2f%%, got %.2f%%", expected, c.bonus.MaterialPercent)
	}
	return nil
}

func (c *efficiencyContext) theTimeBonusShouldBe(expected float64) error {
	if c.bonus.TimePercent != expected {
		return fmt.Errorf("expected time bonus %.2f%%, got %.2f%%", expected, c.bonus.TimePercent)
	}
	return nil
}

func (c *efficiencyContext) theRigShouldBeReportedAsUnknown(rig string) error {
	for _, name := range c.resolver.UnknownRigs(c.facility) {
		if name == rig {
			return nil
		}
	}
	return fmt.Errorf("rig %q was not reported as unknown", rig)
}

// InitializeEfficiencyScenario registers material and time efficiency steps
func InitializeEfficiencyScenario(sc *godog.ScenarioContext) {
	c := &efficiencyContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^I compute the requirement for (\d+) units per run over (\d+) runs at ([\d.]+) percent efficiency$`, c.iComputeTheRequirement)
	sc.Step(`^the required quantity should be (\d+)$`, c.theRequiredQuantityShouldBe)
	sc.Step(`^an? (highsec|lowsec|nullsec) (station|engineering_complex|refinery) with rig "([^"]*)"$`, c.aFacilityWithRig)
	sc.Step(`^I resolve the manufacturing bonus for category "([^"]*)"$`, c.iResolveTheManufacturingBonus)
	sc.Step(`^the material bonus should be ([\d.]+) percent$`, c.theMaterialBonusShouldBe)
	sc.Step(`^the time bonus should be ([\d.]+) percent$`, c.theTimeBonusShouldBe)
	sc.Step(`^the rig "([^"]*)" should be reported as unknown$`, c.theRigShouldBeReportedAsUnknown)
}
