package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/industry-planner/test/bdd/steps"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Domain scenarios run without a database
	steps.InitializeEfficiencyScenario(sc)
	steps.InitializeDurationSplitScenario(sc)

	// NOTE: ProductionScenario owns the shared "the command should fail" steps, so it
	// is registered after the domain scenarios whose wording is more specific
	steps.InitializeProductionScenario(sc)
}
