package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/mcharbonnier/wikitally-go/test/bdd/steps"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/preset", "features/calculator"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// NOTE: PresetScenario registered FIRST so its "an empty tracker" step
	// takes precedence; the calculator scenarios reuse it as a no-op.
	steps.InitializePresetScenario(sc)
	steps.InitializeCalculatorScenario(sc)
}
