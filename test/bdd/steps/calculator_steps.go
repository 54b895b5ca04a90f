package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/persistence"
	"github.com/mcharbonnier/wikitally-go/internal/application/calculator"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
	"github.com/mcharbonnier/wikitally-go/internal/infrastructure/database"
)

type calculatorContext struct {
	db        *gorm.DB
	store     ports.EntityRepository
	snapshots ports.SnapshotRepository
	handler   *calculator.ComputeTotalsHandler

	totals *calculator.ComparedTotals
	err    error
}

func (cc *calculatorContext) reset() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to create test database: %w", err)
	}
	cc.db = db
	cc.store = persistence.NewGormEntityRepository(db, nil)
	cc.snapshots = persistence.NewGormSnapshotRepository(db, nil)
	selections := persistence.NewGormSelectionRepository(db, nil)
	cc.handler = calculator.NewComputeTotalsHandler(cc.store, cc.snapshots, selections, nil)
	cc.totals = nil
	cc.err = nil
	return nil
}

func (cc *calculatorContext) putBuilding(id, resource string, amount float64, quantity int, hidden bool) error {
	return cc.store.Put(context.Background(), entity.KindBuildings, &entity.Building{
		ID:       id,
		Costs:    cost.List{cost.Scalar(resource, amount)},
		Quantity: quantity,
		MaxQty:   quantity,
		Hidden:   hidden,
	})
}

func (cc *calculatorContext) aTrackedBuilding(id string, amount int, resource string, quantity int) error {
	return cc.putBuilding(id, resource, float64(amount), quantity, false)
}

func (cc *calculatorContext) aHiddenBuilding(id string, amount int, resource string, quantity int) error {
	return cc.putBuilding(id, resource, float64(amount), quantity, true)
}

func (cc *calculatorContext) aLiveSnapshot(amount int, resource string) error {
	return cc.snapshots.Replace(context.Background(), []entity.ResourceSnapshot{
		{ID: resource, Amount: float64(amount), Type: "main"},
	})
}

func (cc *calculatorContext) iComputeTotalsInCompareMode() error {
	resp, err := cc.handler.Handle(context.Background(), &calculator.ComputeTotalsQuery{CompareMode: true})
	if err != nil {
		cc.err = err
		return nil
	}
	cc.totals = resp.(*calculator.ComputeTotalsResponse).Totals
	return nil
}

func (cc *calculatorContext) neededTotalShouldBe(resource string, expected float64) error {
	if cc.err != nil {
		return fmt.Errorf("compute failed: %w", cc.err)
	}
	got := cc.totals.Main[resource]
	if got != expected {
		return fmt.Errorf("expected needed %s = %v, got %v", resource, expected, got)
	}
	return nil
}

func (cc *calculatorContext) differenceShouldBe(resource string, expected float64) error {
	if cc.err != nil {
		return fmt.Errorf("compute failed: %w", cc.err)
	}
	if cc.totals.Differences == nil {
		return fmt.Errorf("no differences in result")
	}
	got := cc.totals.Differences.Main[resource]
	if got != expected {
		return fmt.Errorf("expected difference %s = %v, got %v", resource, expected, got)
	}
	return nil
}

// InitializeCalculatorScenario registers the totals comparison steps.
func InitializeCalculatorScenario(sc *godog.ScenarioContext) {
	cc := &calculatorContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, cc.reset()
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		return ctx, database.Close(cc.db)
	})

	sc.Step(`^a tracked building "([^"]*)" costing (\d+) "([^"]*)" with quantity (\d+)$`, cc.aTrackedBuilding)
	sc.Step(`^a hidden building "([^"]*)" costing (\d+) "([^"]*)" with quantity (\d+)$`, cc.aHiddenBuilding)
	sc.Step(`^a live snapshot of (\d+) "([^"]*)"$`, cc.aLiveSnapshot)
	sc.Step(`^I compute totals in compare mode$`, cc.iComputeTotalsInCompareMode)
	sc.Step(`^the needed total for "([^"]*)" should be (-?\d+)$`, cc.neededTotalShouldBe)
	sc.Step(`^the difference for "([^"]*)" should be (-?\d+)$`, cc.differenceShouldBe)
}
