package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/persistence"
	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/preset"
	storecmd "github.com/mcharbonnier/wikitally-go/internal/application/store/commands"
	"github.com/mcharbonnier/wikitally-go/internal/application/store/queries"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
	"github.com/mcharbonnier/wikitally-go/internal/infrastructure/database"
)

// presetContext drives preset scenarios against REAL repositories and the
// real watch controller, counting downstream notifications per kind.
type presetContext struct {
	db         *gorm.DB
	store      ports.EntityRepository
	bus        *watch.Bus
	controller *watch.Controller
	mediator   common.Mediator

	command *preset.LoadPresetCommand

	buildingNotifies int
	technoNotifies   int

	err error
}

func (pc *presetContext) reset() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to create test database: %w", err)
	}
	pc.db = db
	pc.store = persistence.NewGormEntityRepository(db, nil)
	pc.bus = watch.NewBus()
	pc.controller = watch.NewController(pc.bus, pc.store)
	pc.mediator = common.NewMediator()

	if err := common.RegisterHandler[*storecmd.BulkPutCommand](pc.mediator, storecmd.NewBulkPutHandler(pc.store, pc.bus)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*storecmd.BulkDeleteCommand](pc.mediator, storecmd.NewBulkDeleteHandler(pc.store, pc.bus)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*storecmd.ClearCollectionCommand](pc.mediator, storecmd.NewClearCollectionHandler(pc.store, pc.bus)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*queries.ListEntitiesQuery](pc.mediator, queries.NewListEntitiesHandler(pc.store)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*preset.LoadPresetCommand](pc.mediator, preset.NewLoadPresetHandler(pc.mediator, pc.controller)); err != nil {
		return err
	}

	pc.command = &preset.LoadPresetCommand{}
	pc.buildingNotifies = 0
	pc.technoNotifies = 0
	pc.err = nil

	pc.controller.Watch(entity.KindBuildings, func([]entity.Record) { pc.buildingNotifies++ })
	pc.controller.Watch(entity.KindTechnos, func([]entity.Record) { pc.technoNotifies++ })
	return nil
}

func (pc *presetContext) anEmptyTracker() error {
	return nil
}

func (pc *presetContext) aTrackerWithBuilding(id string) error {
	return pc.store.Put(context.Background(), entity.KindBuildings, &entity.Building{
		ID:       id,
		Costs:    cost.List{cost.Scalar("coins", 10)},
		Quantity: 1,
		MaxQty:   1,
	})
}

func (pc *presetContext) aTrackerWithTechnology(id string) error {
	return pc.store.Put(context.Background(), entity.KindTechnos, &entity.Techno{
		ID:    id,
		Costs: cost.List{cost.Scalar("research_points", 5)},
	})
}

func (pc *presetContext) aPresetWithCounts(buildings, technos int) error {
	for i := 0; i < buildings; i++ {
		pc.command.Buildings = append(pc.command.Buildings, preset.BuildingInput{
			ID:       fmt.Sprintf("building_%02d", i),
			Costs:    cost.List{cost.Scalar("coins", float64(10 * (i + 1)))},
			Quantity: 1,
			MaxQty:   4,
		})
	}
	for i := 0; i < technos; i++ {
		pc.command.Technos = append(pc.command.Technos, preset.TechnoInput{
			ID:    fmt.Sprintf("BA_%02d", i),
			Costs: cost.List{cost.Scalar("research_points", float64(i + 1))},
		})
	}
	return nil
}

func (pc *presetContext) aPresetBuildingWithQuantity(id string, quantity, maxQty int) error {
	pc.command.Buildings = append(pc.command.Buildings, preset.BuildingInput{
		ID:       id,
		Costs:    cost.List{cost.Scalar("coins", 10)},
		Quantity: quantity,
		MaxQty:   maxQty,
	})
	return nil
}

func (pc *presetContext) aPresetWithTechnology(id string) error {
	pc.command.Technos = append(pc.command.Technos, preset.TechnoInput{
		ID:    id,
		Costs: cost.List{cost.Scalar("research_points", 5)},
	})
	return nil
}

func (pc *presetContext) iLoadThePreset() error {
	// Baseline excludes notifications from Given-step writes.
	pc.buildingNotifies = 0
	pc.technoNotifies = 0
	_, pc.err = pc.mediator.Send(context.Background(), pc.command)
	return nil
}

func (pc *presetContext) iLoadThePresetInWholesaleMode() error {
	pc.command.Wholesale = true
	return pc.iLoadThePreset()
}

func (pc *presetContext) storedCountsShouldBe(buildings, technos int) error {
	if pc.err != nil {
		return fmt.Errorf("preset load failed: %w", pc.err)
	}
	got, err := pc.store.List(context.Background(), entity.KindBuildings)
	if err != nil {
		return err
	}
	if len(got) != buildings {
		return fmt.Errorf("expected %d buildings, got %d", buildings, len(got))
	}
	got, err = pc.store.List(context.Background(), entity.KindTechnos)
	if err != nil {
		return err
	}
	if len(got) != technos {
		return fmt.Errorf("expected %d technologies, got %d", technos, len(got))
	}
	return nil
}

func (pc *presetContext) watcherNotifyCount(collection string, times int) error {
	var got int
	switch collection {
	case "building":
		got = pc.buildingNotifies
	case "technology":
		got = pc.technoNotifies
	default:
		return fmt.Errorf("unknown collection: %s", collection)
	}
	if got != times {
		return fmt.Errorf("expected %d %s notifications, got %d", times, collection, got)
	}
	return nil
}

func (pc *presetContext) buildingShouldHaveQuantity(id string, quantity int) error {
	record, err := pc.store.Find(context.Background(), entity.KindBuildings, id)
	if err != nil {
		return err
	}
	building := record.(*entity.Building)
	if building.Quantity != quantity {
		return fmt.Errorf("expected quantity %d for %s, got %d", quantity, id, building.Quantity)
	}
	return nil
}

func (pc *presetContext) recordStored(collection, id string, wantStored bool) error {
	kind := entity.KindBuildings
	if collection == "technology" {
		kind = entity.KindTechnos
	}
	_, err := pc.store.Find(context.Background(), kind, id)
	switch {
	case wantStored && err != nil:
		return fmt.Errorf("expected %s %q to be stored: %w", collection, id, err)
	case !wantStored && err == nil:
		return fmt.Errorf("expected %s %q to be gone", collection, id)
	case !wantStored && !errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("unexpected lookup error for %s %q: %w", collection, id, err)
	}
	return nil
}

// InitializePresetScenario registers the preset loading steps.
func InitializePresetScenario(sc *godog.ScenarioContext) {
	pc := &presetContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, pc.reset()
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		return ctx, database.Close(pc.db)
	})

	sc.Step(`^an empty tracker$`, pc.anEmptyTracker)
	sc.Step(`^a tracker with building "([^"]*)"$`, pc.aTrackerWithBuilding)
	sc.Step(`^a tracker with technology "([^"]*)"$`, pc.aTrackerWithTechnology)
	sc.Step(`^a preset with (\d+) buildings and (\d+) technologies$`, pc.aPresetWithCounts)
	sc.Step(`^a preset building "([^"]*)" with quantity (\d+) and max (\d+)$`, pc.aPresetBuildingWithQuantity)
	sc.Step(`^a preset with technology "([^"]*)"$`, pc.aPresetWithTechnology)
	sc.Step(`^I load the preset$`, pc.iLoadThePreset)
	sc.Step(`^I load the preset in wholesale mode$`, pc.iLoadThePresetInWholesaleMode)
	sc.Step(`^(\d+) buildings and (\d+) technologies should be stored$`, pc.storedCountsShouldBe)
	sc.Step(`^(building|technology) watchers should have been notified exactly (\d+) time[s]?$`, pc.watcherNotifyCount)
	sc.Step(`^the building "([^"]*)" should have quantity (\d+)$`, pc.buildingShouldHaveQuantity)
	sc.Step(`^the (building|technology) "([^"]*)" should be stored$`, func(collection, id string) error {
		return pc.recordStored(collection, id, true)
	})
	sc.Step(`^the (building|technology) "([^"]*)" should not be stored$`, func(collection, id string) error {
		return pc.recordStored(collection, id, false)
	})
}
