package preset_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/persistence"
	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/preset"
	storecmd "github.com/mcharbonnier/wikitally-go/internal/application/store/commands"
	"github.com/mcharbonnier/wikitally-go/internal/application/store/queries"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/test/helpers"
)

type presetFixture struct {
	mediator   common.Mediator
	store      *persistence.GormEntityRepository
	bus        *watch.Bus
	controller *watch.Controller
	handler    *preset.LoadPresetHandler
}

func newPresetFixture(t *testing.T) *presetFixture {
	db := helpers.NewTestDB(t)
	store := persistence.NewGormEntityRepository(db, nil)
	bus := watch.NewBus()
	controller := watch.NewController(bus, store)
	med := common.NewMediator()

	require.NoError(t, common.RegisterHandler[*storecmd.BulkPutCommand](med, storecmd.NewBulkPutHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.BulkDeleteCommand](med, storecmd.NewBulkDeleteHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.ClearCollectionCommand](med, storecmd.NewClearCollectionHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*queries.ListEntitiesQuery](med, queries.NewListEntitiesHandler(store)))

	return &presetFixture{
		mediator:   med,
		store:      store,
		bus:        bus,
		controller: controller,
		handler:    preset.NewLoadPresetHandler(med, controller),
	}
}

func buildingInputs(n int) []preset.BuildingInput {
	inputs := make([]preset.BuildingInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, preset.BuildingInput{
			ID:       fmt.Sprintf("building_%02d", i),
			Costs:    cost.List{cost.Scalar("coins", float64(100 + i))},
			Quantity: 1,
			MaxQty:   4,
		})
	}
	return inputs
}

func technoInputs(era string, n int) []preset.TechnoInput {
	inputs := make([]preset.TechnoInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, preset.TechnoInput{
			ID:    fmt.Sprintf("%s_%02d", era, i),
			Costs: cost.List{cost.Scalar("research_points", float64(10 + i))},
		})
	}
	return inputs
}

func TestLoadPreset_BulkLoadWithCounts(t *testing.T) {
	// Arrange
	f := newPresetFixture(t)
	ctx := context.Background()

	var buildingNotifications, technoNotifications int
	f.controller.Watch(entity.KindBuildings, func([]entity.Record) { buildingNotifications++ })
	f.controller.Watch(entity.KindTechnos, func([]entity.Record) { technoNotifications++ })

	cmd := &preset.LoadPresetCommand{
		Buildings: buildingInputs(20),
		Technos:   technoInputs("BA", 10),
	}

	// Act
	resp, err := f.handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	result := resp.(*preset.LoadPresetResponse)
	assert.Equal(t, 20, result.BuildingsAdded)
	assert.Equal(t, 10, result.TechnosAdded)

	// The whole preset reached watchers as exactly one update per kind
	assert.Equal(t, 1, buildingNotifications)
	assert.Equal(t, 1, technoNotifications)

	stored, err := f.store.List(ctx, entity.KindBuildings)
	require.NoError(t, err)
	assert.Len(t, stored, 20)
}

func TestLoadPreset_ClampsQuantities(t *testing.T) {
	f := newPresetFixture(t)
	ctx := context.Background()

	cmd := &preset.LoadPresetCommand{
		Buildings: []preset.BuildingInput{
			{ID: "b1", Costs: cost.List{cost.Scalar("coins", 100)}, Quantity: 99, MaxQty: 4},
			{ID: "b2", Costs: cost.List{cost.Scalar("coins", 100)}, Quantity: 0, MaxQty: 4},
		},
	}

	_, err := f.handler.Handle(ctx, cmd)
	require.NoError(t, err)

	records, err := f.store.List(ctx, entity.KindBuildings)
	require.NoError(t, err)
	byID := map[string]int{}
	for _, record := range records {
		byID[record.EntityID()] = record.(*entity.Building).Quantity
	}
	assert.Equal(t, 4, byID["b1"])
	assert.Equal(t, 1, byID["b2"])
}

func TestLoadPreset_ReplacesTechnoEras(t *testing.T) {
	// Arrange - stored technos in two eras, preset covers only BA
	f := newPresetFixture(t)
	ctx := context.Background()

	seed := []entity.Record{
		&entity.Techno{ID: "BA_00"},
		&entity.Techno{ID: "BA_99"},
		&entity.Techno{ID: "ME_00"},
	}
	require.NoError(t, f.store.BulkPut(ctx, entity.KindTechnos, seed))

	cmd := &preset.LoadPresetCommand{Technos: technoInputs("BA", 2)}

	// Act
	_, err := f.handler.Handle(ctx, cmd)

	// Assert - BA is replaced wholesale, ME untouched
	require.NoError(t, err)
	records, err := f.store.List(ctx, entity.KindTechnos)
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, record := range records {
		ids[record.EntityID()] = true
	}
	assert.True(t, ids["BA_00"])
	assert.True(t, ids["BA_01"])
	assert.False(t, ids["BA_99"])
	assert.True(t, ids["ME_00"])
	assert.Len(t, ids, 3)
}

func TestLoadPreset_WholesaleClearsBoth(t *testing.T) {
	// Arrange
	f := newPresetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Put(ctx, entity.KindBuildings, &entity.Building{ID: "old_b", Quantity: 1, MaxQty: 1}))
	require.NoError(t, f.store.Put(ctx, entity.KindTechnos, &entity.Techno{ID: "ME_00"}))

	cmd := &preset.LoadPresetCommand{
		Buildings: buildingInputs(1),
		Technos:   technoInputs("BA", 1),
		Wholesale: true,
	}

	// Act
	_, err := f.handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	buildingsStored, err := f.store.List(ctx, entity.KindBuildings)
	require.NoError(t, err)
	technosStored, err := f.store.List(ctx, entity.KindTechnos)
	require.NoError(t, err)
	require.Len(t, buildingsStored, 1)
	require.Len(t, technosStored, 1)
	assert.Equal(t, "building_00", buildingsStored[0].EntityID())
	assert.Equal(t, "BA_00", technosStored[0].EntityID())
}

func TestLoadPreset_RejectsInvalidInput(t *testing.T) {
	f := newPresetFixture(t)

	cmd := &preset.LoadPresetCommand{
		Buildings: []preset.BuildingInput{{ID: "", Costs: cost.List{cost.Scalar("coins", 1)}, MaxQty: 1}},
	}

	_, err := f.handler.Handle(context.Background(), cmd)
	assert.Error(t, err)
}

// failingMediator passes everything through except techno bulk writes.
type failingMediator struct {
	common.Mediator
}

func (m *failingMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	if cmd, ok := request.(*storecmd.BulkPutCommand); ok && cmd.Kind == entity.KindTechnos {
		return nil, errors.New("technos write failed")
	}
	return m.Mediator.Send(ctx, request)
}

func TestLoadPreset_PartialFailureReportsCommittedHalf(t *testing.T) {
	// Arrange - buildings commit, the technos bulk write fails
	f := newPresetFixture(t)
	ctx := context.Background()

	med := &failingMediator{Mediator: f.mediator}
	handler := preset.NewLoadPresetHandler(med, f.controller)

	var buildingNotifications, technoNotifications int
	f.controller.Watch(entity.KindBuildings, func([]entity.Record) { buildingNotifications++ })
	f.controller.Watch(entity.KindTechnos, func([]entity.Record) { technoNotifications++ })

	cmd := &preset.LoadPresetCommand{
		Buildings: buildingInputs(3),
		Technos:   technoInputs("BA", 2),
	}

	// Act
	resp, err := handler.Handle(ctx, cmd)

	// Assert - the error names the split, counts show what committed
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrPartialPreset))
	result := resp.(*preset.LoadPresetResponse)
	assert.Equal(t, 3, result.BuildingsAdded)
	assert.Equal(t, 0, result.TechnosAdded)

	// Buildings are durable despite the techno failure
	stored, listErr := f.store.List(ctx, entity.KindBuildings)
	require.NoError(t, listErr)
	assert.Len(t, stored, 3)

	// Watchers were not frozen: refresh ran for both kinds on the way out
	assert.Equal(t, 1, buildingNotifications)
	assert.Equal(t, 1, technoNotifications)
	assert.Equal(t, watch.StateActive, f.controller.State())
}
