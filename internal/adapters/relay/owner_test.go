package relay_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/persistence"
	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
	"github.com/mcharbonnier/wikitally-go/internal/application/calculator"
	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/preset"
	storecmd "github.com/mcharbonnier/wikitally-go/internal/application/store/commands"
	"github.com/mcharbonnier/wikitally-go/internal/application/store/queries"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/test/helpers"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// newOwnerFixture assembles the full owner context: repositories, handlers,
// controller and the command loop, the same wiring the daemon does.
func newOwnerFixture(t *testing.T) (*relay.Owner, *relay.LocalClient) {
	db := helpers.NewTestDB(t)
	store := persistence.NewGormEntityRepository(db, nil)
	snapshots := persistence.NewGormSnapshotRepository(db, nil)
	selections := persistence.NewGormSelectionRepository(db, nil)

	bus := watch.NewBus()
	controller := watch.NewController(bus, store)
	med := common.NewMediator()

	require.NoError(t, common.RegisterHandler[*storecmd.PutEntityCommand](med, storecmd.NewPutEntityHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.DeleteEntityCommand](med, storecmd.NewDeleteEntityHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.BulkPutCommand](med, storecmd.NewBulkPutHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.BulkDeleteCommand](med, storecmd.NewBulkDeleteHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.ClearCollectionCommand](med, storecmd.NewClearCollectionHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.SetQuantityCommand](med, storecmd.NewSetQuantityHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.ToggleHiddenCommand](med, storecmd.NewToggleHiddenHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.ToggleLevelCommand](med, storecmd.NewToggleLevelHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.ToggleAreaCommand](med, storecmd.NewToggleAreaHandler(store, bus)))
	require.NoError(t, common.RegisterHandler[*storecmd.ReplaceSnapshotCommand](med, storecmd.NewReplaceSnapshotHandler(snapshots)))
	require.NoError(t, common.RegisterHandler[*storecmd.SetSelectionCommand](med, storecmd.NewSetSelectionHandler(selections)))
	require.NoError(t, common.RegisterHandler[*queries.ListEntitiesQuery](med, queries.NewListEntitiesHandler(store)))
	require.NoError(t, common.RegisterHandler[*queries.GetEntityQuery](med, queries.NewGetEntityHandler(store)))
	require.NoError(t, common.RegisterHandler[*queries.GetSnapshotQuery](med, queries.NewGetSnapshotHandler(snapshots)))
	require.NoError(t, common.RegisterHandler[*queries.GetSelectionsQuery](med, queries.NewGetSelectionsHandler(selections)))
	require.NoError(t, common.RegisterHandler[*calculator.ComputeTotalsQuery](med,
		calculator.NewComputeTotalsHandler(store, snapshots, selections, nil)))
	require.NoError(t, common.RegisterHandler[*preset.LoadPresetCommand](med, preset.NewLoadPresetHandler(med, controller)))

	owner := relay.NewOwner(med, controller, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go owner.Run(ctx)

	return owner, relay.NewLocalClient(owner, controller)
}

func putBuilding(t *testing.T, client relay.Client, building *entity.Building) {
	payload, err := relay.EncodePutEntity(building)
	require.NoError(t, err)
	require.NoError(t, client.Request(context.Background(), relay.OpPutEntity, payload, nil))
}

func TestOwner_WriteThenReadObservesWrite(t *testing.T) {
	// Arrange
	_, client := newOwnerFixture(t)
	ctx := context.Background()

	putBuilding(t, client, &entity.Building{
		ID:       "b1",
		Costs:    cost.List{cost.Scalar("coins", 100)},
		Quantity: 2,
		MaxQty:   8,
	})

	// Act - same context reads back through the loop
	var raw json.RawMessage
	err := client.Request(ctx, relay.OpListEntities, &relay.ListEntitiesPayload{Kind: entity.KindBuildings}, &raw)
	require.NoError(t, err)

	records, err := relay.DecodeRecords(entity.KindBuildings, raw)

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 1)
	got := records[0].(*entity.Building)
	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, 2, got.Quantity)
}

func TestOwner_SetQuantityClampsAndReports(t *testing.T) {
	// Arrange
	_, client := newOwnerFixture(t)
	ctx := context.Background()

	putBuilding(t, client, &entity.Building{ID: "b1", Quantity: 1, MaxQty: 4})

	// Act - out-of-range quantity
	var result relay.SetQuantityResult
	err := client.Request(ctx, relay.OpSetQuantity,
		&relay.SetQuantityPayload{ID: "b1", Quantity: 99}, &result)

	// Assert - clamped, not rejected
	require.NoError(t, err)
	assert.Equal(t, 4, result.Quantity)
}

func TestOwner_MutatingMissingEntityFails(t *testing.T) {
	_, client := newOwnerFixture(t)
	ctx := context.Background()

	err := client.Request(ctx, relay.OpDeleteEntity,
		&relay.DeleteEntityPayload{Kind: entity.KindBuildings, ID: "missing"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = client.Request(ctx, relay.OpSetQuantity,
		&relay.SetQuantityPayload{ID: "missing", Quantity: 2}, nil)
	assert.Error(t, err)
}

func TestOwner_ToggleHiddenRoundTrip(t *testing.T) {
	// Arrange
	_, client := newOwnerFixture(t)
	ctx := context.Background()

	putBuilding(t, client, &entity.Building{ID: "b1", Quantity: 1, MaxQty: 1})

	// Act + Assert - double toggle returns to the original state
	var result relay.ToggleHiddenResult
	require.NoError(t, client.Request(ctx, relay.OpToggleHidden,
		&relay.ToggleHiddenPayload{Kind: entity.KindBuildings, ID: "b1"}, &result))
	assert.True(t, result.Hidden)

	require.NoError(t, client.Request(ctx, relay.OpToggleHidden,
		&relay.ToggleHiddenPayload{Kind: entity.KindBuildings, ID: "b1"}, &result))
	assert.False(t, result.Hidden)
}

func TestOwner_ToggleAreaOptInOptOut(t *testing.T) {
	// Arrange - nile_delta is in the static area table
	_, client := newOwnerFixture(t)
	ctx := context.Background()

	// Act - opt in
	var result relay.ToggleAreaResult
	require.NoError(t, client.Request(ctx, relay.OpToggleArea, &relay.ToggleAreaPayload{ID: "nile_delta"}, &result))
	assert.True(t, result.Tracked)

	var raw json.RawMessage
	require.NoError(t, client.Request(ctx, relay.OpListEntities,
		&relay.ListEntitiesPayload{Kind: entity.KindAreas}, &raw))
	records, err := relay.DecodeRecords(entity.KindAreas, raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].(*entity.Area).Costs)

	// Act - opt out deletes the record
	require.NoError(t, client.Request(ctx, relay.OpToggleArea, &relay.ToggleAreaPayload{ID: "nile_delta"}, &result))
	assert.False(t, result.Tracked)

	require.NoError(t, client.Request(ctx, relay.OpListEntities,
		&relay.ListEntitiesPayload{Kind: entity.KindAreas}, &raw))
	records, err = relay.DecodeRecords(entity.KindAreas, raw)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOwner_TradePostLevelLifecycle(t *testing.T) {
	// Arrange - giza is in the static trade post table
	_, client := newOwnerFixture(t)
	ctx := context.Background()

	// Act - first toggle creates the record
	var result relay.ToggleLevelResult
	require.NoError(t, client.Request(ctx, relay.OpToggleLevel,
		&relay.ToggleLevelPayload{ID: "giza", Level: entity.LevelUnlock}, &result))
	assert.True(t, result.Levels[entity.LevelUnlock])

	// Act - toggling the only level off removes the record
	require.NoError(t, client.Request(ctx, relay.OpToggleLevel,
		&relay.ToggleLevelPayload{ID: "giza", Level: entity.LevelUnlock}, &result))
	assert.Empty(t, result.Levels)

	var raw json.RawMessage
	require.NoError(t, client.Request(ctx, relay.OpListEntities,
		&relay.ListEntitiesPayload{Kind: entity.KindTradePosts}, &raw))
	records, err := relay.DecodeRecords(entity.KindTradePosts, raw)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOwner_BroadcastsCommittedCollections(t *testing.T) {
	// Arrange
	owner, client := newOwnerFixture(t)

	frames, unregister := owner.Hub().Register()
	defer unregister()

	// Act
	putBuilding(t, client, &entity.Building{ID: "b1", Quantity: 1, MaxQty: 1})

	// Assert - the full collection reaches registered readers
	select {
	case msg := <-frames:
		var frame relay.BroadcastFrame
		require.NoError(t, json.Unmarshal(msg, &frame))
		assert.Equal(t, entity.KindBuildings, frame.Broadcast)

		records, err := relay.DecodeRecords(frame.Broadcast, frame.Entities)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "b1", records[0].EntityID())
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestOwner_PresetBroadcastsOncePerKind(t *testing.T) {
	// Arrange
	owner, client := newOwnerFixture(t)
	ctx := context.Background()

	frames, unregister := owner.Hub().Register()
	defer unregister()

	payload := relay.LoadPresetPayload{
		Buildings: []preset.BuildingInput{
			{ID: "b1", Costs: cost.List{cost.Scalar("coins", 1)}, Quantity: 1, MaxQty: 1},
			{ID: "b2", Costs: cost.List{cost.Scalar("coins", 2)}, Quantity: 1, MaxQty: 1},
		},
		Technos: []preset.TechnoInput{
			{ID: "BA_00", Costs: cost.List{cost.Scalar("research_points", 1)}},
		},
	}

	// Act
	var result relay.LoadPresetResult
	require.NoError(t, client.Request(ctx, relay.OpLoadPreset, &payload, &result))
	assert.Equal(t, 2, result.BuildingsAdded)
	assert.Equal(t, 1, result.TechnosAdded)

	// Assert - one coalesced frame per kind, not one per record
	perKind := map[entity.Kind]int{}
	deadline := time.After(2 * time.Second)
	for len(perKind) < 2 {
		select {
		case msg := <-frames:
			var frame relay.BroadcastFrame
			require.NoError(t, json.Unmarshal(msg, &frame))
			perKind[frame.Broadcast]++
		case <-deadline:
			t.Fatal("missing coalesced broadcasts")
		}
	}
	assert.Equal(t, 1, perKind[entity.KindBuildings])
	assert.Equal(t, 1, perKind[entity.KindTechnos])
}

func TestOwner_UnknownOperation(t *testing.T) {
	owner, _ := newOwnerFixture(t)

	result, err := owner.Submit(context.Background(), "entities.rename", nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown operation")
}

func TestOwner_SubmitFailsWhenLoopStopped(t *testing.T) {
	// Arrange - an owner whose loop never runs
	med := common.NewMediator()
	bus := watch.NewBus()
	db := helpers.NewTestDB(t)
	store := persistence.NewGormEntityRepository(db, nil)
	controller := watch.NewController(bus, store)
	owner := relay.NewOwner(med, controller, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Act - the reply never comes, the context expires
	_, err := owner.Submit(ctx, relay.OpGetSnapshot, nil)

	// Assert - unreachable owner is a hard error
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrOwnerUnreachable)
}

func TestOwner_ComputeTotalsThroughLoop(t *testing.T) {
	// Arrange
	_, client := newOwnerFixture(t)
	ctx := context.Background()

	putBuilding(t, client, &entity.Building{
		ID:       "b1",
		Costs:    cost.List{cost.Scalar("coins", 100)},
		Quantity: 3,
		MaxQty:   4,
	})
	require.NoError(t, client.Request(ctx, relay.OpReplaceSnapshot, &relay.ReplaceSnapshotPayload{
		Rows: []relay.SnapshotRow{{ID: "coins", Amount: 120, Type: "main"}},
	}, nil))

	// Act
	var result relay.TotalsResult
	require.NoError(t, client.Request(ctx, relay.OpComputeTotals,
		&relay.ComputeTotalsPayload{CompareMode: true}, &result))

	// Assert
	assert.Equal(t, 300.0, result.Main["coins"])
	assert.True(t, result.IsCompareMode)
	require.NotNil(t, result.Differences)
	assert.Equal(t, -180.0, result.Differences.Main["coins"])
}
