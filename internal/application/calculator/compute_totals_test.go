package calculator_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/persistence"
	"github.com/mcharbonnier/wikitally-go/internal/application/calculator"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
	"github.com/mcharbonnier/wikitally-go/test/helpers"
)

type calcFixture struct {
	store      *persistence.GormEntityRepository
	snapshots  *persistence.GormSnapshotRepository
	selections *persistence.GormSelectionRepository
	handler    *calculator.ComputeTotalsHandler
}

func newCalcFixture(t *testing.T) *calcFixture {
	db := helpers.NewTestDB(t)
	store := persistence.NewGormEntityRepository(db, nil)
	snapshots := persistence.NewGormSnapshotRepository(db, nil)
	selections := persistence.NewGormSelectionRepository(db, nil)
	return &calcFixture{
		store:      store,
		snapshots:  snapshots,
		selections: selections,
		handler:    calculator.NewComputeTotalsHandler(store, snapshots, selections, nil),
	}
}

func (f *calcFixture) compute(t *testing.T, compareMode bool) *calculator.ComparedTotals {
	resp, err := f.handler.Handle(context.Background(), &calculator.ComputeTotalsQuery{CompareMode: compareMode})
	require.NoError(t, err)
	return resp.(*calculator.ComputeTotalsResponse).Totals
}

func TestComputeTotals_ScalesBuildingsByQuantity(t *testing.T) {
	// Arrange
	f := newCalcFixture(t)
	ctx := context.Background()

	building := &entity.Building{
		ID: "b1",
		Costs: cost.List{
			cost.Scalar("coins", 100),
			cost.Goods(cost.GoodAmount{Type: "wool_BA", Amount: 5}),
		},
		Quantity: 3,
		MaxQty:   8,
	}
	require.NoError(t, f.store.Put(ctx, entity.KindBuildings, building))

	// Act
	totals := f.compute(t, false)

	// Assert
	assert.Equal(t, 300.0, totals.Main["coins"])
	assert.Equal(t, 15.0, totals.Goods["wool_BA"])
	assert.False(t, totals.IsCompareMode)
	assert.Nil(t, totals.Differences)
}

func TestComputeTotals_TechnosContributeAtFaceValue(t *testing.T) {
	f := newCalcFixture(t)
	ctx := context.Background()

	techno := &entity.Techno{
		ID:    "t1",
		Costs: cost.List{cost.Scalar("research_points", 12)},
	}
	require.NoError(t, f.store.Put(ctx, entity.KindTechnos, techno))

	totals := f.compute(t, false)

	assert.Equal(t, 12.0, totals.Main["research_points"])
}

func TestComputeTotals_AlliedCurrenciesLandInGoods(t *testing.T) {
	// Arrange - deben is allied, coins is not
	f := newCalcFixture(t)
	ctx := context.Background()

	area := &entity.Area{
		ID: "lower_nubia",
		Costs: cost.List{
			cost.Scalar("coins", 2500),
			cost.Scalar("deben", 150),
		},
	}
	require.NoError(t, f.store.Put(ctx, entity.KindAreas, area))

	// Act
	totals := f.compute(t, false)

	// Assert - the allow-list reclassifies, never infers
	assert.Equal(t, 2500.0, totals.Main["coins"])
	assert.Equal(t, 150.0, totals.Goods["deben"])
	assert.NotContains(t, totals.Main, "deben")
}

func TestComputeTotals_HiddenEntitiesContributeNothing(t *testing.T) {
	// Arrange
	f := newCalcFixture(t)
	ctx := context.Background()

	visible := &entity.Building{ID: "b1", Costs: cost.List{cost.Scalar("coins", 100)}, Quantity: 1, MaxQty: 1}
	hidden := &entity.Building{ID: "b2", Costs: cost.List{cost.Scalar("coins", 900)}, Quantity: 1, MaxQty: 1, Hidden: true}
	require.NoError(t, f.store.Put(ctx, entity.KindBuildings, visible))
	require.NoError(t, f.store.Put(ctx, entity.KindBuildings, hidden))

	// Act
	totals := f.compute(t, false)
	compared := f.compute(t, true)

	// Assert - hidden contributes exactly zero in both modes
	assert.Equal(t, 100.0, totals.Main["coins"])
	assert.Equal(t, 100.0, compared.Main["coins"])
}

func TestComputeTotals_CompareMode(t *testing.T) {
	// Arrange
	f := newCalcFixture(t)
	ctx := context.Background()

	building := &entity.Building{
		ID:       "b1",
		Costs:    cost.List{cost.Scalar("coins", 300)},
		Quantity: 1,
		MaxQty:   1,
	}
	require.NoError(t, f.store.Put(ctx, entity.KindBuildings, building))
	require.NoError(t, f.snapshots.Replace(ctx, []entity.ResourceSnapshot{
		{ID: "coins", Amount: 50, Type: "main"},
	}))

	// Act
	compared := f.compute(t, true)

	// Assert - live minus needed
	assert.True(t, compared.IsCompareMode)
	require.NotNil(t, compared.Differences)
	assert.Equal(t, -250.0, compared.Differences.Main["coins"])
}

func TestComputeTotals_CompareMissingLiveDefaultsToZero(t *testing.T) {
	f := newCalcFixture(t)
	ctx := context.Background()

	building := &entity.Building{ID: "b1", Costs: cost.List{cost.Scalar("coins", 300)}, Quantity: 1, MaxQty: 1}
	require.NoError(t, f.store.Put(ctx, entity.KindBuildings, building))

	compared := f.compute(t, true)

	require.NotNil(t, compared.Differences)
	assert.Equal(t, -300.0, compared.Differences.Main["coins"])
}

func TestComputeTotals_CompareFillsEraBlock(t *testing.T) {
	// Arrange - one slot-keyed need in BA must materialize all three BA slots
	f := newCalcFixture(t)
	ctx := context.Background()

	building := &entity.Building{
		ID:       "b1",
		Costs:    cost.List{cost.Goods(cost.GoodAmount{Type: "Primary_BA", Amount: 10})},
		Quantity: 1,
		MaxQty:   1,
	}
	require.NoError(t, f.store.Put(ctx, entity.KindBuildings, building))

	require.NoError(t, f.selections.Put(ctx, goods.EraBronzeAge, goods.Selection{
		Primary:   "spinner",
		Secondary: "stonemason",
		Tertiary:  "smith",
	}))
	require.NoError(t, f.snapshots.Replace(ctx, []entity.ResourceSnapshot{
		{ID: "wool_BA", Amount: 4, Type: "goods"},
		{ID: "alabaster_idol_BA", Amount: 7, Type: "goods"},
	}))

	// Act
	compared := f.compute(t, true)

	// Assert - the needed slot resolves through the selection
	require.NotNil(t, compared.Differences)
	assert.Equal(t, -6.0, compared.Differences.Goods["Primary_BA"])

	// Zero-need slots of the same era are present so a full era block renders
	assert.Contains(t, compared.Differences.Goods, "Secondary_BA")
	assert.Contains(t, compared.Differences.Goods, "Tertiary_BA")
	assert.Equal(t, 7.0, compared.Differences.Goods["Secondary_BA"])
}

func TestComputeTotals_UnmappedGoodsStillCount(t *testing.T) {
	// Arrange - a raw-named good with no era suffix must never be dropped
	f := newCalcFixture(t)
	ctx := context.Background()

	building := &entity.Building{
		ID:       "b1",
		Costs:    cost.List{cost.Goods(cost.GoodAmount{Type: "mystery_relic", Amount: 3})},
		Quantity: 2,
		MaxQty:   2,
	}
	require.NoError(t, f.store.Put(ctx, entity.KindBuildings, building))

	// Act
	totals := f.compute(t, false)
	compared := f.compute(t, true)

	// Assert
	assert.Equal(t, 6.0, totals.Goods["mystery_relic"])
	assert.Equal(t, -6.0, compared.Differences.Goods["mystery_relic"])
}

func TestFold_OrderIndependent(t *testing.T) {
	// Arrange - a mixed record set, folded in shuffled orders
	records := []entity.Record{
		&entity.Building{ID: "b1", Costs: cost.List{cost.Scalar("coins", 100)}, Quantity: 2, MaxQty: 4},
		&entity.Building{ID: "b2", Costs: cost.List{cost.Goods(cost.GoodAmount{Type: "wool_BA", Amount: 5})}, Quantity: 1, MaxQty: 1},
		&entity.Techno{ID: "t1", Costs: cost.List{cost.Scalar("coins", 40), cost.Scalar("deben", 5)}},
		&entity.Area{ID: "a1", Costs: cost.List{cost.Scalar("food", 800)}},
		&entity.TradePost{ID: "tp1", Costs: cost.List{cost.Scalar("coins", 350)}},
	}
	allied := goods.DefaultAlliedCurrencies()
	baseline := calculator.Fold(records, allied)

	rng := rand.New(rand.NewSource(42))

	// Act + Assert
	for i := 0; i < 10; i++ {
		shuffled := make([]entity.Record, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		folded := calculator.Fold(shuffled, allied)
		assert.Equal(t, baseline.Main, folded.Main)
		assert.Equal(t, baseline.Goods, folded.Goods)
	}
}

func TestFold_ChunkingInvariant(t *testing.T) {
	// Folding in two chunks equals folding everything at once.
	records := []entity.Record{
		&entity.Building{ID: "b1", Costs: cost.List{cost.Scalar("coins", 100)}, Quantity: 1, MaxQty: 1},
		&entity.Building{ID: "b2", Costs: cost.List{cost.Scalar("coins", 200)}, Quantity: 1, MaxQty: 1},
		&entity.Techno{ID: "t1", Costs: cost.List{cost.Scalar("coins", 50)}},
	}
	allied := goods.DefaultAlliedCurrencies()

	whole := calculator.Fold(records, allied)

	first := calculator.NewTotals()
	for _, r := range records[:1] {
		first.Accumulate(r.AggregateCosts(), allied)
	}
	for _, r := range records[1:] {
		first.Accumulate(r.AggregateCosts(), allied)
	}

	assert.Equal(t, whole.Main, first.Main)
}
