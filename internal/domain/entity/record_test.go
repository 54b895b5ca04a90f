package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		maxQty   int
		want     int
	}{
		{"in range", 3, 8, 3},
		{"below minimum", 0, 8, 1},
		{"negative", -5, 8, 1},
		{"above maximum", 12, 8, 8},
		{"at maximum", 8, 8, 8},
		{"degenerate max", 5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entity.ClampQuantity(tt.quantity, tt.maxQty))
		})
	}
}

func TestBuilding_AggregateCostsScalesByQuantity(t *testing.T) {
	// Arrange
	building := &entity.Building{
		ID: "statue_gardens_ba",
		Costs: cost.List{
			cost.Scalar("coins", 100),
			cost.Goods(cost.GoodAmount{Type: "wool_BA", Amount: 5}),
		},
		Quantity: 3,
		MaxQty:   8,
	}

	// Act
	total := building.AggregateCosts()

	// Assert
	require.Len(t, total, 2)
	assert.Equal(t, 300.0, total[0].Amount())
	assert.Equal(t, 15.0, total[1].Goods()[0].Amount)
}

func TestBuilding_SetQuantityClamps(t *testing.T) {
	building := &entity.Building{ID: "b1", Quantity: 1, MaxQty: 4}

	building.SetQuantity(99)
	assert.Equal(t, 4, building.Quantity)

	building.SetQuantity(-1)
	assert.Equal(t, 1, building.Quantity)
}

func TestTradePost_ToggleLevelRecomputesCosts(t *testing.T) {
	// Arrange
	tiers := map[entity.TradePostLevel]cost.List{
		entity.LevelUnlock: {cost.Scalar("coins", 100)},
		entity.LevelLvl2:   {cost.Scalar("coins", 250), cost.Scalar("deben", 10)},
	}
	tp := &entity.TradePost{ID: "giza"}

	// Act - toggle two levels on
	tp.ToggleLevel(entity.LevelUnlock, tiers)
	tp.ToggleLevel(entity.LevelLvl2, tiers)

	// Assert
	assert.True(t, tp.Levels[entity.LevelUnlock])
	assert.True(t, tp.Levels[entity.LevelLvl2])
	require.Len(t, tp.Costs, 3)
	assert.Equal(t, 100.0, tp.Costs[0].Amount())
	assert.Equal(t, 250.0, tp.Costs[1].Amount())
	assert.Equal(t, 10.0, tp.Costs[2].Amount())

	// Act - toggle one back off
	tp.ToggleLevel(entity.LevelUnlock, tiers)

	// Assert - costs shrink to the remaining level
	assert.False(t, tp.Levels[entity.LevelUnlock])
	require.Len(t, tp.Costs, 2)
	assert.Equal(t, 250.0, tp.Costs[0].Amount())
}

func TestSumLevels_EmptySelection(t *testing.T) {
	tiers := map[entity.TradePostLevel]cost.List{
		entity.LevelUnlock: {cost.Scalar("coins", 100)},
	}

	total := entity.SumLevels(map[entity.TradePostLevel]bool{}, tiers)
	assert.Empty(t, total)
}

func TestParseKind(t *testing.T) {
	for _, kind := range entity.AllKinds() {
		parsed, err := entity.ParseKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := entity.ParseKind("ships")
	assert.Error(t, err)
}
