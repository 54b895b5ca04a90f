package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/persistence"
	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/test/helpers"
)

// fixedClock pins repository timestamps for assertions.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestEntityRepository_PutAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := persistence.NewGormEntityRepository(db, fixedClock{now: now})

	building := &entity.Building{
		ID: "statue_gardens_ba",
		Costs: cost.List{
			cost.Scalar("coins", 100),
			cost.Goods(cost.GoodAmount{Type: "wool_BA", Amount: 5}),
		},
		Quantity: 2,
		MaxQty:   8,
	}

	// Act
	err := repo.Put(context.Background(), entity.KindBuildings, building)
	require.NoError(t, err)

	found, err := repo.Find(context.Background(), entity.KindBuildings, "statue_gardens_ba")

	// Assert
	require.NoError(t, err)
	got := found.(*entity.Building)
	assert.Equal(t, building.ID, got.ID)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 8, got.MaxQty)
	require.Len(t, got.Costs, 2)
	assert.Equal(t, 100.0, got.Costs[0].Amount())
	assert.Equal(t, now.Unix(), got.UpdatedAt.Unix())
}

func TestEntityRepository_PutUpsertsExisting(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntityRepository(db, nil)
	ctx := context.Background()

	building := &entity.Building{ID: "b1", Quantity: 1, MaxQty: 4}
	require.NoError(t, repo.Put(ctx, entity.KindBuildings, building))

	// Act - write the same id with a new quantity
	building.Quantity = 3
	require.NoError(t, repo.Put(ctx, entity.KindBuildings, building))

	// Assert
	records, err := repo.List(ctx, entity.KindBuildings)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].(*entity.Building).Quantity)
}

func TestEntityRepository_FindNotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntityRepository(db, nil)

	_, err := repo.Find(context.Background(), entity.KindTechnos, "missing")

	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestEntityRepository_DeleteNotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntityRepository(db, nil)

	err := repo.Delete(context.Background(), entity.KindAreas, "missing")

	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestEntityRepository_KindsAreIsolated(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntityRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, entity.KindBuildings, &entity.Building{ID: "b1", Quantity: 1, MaxQty: 1}))
	require.NoError(t, repo.Put(ctx, entity.KindTechnos, &entity.Techno{ID: "t1"}))

	// Act
	buildings, err := repo.List(ctx, entity.KindBuildings)
	require.NoError(t, err)
	technos, err := repo.List(ctx, entity.KindTechnos)
	require.NoError(t, err)

	// Assert
	require.Len(t, buildings, 1)
	require.Len(t, technos, 1)
	assert.Equal(t, "b1", buildings[0].EntityID())
	assert.Equal(t, "t1", technos[0].EntityID())
}

func TestEntityRepository_BulkPutAndClear(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntityRepository(db, nil)
	ctx := context.Background()

	records := []entity.Record{
		&entity.Techno{ID: "t1", Costs: cost.List{cost.Scalar("research_points", 10)}},
		&entity.Techno{ID: "t2", Costs: cost.List{cost.Scalar("research_points", 20)}},
		&entity.Techno{ID: "t3"},
	}

	// Act
	require.NoError(t, repo.BulkPut(ctx, entity.KindTechnos, records))

	listed, err := repo.List(ctx, entity.KindTechnos)
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	require.NoError(t, repo.Clear(ctx, entity.KindTechnos))

	// Assert
	listed, err = repo.List(ctx, entity.KindTechnos)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestEntityRepository_BulkDeleteSkipsMissing(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntityRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, entity.KindTechnos, &entity.Techno{ID: "t1"}))

	// Act - one existing id, one missing
	err := repo.BulkDelete(ctx, entity.KindTechnos, []string{"t1", "missing"})

	// Assert
	require.NoError(t, err)
	listed, err := repo.List(ctx, entity.KindTechnos)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestEntityRepository_TradePostLevelsSurviveRoundTrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntityRepository(db, nil)
	ctx := context.Background()

	tp := &entity.TradePost{
		ID:     "giza",
		Levels: map[entity.TradePostLevel]bool{entity.LevelUnlock: true, entity.LevelLvl3: true},
		Costs:  cost.List{cost.Scalar("coins", 350)},
	}

	// Act
	require.NoError(t, repo.Put(ctx, entity.KindTradePosts, tp))
	found, err := repo.Find(ctx, entity.KindTradePosts, "giza")

	// Assert
	require.NoError(t, err)
	got := found.(*entity.TradePost)
	assert.True(t, got.Levels[entity.LevelUnlock])
	assert.True(t, got.Levels[entity.LevelLvl3])
	assert.False(t, got.Levels[entity.LevelLvl2])
}

func TestSnapshotRepository_ReplaceIsWholesale(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)
	ctx := context.Background()

	first := []entity.ResourceSnapshot{
		{ID: "coins", Amount: 1000, Type: "main"},
		{ID: "deben", Amount: 50, Type: "allied"},
	}
	require.NoError(t, repo.Replace(ctx, first))

	// Act - second sync drops deben
	second := []entity.ResourceSnapshot{
		{ID: "coins", Amount: 1200, Type: "main"},
	}
	require.NoError(t, repo.Replace(ctx, second))

	// Assert
	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "coins", rows[0].ID)
	assert.Equal(t, 1200.0, rows[0].Amount)
}
