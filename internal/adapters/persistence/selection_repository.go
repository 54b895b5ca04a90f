package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
)

// GormSelectionRepository implements ports.SelectionRepository using GORM.
type GormSelectionRepository struct {
	db    *gorm.DB
	clock Clock
}

// NewGormSelectionRepository creates a new GORM selection repository.
// A nil clock means system time.
func NewGormSelectionRepository(db *gorm.DB, clock Clock) *GormSelectionRepository {
	if clock == nil {
		clock = RealClock{}
	}
	return &GormSelectionRepository{db: db, clock: clock}
}

// All retrieves the workshop choices for every configured era.
func (r *GormSelectionRepository) All(ctx context.Context) (goods.Selections, error) {
	var models []SelectionModel
	if result := r.db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list workshop selections: %w", result.Error)
	}

	selections := make(goods.Selections, len(models))
	for _, m := range models {
		era, err := goods.ParseEra(m.Era)
		if err != nil {
			continue // skip rows for eras this build no longer knows
		}
		selections[era] = goods.Selection{
			Primary:   m.Primary,
			Secondary: m.Secondary,
			Tertiary:  m.Tertiary,
		}
	}
	return selections, nil
}

// Put upserts the workshop choices of one era.
func (r *GormSelectionRepository) Put(ctx context.Context, era goods.Era, sel goods.Selection) error {
	model := SelectionModel{
		Era:       string(era),
		Primary:   sel.Primary,
		Secondary: sel.Secondary,
		Tertiary:  sel.Tertiary,
		UpdatedAt: r.clock.Now(),
	}
	if result := r.db.WithContext(ctx).Save(&model); result.Error != nil {
		return fmt.Errorf("failed to put workshop selection for era %s: %w", era, result.Error)
	}
	return nil
}
