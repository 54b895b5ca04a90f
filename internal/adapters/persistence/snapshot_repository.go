package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// GormSnapshotRepository implements ports.SnapshotRepository using GORM.
type GormSnapshotRepository struct {
	db    *gorm.DB
	clock Clock
}

// NewGormSnapshotRepository creates a new GORM snapshot repository.
// A nil clock means system time.
func NewGormSnapshotRepository(db *gorm.DB, clock Clock) *GormSnapshotRepository {
	if clock == nil {
		clock = RealClock{}
	}
	return &GormSnapshotRepository{db: db, clock: clock}
}

// List retrieves all live resource balances.
func (r *GormSnapshotRepository) List(ctx context.Context) ([]entity.ResourceSnapshot, error) {
	var models []ResourceSnapshotModel
	if result := r.db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list resource snapshots: %w", result.Error)
	}

	rows := make([]entity.ResourceSnapshot, 0, len(models))
	for _, m := range models {
		rows = append(rows, entity.ResourceSnapshot{
			ID:          m.ID,
			Amount:      m.Amount,
			Type:        m.Type,
			LastUpdated: m.LastUpdated,
		})
	}
	return rows, nil
}

// Replace swaps the whole snapshot set in one transaction. There is no
// incremental merge; the new rows are the full truth.
func (r *GormSnapshotRepository) Replace(ctx context.Context, rows []entity.ResourceSnapshot) error {
	now := r.clock.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if result := session.Delete(&ResourceSnapshotModel{}); result.Error != nil {
			return fmt.Errorf("failed to clear resource snapshots: %w", result.Error)
		}
		for _, row := range rows {
			model := ResourceSnapshotModel{
				ID:          row.ID,
				Amount:      row.Amount,
				Type:        row.Type,
				LastUpdated: now,
			}
			if result := tx.Create(&model); result.Error != nil {
				return fmt.Errorf("failed to insert resource snapshot %q: %w", row.ID, result.Error)
			}
		}
		return nil
	})
}
