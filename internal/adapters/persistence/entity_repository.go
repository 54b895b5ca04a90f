package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// Clock abstracts commit timestamps so tests can be deterministic.
type Clock interface {
	Now() time.Time
}

// RealClock uses the system time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// GormEntityRepository implements ports.EntityRepository using GORM.
// It is the single durable table set behind the owner context; every write
// stamps UpdatedAt at commit time.
type GormEntityRepository struct {
	db    *gorm.DB
	clock Clock
}

// NewGormEntityRepository creates a new GORM entity repository.
// A nil clock means system time.
func NewGormEntityRepository(db *gorm.DB, clock Clock) *GormEntityRepository {
	if clock == nil {
		clock = RealClock{}
	}
	return &GormEntityRepository{db: db, clock: clock}
}

// List retrieves every record of a kind.
func (r *GormEntityRepository) List(ctx context.Context, kind entity.Kind) ([]entity.Record, error) {
	switch kind {
	case entity.KindBuildings:
		return listAs(ctx, r.db, buildingToRecord)
	case entity.KindTechnos:
		return listAs(ctx, r.db, technoToRecord)
	case entity.KindAreas:
		return listAs(ctx, r.db, areaToRecord)
	case entity.KindTradePosts:
		return listAs(ctx, r.db, tradePostToRecord)
	default:
		return nil, fmt.Errorf("unknown entity kind: %q", kind)
	}
}

// Find retrieves one record by id.
func (r *GormEntityRepository) Find(ctx context.Context, kind entity.Kind, id string) (entity.Record, error) {
	switch kind {
	case entity.KindBuildings:
		return findAs(ctx, r.db, kind, id, buildingToRecord)
	case entity.KindTechnos:
		return findAs(ctx, r.db, kind, id, technoToRecord)
	case entity.KindAreas:
		return findAs(ctx, r.db, kind, id, areaToRecord)
	case entity.KindTradePosts:
		return findAs(ctx, r.db, kind, id, tradePostToRecord)
	default:
		return nil, fmt.Errorf("unknown entity kind: %q", kind)
	}
}

// Put upserts one record and stamps its commit time.
func (r *GormEntityRepository) Put(ctx context.Context, kind entity.Kind, record entity.Record) error {
	record.Touch(r.clock.Now())
	model, err := recordToModel(record)
	if err != nil {
		return err
	}
	if result := r.db.WithContext(ctx).Save(model); result.Error != nil {
		return fmt.Errorf("failed to put %s %q: %w", kind, record.EntityID(), result.Error)
	}
	return nil
}

// Delete removes one record. A missing id is reported as ErrNotFound and
// leaves the table untouched.
func (r *GormEntityRepository) Delete(ctx context.Context, kind entity.Kind, id string) error {
	result := r.db.WithContext(ctx).Delete(modelFor(kind), "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s %q: %w", kind, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, common.ErrNotFound)
	}
	return nil
}

// BulkPut upserts many records in one transaction so the kind is never
// observed torn mid-collection.
func (r *GormEntityRepository) BulkPut(ctx context.Context, kind entity.Kind, records []entity.Record) error {
	now := r.clock.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			record.Touch(now)
			model, err := recordToModel(record)
			if err != nil {
				return err
			}
			if result := tx.Save(model); result.Error != nil {
				return fmt.Errorf("failed to bulk put %s %q: %w", kind, record.EntityID(), result.Error)
			}
		}
		return nil
	})
}

// BulkDelete removes many records in one transaction. Ids that do not exist
// are skipped without error.
func (r *GormEntityRepository) BulkDelete(ctx context.Context, kind entity.Kind, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Delete(modelFor(kind), "id IN ?", ids); result.Error != nil {
			return fmt.Errorf("failed to bulk delete %s: %w", kind, result.Error)
		}
		return nil
	})
}

// Clear removes every record of a kind.
func (r *GormEntityRepository) Clear(ctx context.Context, kind entity.Kind) error {
	session := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	if result := session.Delete(modelFor(kind)); result.Error != nil {
		return fmt.Errorf("failed to clear %s: %w", kind, result.Error)
	}
	return nil
}

// modelFor returns an empty model for GORM table targeting.
func modelFor(kind entity.Kind) interface{} {
	switch kind {
	case entity.KindBuildings:
		return &BuildingModel{}
	case entity.KindTechnos:
		return &TechnoModel{}
	case entity.KindAreas:
		return &AreaModel{}
	case entity.KindTradePosts:
		return &TradePostModel{}
	default:
		panic(fmt.Sprintf("unknown entity kind: %q", kind))
	}
}

func listAs[M any](ctx context.Context, db *gorm.DB, conv func(*M) (entity.Record, error)) ([]entity.Record, error) {
	var models []M
	if result := db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list records: %w", result.Error)
	}

	records := make([]entity.Record, 0, len(models))
	for i := range models {
		record, err := conv(&models[i])
		if err != nil {
			continue // skip rows with undecodable costs
		}
		records = append(records, record)
	}
	return records, nil
}

func findAs[M any](ctx context.Context, db *gorm.DB, kind entity.Kind, id string, conv func(*M) (entity.Record, error)) (entity.Record, error) {
	var model M
	result := db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%s %q: %w", kind, id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find %s %q: %w", kind, id, result.Error)
	}
	return conv(&model)
}

// Model <-> domain converters. Costs travel as the wiki JSON shape.

func buildingToRecord(m *BuildingModel) (entity.Record, error) {
	costs, err := decodeCosts(m.Costs)
	if err != nil {
		return nil, fmt.Errorf("building %q: %w", m.ID, err)
	}
	return &entity.Building{
		ID:        m.ID,
		Costs:     costs,
		Quantity:  m.Quantity,
		MaxQty:    m.MaxQty,
		Hidden:    m.Hidden,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func technoToRecord(m *TechnoModel) (entity.Record, error) {
	costs, err := decodeCosts(m.Costs)
	if err != nil {
		return nil, fmt.Errorf("techno %q: %w", m.ID, err)
	}
	return &entity.Techno{
		ID:        m.ID,
		Costs:     costs,
		Hidden:    m.Hidden,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func areaToRecord(m *AreaModel) (entity.Record, error) {
	costs, err := decodeCosts(m.Costs)
	if err != nil {
		return nil, fmt.Errorf("area %q: %w", m.ID, err)
	}
	return &entity.Area{
		ID:        m.ID,
		Costs:     costs,
		Hidden:    m.Hidden,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func tradePostToRecord(m *TradePostModel) (entity.Record, error) {
	costs, err := decodeCosts(m.Costs)
	if err != nil {
		return nil, fmt.Errorf("trade post %q: %w", m.ID, err)
	}
	var levels map[entity.TradePostLevel]bool
	if err := json.Unmarshal([]byte(m.Levels), &levels); err != nil {
		return nil, fmt.Errorf("trade post %q: failed to decode levels: %w", m.ID, err)
	}
	return &entity.TradePost{
		ID:        m.ID,
		Levels:    levels,
		Costs:     costs,
		Hidden:    m.Hidden,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func recordToModel(record entity.Record) (interface{}, error) {
	switch rec := record.(type) {
	case *entity.Building:
		costs, err := encodeCosts(rec.Costs)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", rec.ID, err)
		}
		return &BuildingModel{
			ID:        rec.ID,
			Costs:     costs,
			Quantity:  rec.Quantity,
			MaxQty:    rec.MaxQty,
			Hidden:    rec.Hidden,
			UpdatedAt: rec.UpdatedAt,
		}, nil
	case *entity.Techno:
		costs, err := encodeCosts(rec.Costs)
		if err != nil {
			return nil, fmt.Errorf("techno %q: %w", rec.ID, err)
		}
		return &TechnoModel{
			ID:        rec.ID,
			Costs:     costs,
			Hidden:    rec.Hidden,
			UpdatedAt: rec.UpdatedAt,
		}, nil
	case *entity.Area:
		costs, err := encodeCosts(rec.Costs)
		if err != nil {
			return nil, fmt.Errorf("area %q: %w", rec.ID, err)
		}
		return &AreaModel{
			ID:        rec.ID,
			Costs:     costs,
			Hidden:    rec.Hidden,
			UpdatedAt: rec.UpdatedAt,
		}, nil
	case *entity.TradePost:
		costs, err := encodeCosts(rec.Costs)
		if err != nil {
			return nil, fmt.Errorf("trade post %q: %w", rec.ID, err)
		}
		levels, err := json.Marshal(rec.Levels)
		if err != nil {
			return nil, fmt.Errorf("trade post %q: failed to encode levels: %w", rec.ID, err)
		}
		return &TradePostModel{
			ID:        rec.ID,
			Levels:    string(levels),
			Costs:     costs,
			Hidden:    rec.Hidden,
			UpdatedAt: rec.UpdatedAt,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported record type %T", record)
	}
}

func decodeCosts(raw string) (cost.List, error) {
	var costs cost.List
	if err := json.Unmarshal([]byte(raw), &costs); err != nil {
		return nil, fmt.Errorf("failed to decode costs: %w", err)
	}
	return costs, nil
}

func encodeCosts(costs cost.List) (string, error) {
	data, err := json.Marshal(costs)
	if err != nil {
		return "", fmt.Errorf("failed to encode costs: %w", err)
	}
	return string(data), nil
}
