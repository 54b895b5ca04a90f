package persistence

import (
	"time"
)

// BuildingModel represents the buildings table
type BuildingModel struct {
	ID        string    `gorm:"column:id;primaryKey;not null"`
	Costs     string    `gorm:"column:costs;type:text;not null"` // wiki cost shape as JSON text
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	MaxQty    int       `gorm:"column:max_qty;not null;default:1"`
	Hidden    bool      `gorm:"column:hidden;not null;default:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (BuildingModel) TableName() string {
	return "buildings"
}

// TechnoModel represents the technos table
type TechnoModel struct {
	ID        string    `gorm:"column:id;primaryKey;not null"` // era code + ordinal, e.g. BA_04
	Costs     string    `gorm:"column:costs;type:text;not null"`
	Hidden    bool      `gorm:"column:hidden;not null;default:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (TechnoModel) TableName() string {
	return "technos"
}

// AreaModel represents the areas table
type AreaModel struct {
	ID        string    `gorm:"column:id;primaryKey;not null"`
	Costs     string    `gorm:"column:costs;type:text;not null"`
	Hidden    bool      `gorm:"column:hidden;not null;default:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (AreaModel) TableName() string {
	return "areas"
}

// TradePostModel represents the trade_posts table.
// Levels and Costs are written together in one row update so the pair can
// never be observed torn.
type TradePostModel struct {
	ID        string    `gorm:"column:id;primaryKey;not null"`
	Levels    string    `gorm:"column:levels;type:text;not null"` // JSON map level -> bool
	Costs     string    `gorm:"column:costs;type:text;not null"`
	Hidden    bool      `gorm:"column:hidden;not null;default:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (TradePostModel) TableName() string {
	return "trade_posts"
}

// ResourceSnapshotModel represents the resource_snapshots table.
// The whole table is replaced on each sync, never merged.
type ResourceSnapshotModel struct {
	ID          string    `gorm:"column:id;primaryKey;not null"` // canonical resource key
	Amount      float64   `gorm:"column:amount;not null"`
	Type        string    `gorm:"column:type;not null"`
	LastUpdated time.Time `gorm:"column:last_updated;not null"`
}

func (ResourceSnapshotModel) TableName() string {
	return "resource_snapshots"
}

// SelectionModel represents the workshop_selections table: one row per era
// holding the user's primary/secondary/tertiary workshop choices.
type SelectionModel struct {
	Era       string    `gorm:"column:era;primaryKey;not null"`
	Primary   string    `gorm:"column:primary_workshop;not null"`
	Secondary string    `gorm:"column:secondary_workshop;not null"`
	Tertiary  string    `gorm:"column:tertiary_workshop;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (SelectionModel) TableName() string {
	return "workshop_selections"
}
