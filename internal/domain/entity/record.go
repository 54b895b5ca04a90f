package entity

import (
	"time"

	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
)

// Record is implemented by every tracked entity. AggregateCosts returns the
// contribution the entity makes to resource totals when visible; for
// buildings that is the cost list scaled by quantity, for everything else
// the cost list at face value.
type Record interface {
	EntityID() string
	EntityKind() Kind
	IsHidden() bool
	AggregateCosts() cost.List
	Touch(t time.Time)
}

// Building is a wiki building the user marked as needed.
type Building struct {
	ID        string
	Costs     cost.List
	Quantity  int
	MaxQty    int
	Hidden    bool
	UpdatedAt time.Time
}

// ClampQuantity bounds q into [1, maxQty]. Out-of-range requests clamp
// rather than fail.
func ClampQuantity(q, maxQty int) int {
	if maxQty < 1 {
		maxQty = 1
	}
	if q < 1 {
		return 1
	}
	if q > maxQty {
		return maxQty
	}
	return q
}

// SetQuantity applies a quantity update, clamping into [1, MaxQty].
func (b *Building) SetQuantity(q int) {
	b.Quantity = ClampQuantity(q, b.MaxQty)
}

func (b *Building) EntityID() string  { return b.ID }
func (b *Building) EntityKind() Kind  { return KindBuildings }
func (b *Building) IsHidden() bool    { return b.Hidden }
func (b *Building) Touch(t time.Time) { b.UpdatedAt = t }

func (b *Building) AggregateCosts() cost.List {
	return b.Costs.Scale(float64(b.Quantity))
}

// Techno is a one-off technology; there is no quantity multiplier.
type Techno struct {
	ID        string
	Costs     cost.List
	Hidden    bool
	UpdatedAt time.Time
}

func (t *Techno) EntityID() string  { return t.ID }
func (t *Techno) EntityKind() Kind  { return KindTechnos }
func (t *Techno) IsHidden() bool    { return t.Hidden }
func (t *Techno) Touch(u time.Time) { t.UpdatedAt = u }

func (t *Techno) AggregateCosts() cost.List {
	return t.Costs
}

// Area is a read-mostly record seeded from the static area table.
type Area struct {
	ID        string
	Costs     cost.List
	Hidden    bool
	UpdatedAt time.Time
}

func (a *Area) EntityID() string  { return a.ID }
func (a *Area) EntityKind() Kind  { return KindAreas }
func (a *Area) IsHidden() bool    { return a.Hidden }
func (a *Area) Touch(t time.Time) { a.UpdatedAt = t }

func (a *Area) AggregateCosts() cost.List {
	return a.Costs
}

// ResourceSnapshot is a point-in-time copy of one live balance of the
// player's account. The whole set is replaced on each sync.
type ResourceSnapshot struct {
	ID          string
	Amount      float64
	Type        string
	LastUpdated time.Time
}
