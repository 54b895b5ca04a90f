package calculator

import (
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
)

// Totals is the derived resource requirement: Main holds scalar non-goods
// resources, Goods holds goods-list entries plus allied currencies. It is
// never persisted; it is a pure function of the visible entity set.
type Totals struct {
	Main  map[string]float64 `json:"main"`
	Goods map[string]float64 `json:"goods"`
}

// NewTotals returns an empty Totals with both maps allocated.
func NewTotals() *Totals {
	return &Totals{
		Main:  make(map[string]float64),
		Goods: make(map[string]float64),
	}
}

// ComparedTotals extends Totals with the delta against live balances.
type ComparedTotals struct {
	Totals
	IsCompareMode bool    `json:"isCompareMode"`
	Differences   *Totals `json:"differences,omitempty"`
}

// Accumulate folds one entity's cost contribution into the totals. Scalar
// costs land in Main unless the resource is an allied currency; goods-list
// entries always land in Goods. Addition is plain float64 summation, so the
// fold is order independent.
func (t *Totals) Accumulate(costs cost.List, allied goods.AlliedCurrencies) {
	for _, c := range costs {
		switch c.Kind() {
		case cost.KindScalar:
			if allied.IsAllied(c.Name()) {
				t.Goods[c.Name()] += c.Amount()
			} else {
				t.Main[c.Name()] += c.Amount()
			}
		case cost.KindGoods:
			for _, g := range c.Goods() {
				t.Goods[g.Type] += g.Amount
			}
		}
	}
}

// Fold aggregates every visible record. Hidden records contribute nothing.
func Fold(records []entity.Record, allied goods.AlliedCurrencies) *Totals {
	totals := NewTotals()
	for _, record := range records {
		if record.IsHidden() {
			continue
		}
		totals.Accumulate(record.AggregateCosts(), allied)
	}
	return totals
}
