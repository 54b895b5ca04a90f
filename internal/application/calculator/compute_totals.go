package calculator

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// ComputeTotalsQuery recomputes the resource totals of the visible entity
// set, optionally diffed against the live balances.
type ComputeTotalsQuery struct {
	CompareMode bool
}

// ComputeTotalsResponse carries the result.
type ComputeTotalsResponse struct {
	Totals *ComparedTotals
}

// ComputeTotalsHandler handles the ComputeTotals query. The collection reads
// are independent (read committed, not snapshot isolated): a write landing
// between two reads yields a total consistent with some valid interleaving,
// which is acceptable for single-user usage. A failed input read is logged
// and treated as empty; the query only fails if nothing can be read at all.
type ComputeTotalsHandler struct {
	store      ports.EntityRepository
	snapshots  ports.SnapshotRepository
	selections ports.SelectionRepository
	allied     goods.AlliedCurrencies
}

// NewComputeTotalsHandler creates a new ComputeTotalsHandler.
func NewComputeTotalsHandler(
	store ports.EntityRepository,
	snapshots ports.SnapshotRepository,
	selections ports.SelectionRepository,
	allied goods.AlliedCurrencies,
) *ComputeTotalsHandler {
	if allied == nil {
		allied = goods.DefaultAlliedCurrencies()
	}
	return &ComputeTotalsHandler{
		store:      store,
		snapshots:  snapshots,
		selections: selections,
		allied:     allied,
	}
}

// Handle executes the ComputeTotals query.
func (h *ComputeTotalsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ComputeTotalsQuery)
	if !ok {
		return nil, fmt.Errorf("%w: expected *ComputeTotalsQuery", common.ErrInvalidRequestType)
	}

	log := common.LoggerFromContext(ctx)

	totals := NewTotals()
	for _, kind := range entity.AllKinds() {
		records, err := h.store.List(ctx, kind)
		if err != nil {
			log.WithError(err).WithField("kind", kind).Warn("skipping unreadable collection in totals")
			continue
		}
		for _, record := range records {
			if record.IsHidden() {
				continue
			}
			totals.Accumulate(record.AggregateCosts(), h.allied)
		}
	}

	result := &ComparedTotals{Totals: *totals, IsCompareMode: query.CompareMode}
	if !query.CompareMode {
		return &ComputeTotalsResponse{Totals: result}, nil
	}

	selections, err := h.selections.All(ctx)
	if err != nil {
		log.WithError(err).Warn("workshop selections unreadable, comparing without slot resolution")
		selections = goods.Selections{}
	}

	live := make(map[string]float64)
	rows, err := h.snapshots.List(ctx)
	if err != nil {
		log.WithError(err).Warn("live balances unreadable, comparing against zero")
	}
	for _, row := range rows {
		live[row.ID] = row.Amount
	}

	result.Differences = h.compare(totals, live, selections)
	return &ComputeTotalsResponse{Totals: result}, nil
}

// compare computes live − needed for every required key. Missing live
// amounts default to zero. For every era with any nonzero goods need, all
// three priority slots are materialized so a consumer can render a complete
// three-column era block.
func (h *ComputeTotalsHandler) compare(needed *Totals, live map[string]float64, selections goods.Selections) *Totals {
	diff := NewTotals()

	for name, amount := range needed.Main {
		diff.Main[name] = liveAmount(live, name, selections) - amount
	}
	for name, amount := range needed.Goods {
		diff.Goods[name] = liveAmount(live, name, selections) - amount
	}

	for _, era := range erasWithNeeds(needed.Goods) {
		for _, p := range goods.Priorities() {
			key := goods.Slot{Priority: p, Era: era}.String()
			if _, ok := diff.Goods[key]; !ok {
				diff.Goods[key] = liveAmount(live, key, selections)
			}
		}
	}

	return diff
}

// liveAmount resolves the balance backing a needed key. Abstract slot keys
// are resolved to the concrete good the user's workshop choice points at.
func liveAmount(live map[string]float64, key string, selections goods.Selections) float64 {
	if slot, ok := goods.ParseSlot(key); ok {
		if name, ok := goods.FromSlot(slot, selections); ok {
			return live[name]
		}
		return 0
	}
	return live[key]
}

// erasWithNeeds collects every era that has a nonzero need in any priority
// slot.
func erasWithNeeds(needs map[string]float64) []goods.Era {
	seen := make(map[goods.Era]bool)
	var eras []goods.Era
	for key, amount := range needs {
		if amount == 0 {
			continue
		}
		slot, ok := goods.ParseSlot(key)
		if !ok {
			continue
		}
		if !seen[slot.Era] {
			seen[slot.Era] = true
			eras = append(eras, slot.Era)
		}
	}
	return eras
}
