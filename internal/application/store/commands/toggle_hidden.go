package commands

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// ToggleHiddenCommand flips the visibility flag of one record. Hidden
// records stay stored and mutable but contribute nothing to totals.
type ToggleHiddenCommand struct {
	Kind entity.Kind
	ID   string
}

// ToggleHiddenResponse carries the new flag value.
type ToggleHiddenResponse struct {
	Hidden bool
}

// ToggleHiddenHandler handles the ToggleHidden command.
type ToggleHiddenHandler struct {
	store ports.EntityRepository
	bus   *watch.Bus
}

// NewToggleHiddenHandler creates a new ToggleHiddenHandler.
func NewToggleHiddenHandler(store ports.EntityRepository, bus *watch.Bus) *ToggleHiddenHandler {
	return &ToggleHiddenHandler{store: store, bus: bus}
}

// Handle executes the ToggleHidden command.
func (h *ToggleHiddenHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ToggleHiddenCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *ToggleHiddenCommand", common.ErrInvalidRequestType)
	}

	record, err := h.store.Find(ctx, cmd.Kind, cmd.ID)
	if err != nil {
		return nil, err
	}

	hidden, err := flipHidden(record)
	if err != nil {
		return nil, err
	}
	if err := h.store.Put(ctx, cmd.Kind, record); err != nil {
		return nil, fmt.Errorf("failed to update %s %q: %w", cmd.Kind, cmd.ID, err)
	}
	if err := publishCollection(ctx, h.store, h.bus, cmd.Kind); err != nil {
		return nil, err
	}

	return &ToggleHiddenResponse{Hidden: hidden}, nil
}

func flipHidden(record entity.Record) (bool, error) {
	switch rec := record.(type) {
	case *entity.Building:
		rec.Hidden = !rec.Hidden
		return rec.Hidden, nil
	case *entity.Techno:
		rec.Hidden = !rec.Hidden
		return rec.Hidden, nil
	case *entity.Area:
		rec.Hidden = !rec.Hidden
		return rec.Hidden, nil
	case *entity.TradePost:
		rec.Hidden = !rec.Hidden
		return rec.Hidden, nil
	default:
		return false, fmt.Errorf("unsupported record type %T", record)
	}
}
