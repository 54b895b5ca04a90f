package commands

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// SetQuantityCommand updates the owned quantity of a building. Requests
// outside [1, MaxQty] are clamped, never rejected.
type SetQuantityCommand struct {
	ID       string
	Quantity int
}

// SetQuantityResponse carries the quantity as stored after clamping.
type SetQuantityResponse struct {
	Quantity int
}

// SetQuantityHandler handles the SetQuantity command.
type SetQuantityHandler struct {
	store ports.EntityRepository
	bus   *watch.Bus
}

// NewSetQuantityHandler creates a new SetQuantityHandler.
func NewSetQuantityHandler(store ports.EntityRepository, bus *watch.Bus) *SetQuantityHandler {
	return &SetQuantityHandler{store: store, bus: bus}
}

// Handle executes the SetQuantity command.
func (h *SetQuantityHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetQuantityCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *SetQuantityCommand", common.ErrInvalidRequestType)
	}

	record, err := h.store.Find(ctx, entity.KindBuildings, cmd.ID)
	if err != nil {
		return nil, err
	}
	building, ok := record.(*entity.Building)
	if !ok {
		return nil, fmt.Errorf("record %q is not a building", cmd.ID)
	}

	building.SetQuantity(cmd.Quantity)
	if err := h.store.Put(ctx, entity.KindBuildings, building); err != nil {
		return nil, fmt.Errorf("failed to update building %q: %w", cmd.ID, err)
	}
	if err := publishCollection(ctx, h.store, h.bus, entity.KindBuildings); err != nil {
		return nil, err
	}

	return &SetQuantityResponse{Quantity: building.Quantity}, nil
}
