package commands

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// PutEntityCommand upserts one record into its collection.
type PutEntityCommand struct {
	Kind   entity.Kind
	Record entity.Record
}

// PutEntityResponse carries the record as committed (quantity clamped,
// commit timestamp stamped).
type PutEntityResponse struct {
	Record entity.Record
}

// PutEntityHandler handles the PutEntity command.
type PutEntityHandler struct {
	store ports.EntityRepository
	bus   *watch.Bus
}

// NewPutEntityHandler creates a new PutEntityHandler.
func NewPutEntityHandler(store ports.EntityRepository, bus *watch.Bus) *PutEntityHandler {
	return &PutEntityHandler{store: store, bus: bus}
}

// Handle executes the PutEntity command.
func (h *PutEntityHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PutEntityCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *PutEntityCommand", common.ErrInvalidRequestType)
	}
	if cmd.Record == nil {
		return nil, fmt.Errorf("record cannot be nil")
	}
	if cmd.Record.EntityKind() != cmd.Kind {
		return nil, fmt.Errorf("record kind %s does not match command kind %s",
			cmd.Record.EntityKind(), cmd.Kind)
	}

	// Out-of-range quantities clamp rather than fail
	if b, ok := cmd.Record.(*entity.Building); ok {
		b.SetQuantity(b.Quantity)
	}

	if err := h.store.Put(ctx, cmd.Kind, cmd.Record); err != nil {
		return nil, fmt.Errorf("failed to put %s: %w", cmd.Kind, err)
	}
	if err := publishCollection(ctx, h.store, h.bus, cmd.Kind); err != nil {
		return nil, err
	}

	return &PutEntityResponse{Record: cmd.Record}, nil
}
