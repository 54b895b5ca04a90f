package commands

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// BulkPutCommand upserts many records of one kind as a single logical
// commit: one transaction, one change bus event.
type BulkPutCommand struct {
	Kind    entity.Kind
	Records []entity.Record
}

// BulkPutResponse reports how many records were written.
type BulkPutResponse struct {
	Count int
}

// BulkPutHandler handles the BulkPut command.
type BulkPutHandler struct {
	store ports.EntityRepository
	bus   *watch.Bus
}

// NewBulkPutHandler creates a new BulkPutHandler.
func NewBulkPutHandler(store ports.EntityRepository, bus *watch.Bus) *BulkPutHandler {
	return &BulkPutHandler{store: store, bus: bus}
}

// Handle executes the BulkPut command.
func (h *BulkPutHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*BulkPutCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *BulkPutCommand", common.ErrInvalidRequestType)
	}

	for _, record := range cmd.Records {
		if record.EntityKind() != cmd.Kind {
			return nil, fmt.Errorf("record %q kind %s does not match command kind %s",
				record.EntityID(), record.EntityKind(), cmd.Kind)
		}
		if b, ok := record.(*entity.Building); ok {
			b.SetQuantity(b.Quantity)
		}
	}

	if err := h.store.BulkPut(ctx, cmd.Kind, cmd.Records); err != nil {
		return nil, fmt.Errorf("failed to bulk put %s: %w", cmd.Kind, err)
	}
	if err := publishCollection(ctx, h.store, h.bus, cmd.Kind); err != nil {
		return nil, err
	}

	return &BulkPutResponse{Count: len(cmd.Records)}, nil
}
