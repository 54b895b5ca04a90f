package commands

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// BulkDeleteCommand removes many records of one kind as a single logical
// commit. Missing ids are skipped silently; a bulk opt-out should not fail
// because one row was already gone.
type BulkDeleteCommand struct {
	Kind entity.Kind
	IDs  []string
}

// BulkDeleteResponse reports how many ids were requested for removal.
type BulkDeleteResponse struct {
	Count int
}

// BulkDeleteHandler handles the BulkDelete command.
type BulkDeleteHandler struct {
	store ports.EntityRepository
	bus   *watch.Bus
}

// NewBulkDeleteHandler creates a new BulkDeleteHandler.
func NewBulkDeleteHandler(store ports.EntityRepository, bus *watch.Bus) *BulkDeleteHandler {
	return &BulkDeleteHandler{store: store, bus: bus}
}

// Handle executes the BulkDelete command.
func (h *BulkDeleteHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*BulkDeleteCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *BulkDeleteCommand", common.ErrInvalidRequestType)
	}

	if err := h.store.BulkDelete(ctx, cmd.Kind, cmd.IDs); err != nil {
		return nil, fmt.Errorf("failed to bulk delete %s: %w", cmd.Kind, err)
	}
	if err := publishCollection(ctx, h.store, h.bus, cmd.Kind); err != nil {
		return nil, err
	}

	return &BulkDeleteResponse{Count: len(cmd.IDs)}, nil
}
