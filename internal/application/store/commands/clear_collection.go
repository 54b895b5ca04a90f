package commands

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// ClearCollectionCommand removes every record of one kind.
type ClearCollectionCommand struct {
	Kind entity.Kind
}

// ClearCollectionResponse is empty; the broadcastable result is the empty
// collection itself.
type ClearCollectionResponse struct{}

// ClearCollectionHandler handles the ClearCollection command.
type ClearCollectionHandler struct {
	store ports.EntityRepository
	bus   *watch.Bus
}

// NewClearCollectionHandler creates a new ClearCollectionHandler.
func NewClearCollectionHandler(store ports.EntityRepository, bus *watch.Bus) *ClearCollectionHandler {
	return &ClearCollectionHandler{store: store, bus: bus}
}

// Handle executes the ClearCollection command.
func (h *ClearCollectionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ClearCollectionCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *ClearCollectionCommand", common.ErrInvalidRequestType)
	}

	if err := h.store.Clear(ctx, cmd.Kind); err != nil {
		return nil, fmt.Errorf("failed to clear %s: %w", cmd.Kind, err)
	}
	if err := publishCollection(ctx, h.store, h.bus, cmd.Kind); err != nil {
		return nil, err
	}

	return &ClearCollectionResponse{}, nil
}
