package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// DeleteEntityCommand removes one record. Deleting an id that no longer
// exists reports ErrNotFound and leaves the store untouched.
type DeleteEntityCommand struct {
	Kind entity.Kind
	ID   string
}

// DeleteEntityResponse reports whether a row was actually removed.
type DeleteEntityResponse struct {
	Deleted bool
}

// DeleteEntityHandler handles the DeleteEntity command.
type DeleteEntityHandler struct {
	store ports.EntityRepository
	bus   *watch.Bus
}

// NewDeleteEntityHandler creates a new DeleteEntityHandler.
func NewDeleteEntityHandler(store ports.EntityRepository, bus *watch.Bus) *DeleteEntityHandler {
	return &DeleteEntityHandler{store: store, bus: bus}
}

// Handle executes the DeleteEntity command.
func (h *DeleteEntityHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteEntityCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *DeleteEntityCommand", common.ErrInvalidRequestType)
	}

	if err := h.store.Delete(ctx, cmd.Kind, cmd.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete %s %q: %w", cmd.Kind, cmd.ID, err)
	}
	if err := publishCollection(ctx, h.store, h.bus, cmd.Kind); err != nil {
		return nil, err
	}

	return &DeleteEntityResponse{Deleted: true}, nil
}
