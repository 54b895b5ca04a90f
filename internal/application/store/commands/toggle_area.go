package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
	"github.com/mcharbonnier/wikitally-go/internal/gamedata"
)

// ToggleAreaCommand opts an area in or out. Opting in seeds the record from
// the static area table; opting out deletes it.
type ToggleAreaCommand struct {
	ID string
}

// ToggleAreaResponse reports whether the area is now tracked.
type ToggleAreaResponse struct {
	Tracked bool
}

// ToggleAreaHandler handles the ToggleArea command.
type ToggleAreaHandler struct {
	store ports.EntityRepository
	bus   *watch.Bus
}

// NewToggleAreaHandler creates a new ToggleAreaHandler.
func NewToggleAreaHandler(store ports.EntityRepository, bus *watch.Bus) *ToggleAreaHandler {
	return &ToggleAreaHandler{store: store, bus: bus}
}

// Handle executes the ToggleArea command.
func (h *ToggleAreaHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ToggleAreaCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *ToggleAreaCommand", common.ErrInvalidRequestType)
	}

	costs, ok := gamedata.Area(cmd.ID)
	if !ok {
		return nil, fmt.Errorf("area %q: %w", cmd.ID, common.ErrNotFound)
	}

	tracked := false
	_, err := h.store.Find(ctx, entity.KindAreas, cmd.ID)
	switch {
	case err == nil:
		if err := h.store.Delete(ctx, entity.KindAreas, cmd.ID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to remove area %q: %w", cmd.ID, err)
		}
	case errors.Is(err, common.ErrNotFound):
		area := &entity.Area{ID: cmd.ID, Costs: costs}
		if err := h.store.Put(ctx, entity.KindAreas, area); err != nil {
			return nil, fmt.Errorf("failed to add area %q: %w", cmd.ID, err)
		}
		tracked = true
	default:
		return nil, err
	}

	if err := publishCollection(ctx, h.store, h.bus, entity.KindAreas); err != nil {
		return nil, err
	}
	return &ToggleAreaResponse{Tracked: tracked}, nil
}
