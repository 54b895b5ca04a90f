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

// ToggleLevelCommand flips one reward tier of a trade post. The first
// toggle of an untracked trade post creates its record; clearing the last
// tier deletes it (opt-out, no soft delete). Levels and Costs are written
// together in one commit.
type ToggleLevelCommand struct {
	ID    string
	Level entity.TradePostLevel
}

// ToggleLevelResponse carries the resulting tier map; nil means the record
// was removed.
type ToggleLevelResponse struct {
	Levels map[entity.TradePostLevel]bool
}

// ToggleLevelHandler handles the ToggleLevel command.
type ToggleLevelHandler struct {
	store ports.EntityRepository
	bus   *watch.Bus
}

// NewToggleLevelHandler creates a new ToggleLevelHandler.
func NewToggleLevelHandler(store ports.EntityRepository, bus *watch.Bus) *ToggleLevelHandler {
	return &ToggleLevelHandler{store: store, bus: bus}
}

// Handle executes the ToggleLevel command.
func (h *ToggleLevelHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ToggleLevelCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *ToggleLevelCommand", common.ErrInvalidRequestType)
	}

	tiers, ok := gamedata.TradePost(cmd.ID)
	if !ok {
		return nil, fmt.Errorf("trade post %q: %w", cmd.ID, common.ErrNotFound)
	}

	var post *entity.TradePost
	record, err := h.store.Find(ctx, entity.KindTradePosts, cmd.ID)
	switch {
	case err == nil:
		post, ok = record.(*entity.TradePost)
		if !ok {
			return nil, fmt.Errorf("record %q is not a trade post", cmd.ID)
		}
	case errors.Is(err, common.ErrNotFound):
		post = &entity.TradePost{ID: cmd.ID}
	default:
		return nil, err
	}

	post.ToggleLevel(cmd.Level, tiers)

	if !anyLevel(post.Levels) {
		if err := h.store.Delete(ctx, entity.KindTradePosts, cmd.ID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to remove trade post %q: %w", cmd.ID, err)
		}
		if err := publishCollection(ctx, h.store, h.bus, entity.KindTradePosts); err != nil {
			return nil, err
		}
		return &ToggleLevelResponse{}, nil
	}

	if err := h.store.Put(ctx, entity.KindTradePosts, post); err != nil {
		return nil, fmt.Errorf("failed to update trade post %q: %w", cmd.ID, err)
	}
	if err := publishCollection(ctx, h.store, h.bus, entity.KindTradePosts); err != nil {
		return nil, err
	}

	return &ToggleLevelResponse{Levels: post.Levels}, nil
}

func anyLevel(levels map[entity.TradePostLevel]bool) bool {
	for _, on := range levels {
		if on {
			return true
		}
	}
	return false
}
