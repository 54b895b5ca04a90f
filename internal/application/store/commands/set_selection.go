package commands

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// SetSelectionCommand stores the user's workshop choices for one era. Every
// workshop named must exist in that era's static table.
type SetSelectionCommand struct {
	Era       goods.Era
	Selection goods.Selection
}

// SetSelectionResponse is empty.
type SetSelectionResponse struct{}

// SetSelectionHandler handles the SetSelection command.
type SetSelectionHandler struct {
	selections ports.SelectionRepository
}

// NewSetSelectionHandler creates a new SetSelectionHandler.
func NewSetSelectionHandler(selections ports.SelectionRepository) *SetSelectionHandler {
	return &SetSelectionHandler{selections: selections}
}

// Handle executes the SetSelection command.
func (h *SetSelectionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetSelectionCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *SetSelectionCommand", common.ErrInvalidRequestType)
	}

	for _, p := range goods.Priorities() {
		workshop := cmd.Selection.Workshop(p)
		if workshop == "" {
			return nil, fmt.Errorf("%s workshop for era %s is empty", p, cmd.Era)
		}
		if _, ok := goods.WorkshopGood(cmd.Era, workshop); !ok {
			return nil, fmt.Errorf("era %s has no workshop %q", cmd.Era, workshop)
		}
	}

	if err := h.selections.Put(ctx, cmd.Era, cmd.Selection); err != nil {
		return nil, fmt.Errorf("failed to store workshop selection: %w", err)
	}

	return &SetSelectionResponse{}, nil
}
