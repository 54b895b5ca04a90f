package queries

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// GetSelectionsQuery retrieves the user's per-era workshop choices.
type GetSelectionsQuery struct{}

// GetSelectionsResponse carries the choices.
type GetSelectionsResponse struct {
	Selections goods.Selections
}

// GetSelectionsHandler handles the GetSelections query.
type GetSelectionsHandler struct {
	selections ports.SelectionRepository
}

// NewGetSelectionsHandler creates a new GetSelectionsHandler.
func NewGetSelectionsHandler(selections ports.SelectionRepository) *GetSelectionsHandler {
	return &GetSelectionsHandler{selections: selections}
}

// Handle executes the GetSelections query.
func (h *GetSelectionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*GetSelectionsQuery); !ok {
		return nil, fmt.Errorf("%w: expected *GetSelectionsQuery", common.ErrInvalidRequestType)
	}

	selections, err := h.selections.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read workshop selections: %w", err)
	}

	return &GetSelectionsResponse{Selections: selections}, nil
}
