package queries

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// GetEntityQuery retrieves one record by id.
type GetEntityQuery struct {
	Kind entity.Kind
	ID   string
}

// GetEntityResponse carries the record.
type GetEntityResponse struct {
	Record entity.Record
}

// GetEntityHandler handles the GetEntity query.
type GetEntityHandler struct {
	store ports.EntityRepository
}

// NewGetEntityHandler creates a new GetEntityHandler.
func NewGetEntityHandler(store ports.EntityRepository) *GetEntityHandler {
	return &GetEntityHandler{store: store}
}

// Handle executes the GetEntity query.
func (h *GetEntityHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetEntityQuery)
	if !ok {
		return nil, fmt.Errorf("%w: expected *GetEntityQuery", common.ErrInvalidRequestType)
	}

	record, err := h.store.Find(ctx, query.Kind, query.ID)
	if err != nil {
		return nil, err
	}

	return &GetEntityResponse{Record: record}, nil
}
