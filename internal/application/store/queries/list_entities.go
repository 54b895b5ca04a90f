package queries

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// ListEntitiesQuery retrieves the full collection of one kind.
type ListEntitiesQuery struct {
	Kind entity.Kind
}

// ListEntitiesResponse carries the records.
type ListEntitiesResponse struct {
	Records []entity.Record
}

// ListEntitiesHandler handles the ListEntities query.
type ListEntitiesHandler struct {
	store ports.EntityRepository
}

// NewListEntitiesHandler creates a new ListEntitiesHandler.
func NewListEntitiesHandler(store ports.EntityRepository) *ListEntitiesHandler {
	return &ListEntitiesHandler{store: store}
}

// Handle executes the ListEntities query.
func (h *ListEntitiesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListEntitiesQuery)
	if !ok {
		return nil, fmt.Errorf("%w: expected *ListEntitiesQuery", common.ErrInvalidRequestType)
	}

	records, err := h.store.List(ctx, query.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", query.Kind, err)
	}

	return &ListEntitiesResponse{Records: records}, nil
}
