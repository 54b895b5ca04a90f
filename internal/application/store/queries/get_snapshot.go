package queries

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// GetSnapshotQuery retrieves the live resource balances.
type GetSnapshotQuery struct{}

// GetSnapshotResponse carries the balances.
type GetSnapshotResponse struct {
	Rows []entity.ResourceSnapshot
}

// GetSnapshotHandler handles the GetSnapshot query.
type GetSnapshotHandler struct {
	snapshots ports.SnapshotRepository
}

// NewGetSnapshotHandler creates a new GetSnapshotHandler.
func NewGetSnapshotHandler(snapshots ports.SnapshotRepository) *GetSnapshotHandler {
	return &GetSnapshotHandler{snapshots: snapshots}
}

// Handle executes the GetSnapshot query.
func (h *GetSnapshotHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*GetSnapshotQuery); !ok {
		return nil, fmt.Errorf("%w: expected *GetSnapshotQuery", common.ErrInvalidRequestType)
	}

	rows, err := h.snapshots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource snapshot: %w", err)
	}

	return &GetSnapshotResponse{Rows: rows}, nil
}
