package commands

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// ReplaceSnapshotCommand swaps the full set of live resource balances with
// the rows supplied by the game-account sync. There is no incremental merge.
type ReplaceSnapshotCommand struct {
	Rows []entity.ResourceSnapshot
}

// ReplaceSnapshotResponse reports how many balances were stored.
type ReplaceSnapshotResponse struct {
	Count int
}

// ReplaceSnapshotHandler handles the ReplaceSnapshot command.
type ReplaceSnapshotHandler struct {
	snapshots ports.SnapshotRepository
}

// NewReplaceSnapshotHandler creates a new ReplaceSnapshotHandler.
func NewReplaceSnapshotHandler(snapshots ports.SnapshotRepository) *ReplaceSnapshotHandler {
	return &ReplaceSnapshotHandler{snapshots: snapshots}
}

// Handle executes the ReplaceSnapshot command.
func (h *ReplaceSnapshotHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ReplaceSnapshotCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *ReplaceSnapshotCommand", common.ErrInvalidRequestType)
	}

	if err := h.snapshots.Replace(ctx, cmd.Rows); err != nil {
		return nil, fmt.Errorf("failed to replace resource snapshot: %w", err)
	}

	return &ReplaceSnapshotResponse{Count: len(cmd.Rows)}, nil
}
