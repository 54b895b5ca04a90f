package commands

import (
	"context"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// publishCollection pushes the full committed collection of a kind onto the
// change bus. Every mutating handler calls this exactly once after its
// commit returns, so subscribers never observe a write that is not durable.
func publishCollection(ctx context.Context, store ports.EntityRepository, bus *watch.Bus, kind entity.Kind) error {
	records, err := store.List(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to read back %s for notification: %w", kind, err)
	}
	bus.Publish(kind, records)
	return nil
}
