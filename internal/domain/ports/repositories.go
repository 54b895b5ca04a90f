package ports

import (
	"context"

	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
)

// EntityRepository is the durable store for the four tracked collections.
// Only the owner context writes to it. Mutations commit synchronously with
// respect to the caller; change notification happens after commit, in the
// application layer. Bulk operations are one logical commit per kind.
type EntityRepository interface {
	List(ctx context.Context, kind entity.Kind) ([]entity.Record, error)
	Find(ctx context.Context, kind entity.Kind, id string) (entity.Record, error)
	Put(ctx context.Context, kind entity.Kind, record entity.Record) error
	Delete(ctx context.Context, kind entity.Kind, id string) error
	BulkPut(ctx context.Context, kind entity.Kind, records []entity.Record) error
	BulkDelete(ctx context.Context, kind entity.Kind, ids []string) error
	Clear(ctx context.Context, kind entity.Kind) error
}

// SnapshotRepository stores the live resource balances copied from the game
// account. Each sync replaces the whole set.
type SnapshotRepository interface {
	List(ctx context.Context) ([]entity.ResourceSnapshot, error)
	Replace(ctx context.Context, rows []entity.ResourceSnapshot) error
}

// SelectionRepository stores the user's per-era workshop choices.
type SelectionRepository interface {
	All(ctx context.Context) (goods.Selections, error)
	Put(ctx context.Context, era goods.Era, sel goods.Selection) error
}
