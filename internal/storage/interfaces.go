package storage

import (
	"context"

	"pumpstream/internal/domain"
)

// TradeStore provides access to the trades archive.
// The archive is append-only and keyed by transaction signature.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if the signature exists.
	Insert(ctx context.Context, t *domain.TokenTrade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TokenTrade) error

	// GetByMint retrieves all trades for a mint, ordered by received time ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.TokenTrade, error)

	// GetByTimeRange retrieves trades received within [start, end] (inclusive,
	// Unix milliseconds), ordered by received time ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.TokenTrade, error)

	// DistinctMints returns every mint that has at least one stored trade.
	// Used to seed the tracked set on startup.
	DistinctMints(ctx context.Context) ([]string, error)
}
