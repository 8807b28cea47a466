package postgres

import (
	"context"
	"fmt"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const insertTradeQuery = `
	INSERT INTO trades (
		signature, mint, trader_public_key, side,
		token_amount, sol_amount, tokens_in_pool, sol_in_pool,
		market_cap_sol, pool, tracked_token_count_at_event, received_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10, $11, $12
	)
`

// Insert adds a new trade. Returns ErrDuplicateKey if the signature exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TokenTrade) error {
	if t == nil || t.Signature == "" || t.Mint == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertTradeQuery,
		t.Signature, t.Mint, t.TraderPublicKey, t.Side.String(),
		t.TokenAmount, t.SOLAmount, t.TokensInPool, t.SOLInPool,
		t.MarketCapSOL, t.Pool, t.TrackedCountAtEvent, t.ReceivedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TokenTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if t == nil || t.Signature == "" || t.Mint == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertTradeQuery,
			t.Signature, t.Mint, t.TraderPublicKey, t.Side.String(),
			t.TokenAmount, t.SOLAmount, t.TokensInPool, t.SOLInPool,
			t.MarketCapSOL, t.Pool, t.TrackedCountAtEvent, t.ReceivedAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade %s: %w", t.Signature, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectTradeColumns = `
	signature, mint, trader_public_key, side,
	token_amount, sol_amount, tokens_in_pool, sol_in_pool,
	market_cap_sol, pool, tracked_token_count_at_event, received_at
`

// GetByMint retrieves all trades for a mint, ordered by received time ASC.
func (s *TradeStore) GetByMint(ctx context.Context, mint string) ([]*domain.TokenTrade, error) {
	query := `
		SELECT ` + selectTradeColumns + `
		FROM trades
		WHERE mint = $1
		ORDER BY received_at ASC, signature ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query trades by mint: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByTimeRange retrieves trades received within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.TokenTrade, error) {
	query := `
		SELECT ` + selectTradeColumns + `
		FROM trades
		WHERE received_at >= $1 AND received_at <= $2
		ORDER BY received_at ASC, signature ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query trades by time range: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// DistinctMints returns every mint with at least one stored trade.
func (s *TradeStore) DistinctMints(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT mint FROM trades ORDER BY mint`)
	if err != nil {
		return nil, fmt.Errorf("query distinct mints: %w", err)
	}
	defer rows.Close()

	var mints []string
	for rows.Next() {
		var mint string
		if err := rows.Scan(&mint); err != nil {
			return nil, fmt.Errorf("scan mint: %w", err)
		}
		mints = append(mints, mint)
	}
	return mints, rows.Err()
}

// rowScanner abstracts pgx.Rows for scanning.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanTrades reads trade rows into domain structs.
func scanTrades(rows rowScanner) ([]*domain.TokenTrade, error) {
	var trades []*domain.TokenTrade
	for rows.Next() {
		var t domain.TokenTrade
		var side string
		err := rows.Scan(
			&t.Signature, &t.Mint, &t.TraderPublicKey, &side,
			&t.TokenAmount, &t.SOLAmount, &t.TokensInPool, &t.SOLInPool,
			&t.MarketCapSOL, &t.Pool, &t.TrackedCountAtEvent, &t.ReceivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = domain.Side(side)
		trades = append(trades, &t)
	}
	return trades, rows.Err()
}
