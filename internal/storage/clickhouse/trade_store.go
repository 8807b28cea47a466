package clickhouse

import (
	"context"
	"fmt"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

// TradeStore implements storage.TradeStore using ClickHouse.
// ClickHouse does not enforce uniqueness at insert time, so duplicate
// signatures are rejected with an explicit existence check; the
// ReplacingMergeTree engine covers anything that slips past it.
type TradeStore struct {
	conn *Conn
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(conn *Conn) *TradeStore {
	return &TradeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a new trade. Returns ErrDuplicateKey if the signature exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TokenTrade) error {
	if t == nil || t.Signature == "" || t.Mint == "" {
		return storage.ErrInvalidInput
	}
	return s.InsertBulk(ctx, []*domain.TokenTrade{t})
}

// InsertBulk adds multiple trades. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TokenTrade) error {
	if len(trades) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.Signature == "" || t.Mint == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[t.Signature]; exists {
			return storage.ErrDuplicateKey
		}
		seen[t.Signature] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, t := range trades {
		exists, err := s.exists(ctx, t.Signature)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trades (
			signature, mint, trader_public_key, side,
			token_amount, sol_amount, tokens_in_pool, sol_in_pool,
			market_cap_sol, pool, tracked_token_count_at_event, received_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trades {
		err = batch.Append(
			t.Signature, t.Mint, t.TraderPublicKey, t.Side.String(),
			t.TokenAmount, t.SOLAmount, t.TokensInPool, t.SOLInPool,
			t.MarketCapSOL, t.Pool, int32(t.TrackedCountAtEvent), t.ReceivedAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// exists checks if a trade with the signature is already stored.
func (s *TradeStore) exists(ctx context.Context, signature string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count() FROM trades FINAL WHERE signature = ?`, signature,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
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
		FROM trades FINAL
		WHERE mint = ?
		ORDER BY received_at ASC, signature ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
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
		FROM trades FINAL
		WHERE received_at >= ? AND received_at <= ?
		ORDER BY received_at ASC, signature ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query trades by time range: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// DistinctMints returns every mint with at least one stored trade.
func (s *TradeStore) DistinctMints(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT DISTINCT mint FROM trades ORDER BY mint`)
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

// rowScanner abstracts driver rows for scanning.
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
		var trackedCount int32
		err := rows.Scan(
			&t.Signature, &t.Mint, &t.TraderPublicKey, &side,
			&t.TokenAmount, &t.SOLAmount, &t.TokensInPool, &t.SOLInPool,
			&t.MarketCapSOL, &t.Pool, &trackedCount, &t.ReceivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = domain.Side(side)
		t.TrackedCountAtEvent = int(trackedCount)
		trades = append(trades, &t)
	}
	return trades, rows.Err()
}
