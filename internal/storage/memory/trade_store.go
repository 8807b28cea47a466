package memory

import (
	"context"
	"sort"
	"sync"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TokenTrade // keyed by signature
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]*domain.TokenTrade),
	}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a new trade. Returns ErrDuplicateKey if the signature exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.TokenTrade) error {
	if t == nil || t.Signature == "" || t.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.Signature]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[t.Signature] = &copy
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.TokenTrade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: reject existing and intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.Signature == "" || t.Mint == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.Signature]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.Signature]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.Signature] = struct{}{}
	}

	// Second pass: insert all
	for _, t := range trades {
		copy := *t
		s.data[t.Signature] = &copy
	}

	return nil
}

// GetByMint retrieves all trades for a mint, ordered by received time ASC.
func (s *TradeStore) GetByMint(_ context.Context, mint string) ([]*domain.TokenTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TokenTrade
	for _, t := range s.data {
		if t.Mint == mint {
			copy := *t
			out = append(out, &copy)
		}
	}
	sortTrades(out)
	return out, nil
}

// GetByTimeRange retrieves trades received within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.TokenTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TokenTrade
	for _, t := range s.data {
		if t.ReceivedAt >= start && t.ReceivedAt <= end {
			copy := *t
			out = append(out, &copy)
		}
	}
	sortTrades(out)
	return out, nil
}

// DistinctMints returns every mint with at least one stored trade.
func (s *TradeStore) DistinctMints(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, t := range s.data {
		seen[t.Mint] = struct{}{}
	}

	mints := make([]string, 0, len(seen))
	for mint := range seen {
		mints = append(mints, mint)
	}
	sort.Strings(mints)
	return mints, nil
}

// sortTrades orders by (received_at, signature) for deterministic output.
func sortTrades(trades []*domain.TokenTrade) {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].ReceivedAt != trades[j].ReceivedAt {
			return trades[i].ReceivedAt < trades[j].ReceivedAt
		}
		return trades[i].Signature < trades[j].Signature
	})
}
