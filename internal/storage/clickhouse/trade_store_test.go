package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

func testTrade(sig, mint string, at int64) *domain.TokenTrade {
	return &domain.TokenTrade{
		Signature:           sig,
		Mint:                mint,
		TraderPublicKey:     "TRADER_1",
		Side:                domain.SideSell,
		TokenAmount:         500000,
		SOLAmount:           1.25,
		MarketCapSOL:        40.1,
		Pool:                "pump",
		TrackedCountAtEvent: 7,
		ReceivedAt:          at,
	}
}

func TestTradeStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testTrade("sig1", "MINT_A", 1000)))

	trades, err := store.GetByMint(ctx, "MINT_A")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, domain.SideSell, trades[0].Side)
	assert.Equal(t, 7, trades[0].TrackedCountAtEvent)
	assert.Equal(t, 1.25, trades[0].SOLAmount)
}

func TestTradeStore_DuplicateSignature(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testTrade("sig1", "MINT_A", 1000)))

	err := store.Insert(ctx, testTrade("sig1", "MINT_A", 2000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTradeStore_GetByTimeRangeAndDistinctMints(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.TokenTrade{
		testTrade("sig1", "MINT_B", 1000),
		testTrade("sig2", "MINT_A", 2000),
		testTrade("sig3", "MINT_A", 3000),
	}))

	trades, err := store.GetByTimeRange(ctx, 2000, 3000)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "sig2", trades[0].Signature)

	mints, err := store.DistinctMints(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"MINT_A", "MINT_B"}, mints)
}
