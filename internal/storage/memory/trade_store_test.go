package memory

import (
	"context"
	"errors"
	"testing"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

func testTrade(sig, mint string, at int64) *domain.TokenTrade {
	return &domain.TokenTrade{
		Signature:           sig,
		Mint:                mint,
		TraderPublicKey:     "TRADER_1",
		Side:                domain.SideBuy,
		SOLAmount:           0.5,
		TrackedCountAtEvent: 3,
		ReceivedAt:          at,
	}
}

func TestTradeStore_InsertAndGet(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testTrade("sig1", "MINT_A", 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByMint(ctx, "MINT_A")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(result))
	}
	if result[0].TrackedCountAtEvent != 3 {
		t.Errorf("TrackedCountAtEvent mismatch: got %d, want 3", result[0].TrackedCountAtEvent)
	}
}

func TestTradeStore_DuplicateSignature(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testTrade("sig1", "MINT_A", 1000)); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, testTrade("sig1", "MINT_A", 2000))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeStore_InvalidInput(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.TokenTrade{Mint: "MINT_A"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing signature, got %v", err)
	}
}

func TestTradeStore_InsertBulk(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trades := []*domain.TokenTrade{
		testTrade("sig1", "MINT_A", 1000),
		testTrade("sig2", "MINT_A", 2000),
		testTrade("sig3", "MINT_B", 3000),
	}
	if err := store.InsertBulk(ctx, trades); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByMint(ctx, "MINT_A")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("Expected 2 trades for MINT_A, got %d", len(result))
	}
}

func TestTradeStore_InsertBulkIntraBatchDuplicate(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trades := []*domain.TokenTrade{
		testTrade("sig1", "MINT_A", 1000),
		testTrade("sig1", "MINT_B", 2000),
	}

	err := store.InsertBulk(ctx, trades)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// Atomic: nothing from the failed batch was stored.
	result, _ := store.GetByMint(ctx, "MINT_A")
	if len(result) != 0 {
		t.Errorf("Expected empty store after failed batch, got %d trades", len(result))
	}
}

func TestTradeStore_GetByTimeRange(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	store.Insert(ctx, testTrade("sig1", "MINT_A", 1000))
	store.Insert(ctx, testTrade("sig2", "MINT_A", 2000))
	store.Insert(ctx, testTrade("sig3", "MINT_A", 3000))

	result, err := store.GetByTimeRange(ctx, 1000, 2000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 trades in range, got %d", len(result))
	}
	// Ordered by received time ASC.
	if result[0].Signature != "sig1" || result[1].Signature != "sig2" {
		t.Errorf("Unexpected order: %s, %s", result[0].Signature, result[1].Signature)
	}
}

func TestTradeStore_DistinctMints(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	store.Insert(ctx, testTrade("sig1", "MINT_B", 1000))
	store.Insert(ctx, testTrade("sig2", "MINT_A", 2000))
	store.Insert(ctx, testTrade("sig3", "MINT_A", 3000))

	mints, err := store.DistinctMints(ctx)
	if err != nil {
		t.Fatalf("DistinctMints failed: %v", err)
	}
	if len(mints) != 2 {
		t.Fatalf("Expected 2 mints, got %d", len(mints))
	}
	if mints[0] != "MINT_A" || mints[1] != "MINT_B" {
		t.Errorf("Unexpected mints: %v", mints)
	}
}
