package analysis

import (
	"context"
	"strings"
	"testing"
	"time"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage/memory"
)

func setupTestStore(t *testing.T) *memory.TradeStore {
	ctx := context.Background()
	store := memory.NewTradeStore()

	trades := []*domain.TokenTrade{
		trade("s1", "mintA", "whale", domain.SideBuy, 10.0, 1000),
		trade("s2", "mintA", "minnow", domain.SideSell, 1.0, 2000),
		trade("s3", "mintB", "whale", domain.SideBuy, 3.0, 3000),
		trade("s4", "mintB", "minnow2", domain.SideBuy, 0.5, 9000),
	}
	for _, tr := range trades {
		if err := store.Insert(ctx, tr); err != nil {
			t.Fatalf("Insert trade failed: %v", err)
		}
	}
	return store
}

func TestGenerate_FullWindow(t *testing.T) {
	store := setupTestStore(t)
	gen := NewGenerator(store).WithClock(func() time.Time {
		return time.UnixMilli(10000).UTC()
	})

	report, err := gen.Generate(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.TotalTrades != 4 {
		t.Errorf("expected 4 trades, got %d", report.TotalTrades)
	}
	// Open-ended window resolves to the clock, never a zero end.
	if report.WindowEnd != 10000 {
		t.Errorf("expected resolved window end 10000, got %d", report.WindowEnd)
	}
	if report.TotalMints != 2 {
		t.Errorf("expected 2 mints, got %d", report.TotalMints)
	}
	if report.TotalTraders != 3 {
		t.Errorf("expected 3 traders, got %d", report.TotalTraders)
	}
	if len(report.RepeatTraders) != 1 || report.RepeatTraders[0].TraderPublicKey != "whale" {
		t.Errorf("unexpected repeat traders: %+v", report.RepeatTraders)
	}
}

func TestGenerate_WindowFilters(t *testing.T) {
	store := setupTestStore(t)
	gen := NewGenerator(store)

	report, err := gen.Generate(context.Background(), 2000, 3000)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.TotalTrades != 2 {
		t.Errorf("expected 2 trades in window, got %d", report.TotalTrades)
	}
}

func TestGenerate_TopTradersCap(t *testing.T) {
	store := setupTestStore(t)
	gen := NewGenerator(store).WithTopTraders(1)

	report, err := gen.Generate(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(report.TopTraders) != 1 {
		t.Fatalf("expected 1 top trader, got %d", len(report.TopTraders))
	}
	if report.TopTraders[0].TraderPublicKey != "whale" {
		t.Errorf("expected whale on top, got %s", report.TopTraders[0].TraderPublicKey)
	}
}

func TestRenderMarkdown_ContainsSections(t *testing.T) {
	store := setupTestStore(t)
	gen := NewGenerator(store).WithClock(func() time.Time {
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	})

	report, err := gen.Generate(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Trade Activity Report",
		"## Token Activity",
		"## Top Traders",
		"## Repeat Traders",
		"mintA",
		"whale",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderCSV_HeaderAndRows(t *testing.T) {
	rows := []TokenActivityRow{
		{Mint: "mintA", Trades: 2, Buys: 1, Sells: 1, SOLVolume: 11.0, FirstSeen: 1000, LastSeen: 2000},
	}

	csv := RenderCSV(rows)
	lines := strings.Split(strings.TrimSpace(csv), "\n")

	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "mint,trades,buys,sells") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "mintA,2,1,1,") {
		t.Errorf("unexpected row: %s", lines[1])
	}
}
