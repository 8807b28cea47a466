// Package analysis builds activity reports from stored trades: per-token
// volume and buy/sell breakdown, trader rankings and cross-token repeat
// traders.
package analysis

import (
	"context"
	"time"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

// Generator produces reports from stored trades.
type Generator struct {
	store      storage.TradeStore
	topTraders int
	now        func() time.Time // Injectable clock for deterministic output
}

// DefaultTopTraders caps the trader ranking in generated reports.
const DefaultTopTraders = 20

func NewGenerator(store storage.TradeStore) *Generator {
	return &Generator{
		store:      store,
		topTraders: DefaultTopTraders,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithTopTraders overrides the trader ranking cap.
func (g *Generator) WithTopTraders(n int) *Generator {
	g.topTraders = n
	return g
}

// Generate builds a report for trades in [from, to] (Unix ms, inclusive).
// A zero `to` means now; the report's WindowEnd carries the resolved value.
func (g *Generator) Generate(ctx context.Context, from, to int64) (*Report, error) {
	end := to
	if end == 0 {
		end = g.now().UnixMilli()
	}

	trades, err := g.store.GetByTimeRange(ctx, from, end)
	if err != nil {
		return nil, err
	}

	tokens := computeTokenActivity(trades)
	traders := computeTraders(trades)

	top := traders
	if len(top) > g.topTraders {
		top = top[:g.topTraders]
	}

	return &Report{
		GeneratedAt:   g.now(),
		WindowStart:   from,
		WindowEnd:     end,
		TotalTrades:   len(trades),
		TotalMints:    len(tokens),
		TotalTraders:  len(traders),
		Tokens:        tokens,
		TopTraders:    top,
		RepeatTraders: repeatTraders(traders),
	}, nil
}

// TradesFor returns the stored trades for a single mint, oldest first.
func (g *Generator) TradesFor(ctx context.Context, mint string) ([]*domain.TokenTrade, error) {
	return g.store.GetByMint(ctx, mint)
}
