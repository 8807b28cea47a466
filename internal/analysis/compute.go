package analysis

import (
	"sort"

	"pumpstream/internal/domain"
)

// computeTokenActivity aggregates trades into per-token rows. Trades are
// sorted by ReceivedAt ASC, Signature ASC first so first/last seen and the
// last market cap are deterministic.
func computeTokenActivity(trades []*domain.TokenTrade) []TokenActivityRow {
	sorted := make([]*domain.TokenTrade, len(trades))
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ReceivedAt != sorted[j].ReceivedAt {
			return sorted[i].ReceivedAt < sorted[j].ReceivedAt
		}
		return sorted[i].Signature < sorted[j].Signature
	})

	type tokenAcc struct {
		row     TokenActivityRow
		traders map[string]struct{}
	}

	accs := make(map[string]*tokenAcc)
	for _, t := range sorted {
		acc, ok := accs[t.Mint]
		if !ok {
			acc = &tokenAcc{
				row:     TokenActivityRow{Mint: t.Mint, FirstSeen: t.ReceivedAt},
				traders: make(map[string]struct{}),
			}
			accs[t.Mint] = acc
		}

		acc.row.Trades++
		acc.row.SOLVolume += t.SOLAmount
		switch t.Side {
		case domain.SideBuy:
			acc.row.Buys++
			acc.row.BuySOLVolume += t.SOLAmount
		case domain.SideSell:
			acc.row.Sells++
			acc.row.SellSOLVolume += t.SOLAmount
		}
		acc.row.LastSeen = t.ReceivedAt
		acc.row.LastMarketCap = t.MarketCapSOL
		if t.TraderPublicKey != "" {
			acc.traders[t.TraderPublicKey] = struct{}{}
		}
	}

	rows := make([]TokenActivityRow, 0, len(accs))
	for _, acc := range accs {
		acc.row.NetSOLFlow = acc.row.BuySOLVolume - acc.row.SellSOLVolume
		acc.row.UniqueTraders = len(acc.traders)
		rows = append(rows, acc.row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SOLVolume != rows[j].SOLVolume {
			return rows[i].SOLVolume > rows[j].SOLVolume
		}
		return rows[i].Mint < rows[j].Mint
	})
	return rows
}

// computeTraders aggregates trades per trader. Returns all traders sorted
// by SOL volume DESC, pubkey ASC.
func computeTraders(trades []*domain.TokenTrade) []TraderRow {
	type traderAcc struct {
		row   TraderRow
		mints map[string]struct{}
	}

	accs := make(map[string]*traderAcc)
	for _, t := range trades {
		if t.TraderPublicKey == "" {
			continue
		}
		acc, ok := accs[t.TraderPublicKey]
		if !ok {
			acc = &traderAcc{
				row:   TraderRow{TraderPublicKey: t.TraderPublicKey},
				mints: make(map[string]struct{}),
			}
			accs[t.TraderPublicKey] = acc
		}
		acc.row.Trades++
		acc.row.SOLVolume += t.SOLAmount
		acc.mints[t.Mint] = struct{}{}
	}

	rows := make([]TraderRow, 0, len(accs))
	for _, acc := range accs {
		acc.row.MintsTraded = len(acc.mints)
		rows = append(rows, acc.row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SOLVolume != rows[j].SOLVolume {
			return rows[i].SOLVolume > rows[j].SOLVolume
		}
		return rows[i].TraderPublicKey < rows[j].TraderPublicKey
	})
	return rows
}

// repeatTraders filters to traders seen on more than one mint, keeping the
// input order.
func repeatTraders(traders []TraderRow) []TraderRow {
	var out []TraderRow
	for _, tr := range traders {
		if tr.MintsTraded > 1 {
			out = append(out, tr)
		}
	}
	return out
}
