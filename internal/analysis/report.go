package analysis

import "time"

// Report summarizes stored trade activity over a time window.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	WindowStart int64 // Unix ms, 0 means open
	WindowEnd   int64 // Unix ms, resolved to "now" when the caller left it open

	// Totals
	TotalTrades  int
	TotalMints   int
	TotalTraders int

	// Per-token activity (sorted by SOL volume DESC, mint ASC)
	Tokens []TokenActivityRow

	// Traders ranked by SOL volume
	TopTraders []TraderRow

	// Traders active across more than one token
	RepeatTraders []TraderRow
}

// TokenActivityRow represents one token's trade activity.
type TokenActivityRow struct {
	Mint          string
	Trades        int
	Buys          int
	Sells         int
	SOLVolume     float64
	BuySOLVolume  float64
	SellSOLVolume float64
	NetSOLFlow    float64 // buy volume minus sell volume
	UniqueTraders int
	LastMarketCap float64 // marketCapSol of the most recent trade
	FirstSeen     int64   // Unix ms
	LastSeen      int64   // Unix ms
}

// TraderRow represents one trader's aggregate activity.
type TraderRow struct {
	TraderPublicKey string
	Trades          int
	SOLVolume       float64
	MintsTraded     int
}
