package domain

// TokenTrade is a buy or sell event for a tracked token.
// Corresponds to a row in the trades table.
type TokenTrade struct {
	Signature       string // transaction signature, unique per trade
	Mint            string // token mint address
	TraderPublicKey string // trader wallet
	Side            Side   // buy or sell

	TokenAmount  float64 // tokens exchanged
	SOLAmount    float64 // SOL exchanged
	TokensInPool float64 // pool token reserve after trade
	SOLInPool    float64 // pool SOL reserve after trade
	MarketCapSOL float64 // market cap in SOL after trade
	Pool         string  // pool identifier (e.g. "pump")

	// TrackedCountAtEvent is the size of the trade desired set at the
	// moment this trade was processed. Provenance metadata, not derived
	// from stored state later.
	TrackedCountAtEvent int

	ReceivedAt int64 // Unix timestamp in milliseconds
}

// Kind returns EventTrade.
func (TokenTrade) Kind() EventKind { return EventTrade }
