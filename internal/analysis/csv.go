package analysis

import (
	"fmt"
	"strings"
)

// RenderCSV renders token activity rows as CSV string.
func RenderCSV(rows []TokenActivityRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("mint,trades,buys,sells,sol_volume,buy_sol_volume,sell_sol_volume,")
	sb.WriteString("net_sol_flow,unique_traders,last_market_cap_sol,first_seen_ms,last_seen_ms\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%d,%.6f,%d,%d\n",
			r.Mint,
			r.Trades,
			r.Buys,
			r.Sells,
			r.SOLVolume,
			r.BuySOLVolume,
			r.SellSOLVolume,
			r.NetSOLFlow,
			r.UniqueTraders,
			r.LastMarketCap,
			r.FirstSeen,
			r.LastSeen,
		))
	}

	return sb.String()
}
