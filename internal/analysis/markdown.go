package analysis

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Trade Activity Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Trades: %d | Tokens: %d | Traders: %d\n\n",
		r.TotalTrades, r.TotalMints, r.TotalTraders))
	if r.WindowStart != 0 || r.WindowEnd != 0 {
		sb.WriteString(fmt.Sprintf("Window (ms): %d .. %d\n\n", r.WindowStart, r.WindowEnd))
	}

	// Token activity
	sb.WriteString("## Token Activity\n\n")
	if len(r.Tokens) == 0 {
		sb.WriteString("No trades recorded.\n\n")
	} else {
		sb.WriteString("| Mint | Trades | Buys | Sells | SOL Volume | Net SOL Flow | Traders | Last MC (SOL) |\n")
		sb.WriteString("|------|--------|------|-------|------------|--------------|---------|---------------|\n")
		for _, row := range r.Tokens {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.4f | %+.4f | %d | %.2f |\n",
				row.Mint, row.Trades, row.Buys, row.Sells,
				row.SOLVolume, row.NetSOLFlow, row.UniqueTraders, row.LastMarketCap))
		}
		sb.WriteString("\n")
	}

	// Trader ranking
	if len(r.TopTraders) > 0 {
		sb.WriteString("## Top Traders\n\n")
		sb.WriteString("| Trader | Trades | SOL Volume | Tokens |\n")
		sb.WriteString("|--------|--------|------------|--------|\n")
		for _, row := range r.TopTraders {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %d |\n",
				row.TraderPublicKey, row.Trades, row.SOLVolume, row.MintsTraded))
		}
		sb.WriteString("\n")
	}

	// Repeat traders
	if len(r.RepeatTraders) > 0 {
		sb.WriteString("## Repeat Traders\n\n")
		sb.WriteString("Traders active across more than one token.\n\n")
		sb.WriteString("| Trader | Trades | SOL Volume | Tokens |\n")
		sb.WriteString("|--------|--------|------------|--------|\n")
		for _, row := range r.RepeatTraders {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %d |\n",
				row.TraderPublicKey, row.Trades, row.SOLVolume, row.MintsTraded))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
