package report

import (
	"fmt"
	"strings"
	"time"

	"RateScope/internal/exporter"
	"RateScope/internal/model"
)

// FormatAnalysis renders one analysis run as a plain-text report.
func FormatAnalysis(snap *exporter.AnalysisSnapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Target-price analysis | %s .. %s | window %dd | buy -%.1f / sell +%.1f\n\n",
		snap.PeriodStart.Format(time.DateOnly), snap.PeriodEnd.Format(time.DateOnly),
		snap.Window, snap.BuyAdjustment, snap.SellAdjustment))

	b.WriteString(fmt.Sprintf("Trades: %d | Target reached: %d | Success rate: %.2f%%\n\n",
		snap.TotalTrades, snap.MatchedTrades, snap.SuccessRate))

	if len(snap.ByCurrency) > 0 {
		b.WriteString("Per currency:\n")
		b.WriteString(fmt.Sprintf("  %-6s %8s %8s %8s %9s\n", "cur", "trades", "reached", "matches", "rate"))
		for _, row := range snap.ByCurrency {
			b.WriteString(fmt.Sprintf("  %-6s %8d %8d %8d %8.2f%%\n",
				row.Currency, row.TotalTrades, row.MatchedTrades, row.TotalMatchCount, row.SuccessRate))
		}
		b.WriteString("\n")
	}

	if len(snap.ByDirection) > 0 {
		b.WriteString("Per currency and direction:\n")
		b.WriteString(fmt.Sprintf("  %-6s %-5s %8s %8s %9s %10s\n", "cur", "side", "trades", "reached", "rate", "volume"))
		for _, row := range snap.ByDirection {
			b.WriteString(fmt.Sprintf("  %-6s %-5s %8d %8d %8.2f%% %10.2f\n",
				row.Currency, row.Direction, row.TotalTrades, row.MatchedTrades, row.SuccessRate, row.TotalVolume))
		}
		b.WriteString("\n")
	}

	b.WriteString("Notional profit (volume × adjustment):\n")
	b.WriteString(fmt.Sprintf("  buy : %d trades, volume %.2f, profit %.2f\n",
		len(snap.Profit.Buy.Rows), snap.Profit.Buy.TotalVolume, snap.Profit.Buy.TotalProfit))
	b.WriteString(fmt.Sprintf("  sell: %d trades, volume %.2f, profit %.2f\n",
		len(snap.Profit.Sell.Rows), snap.Profit.Sell.TotalVolume, snap.Profit.Sell.TotalProfit))

	return b.String()
}

// FormatSweep renders the sweep grid, one line per (window, adjustment)
// cell.
func FormatSweep(rows []model.SweepRow) string {
	var b strings.Builder
	b.WriteString("Sweep results:\n")
	if len(rows) == 0 {
		b.WriteString("  (no combinations)\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("  %6s %6s %12s %12s %12s %12s %9s\n",
		"window", "adj", "buy volume", "buy profit", "sell volume", "sell profit", "rate"))
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %6d %6.1f %12.2f %12.2f %12.2f %12.2f %8.2f%%\n",
			row.Window, row.Adjustment,
			row.TotalBuyVolume, row.TotalBuyProfit,
			row.TotalSellVolume, row.TotalSellProfit,
			row.TotalSuccessRate))
	}
	return b.String()
}

// FormatMatchedQuotes renders matched quotes with their time-to-match,
// for qualitative inspection.
func FormatMatchedQuotes(matched []model.MatchedQuote, limit int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Matched quotes (%d total):\n", len(matched)))
	if len(matched) == 0 {
		b.WriteString("  (no quotes reached a target in the selected period)\n")
		return b.String()
	}
	if limit <= 0 || limit > len(matched) {
		limit = len(matched)
	}
	for _, m := range matched[:limit] {
		b.WriteString(fmt.Sprintf("  %-6s %-5s rate %.2f at %s, %.1fh after trade @ %.2f\n",
			m.Currency, m.Direction, m.BasePrice,
			m.ObservedAt.Format("2006-01-02 15:04"),
			m.ObservedAt.Sub(m.TradeExecutedAt).Hours(), m.TradePrice))
	}
	if limit < len(matched) {
		b.WriteString(fmt.Sprintf("  ... %d more\n", len(matched)-limit))
	}
	return b.String()
}
