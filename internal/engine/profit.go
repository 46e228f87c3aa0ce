package engine

import (
	"time"

	"RateScope/internal/model"
)

// ComputeProfit summarizes the notional profit of matched trades: rows
// with Found set and executed within [start, end+window days] are
// deduplicated by natural trade key, split by direction, and each
// contributes amount × adjustment.
//
// The figure is notional, volume scaled by the adjustment, not a true
// P&L discounted by execution cost.
func ComputeProfit(results []model.MatchResult, adjustment float64, start, end time.Time, window int) model.ProfitSummary {
	cutoff := end.Add(time.Duration(window) * 24 * time.Hour)

	var sum model.ProfitSummary
	seen := make(map[model.TradeKey]struct{}, len(results))
	for _, r := range results {
		if !r.Found {
			continue
		}
		if r.ExecutedAt.Before(start) || r.ExecutedAt.After(cutoff) {
			continue
		}
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		leg := &sum.Sell
		if r.Direction == model.Buy {
			leg = &sum.Buy
		}
		leg.Rows = append(leg.Rows, r)
		leg.TotalVolume += r.Amount
		leg.TotalProfit += r.Amount * adjustment
	}
	return sum
}
