package model

import "time"

// MatchResult is the per-trade outcome for one parameter set. Exactly one
// is produced per trade regardless of how many quotes matched.
type MatchResult struct {
	Currency      string    `json:"currency"`
	Direction     Direction `json:"direction"`
	OriginalPrice float64   `json:"original_price"`
	TargetPrice   float64   `json:"target_price"`
	Found         bool      `json:"found"`
	MatchCount    int       `json:"match_count"`
	Amount        float64   `json:"amount"`
	ExecutedAt    time.Time `json:"executed_at"`
}

// Key returns the originating trade's natural dedup key.
func (r MatchResult) Key() TradeKey {
	return TradeKey{Currency: r.Currency, ExecutedAt: r.ExecutedAt.UnixNano(), Amount: r.Amount}
}

// MatchedQuote records one (trade, quote) pair that satisfied the match
// predicate. Kept for qualitative inspection (time-to-match etc.);
// aggregate counts come from MatchResult.
type MatchedQuote struct {
	Currency        string    `json:"currency"`
	BasePrice       float64   `json:"base_price"`
	ObservedAt      time.Time `json:"observed_at"`
	TradeExecutedAt time.Time `json:"trade_executed_at"`
	TradePrice      float64   `json:"trade_price"`
	Amount          float64   `json:"amount"`
	Direction       Direction `json:"direction"`
}

// AggregateRow is one grouped statistics row. Direction is empty for the
// currency-only grouping.
type AggregateRow struct {
	Currency        string    `json:"currency"`
	Direction       Direction `json:"direction,omitempty"`
	TotalTrades     int       `json:"total_trades"`
	MatchedTrades   int       `json:"matched_trades"`
	TotalMatchCount int       `json:"total_match_count"`
	SuccessRate     float64   `json:"success_rate"`
	TotalVolume     float64   `json:"total_volume"`
	TotalProfit     float64   `json:"total_profit"`
}

// ProfitLeg holds one direction's share of a profit summary.
type ProfitLeg struct {
	Rows        []MatchResult `json:"rows"`
	TotalVolume float64       `json:"total_volume"`
	TotalProfit float64       `json:"total_profit"`
}

// ProfitSummary is the per-direction notional profit breakdown.
type ProfitSummary struct {
	Buy  ProfitLeg `json:"buy"`
	Sell ProfitLeg `json:"sell"`
}

// SweepRow is one (window, adjustment) grid cell's summary.
type SweepRow struct {
	Window           int     `json:"window"`
	Adjustment       float64 `json:"adjustment"`
	TotalBuyVolume   float64 `json:"total_buy_volume"`
	TotalBuyProfit   float64 `json:"total_buy_profit"`
	TotalSellVolume  float64 `json:"total_sell_volume"`
	TotalSellProfit  float64 `json:"total_sell_profit"`
	TotalSuccessRate float64 `json:"total_success_rate"`
}

// SweepCellRow is one per-currency/direction aggregate tagged with the
// grid cell it came from. These are what the cross-run accumulator keeps.
type SweepCellRow struct {
	Window     int     `json:"window"`
	Adjustment float64 `json:"adjustment"`
	AggregateRow
}
