// Package engine implements the target-price matching and aggregation
// core: for each executed trade it searches a time-windowed slice of
// quote history for rates that reached the trade's target price, and
// reduces the outcomes into per-currency and per-parameter statistics.
package engine

import (
	"fmt"
	"time"

	"RateScope/internal/model"
)

// Params bounds one matching run.
type Params struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Window         int // days after execution a quote may still match
	BuyAdjustment  float64
	SellAdjustment float64
}

func (p Params) validate() error {
	if p.Window < 0 {
		return fmt.Errorf("window %d must not be negative", p.Window)
	}
	if p.PeriodEnd.Before(p.PeriodStart) {
		return fmt.Errorf("period end %s before start %s",
			p.PeriodEnd.Format(time.DateOnly), p.PeriodStart.Format(time.DateOnly))
	}
	return nil
}

// windowEnd returns the last instant a quote may match a trade executed
// at t. Window 0 collapses the interval to the execution instant itself.
func (p Params) windowEnd(t time.Time) time.Time {
	return t.Add(time.Duration(p.Window) * 24 * time.Hour)
}

// TargetPrice computes the price at which a trade's benefit is realized:
// a discount below the buy price, a premium above the sell price.
func TargetPrice(t model.Trade, buyAdjustment, sellAdjustment float64) float64 {
	if t.Direction == model.Buy {
		return t.Price - buyAdjustment
	}
	return t.Price + sellAdjustment
}

// MatchTrades runs the matcher over a batch of trades. Quotes are
// considered when observed within [PeriodStart, PeriodEnd+Window] and
// trades when executed within [PeriodStart, PeriodEnd], inclusive. A buy
// trade matches quotes at or below its target price, a sell trade quotes
// at or above it, in both cases only within the trade's window
// [executedAt, executedAt+Window days], inclusive both ends.
//
// One MatchResult is emitted per in-period trade regardless of match
// count, plus one MatchedQuote per satisfying quote. Inputs must be
// pre-validated; malformed rows are a precondition violation.
func MatchTrades(quotes []model.Quote, trades []model.Trade, p Params) ([]model.MatchResult, []model.MatchedQuote, error) {
	if err := p.validate(); err != nil {
		return nil, nil, fmt.Errorf("match trades: %w", err)
	}

	ix := newQuoteIndex(quotes, p.PeriodStart, p.windowEnd(p.PeriodEnd))

	var results []model.MatchResult
	var matched []model.MatchedQuote
	for _, t := range trades {
		if t.ExecutedAt.Before(p.PeriodStart) || t.ExecutedAt.After(p.PeriodEnd) {
			continue
		}

		target := TargetPrice(t, p.BuyAdjustment, p.SellAdjustment)
		count := 0
		for _, q := range ix.between(t.Currency, t.ExecutedAt, p.windowEnd(t.ExecutedAt)) {
			if t.Direction == model.Buy && q.BasePrice > target {
				continue
			}
			if t.Direction == model.Sell && q.BasePrice < target {
				continue
			}
			count++
			matched = append(matched, model.MatchedQuote{
				Currency:        t.Currency,
				BasePrice:       q.BasePrice,
				ObservedAt:      q.ObservedAt,
				TradeExecutedAt: t.ExecutedAt,
				TradePrice:      t.Price,
				Amount:          t.Amount,
				Direction:       t.Direction,
			})
		}

		results = append(results, model.MatchResult{
			Currency:      t.Currency,
			Direction:     t.Direction,
			OriginalPrice: t.Price,
			TargetPrice:   target,
			Found:         count > 0,
			MatchCount:    count,
			Amount:        t.Amount,
			ExecutedAt:    t.ExecutedAt,
		})
	}
	return results, matched, nil
}

// Dedup collapses results sharing a natural trade key, keeping the first
// occurrence. Applying it twice yields the same rows as applying it once.
func Dedup(results []model.MatchResult) []model.MatchResult {
	seen := make(map[model.TradeKey]struct{}, len(results))
	out := make([]model.MatchResult, 0, len(results))
	for _, r := range results {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
