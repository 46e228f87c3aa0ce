package engine

import (
	"sort"

	"RateScope/internal/model"
)

// MatchDailyRange is the daily-candle variant of the matcher: a trade's
// target price counts as reached on any bar dated at or after execution
// whose low..high range covers the target. There is no window bound,
// every later bar is eligible. Both directions use the same range
// predicate, since a daily candle spanning the target implies the rate
// traded through it.
func MatchDailyRange(bars []model.DailyBar, trades []model.Trade, buyAdjustment, sellAdjustment float64) ([]model.MatchResult, []model.MatchedBar) {
	byCurrency := make(map[string][]model.DailyBar)
	for _, b := range bars {
		byCurrency[b.Currency] = append(byCurrency[b.Currency], b)
	}
	for cur := range byCurrency {
		bs := byCurrency[cur]
		sort.Slice(bs, func(i, j int) bool { return bs[i].Date.Before(bs[j].Date) })
	}

	var results []model.MatchResult
	var matched []model.MatchedBar
	for _, t := range trades {
		target := TargetPrice(t, buyAdjustment, sellAdjustment)

		count := 0
		bs := byCurrency[t.Currency]
		first := sort.Search(len(bs), func(i int) bool { return !bs[i].Date.Before(t.ExecutedAt) })
		for _, b := range bs[first:] {
			if b.Low > target || b.High < target {
				continue
			}
			count++
			matched = append(matched, model.MatchedBar{
				Currency:        t.Currency,
				Direction:       t.Direction,
				TradePrice:      t.Price,
				High:            b.High,
				Low:             b.Low,
				Close:           b.Close,
				Date:            b.Date,
				TradeExecutedAt: t.ExecutedAt,
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
	return results, matched
}
