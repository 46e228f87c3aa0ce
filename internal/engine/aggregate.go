package engine

import (
	"sort"

	"RateScope/internal/model"
)

// AggregateByCurrency reduces match results into one row per currency.
// SuccessRate is defined as 0 for an empty group, never a division by
// zero. Rows come back sorted by currency for stable output.
func AggregateByCurrency(results []model.MatchResult) []model.AggregateRow {
	groups := make(map[string]*model.AggregateRow)
	for _, r := range results {
		row, ok := groups[r.Currency]
		if !ok {
			row = &model.AggregateRow{Currency: r.Currency}
			groups[r.Currency] = row
		}
		fold(row, r)
	}
	return sortedByCurrency(groups)
}

// AggregateByCurrencyDirection reduces match results into one row per
// (currency, direction), additionally summing traded volume per group.
func AggregateByCurrencyDirection(results []model.MatchResult) []model.AggregateRow {
	type key struct {
		currency  string
		direction model.Direction
	}
	groups := make(map[key]*model.AggregateRow)
	for _, r := range results {
		k := key{r.Currency, r.Direction}
		row, ok := groups[k]
		if !ok {
			row = &model.AggregateRow{Currency: r.Currency, Direction: r.Direction}
			groups[k] = row
		}
		fold(row, r)
	}

	rows := make([]model.AggregateRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Currency != rows[j].Currency {
			return rows[i].Currency < rows[j].Currency
		}
		return rows[i].Direction < rows[j].Direction
	})
	return rows
}

// fold accumulates one result into a group row and refreshes the rate.
func fold(row *model.AggregateRow, r model.MatchResult) {
	row.TotalTrades++
	if r.Found {
		row.MatchedTrades++
	}
	row.TotalMatchCount += r.MatchCount
	row.TotalVolume += r.Amount
	row.SuccessRate = successRate(row.MatchedTrades, row.TotalTrades)
}

// successRate is matched/total as a percentage, 0 when total is 0.
func successRate(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total) * 100
}

func sortedByCurrency(groups map[string]*model.AggregateRow) []model.AggregateRow {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([]model.AggregateRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, *groups[k])
	}
	return rows
}
