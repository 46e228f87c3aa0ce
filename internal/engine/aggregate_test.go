package engine

import (
	"testing"

	"RateScope/internal/model"
)

func sampleResults() []model.MatchResult {
	return []model.MatchResult{
		{Currency: "USD", Direction: model.Buy, Found: true, MatchCount: 3, Amount: 100, ExecutedAt: t0},
		{Currency: "USD", Direction: model.Buy, Found: false, MatchCount: 0, Amount: 200, ExecutedAt: day(1)},
		{Currency: "USD", Direction: model.Sell, Found: true, MatchCount: 1, Amount: 50, ExecutedAt: t0},
		{Currency: "JPY", Direction: model.Sell, Found: false, MatchCount: 0, Amount: 70, ExecutedAt: t0},
	}
}

func TestAggregateByCurrency(t *testing.T) {
	rows := AggregateByCurrency(sampleResults())
	if len(rows) != 2 {
		t.Fatalf("expected 2 currency rows, got %d", len(rows))
	}
	// Sorted by currency: JPY first.
	jpy, usd := rows[0], rows[1]
	if jpy.Currency != "JPY" || usd.Currency != "USD" {
		t.Fatalf("unexpected row order: %s, %s", jpy.Currency, usd.Currency)
	}
	if usd.TotalTrades != 3 || usd.MatchedTrades != 2 || usd.TotalMatchCount != 4 {
		t.Errorf("USD rollup wrong: %+v", usd)
	}
	if usd.SuccessRate < 66.6 || usd.SuccessRate > 66.7 {
		t.Errorf("expected USD success rate ~66.67, got %.2f", usd.SuccessRate)
	}
	if jpy.SuccessRate != 0 {
		t.Errorf("expected JPY success rate 0, got %.2f", jpy.SuccessRate)
	}
}

func TestAggregateByCurrencyDirection(t *testing.T) {
	rows := AggregateByCurrencyDirection(sampleResults())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.SuccessRate < 0 || row.SuccessRate > 100 {
			t.Errorf("success rate out of bounds: %+v", row)
		}
	}
	// USD/BUY groups two trades with summed volume.
	var usdBuy model.AggregateRow
	for _, row := range rows {
		if row.Currency == "USD" && row.Direction == model.Buy {
			usdBuy = row
		}
	}
	if usdBuy.TotalTrades != 2 || usdBuy.TotalVolume != 300 {
		t.Errorf("USD/BUY rollup wrong: %+v", usdBuy)
	}
	if usdBuy.SuccessRate != 50 {
		t.Errorf("expected USD/BUY success rate 50, got %.2f", usdBuy.SuccessRate)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	if rows := AggregateByCurrency(nil); len(rows) != 0 {
		t.Errorf("expected no rows for empty input, got %d", len(rows))
	}
	if rows := AggregateByCurrencyDirection(nil); len(rows) != 0 {
		t.Errorf("expected no rows for empty input, got %d", len(rows))
	}
}

func TestComputeProfit(t *testing.T) {
	results := []model.MatchResult{
		{Currency: "USD", Direction: model.Buy, Found: true, Amount: 100, ExecutedAt: t0},
		{Currency: "USD", Direction: model.Buy, Found: true, Amount: 100, ExecutedAt: t0},  // duplicate key
		{Currency: "USD", Direction: model.Sell, Found: true, Amount: 40, ExecutedAt: t0},
		{Currency: "USD", Direction: model.Buy, Found: false, Amount: 999, ExecutedAt: t0}, // not found
		{Currency: "JPY", Direction: model.Sell, Found: true, Amount: 60, ExecutedAt: day(10)}, // past cutoff
	}

	sum := ComputeProfit(results, 2.0, t0, day(1), 2)
	if len(sum.Buy.Rows) != 1 {
		t.Fatalf("expected duplicate buy collapsed to 1 row, got %d", len(sum.Buy.Rows))
	}
	if sum.Buy.TotalVolume != 100 || sum.Buy.TotalProfit != 200 {
		t.Errorf("buy leg wrong: volume=%.1f profit=%.1f", sum.Buy.TotalVolume, sum.Buy.TotalProfit)
	}
	if sum.Sell.TotalVolume != 40 || sum.Sell.TotalProfit != 80 {
		t.Errorf("sell leg wrong: volume=%.1f profit=%.1f", sum.Sell.TotalVolume, sum.Sell.TotalProfit)
	}
}

func TestComputeProfit_WindowExtendsCutoff(t *testing.T) {
	results := []model.MatchResult{
		{Currency: "USD", Direction: model.Buy, Found: true, Amount: 10, ExecutedAt: day(3)},
	}
	// Period ends at day 1, but a 3-day window keeps day 3 inside.
	sum := ComputeProfit(results, 1.0, t0, day(1), 3)
	if sum.Buy.TotalVolume != 10 {
		t.Errorf("expected trade inside extended cutoff, got volume %.1f", sum.Buy.TotalVolume)
	}
	// Without the window it falls out.
	sum = ComputeProfit(results, 1.0, t0, day(1), 0)
	if sum.Buy.TotalVolume != 0 {
		t.Errorf("expected trade past cutoff excluded, got volume %.1f", sum.Buy.TotalVolume)
	}
}
