package engine

import (
	"context"
	"testing"
	"time"

	"RateScope/internal/model"
)

func sweepFixture() ([]model.Quote, []model.Trade) {
	quotes := []model.Quote{
		{Currency: "USD", BasePrice: 1299, ObservedAt: day(1)},
		{Currency: "USD", BasePrice: 1297, ObservedAt: day(2)},
		{Currency: "JPY", BasePrice: 910, ObservedAt: day(1)},
	}
	trades := []model.Trade{
		{Currency: "USD", Direction: model.Buy, Price: 1300, Amount: 100, ExecutedAt: t0},
		{Currency: "JPY", Direction: model.Sell, Price: 905, Amount: 20, ExecutedAt: t0},
	}
	return quotes, trades
}

func TestSweep_OneRowPerCell(t *testing.T) {
	quotes, trades := sweepFixture()
	rows, cells, err := Sweep(context.Background(), quotes, trades, SweepParams{
		PeriodStart:   t0,
		PeriodEnd:     day(1),
		MaxWindow:     3,
		MaxAdjustment: 2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 3×2 = 6 sweep rows, got %d", len(rows))
	}

	type cell struct {
		window int
		adj    float64
	}
	seen := map[cell]bool{}
	for _, row := range rows {
		seen[cell{row.Window, row.Adjustment}] = true
		if row.TotalSuccessRate < 0 || row.TotalSuccessRate > 100 {
			t.Errorf("success rate out of bounds: %+v", row)
		}
	}
	for w := 1; w <= 3; w++ {
		for a := 1.0; a <= 2.0; a++ {
			if !seen[cell{w, a}] {
				t.Errorf("missing sweep row for window=%d adjustment=%.1f", w, a)
			}
		}
	}

	for _, c := range cells {
		if c.TotalProfit != c.TotalVolume*c.Adjustment {
			t.Errorf("cell profit %.1f != volume %.1f × adjustment %.1f", c.TotalProfit, c.TotalVolume, c.Adjustment)
		}
	}
}

func TestSweep_ProfitScalesWithAdjustment(t *testing.T) {
	quotes, trades := sweepFixture()
	rows, _, err := Sweep(context.Background(), quotes, trades, SweepParams{
		PeriodStart:   t0,
		PeriodEnd:     day(1),
		MaxWindow:     2,
		MaxAdjustment: 2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// window=2: buy target 1300-1=1299 matches the day-1 quote at adj 1;
	// at adj 2 target 1298 only matches the day-2 quote.
	for _, row := range rows {
		if row.Window != 2 {
			continue
		}
		if row.TotalBuyVolume == 0 {
			t.Errorf("expected buy volume at window=2 adj=%.1f", row.Adjustment)
		}
		if row.TotalBuyProfit != row.TotalBuyVolume*row.Adjustment {
			t.Errorf("buy profit %.1f != volume × adjustment at %+v", row.TotalBuyProfit, row)
		}
	}
}

func TestSweep_Cancellation(t *testing.T) {
	quotes, trades := sweepFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Sweep(ctx, quotes, trades, SweepParams{
		PeriodStart:   t0,
		PeriodEnd:     day(1),
		MaxWindow:     5,
		MaxAdjustment: 5.0,
	})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestSweep_RejectsBadGrid(t *testing.T) {
	if _, _, err := Sweep(context.Background(), nil, nil, SweepParams{MaxWindow: 0, MaxAdjustment: 1}); err == nil {
		t.Error("expected error for zero max window")
	}
	if _, _, err := Sweep(context.Background(), nil, nil, SweepParams{MaxWindow: 1, MaxAdjustment: 0.5}); err == nil {
		t.Error("expected error for max adjustment below 1")
	}
}

func TestSweep_EmptyTradesYieldsZeroRates(t *testing.T) {
	quotes, _ := sweepFixture()
	rows, cells, err := Sweep(context.Background(), quotes, nil, SweepParams{
		PeriodStart:   t0,
		PeriodEnd:     day(1),
		MaxWindow:     1,
		MaxAdjustment: 1.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].TotalSuccessRate != 0 {
		t.Errorf("expected 0%% success rate with no trades, got %.2f", rows[0].TotalSuccessRate)
	}
	if len(cells) != 0 {
		t.Errorf("expected no cell aggregates, got %d", len(cells))
	}
}

func TestMatchDailyRange(t *testing.T) {
	bars := []model.DailyBar{
		{Currency: "USD", Date: t0.Add(-24 * time.Hour), High: 1300, Low: 1290, Close: 1295}, // before execution
		{Currency: "USD", Date: day(1), High: 1298, Low: 1292, Close: 1294},
		{Currency: "USD", Date: day(2), High: 1310, Low: 1301, Close: 1305}, // range misses buy target
	}
	trades := []model.Trade{
		{Currency: "USD", Direction: model.Buy, Price: 1300, Amount: 100, ExecutedAt: t0},
	}

	results, matched := MatchDailyRange(bars, trades, 5, 5)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	// Target 1295: covered by the day-1 bar (1292..1298) only.
	if results[0].MatchCount != 1 || !results[0].Found {
		t.Errorf("expected exactly the day-1 bar to match, got %+v", results[0])
	}
	if len(matched) != 1 || !matched[0].Date.Equal(day(1)) {
		t.Fatalf("unexpected matched bars: %+v", matched)
	}
}
