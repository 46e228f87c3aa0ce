package engine

import (
	"context"
	"fmt"
	"time"

	"RateScope/internal/model"
)

// SweepParams spans the parameter grid: windows 1..MaxWindow (days) by
// adjustments 1.0, 2.0, ... MaxAdjustment, the same adjustment applied
// to both sides.
type SweepParams struct {
	PeriodStart   time.Time
	PeriodEnd     time.Time
	MaxWindow     int
	MaxAdjustment float64
}

// Sweep evaluates the matcher and aggregator over every (window,
// adjustment) cell. Each requested cell produces exactly one SweepRow;
// per-currency/direction aggregates are returned alongside, tagged with
// their cell, for accumulation and heatmap pivoting by the caller.
//
// Cells are independent of each other, and the context is checked
// between cells so a long sweep can be aborted early.
func Sweep(ctx context.Context, quotes []model.Quote, trades []model.Trade, p SweepParams) ([]model.SweepRow, []model.SweepCellRow, error) {
	if p.MaxWindow < 1 {
		return nil, nil, fmt.Errorf("sweep: max window %d must be at least 1", p.MaxWindow)
	}
	if p.MaxAdjustment < 1 {
		return nil, nil, fmt.Errorf("sweep: max adjustment %.2f must be at least 1", p.MaxAdjustment)
	}

	var rows []model.SweepRow
	var cells []model.SweepCellRow
	for window := 1; window <= p.MaxWindow; window++ {
		for adj := 1.0; adj <= p.MaxAdjustment; adj++ {
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("sweep aborted at window=%d adjustment=%.1f: %w", window, adj, err)
			}

			results, _, err := MatchTrades(quotes, trades, Params{
				PeriodStart:    p.PeriodStart,
				PeriodEnd:      p.PeriodEnd,
				Window:         window,
				BuyAdjustment:  adj,
				SellAdjustment: adj,
			})
			if err != nil {
				return nil, nil, err
			}
			results = Dedup(results)

			// Cell-level profit column: volume scaled by the adjustment
			// alone, deliberately independent of the window.
			byDir := AggregateByCurrencyDirection(results)
			for i := range byDir {
				byDir[i].TotalProfit = byDir[i].TotalVolume * adj
				cells = append(cells, model.SweepCellRow{
					Window:       window,
					Adjustment:   adj,
					AggregateRow: byDir[i],
				})
			}

			profit := ComputeProfit(results, adj, p.PeriodStart, p.PeriodEnd, window)

			matched := 0
			for _, r := range results {
				if r.Found {
					matched++
				}
			}
			rows = append(rows, model.SweepRow{
				Window:           window,
				Adjustment:       adj,
				TotalBuyVolume:   profit.Buy.TotalVolume,
				TotalBuyProfit:   profit.Buy.TotalProfit,
				TotalSellVolume:  profit.Sell.TotalVolume,
				TotalSellProfit:  profit.Sell.TotalProfit,
				TotalSuccessRate: successRate(matched, len(results)),
			})
		}
	}
	return rows, cells, nil
}
