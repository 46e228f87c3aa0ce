// Package scheduler drives analysis runs: once from the CLI, or
// repeatedly on a cron schedule in watch mode.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"RateScope/internal/config"
	"RateScope/internal/engine"
	"RateScope/internal/exporter"
	"RateScope/internal/loader"
	"RateScope/internal/model"
	"RateScope/internal/session"

	"github.com/robfig/cron/v3"
)

// RunResult bundles everything one full run produces.
type RunResult struct {
	Snapshot *exporter.AnalysisSnapshot
	Matched  []model.MatchedQuote
	Sweep    []model.SweepRow
	Cells    []model.SweepCellRow
}

// RunOnce loads data, runs the matcher and aggregator for the configured
// parameters, optionally sweeps the whole grid, and exports the results.
// Accumulation of sweep cells into acc is the caller's; this function
// only appends when a sweep ran.
func RunOnce(ctx context.Context, src loader.Source, exp exporter.Exporter, cfg *config.Config, acc *session.Accumulator, withSweep bool) (*RunResult, error) {
	quotes, err := src.LoadQuotes()
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}
	trades, err := src.LoadTrades()
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	quotes, trades = loader.FilterCurrencies(quotes, trades, cfg.Data.Currencies)
	log.Printf("[INFO] loaded %d quotes, %d trades from %s", len(quotes), len(trades), src.Name())

	start, end, err := cfg.Period()
	if err != nil {
		return nil, err
	}
	start, end = derivePeriod(quotes, trades, start, end)

	p := engine.Params{
		PeriodStart:    start,
		PeriodEnd:      end,
		Window:         cfg.Analysis.Window,
		BuyAdjustment:  cfg.Analysis.BuyAdjustment,
		SellAdjustment: cfg.Analysis.SellAdjustment,
	}
	results, matched, err := engine.MatchTrades(quotes, trades, p)
	if err != nil {
		return nil, err
	}

	matchedTrades := 0
	for _, r := range results {
		if r.Found {
			matchedTrades++
		}
	}

	// Each side is priced with its own adjustment.
	buyProfit := engine.ComputeProfit(results, p.BuyAdjustment, start, end, p.Window)
	sellProfit := engine.ComputeProfit(results, p.SellAdjustment, start, end, p.Window)

	snap := &exporter.AnalysisSnapshot{
		PeriodStart:    start,
		PeriodEnd:      end,
		Window:         p.Window,
		BuyAdjustment:  p.BuyAdjustment,
		SellAdjustment: p.SellAdjustment,
		TotalTrades:    len(results),
		MatchedTrades:  matchedTrades,
		SuccessRate:    rate(matchedTrades, len(results)),
		ByCurrency:     engine.AggregateByCurrency(results),
		ByDirection:    engine.AggregateByCurrencyDirection(results),
		Profit: model.ProfitSummary{
			Buy:  buyProfit.Buy,
			Sell: sellProfit.Sell,
		},
	}
	if err := exp.ExportAnalysis(snap); err != nil {
		return nil, fmt.Errorf("export analysis: %w", err)
	}

	res := &RunResult{Snapshot: snap, Matched: matched}
	if withSweep {
		rows, cells, err := engine.Sweep(ctx, quotes, trades, engine.SweepParams{
			PeriodStart:   start,
			PeriodEnd:     end,
			MaxWindow:     cfg.Sweep.MaxWindow,
			MaxAdjustment: cfg.Sweep.MaxAdjustment,
		})
		if err != nil {
			return nil, err
		}
		if err := exp.ExportSweep(rows); err != nil {
			return nil, fmt.Errorf("export sweep: %w", err)
		}
		if acc != nil {
			acc.Add(cells...)
		}
		res.Sweep = rows
		res.Cells = cells
	}
	return res, nil
}

// derivePeriod fills missing period bounds from the data: the end is the
// latest timestamp seen, the start one week before the end.
func derivePeriod(quotes []model.Quote, trades []model.Trade, start, end time.Time) (time.Time, time.Time) {
	if end.IsZero() {
		for _, q := range quotes {
			if q.ObservedAt.After(end) {
				end = q.ObservedAt
			}
		}
		for _, t := range trades {
			if t.ExecutedAt.After(end) {
				end = t.ExecutedAt
			}
		}
	}
	if start.IsZero() {
		start = end.Add(-7 * 24 * time.Hour)
	}
	return start, end
}

func rate(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total) * 100
}

// Scheduler re-runs the analysis on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Source   loader.Source
	Exporter exporter.Exporter
	Cfg      *config.Config
	Acc      *session.Accumulator
	Ctx      context.Context
}

// NewScheduler creates a Scheduler around an existing accumulator. The
// accumulator's lifecycle (load, reset, persistence path) stays with the
// caller.
func NewScheduler(ctx context.Context, src loader.Source, exp exporter.Exporter, cfg *config.Config, acc *session.Accumulator) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Source:   src,
		Exporter: exp,
		Cfg:      cfg,
		Acc:      acc,
		Ctx:      ctx,
	}
}

// Register adds the scheduled analysis task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.task); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the analysis task immediately.
func (s *Scheduler) RunNow() { s.task() }

func (s *Scheduler) task() {
	log.Println("[INFO] running scheduled analysis")
	res, err := RunOnce(s.Ctx, s.Source, s.Exporter, s.Cfg, s.Acc, true)
	if err != nil {
		log.Printf("[ERROR] scheduled analysis: %v", err)
		return
	}
	log.Printf("[INFO] analysis done: %d trades, %.2f%% reached target, %d sweep rows (accumulated %d)",
		res.Snapshot.TotalTrades, res.Snapshot.SuccessRate, len(res.Sweep), s.Acc.Len())

	if s.Cfg.Watch.StateFile != "" {
		if err := s.Acc.Save(s.Cfg.Watch.StateFile); err != nil {
			log.Printf("[ERROR] save sweep state: %v", err)
		}
	}
}
