package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RateScope/internal/config"
	"RateScope/internal/engine"
	"RateScope/internal/exporter"
	"RateScope/internal/loader"
	"RateScope/internal/model"
	"RateScope/internal/report"
	"RateScope/internal/scheduler"
	"RateScope/internal/session"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := flag.String("config", "configs/config.yaml", "path to config file")
	withSweep := flag.Bool("sweep", false, "run the full (window, adjustment) parameter sweep")
	watch := flag.Bool("watch", false, "keep running and re-analyze on the configured cron schedule")
	showMatches := flag.Int("matches", 0, "print up to N matched quotes")
	daily := flag.Bool("daily", false, "match against Yahoo Finance daily candles instead of tick quotes")
	flag.Parse()

	log.Println("[INFO] RateScope starting...")

	path := *cfgPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init source
	var src loader.Source
	if cfg.Data.SQLitePath != "" {
		s, err := loader.NewSQLiteSource(cfg.Data.SQLitePath)
		if err != nil {
			log.Fatalf("[FATAL] init sqlite source: %v", err)
		}
		defer s.Close()
		src = s
	} else {
		src = loader.NewCSVSource(cfg.Data.QuotesCSV, cfg.Data.TradesCSV)
	}
	log.Printf("[INFO] data source: %s", src.Name())

	// Init exporter
	var exp exporter.Exporter
	switch {
	case cfg.Export.SQLitePath != "":
		se, err := exporter.NewSQLiteExporter(cfg.Export.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite exporter failed, using noop: %v", err)
			exp = exporter.NewNoopExporter()
		} else {
			exp = se
			defer se.Close()
		}
	case cfg.Export.CSVDir != "":
		ce, err := exporter.NewCSVExporter(cfg.Export.CSVDir)
		if err != nil {
			log.Fatalf("[FATAL] init csv exporter: %v", err)
		}
		exp = ce
	default:
		exp = exporter.NewNoopExporter()
	}

	if *daily {
		if err := runDailyRange(cfg, src); err != nil {
			log.Fatalf("[FATAL] daily-range analysis: %v", err)
		}
		return
	}

	// Cross-run sweep accumulator, persisted between watch runs.
	acc, err := session.Load(cfg.Watch.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] load sweep state: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res, err := scheduler.RunOnce(ctx, src, exp, cfg, acc, *withSweep)
	if err != nil {
		log.Fatalf("[FATAL] analysis: %v", err)
	}
	fmt.Println(report.FormatAnalysis(res.Snapshot))
	if *showMatches > 0 {
		fmt.Println(report.FormatMatchedQuotes(res.Matched, *showMatches))
	}
	if *withSweep {
		fmt.Println(report.FormatSweep(res.Sweep))
		if cfg.Watch.StateFile != "" {
			if err := acc.Save(cfg.Watch.StateFile); err != nil {
				log.Printf("[ERROR] save sweep state: %v", err)
			}
		}
	}

	if !*watch {
		return
	}

	sched := scheduler.NewScheduler(ctx, src, exp, cfg, acc)
	if err := sched.Register(cfg.Watch.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Println("[INFO] RateScope is watching. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] RateScope stopped")
}

// runDailyRange matches trades against daily OHLC candles from Yahoo
// Finance: a target counts as reached on any later bar whose low..high
// range covered it.
func runDailyRange(cfg *config.Config, src loader.Source) error {
	trades, err := src.LoadTrades()
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}
	_, trades = loader.FilterCurrencies(nil, trades, cfg.Data.Currencies)

	yf := loader.NewYahooFetcher(cfg.Proxy)
	var bars []model.DailyBar
	for _, cur := range cfg.Data.Currencies {
		bs, err := yf.FetchDailyBars(cur, 365)
		if err != nil {
			log.Printf("[WARN] fetch %s bars: %v", cur, err)
			continue
		}
		bars = append(bars, bs...)
	}
	log.Printf("[INFO] loaded %d daily bars for %d currencies", len(bars), len(cfg.Data.Currencies))

	results, _ := engine.MatchDailyRange(bars, trades, cfg.Analysis.BuyAdjustment, cfg.Analysis.SellAdjustment)
	matched := 0
	for _, r := range results {
		if r.Found {
			matched++
		}
	}
	rate := 0.0
	if len(results) > 0 {
		rate = float64(matched) / float64(len(results)) * 100
	}
	fmt.Printf("Daily-range analysis: %d trades, %d reached target (%.2f%%)\n\n", len(results), matched, rate)

	for _, row := range engine.AggregateByCurrencyDirection(results) {
		fmt.Printf("  %-6s %-5s trades %4d reached %4d rate %6.2f%%\n",
			row.Currency, row.Direction, row.TotalTrades, row.MatchedTrades, row.SuccessRate)
	}
	return nil
}
