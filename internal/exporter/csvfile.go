package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"RateScope/internal/model"
)

// CSVExporter writes one timestamped CSV file per snapshot into an
// output directory.
type CSVExporter struct {
	Dir string
	now func() time.Time
}

func NewCSVExporter(dir string) (*CSVExporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &CSVExporter{Dir: dir, now: time.Now}, nil
}

func (e *CSVExporter) stamp() string {
	return e.now().Format("20060102_150405")
}

func (e *CSVExporter) ExportAnalysis(snap *AnalysisSnapshot) error {
	path := filepath.Join(e.Dir, "analysis_"+e.stamp()+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"currency", "direction", "total_trades", "matched_trades",
		"total_match_count", "success_rate", "total_volume", "total_profit",
	}); err != nil {
		return err
	}
	for _, row := range append(append([]model.AggregateRow{}, snap.ByCurrency...), snap.ByDirection...) {
		if err := w.Write([]string{
			row.Currency,
			string(row.Direction),
			strconv.Itoa(row.TotalTrades),
			strconv.Itoa(row.MatchedTrades),
			strconv.Itoa(row.TotalMatchCount),
			strconv.FormatFloat(row.SuccessRate, 'f', 2, 64),
			strconv.FormatFloat(row.TotalVolume, 'f', 2, 64),
			strconv.FormatFloat(row.TotalProfit, 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (e *CSVExporter) ExportSweep(rows []model.SweepRow) error {
	path := filepath.Join(e.Dir, "sweep_"+e.stamp()+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"window", "adjustment", "total_buy_volume", "total_buy_profit",
		"total_sell_volume", "total_sell_profit", "total_success_rate",
	}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write([]string{
			strconv.Itoa(row.Window),
			strconv.FormatFloat(row.Adjustment, 'f', 1, 64),
			strconv.FormatFloat(row.TotalBuyVolume, 'f', 2, 64),
			strconv.FormatFloat(row.TotalBuyProfit, 'f', 2, 64),
			strconv.FormatFloat(row.TotalSellVolume, 'f', 2, 64),
			strconv.FormatFloat(row.TotalSellProfit, 'f', 2, 64),
			strconv.FormatFloat(row.TotalSuccessRate, 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (e *CSVExporter) Close() error { return nil }
