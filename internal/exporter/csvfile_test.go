package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"RateScope/internal/model"
)

func TestCSVExporter_ExportSweep(t *testing.T) {
	dir := t.TempDir()
	e, err := NewCSVExporter(dir)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	e.now = func() time.Time { return time.Date(2024, 11, 4, 12, 0, 0, 0, time.UTC) }

	rows := []model.SweepRow{
		{Window: 1, Adjustment: 1, TotalBuyVolume: 100, TotalBuyProfit: 100, TotalSuccessRate: 50},
		{Window: 1, Adjustment: 2, TotalSellVolume: 20, TotalSellProfit: 40, TotalSuccessRate: 25},
	}
	if err := e.ExportSweep(rows); err != nil {
		t.Fatalf("export sweep: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "sweep_20241104_120000.csv"))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[1][0] != "1" || records[1][1] != "1.0" || records[1][2] != "100.00" {
		t.Errorf("unexpected first data row: %v", records[1])
	}
}

func TestCSVExporter_ExportAnalysis(t *testing.T) {
	dir := t.TempDir()
	e, err := NewCSVExporter(dir)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	e.now = func() time.Time { return time.Date(2024, 11, 4, 12, 0, 0, 0, time.UTC) }

	snap := &AnalysisSnapshot{
		ByCurrency: []model.AggregateRow{
			{Currency: "USD", TotalTrades: 2, MatchedTrades: 1, SuccessRate: 50},
		},
		ByDirection: []model.AggregateRow{
			{Currency: "USD", Direction: model.Buy, TotalTrades: 2, MatchedTrades: 1, SuccessRate: 50, TotalVolume: 300},
		},
	}
	if err := e.ExportAnalysis(snap); err != nil {
		t.Fatalf("export analysis: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "analysis_20241104_120000.csv"))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[2][1] != "BUY" || records[2][6] != "300.00" {
		t.Errorf("unexpected direction row: %v", records[2])
	}
}
