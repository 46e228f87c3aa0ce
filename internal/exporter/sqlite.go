package exporter

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"RateScope/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteExporter persists analysis and sweep snapshots to a SQLite
// database.
type SQLiteExporter struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteExporter opens (or creates) the database and runs migrations.
func NewSQLiteExporter(dbPath string) (*SQLiteExporter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while an analysis run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	e := &SQLiteExporter{db: db}
	if err := e.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite exporter opened: %s", dbPath)
	return e, nil
}

func (e *SQLiteExporter) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			period_start    INTEGER,
			period_end      INTEGER,
			window          INTEGER,
			buy_adjustment  REAL,
			sell_adjustment REAL,
			total_trades    INTEGER,
			matched_trades  INTEGER,
			success_rate    REAL,
			buy_volume      REAL,
			buy_profit      REAL,
			sell_volume     REAL,
			sell_profit     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_ts ON analysis_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS analysis_rows (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id INTEGER NOT NULL,
			currency    TEXT,
			direction   TEXT,
			total_trades      INTEGER,
			matched_trades    INTEGER,
			total_match_count INTEGER,
			success_rate      REAL,
			total_volume      REAL,
			total_profit      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_rows_snap ON analysis_rows(snapshot_id)`,

		`CREATE TABLE IF NOT EXISTS sweep_rows (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			window             INTEGER,
			adjustment         REAL,
			total_buy_volume   REAL,
			total_buy_profit   REAL,
			total_sell_volume  REAL,
			total_sell_profit  REAL,
			total_success_rate REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sweep_ts ON sweep_rows(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := e.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (e *SQLiteExporter) ExportAnalysis(snap *AnalysisSnapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.db.Exec(`INSERT INTO analysis_snapshots
		(timestamp, period_start, period_end, window, buy_adjustment, sell_adjustment,
		 total_trades, matched_trades, success_rate,
		 buy_volume, buy_profit, sell_volume, sell_profit)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.PeriodStart.Unix(), snap.PeriodEnd.Unix(),
		snap.Window, snap.BuyAdjustment, snap.SellAdjustment,
		snap.TotalTrades, snap.MatchedTrades, snap.SuccessRate,
		snap.Profit.Buy.TotalVolume, snap.Profit.Buy.TotalProfit,
		snap.Profit.Sell.TotalVolume, snap.Profit.Sell.TotalProfit,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	snapID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot id: %w", err)
	}

	for _, row := range append(append([]model.AggregateRow{}, snap.ByCurrency...), snap.ByDirection...) {
		if _, err := e.db.Exec(`INSERT INTO analysis_rows
			(snapshot_id, currency, direction, total_trades, matched_trades,
			 total_match_count, success_rate, total_volume, total_profit)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			snapID, row.Currency, string(row.Direction),
			row.TotalTrades, row.MatchedTrades, row.TotalMatchCount,
			row.SuccessRate, row.TotalVolume, row.TotalProfit,
		); err != nil {
			return fmt.Errorf("insert analysis row: %w", err)
		}
	}
	return nil
}

func (e *SQLiteExporter) ExportSweep(rows []model.SweepRow) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now().Unix()
	for _, row := range rows {
		if _, err := e.db.Exec(`INSERT INTO sweep_rows
			(timestamp, window, adjustment, total_buy_volume, total_buy_profit,
			 total_sell_volume, total_sell_profit, total_success_rate)
			VALUES (?,?,?,?,?,?,?,?)`,
			now, row.Window, row.Adjustment,
			row.TotalBuyVolume, row.TotalBuyProfit,
			row.TotalSellVolume, row.TotalSellProfit,
			row.TotalSuccessRate,
		); err != nil {
			return fmt.Errorf("insert sweep row: %w", err)
		}
	}
	return nil
}

func (e *SQLiteExporter) Close() error {
	log.Println("[INFO] closing sqlite exporter")
	return e.db.Close()
}
