package loader

import (
	"database/sql"
	"fmt"
	"time"

	"RateScope/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteSource loads history from a SQLite database with the schema
//
//	quotes(currency_code TEXT, base_price REAL, observed_at INTEGER)
//	trades(currency_code TEXT, currency_code0 TEXT, price REAL,
//	       is_buy_order INTEGER, amount REAL, executed_at INTEGER)
//
// Timestamps are unix seconds, already timezone-normalized.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the database read-only-ish; the loader never
// writes.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite source: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Name() string { return "sqlite" }

func (s *SQLiteSource) Close() error { return s.db.Close() }

func (s *SQLiteSource) LoadQuotes() ([]model.Quote, error) {
	rows, err := s.db.Query(`SELECT currency_code, base_price, observed_at FROM quotes ORDER BY observed_at`)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []model.Quote
	for rows.Next() {
		var currency string
		var price float64
		var ts int64
		if err := rows.Scan(&currency, &price, &ts); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		q := model.Quote{Currency: currency, BasePrice: price, ObservedAt: time.Unix(ts, 0).UTC()}
		if err := q.Validate(); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

func (s *SQLiteSource) LoadTrades() ([]model.Trade, error) {
	rows, err := s.db.Query(`SELECT currency_code, currency_code0, price, is_buy_order, amount, executed_at
		FROM trades ORDER BY executed_at`)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var code, code0 string
		var price, amount float64
		var isBuy int
		var ts int64
		if err := rows.Scan(&code, &code0, &price, &isBuy, &amount, &ts); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t, err := model.NewTrade(code, code0, isBuy, price, amount, time.Unix(ts, 0).UTC())
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return trades, nil
}
