// Package loader ingests quote and trade history into the typed records
// the engine consumes. Every source validates rows at this boundary; a
// single malformed row fails the whole load with a typed error.
package loader

import (
	"RateScope/internal/model"
)

// Source supplies normalized quote and trade history.
type Source interface {
	LoadQuotes() ([]model.Quote, error)
	LoadTrades() ([]model.Trade, error)
	Name() string
}

// MockSource returns fixed in-memory data for development and testing.
type MockSource struct {
	Quotes []model.Quote
	Trades []model.Trade
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) LoadQuotes() ([]model.Quote, error) { return m.Quotes, nil }

func (m *MockSource) LoadTrades() ([]model.Trade, error) { return m.Trades, nil }

// FilterCurrencies keeps only quotes and trades whose currency is in the
// allow-list. An empty list keeps everything.
func FilterCurrencies(quotes []model.Quote, trades []model.Trade, currencies []string) ([]model.Quote, []model.Trade) {
	if len(currencies) == 0 {
		return quotes, trades
	}
	allowed := make(map[string]struct{}, len(currencies))
	for _, c := range currencies {
		allowed[c] = struct{}{}
	}

	var qs []model.Quote
	for _, q := range quotes {
		if _, ok := allowed[q.Currency]; ok {
			qs = append(qs, q)
		}
	}
	var ts []model.Trade
	for _, t := range trades {
		if _, ok := allowed[t.Currency]; ok {
			ts = append(ts, t)
		}
	}
	return qs, ts
}
