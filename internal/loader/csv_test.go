package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"RateScope/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCSVSource_LoadQuotes(t *testing.T) {
	quotes := `createdAt,data
2024-11-04 00:00:00,"{"result":[{"currencyCode":"USD","basePrice":1392.5},{"currencyCode":"JPY","basePrice":915.3}]}"
2024-11-04 00:10:00,"{"result":[{"currencyCode":"USD","basePrice":1393.0}]}"
`
	src := NewCSVSource(writeFile(t, "quotes.csv", quotes), "")
	got, err := src.LoadQuotes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(got))
	}
	if got[0].Currency != "USD" || got[0].BasePrice != 1392.5 {
		t.Errorf("unexpected first quote: %+v", got[0])
	}
	// UTC source time shifted +9h to KST.
	want := time.Date(2024, 11, 4, 9, 0, 0, 0, time.UTC)
	if !got[0].ObservedAt.Equal(want) {
		t.Errorf("expected KST-shifted time %s, got %s", want, got[0].ObservedAt)
	}
}

func TestCSVSource_LoadQuotes_BadRowFailsBatch(t *testing.T) {
	quotes := `2024-11-04 00:00:00,"{"result":[{"currencyCode":"USD","basePrice":-5}]}"
`
	src := NewCSVSource(writeFile(t, "quotes.csv", quotes), "")
	_, err := src.LoadQuotes()
	if !errors.Is(err, model.ErrInvalidQuote) {
		t.Fatalf("expected ErrInvalidQuote, got %v", err)
	}
}

func TestCSVSource_LoadTrades(t *testing.T) {
	trades := `currencyCode,currencyCode0,price,isBuyOrder,amount,executedAt
KRW,USD,1390.5,1,100,2024-11-04 00:00:00
JPY,KRW,910.2,0,10000,2024-11-04 01:00:00
`
	src := NewCSVSource("", writeFile(t, "trades.csv", trades))
	got, err := src.LoadTrades()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(got))
	}

	// KRW-base pair resolves to the counter currency.
	if got[0].Currency != "USD" || got[0].Direction != model.Buy || got[0].Amount != 100 {
		t.Errorf("unexpected first trade: %+v", got[0])
	}
	// JPY lot normalization: 10000 raw units become 100.
	if got[1].Currency != "JPY" || got[1].Amount != 100 {
		t.Errorf("expected JPY amount 100 after lot normalization, got %+v", got[1])
	}
	if got[1].Direction != model.Sell {
		t.Errorf("expected sell for isBuyOrder=0, got %s", got[1].Direction)
	}
}

func TestCSVSource_LoadTrades_MissingColumn(t *testing.T) {
	trades := `currencyCode,price,isBuyOrder,amount,executedAt
KRW,1390.5,1,100,2024-11-04 00:00:00
`
	src := NewCSVSource("", writeFile(t, "trades.csv", trades))
	_, err := src.LoadTrades()
	if !errors.Is(err, model.ErrInvalidTrade) {
		t.Fatalf("expected ErrInvalidTrade for missing column, got %v", err)
	}
}

func TestCSVSource_LoadTrades_NonPositiveAmount(t *testing.T) {
	trades := `currencyCode,currencyCode0,price,isBuyOrder,amount,executedAt
KRW,USD,1390.5,1,0,2024-11-04 00:00:00
`
	src := NewCSVSource("", writeFile(t, "trades.csv", trades))
	_, err := src.LoadTrades()
	if !errors.Is(err, model.ErrInvalidTrade) {
		t.Fatalf("expected ErrInvalidTrade for zero amount, got %v", err)
	}
}

func TestFilterCurrencies(t *testing.T) {
	quotes := []model.Quote{
		{Currency: "USD", BasePrice: 1, ObservedAt: time.Now()},
		{Currency: "EUR", BasePrice: 1, ObservedAt: time.Now()},
	}
	trades := []model.Trade{
		{Currency: "USD", Direction: model.Buy, Price: 1, Amount: 1, ExecutedAt: time.Now()},
		{Currency: "JPY", Direction: model.Buy, Price: 1, Amount: 1, ExecutedAt: time.Now()},
	}

	qs, ts := FilterCurrencies(quotes, trades, []string{"USD"})
	if len(qs) != 1 || len(ts) != 1 {
		t.Fatalf("expected 1 quote and 1 trade, got %d and %d", len(qs), len(ts))
	}

	qs, ts = FilterCurrencies(quotes, trades, nil)
	if len(qs) != 2 || len(ts) != 2 {
		t.Errorf("expected empty allow-list to keep everything")
	}
}

func TestUnquotePayload(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"{"result":[]}"`, `{"result":[]}`},
		{`{"result":[]}`, `{"result":[]}`},
		{`"{"result":[{"basePrice":1}]}"`, `{"result":[{"basePrice":1}]}`},
	}
	for _, tt := range tests {
		if got := unquotePayload(tt.in); got != tt.want {
			t.Errorf("unquotePayload(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
