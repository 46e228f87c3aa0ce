package model

import (
	"errors"
	"fmt"
	"time"
)

// Direction indicates which side of the order book a trade sat on.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Typed validation errors for the ingestion boundary. A single bad row
// fails the whole batch; callers get the first offending row wrapped in
// one of these sentinels.
var (
	ErrInvalidQuote = errors.New("invalid quote")
	ErrInvalidTrade = errors.New("invalid trade")
)

// Trade is a single executed order. Currency is the resolved non-KRW leg
// and Amount is already lot-normalized; use NewTrade to build one from
// raw row values.
type Trade struct {
	Currency   string
	Direction  Direction
	Price      float64
	Amount     float64
	ExecutedAt time.Time
}

// ResolveCurrency picks the non-KRW leg of a currency pair: when the
// quoted pair's base currency is KRW the counter code identifies the
// trade, otherwise the base code does.
func ResolveCurrency(currencyCode, currencyCode0 string) string {
	if currencyCode == "KRW" {
		return currencyCode0
	}
	return currencyCode
}

// NormalizeAmount applies currency-specific lot sizing. JPY trades are
// quoted in units of 100, so the raw amount is integer-divided by 100.
// Other currencies pass through unchanged.
func NormalizeAmount(currency string, amount float64) float64 {
	if currency == "JPY" {
		return float64(int64(amount) / 100)
	}
	return amount
}

// NewTrade resolves the pair, normalizes the amount and validates the
// result. isBuyOrder follows the source convention: 1 means buy,
// anything else means sell.
func NewTrade(currencyCode, currencyCode0 string, isBuyOrder int, price, amount float64, executedAt time.Time) (Trade, error) {
	dir := Sell
	if isBuyOrder == 1 {
		dir = Buy
	}
	t := Trade{
		Currency:   ResolveCurrency(currencyCode, currencyCode0),
		Direction:  dir,
		Price:      price,
		Amount:     NormalizeAmount(ResolveCurrency(currencyCode, currencyCode0), amount),
		ExecutedAt: executedAt,
	}
	if err := t.Validate(); err != nil {
		return Trade{}, err
	}
	return t, nil
}

// Validate checks the Trade invariants after normalization.
func (t Trade) Validate() error {
	if t.Currency == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidTrade)
	}
	if t.Direction != Buy && t.Direction != Sell {
		return fmt.Errorf("%w: unknown direction %q (%s)", ErrInvalidTrade, t.Direction, t.Currency)
	}
	if t.Price <= 0 {
		return fmt.Errorf("%w: price %.4f must be positive (%s @ %s)",
			ErrInvalidTrade, t.Price, t.Currency, t.ExecutedAt.Format(time.DateTime))
	}
	if t.Amount <= 0 {
		return fmt.Errorf("%w: amount %.4f must be positive after normalization (%s @ %s)",
			ErrInvalidTrade, t.Amount, t.Currency, t.ExecutedAt.Format(time.DateTime))
	}
	if t.ExecutedAt.IsZero() {
		return fmt.Errorf("%w: missing execution time (%s)", ErrInvalidTrade, t.Currency)
	}
	return nil
}

// Key returns the natural dedup key. Trades carry no explicit id, so
// (currency, executedAt, amount) identifies one across repeated runs.
func (t Trade) Key() TradeKey {
	return TradeKey{Currency: t.Currency, ExecutedAt: t.ExecutedAt.UnixNano(), Amount: t.Amount}
}

// TradeKey is the comparable natural key used for deduplication.
type TradeKey struct {
	Currency   string
	ExecutedAt int64
	Amount     float64
}
