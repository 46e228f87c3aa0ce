package model

import (
	"fmt"
	"time"
)

// Quote is a single observed exchange-rate tick.
type Quote struct {
	Currency   string
	BasePrice  float64
	ObservedAt time.Time
}

// Validate checks the Quote invariants. Rows that fail here must never
// reach the matching engine.
func (q Quote) Validate() error {
	if q.Currency == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidQuote)
	}
	if q.BasePrice <= 0 {
		return fmt.Errorf("%w: base price %.4f must be positive (%s @ %s)",
			ErrInvalidQuote, q.BasePrice, q.Currency, q.ObservedAt.Format(time.DateTime))
	}
	if q.ObservedAt.IsZero() {
		return fmt.Errorf("%w: missing observation time (%s)", ErrInvalidQuote, q.Currency)
	}
	return nil
}
