package model

import "time"

// DailyBar is one daily OHLC candle for a currency's KRW rate, used by
// the daily-range matching variant.
type DailyBar struct {
	Currency string
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
}

// MatchedBar records a daily bar whose low..high range covered a trade's
// target price.
type MatchedBar struct {
	Currency        string
	Direction       Direction
	TradePrice      float64
	High            float64
	Low             float64
	Close           float64
	Date            time.Time
	TradeExecutedAt time.Time
}
