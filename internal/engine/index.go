package engine

import (
	"sort"
	"time"

	"RateScope/internal/model"
)

// quoteIndex partitions quotes by currency and sorts each partition by
// observation time, so a trade's window scan is a binary search plus a
// bounded walk instead of a full-table pass per trade.
type quoteIndex struct {
	byCurrency map[string][]model.Quote
}

// newQuoteIndex builds the index from quotes observed within
// [start, end], both ends inclusive.
func newQuoteIndex(quotes []model.Quote, start, end time.Time) *quoteIndex {
	ix := &quoteIndex{byCurrency: make(map[string][]model.Quote)}
	for _, q := range quotes {
		if q.ObservedAt.Before(start) || q.ObservedAt.After(end) {
			continue
		}
		ix.byCurrency[q.Currency] = append(ix.byCurrency[q.Currency], q)
	}
	for cur := range ix.byCurrency {
		qs := ix.byCurrency[cur]
		sort.Slice(qs, func(i, j int) bool { return qs[i].ObservedAt.Before(qs[j].ObservedAt) })
	}
	return ix
}

// between returns the currency's quotes with observedAt in [from, to],
// inclusive both ends. The returned slice aliases the index; callers
// must not mutate it.
func (ix *quoteIndex) between(currency string, from, to time.Time) []model.Quote {
	qs := ix.byCurrency[currency]
	if len(qs) == 0 || to.Before(from) {
		return nil
	}
	lo := sort.Search(len(qs), func(i int) bool { return !qs[i].ObservedAt.Before(from) })
	hi := sort.Search(len(qs), func(i int) bool { return qs[i].ObservedAt.After(to) })
	if lo >= hi {
		return nil
	}
	return qs[lo:hi]
}
