package loader

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"RateScope/internal/model"
)

// kstOffset shifts source timestamps from UTC to KST.
const kstOffset = 9 * time.Hour

const timeLayout = "2006-01-02 15:04:05"

// CSVSource loads quotes and trades from the exported CSV dumps. The
// quote file is line-oriented: a timestamp, a comma, then a quoted JSON
// payload holding one rate observation per currency. The trade file is a
// regular CSV with a header row.
type CSVSource struct {
	QuotesPath string
	TradesPath string
}

func NewCSVSource(quotesPath, tradesPath string) *CSVSource {
	return &CSVSource{QuotesPath: quotesPath, TradesPath: tradesPath}
}

func (s *CSVSource) Name() string { return "csv" }

// quotePayload is the JSON document embedded in each quote line.
type quotePayload struct {
	Result []struct {
		CurrencyCode string  `json:"currencyCode"`
		BasePrice    float64 `json:"basePrice"`
	} `json:"result"`
}

// LoadQuotes parses the quote dump. Each line expands into one Quote per
// currency in its payload, timestamped at the observation time shifted
// to KST.
func (s *CSVSource) LoadQuotes() ([]model.Quote, error) {
	f, err := os.Open(s.QuotesPath)
	if err != nil {
		return nil, fmt.Errorf("open quotes: %w", err)
	}
	defer f.Close()

	var quotes []model.Quote
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "createdAt") {
			continue
		}

		ts, payload, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("%w: quotes line %d has no payload", model.ErrInvalidQuote, lineNo)
		}
		observedAt, err := time.Parse(timeLayout, strings.TrimSpace(ts))
		if err != nil {
			return nil, fmt.Errorf("%w: quotes line %d: bad timestamp %q", model.ErrInvalidQuote, lineNo, ts)
		}
		observedAt = observedAt.Add(kstOffset)

		var doc quotePayload
		if err := json.Unmarshal([]byte(unquotePayload(payload)), &doc); err != nil {
			return nil, fmt.Errorf("%w: quotes line %d: %v", model.ErrInvalidQuote, lineNo, err)
		}
		for _, r := range doc.Result {
			q := model.Quote{
				Currency:   r.CurrencyCode,
				BasePrice:  r.BasePrice,
				ObservedAt: observedAt,
			}
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("quotes line %d: %w", lineNo, err)
			}
			quotes = append(quotes, q)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read quotes: %w", err)
	}
	return quotes, nil
}

// unquotePayload strips the stray quoting the dump wraps around the JSON
// document. The payload is not valid CSV quoting, so this is manual.
func unquotePayload(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"{`) {
		s = s[1:]
	}
	if strings.HasSuffix(s, `}"`) || strings.HasSuffix(s, `]}"`) {
		s = s[:len(s)-1]
	}
	return s
}

// LoadTrades parses the trade CSV. Columns are located by header name,
// and each row goes through pair resolution, lot normalization and
// validation before it is accepted.
func (s *CSVSource) LoadTrades() ([]model.Trade, error) {
	f, err := os.Open(s.TradesPath)
	if err != nil {
		return nil, fmt.Errorf("open trades: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read trades header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"currencyCode", "currencyCode0", "price", "isBuyOrder", "amount", "executedAt"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: trades missing column %q", model.ErrInvalidTrade, required)
		}
	}

	var trades []model.Trade
	lineNo := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trades: %w", err)
		}
		lineNo++

		price, err := strconv.ParseFloat(rec[col["price"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: trades line %d: bad price %q", model.ErrInvalidTrade, lineNo, rec[col["price"]])
		}
		amount, err := strconv.ParseFloat(rec[col["amount"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: trades line %d: bad amount %q", model.ErrInvalidTrade, lineNo, rec[col["amount"]])
		}
		isBuy, err := strconv.Atoi(strings.TrimSpace(rec[col["isBuyOrder"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: trades line %d: bad isBuyOrder %q", model.ErrInvalidTrade, lineNo, rec[col["isBuyOrder"]])
		}
		executedAt, err := time.Parse(timeLayout, strings.TrimSpace(rec[col["executedAt"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: trades line %d: bad executedAt %q", model.ErrInvalidTrade, lineNo, rec[col["executedAt"]])
		}

		t, err := model.NewTrade(
			strings.TrimSpace(rec[col["currencyCode"]]),
			strings.TrimSpace(rec[col["currencyCode0"]]),
			isBuy, price, amount,
			executedAt.Add(kstOffset),
		)
		if err != nil {
			return nil, fmt.Errorf("trades line %d: %w", lineNo, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}
