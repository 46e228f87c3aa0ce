// Package session carries sweep results across repeated analysis runs.
// Accumulation is an explicit value owned by the caller, not hidden
// process-wide state; the watch daemon threads one Accumulator through
// its runs and persists it between them.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"RateScope/internal/model"
)

// Accumulator collects per-cell sweep aggregates, dropping exact
// duplicate rows on merge.
type Accumulator struct {
	rows []model.SweepCellRow
	seen map[string]struct{}
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{seen: make(map[string]struct{})}
}

// Add merges rows, skipping any row identical to one already held.
func (a *Accumulator) Add(rows ...model.SweepCellRow) {
	for _, row := range rows {
		k := rowKey(row)
		if _, dup := a.seen[k]; dup {
			continue
		}
		a.seen[k] = struct{}{}
		a.rows = append(a.rows, row)
	}
}

// Rows returns a copy of the accumulated rows in insertion order.
func (a *Accumulator) Rows() []model.SweepCellRow {
	out := make([]model.SweepCellRow, len(a.rows))
	copy(out, a.rows)
	return out
}

// Len reports the number of accumulated rows.
func (a *Accumulator) Len() int { return len(a.rows) }

// Reset drops everything.
func (a *Accumulator) Reset() {
	a.rows = nil
	a.seen = make(map[string]struct{})
}

func rowKey(row model.SweepCellRow) string {
	return fmt.Sprintf("%d|%.4f|%s|%s|%d|%d|%d|%.4f|%.4f",
		row.Window, row.Adjustment, row.Currency, row.Direction,
		row.TotalTrades, row.MatchedTrades, row.TotalMatchCount,
		row.TotalVolume, row.TotalProfit)
}

// Load reads an accumulator from a JSON file. A missing file yields an
// empty accumulator, not an error.
func Load(path string) (*Accumulator, error) {
	a := NewAccumulator()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return a, nil
		}
		return nil, fmt.Errorf("read session state: %w", err)
	}
	var rows []model.SweepCellRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse session state: %w", err)
	}
	a.Add(rows...)
	return a, nil
}

// Save writes the accumulated rows to a JSON file, creating the parent
// directory if needed.
func (a *Accumulator) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(a.rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
