package exporter

import (
	"time"

	"RateScope/internal/model"
)

// AnalysisSnapshot is one analysis run's exportable result set.
type AnalysisSnapshot struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Window         int
	BuyAdjustment  float64
	SellAdjustment float64

	TotalTrades   int
	MatchedTrades int
	SuccessRate   float64

	ByCurrency  []model.AggregateRow
	ByDirection []model.AggregateRow
	Profit      model.ProfitSummary
}

// Exporter writes result tables to durable storage.
type Exporter interface {
	ExportAnalysis(snap *AnalysisSnapshot) error
	ExportSweep(rows []model.SweepRow) error
	Close() error
}

// NoopExporter is used when no export target is configured.
type NoopExporter struct{}

func NewNoopExporter() *NoopExporter { return &NoopExporter{} }

func (n *NoopExporter) ExportAnalysis(_ *AnalysisSnapshot) error { return nil }
func (n *NoopExporter) ExportSweep(_ []model.SweepRow) error     { return nil }
func (n *NoopExporter) Close() error                             { return nil }
