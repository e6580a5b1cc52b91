package provider

import (
	"context"

	"fii-data/internal/model"
)

// QuoteProvider is the abstraction used by the pipeline when fetching price
// history. Implementations own their pacing and resource cleanup.
type QuoteProvider interface {
	GetName() string
	FetchAll(ctx context.Context, tickers []string) ([]model.Bar, Report)
	Close() error
}

// Failure records one ticker the fetch gave up on.
type Failure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// Report is the per-run fetch outcome: which tickers produced bars and which
// were skipped. Per-ticker failures never abort the fetch, so the report is
// the only place they survive beyond a log line.
type Report struct {
	Succeeded []string  `json:"succeeded"`
	Failed    []Failure `json:"failed"`
}

// BarsByTicker maps succeeded tickers to their bar counts. Filled by FetchAll.
type BarsByTicker map[string]int
