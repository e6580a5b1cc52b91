// Package run sequences one pass of the extract → fetch → merge → publish
// pipeline, applying the fatal-vs-soft policy per stage.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fii-data/internal/model"
	"fii-data/internal/portfolio"
	"fii-data/internal/provider"
	"fii-data/internal/publish"
	"fii-data/internal/session"
)

// BarStore merges freshly fetched bars into the persisted dataset.
type BarStore interface {
	Update(ctx context.Context, fresh []model.Bar) error
}

// Pipeline wires one run. All stages are strictly sequential.
type Pipeline struct {
	Source    session.DocumentSource
	Quotes    provider.QuoteProvider
	Store     BarStore
	Sink      publish.Sink
	ReportDir string       // when set, fetch report JSON lands here
	Log       *slog.Logger // when nil, slog.Default
	Now       func() time.Time
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Run executes one pipeline pass. Policy per stage:
//   - extraction failure is fatal; zero holdings is a clean abort
//   - per-ticker fetch failures are already absorbed by the provider; zero
//     bars skips the merge stage entirely (no storage round trip)
//   - a merge failure is fatal, but publish is still attempted first
//   - a publish failure is logged and never fails the run
//
// Session teardown is not Run's job: the owner of Source closes it exactly
// once whatever happens here.
func (p *Pipeline) Run(ctx context.Context) error {
	log := p.logger()

	doc, err := p.Source.Document(ctx)
	if err != nil {
		return fmt.Errorf("run: obtain portfolio document: %w", err)
	}

	holdings, err := portfolio.Extract(doc)
	if err != nil {
		return fmt.Errorf("run: extract portfolio: %w", err)
	}
	if len(holdings) == 0 {
		log.Info("no holdings extracted, nothing to do")
		return nil
	}
	log.Info("extract ok", "holdings", len(holdings))

	snap := model.Snapshot{Holdings: holdings}
	bars, report := p.Quotes.FetchAll(ctx, snap.Tickers())
	if len(report.Failed) > 0 {
		log.Warn("fetch incomplete", "failed", len(report.Failed), "reasons", joinFailedReasons(report.Failed))
	}
	if p.ReportDir != "" {
		if err := writeFetchReport(p.ReportDir, report); err != nil {
			log.Warn("could not write fetch report", "error", err)
		}
	}

	var storeErr error
	if len(bars) == 0 {
		log.Info("no bars fetched, dataset untouched")
	} else if storeErr = p.Store.Update(ctx, bars); storeErr != nil {
		log.Error("merge failed", "error", storeErr)
	}

	snap.UpdatedAt = p.now()
	if err := p.Sink.Publish(ctx, snap); err != nil {
		log.Error("publish failed", "sink", p.Sink.Name(), "error", err)
	} else {
		log.Info("publish ok", "sink", p.Sink.Name(), "holdings", len(snap.Holdings), "at", snap.UpdatedAt.Format("02/01/2006 15:04:05"))
	}

	if storeErr != nil {
		return fmt.Errorf("run: update dataset: %w", storeErr)
	}
	return nil
}
