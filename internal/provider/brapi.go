package provider

import (
	"context"
	"time"

	"fii-data/internal/model"
	"fii-data/internal/provider/brapi"
)

// BrapiProvider is a QuoteProvider implementation backed by the brapi API.
// It embeds *brapi.Client to expose fetch capabilities with minimal boilerplate.
type BrapiProvider struct {
	*brapi.Client
}

// NewBrapiProvider creates a new brapi-backed QuoteProvider.
func NewBrapiProvider(baseURL, token string) (*BrapiProvider, error) {
	client, err := brapi.NewClient(baseURL, token)
	if err != nil {
		return nil, err
	}
	return &BrapiProvider{
		Client: client,
	}, nil
}

// GetName returns provider name
func (p *BrapiProvider) GetName() string {
	return "Brapi"
}

// SetPace overrides the inter-request delay (tests use 0).
func (p *BrapiProvider) SetPace(d time.Duration) {
	if p.Client != nil {
		p.Client.Pace = d
	}
}

// FetchAll fetches the recent daily window for every ticker, as given,
// duplicates included. Each ticker is independent: a failed request or an
// unrecognized ticker is logged, recorded in the report and skipped. The
// pacing delay runs after every request regardless of its outcome. All
// tickers failing is a valid terminal outcome: empty bars, full report.
func (p *BrapiProvider) FetchAll(ctx context.Context, tickers []string) ([]model.Bar, Report) {
	log := p.Logger()
	var all []model.Bar
	var report Report
	counts := make(BarsByTicker)

	for _, ticker := range tickers {
		hist, err := p.DailyHistory(ctx, ticker)
		if err != nil {
			log.Error("fetch fail", "ticker", ticker, "reason", err.Error())
			report.Failed = append(report.Failed, Failure{Ticker: ticker, Reason: err.Error()})
		} else {
			for _, d := range hist {
				all = append(all, d.ToBar(ticker))
			}
			counts[ticker] += len(hist)
			report.Succeeded = appendUnique(report.Succeeded, ticker)
			log.Info("fetch ok", "ticker", ticker, "bars", len(hist))
		}

		// Provider rate-limit courtesy, unconditional: runs even after the
		// last ticker and after failures.
		if p.Pace > 0 {
			time.Sleep(p.Pace)
		}
	}

	log.Info("fetch summary", "tickers", len(tickers), "success", len(report.Succeeded), "failed", len(report.Failed), "bars", len(all))
	for _, t := range report.Succeeded {
		log.Debug("fetch summary ticker", "ticker", t, "bars", counts[t])
	}
	return all, report
}

func appendUnique(list []string, ticker string) []string {
	for _, t := range list {
		if t == ticker {
			return list
		}
	}
	return append(list, ticker)
}
