// Package brapi fetches daily price history from the brapi quote endpoint.
package brapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// One recent month of daily bars per ticker.
	historyRange    = "1mo"
	historyInterval = "1d"

	requestTimeout = 30 * time.Second

	// DefaultPace is the courtesy delay between consecutive ticker requests.
	DefaultPace = 1 * time.Second
)

// Client talks to the brapi REST API.
type Client struct {
	http  *resty.Client
	token string
	Pace  time.Duration // delay after every ticker request, success or not
	Log   *slog.Logger  // when nil, slog.Default
}

// NewClient creates a Client for the given base URL and access token.
func NewClient(baseURL, token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("brapi: BRAPI_TOKEN not set")
	}
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout)
	return &Client{
		http:  http,
		token: token,
		Pace:  DefaultPace,
	}, nil
}

// Logger returns the configured logger, defaulting to slog.Default.
func (c *Client) Logger() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

// Close closes connections
func (c *Client) Close() error {
	return nil
}

// DailyHistory fetches the recent daily window for one ticker.
// Any non-2xx status, transport error or missing historical list is returned
// as an error; the caller decides whether that kills the run.
func (c *Client) DailyHistory(ctx context.Context, ticker string) ([]DailyRaw, error) {
	var body QuoteResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"range":    historyRange,
			"interval": historyInterval,
			"token":    c.token,
		}).
		SetResult(&body).
		Get("/quote/" + ticker)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("API status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(body.Results) == 0 {
		return nil, fmt.Errorf("ticker not found or empty results")
	}
	hist := body.Results[0].HistoricalDataPrice
	if len(hist) == 0 {
		return nil, fmt.Errorf("no historical data")
	}
	return hist, nil
}
