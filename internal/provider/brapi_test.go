package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = int64(86400)

// quoteBody renders the provider response for one ticker with n daily bars
// starting at the given epoch second.
func quoteBody(ticker string, start int64, n int) map[string]any {
	hist := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		hist[i] = map[string]any{
			"date":   start + int64(i)*day,
			"open":   100.0 + float64(i),
			"high":   101.5 + float64(i),
			"low":    99.0 + float64(i),
			"close":  100.5 + float64(i),
			"volume": 12000 + i,
		}
	}
	return map[string]any{
		"results": []map[string]any{
			{"symbol": ticker, "historicalDataPrice": hist},
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *BrapiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := NewBrapiProvider(srv.URL, "test-token")
	require.NoError(t, err)
	p.SetPace(0)
	return p
}

func TestFetchAllSuccess(t *testing.T) {
	const start = int64(1717027200) // 2024-05-30T00:00:00Z
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/ABCD11", r.URL.Path)
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		writeJSON(w, quoteBody("ABCD11", start, 5))
	})

	bars, report := p.FetchAll(context.Background(), []string{"ABCD11"})
	require.Len(t, bars, 5)
	assert.Equal(t, []string{"ABCD11"}, report.Succeeded)
	assert.Empty(t, report.Failed)

	assert.Equal(t, "ABCD11", bars[0].Ticker)
	assert.Equal(t, "2024-05-30", bars[0].Date)
	assert.Equal(t, "2024-06-03", bars[4].Date)
	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, int64(12000), bars[0].Volume)
}

func TestFetchAllPartialFailure(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote/ABCD11":
			writeJSON(w, quoteBody("ABCD11", 1717027200, 5))
		case "/quote/EFGH11":
			http.Error(w, `{"error":true,"message":"not found"}`, http.StatusNotFound)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	bars, report := p.FetchAll(context.Background(), []string{"ABCD11", "EFGH11"})
	require.Len(t, bars, 5)
	for _, b := range bars {
		assert.Equal(t, "ABCD11", b.Ticker)
	}
	assert.Equal(t, []string{"ABCD11"}, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "EFGH11", report.Failed[0].Ticker)
}

func TestFetchAllEveryTickerFails(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	bars, report := p.FetchAll(context.Background(), []string{"AAAA11", "BBBB11"})
	assert.Empty(t, bars, "all-fail is a valid, non-error outcome")
	assert.Empty(t, report.Succeeded)
	assert.Len(t, report.Failed, 2)
}

func TestFetchAllEmptyResults(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"results": []any{}})
	})

	bars, report := p.FetchAll(context.Background(), []string{"ZZZZ11"})
	assert.Empty(t, bars)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "ZZZZ11", report.Failed[0].Ticker)
}

func TestFetchAllKeepsDuplicateInput(t *testing.T) {
	var calls int
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, quoteBody("ABCD11", 1717027200, 2))
	})

	bars, report := p.FetchAll(context.Background(), []string{"ABCD11", "ABCD11"})
	assert.Equal(t, 2, calls, "dedup is the caller's responsibility")
	assert.Len(t, bars, 4)
	assert.Equal(t, []string{"ABCD11"}, report.Succeeded)
}

func TestFetchAllStringVolume(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[{"symbol":"ABCD11","historicalDataPrice":[
			{"date":1717027200,"open":10,"high":11,"low":9,"close":10.5,"volume":"1.5e4"}
		]}]}`)
	})

	bars, report := p.FetchAll(context.Background(), []string{"ABCD11"})
	require.Empty(t, report.Failed)
	require.Len(t, bars, 1)
	assert.Equal(t, int64(15000), bars[0].Volume)
}
