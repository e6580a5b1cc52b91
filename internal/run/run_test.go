package run

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fii-data/internal/model"
	"fii-data/internal/provider"
)

// docSource serves a canned document.
type docSource struct {
	doc string
	err error
}

func (s *docSource) Document(context.Context) (string, error) { return s.doc, s.err }
func (s *docSource) Close() error                             { return nil }

// fakeQuotes returns preset bars per ticker and fails the rest.
type fakeQuotes struct {
	bars  map[string][]model.Bar
	asked []string
}

func (q *fakeQuotes) GetName() string { return "fake" }
func (q *fakeQuotes) Close() error    { return nil }

func (q *fakeQuotes) FetchAll(_ context.Context, tickers []string) ([]model.Bar, provider.Report) {
	q.asked = append(q.asked, tickers...)
	var all []model.Bar
	var report provider.Report
	for _, t := range tickers {
		if bars, ok := q.bars[t]; ok {
			all = append(all, bars...)
			report.Succeeded = append(report.Succeeded, t)
		} else {
			report.Failed = append(report.Failed, provider.Failure{Ticker: t, Reason: "no data"})
		}
	}
	return all, report
}

// fakeStore records merge traffic.
type fakeStore struct {
	updates [][]model.Bar
	err     error
}

func (s *fakeStore) Update(_ context.Context, fresh []model.Bar) error {
	s.updates = append(s.updates, fresh)
	return s.err
}

// fakeSink records snapshots.
type fakeSink struct {
	snaps []model.Snapshot
	err   error
}

func (s *fakeSink) Name() string { return "fake" }

func (s *fakeSink) Publish(_ context.Context, snap model.Snapshot) error {
	s.snaps = append(s.snaps, snap)
	return s.err
}

// portfolioDoc renders a dashboard table with one <tr> per ticker.
func portfolioDoc(tickers ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><table><tbody>")
	for _, t := range tickers {
		b.WriteString("<tr><td></td>")
		cells := []string{
			t + "Ver relatórios", "Shoppings", "9,1%", "R$ 80,1203/04/2019",
			"R$ 85,20-▲", "R$ 95,00", "5,0%", "12,3%", "Comprar",
		}
		for _, c := range cells {
			b.WriteString("<td>" + c + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

func fiveBars(ticker string) []model.Bar {
	bars := make([]model.Bar, 5)
	for i := range bars {
		bars[i] = model.Bar{
			Ticker: ticker,
			Date:   time.Date(2026, 8, 24+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Open:   100, High: 101, Low: 99, Close: 100.5, Volume: 1000,
		}
	}
	return bars
}

func newPipeline(src *docSource, q *fakeQuotes, st *fakeStore, sink *fakeSink) *Pipeline {
	return &Pipeline{
		Source: src,
		Quotes: q,
		Store:  st,
		Sink:   sink,
		Now:    func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) },
	}
}

// Happy path: two holdings, one ticker succeeds with five bars, one fails,
// the run still merges the five bars and publishes both rows.
func TestRunPartialFetchStillPublishes(t *testing.T) {
	src := &docSource{doc: portfolioDoc("ABCD11", "EFGH11")}
	quotes := &fakeQuotes{bars: map[string][]model.Bar{"ABCD11": fiveBars("ABCD11")}}
	st := &fakeStore{}
	sink := &fakeSink{}

	err := newPipeline(src, quotes, st, sink).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ABCD11", "EFGH11"}, quotes.asked)
	require.Len(t, st.updates, 1)
	assert.Len(t, st.updates[0], 5)

	require.Len(t, sink.snaps, 1)
	snap := sink.snaps[0]
	require.Len(t, snap.Holdings, 2)
	assert.Equal(t, "ABCD11", snap.Holdings[0].Ticker)
	assert.Equal(t, "EFGH11", snap.Holdings[1].Ticker)
	assert.Equal(t, "R$ 85,20", snap.Holdings[0].CurrentPrice)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestRunZeroHoldingsCleanAbort(t *testing.T) {
	src := &docSource{doc: "<html><body><table><tbody></tbody></table></body></html>"}
	quotes := &fakeQuotes{}
	st := &fakeStore{}
	sink := &fakeSink{}

	err := newPipeline(src, quotes, st, sink).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, quotes.asked, "later stages never run")
	assert.Empty(t, st.updates)
	assert.Empty(t, sink.snaps)
}

func TestRunStructureFailureIsFatal(t *testing.T) {
	src := &docSource{doc: "<html><body><p>login expired</p></body></html>"}
	err := newPipeline(src, &fakeQuotes{}, &fakeStore{}, &fakeSink{}).Run(context.Background())
	require.Error(t, err)
}

func TestRunEmptyFetchSkipsStore(t *testing.T) {
	src := &docSource{doc: portfolioDoc("ABCD11")}
	quotes := &fakeQuotes{} // every ticker fails
	st := &fakeStore{}
	sink := &fakeSink{}

	err := newPipeline(src, quotes, st, sink).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, st.updates, "zero bars means zero storage calls")
	assert.Len(t, sink.snaps, 1, "publish still happens")
}

func TestRunStoreFailureStillPublishes(t *testing.T) {
	src := &docSource{doc: portfolioDoc("ABCD11")}
	quotes := &fakeQuotes{bars: map[string][]model.Bar{"ABCD11": fiveBars("ABCD11")}}
	st := &fakeStore{err: errors.New("disk full")}
	sink := &fakeSink{}

	err := newPipeline(src, quotes, st, sink).Run(context.Background())
	require.ErrorContains(t, err, "disk full")
	assert.Len(t, sink.snaps, 1, "publish is attempted before the fatal surfaces")
}

func TestRunPublishFailureIsSoft(t *testing.T) {
	src := &docSource{doc: portfolioDoc("ABCD11")}
	quotes := &fakeQuotes{bars: map[string][]model.Bar{"ABCD11": fiveBars("ABCD11")}}
	st := &fakeStore{}
	sink := &fakeSink{err: errors.New("sheet quota exceeded")}

	err := newPipeline(src, quotes, st, sink).Run(context.Background())
	require.NoError(t, err, "publish failure never fails the run")
	require.Len(t, st.updates, 1)
}

func TestRunSourceFailureIsFatal(t *testing.T) {
	src := &docSource{err: errors.New("browser crashed")}
	err := newPipeline(src, &fakeQuotes{}, &fakeStore{}, &fakeSink{}).Run(context.Background())
	require.ErrorContains(t, err, "browser crashed")
}
