// Package publish pushes the portfolio snapshot to a spreadsheet sink.
package publish

import (
	"context"

	"fii-data/internal/model"
)

// Column labels, in table order, as the dashboard names them.
var header = []string{
	"ticker", "setor/tipo", "dy esperado", "início",
	"preço de entrada ajustado", "preço atual", "preço teto",
	"alocação", "rentabilidade", "viés",
}

// Timestamp cell block: header at L1, value at L2, written independently of
// the table so it never clears the rest of the sheet.
const (
	stampHeaderCell = "L1"
	stampValueCell  = "L2"
	stampHeader     = "ultima_atualizacao"
	stampLayout     = "02/01/2006 15:04:05"
)

// Sink consumes the final portfolio table plus a run timestamp.
// Publish failures are soft: the orchestrator logs them and moves on.
type Sink interface {
	Publish(ctx context.Context, snap model.Snapshot) error
	Name() string
}

// Discard is the PUBLISH_SINK=none sink: extraction and storage still run,
// nothing is published.
type Discard struct{}

func (Discard) Name() string { return "none" }

func (Discard) Publish(context.Context, model.Snapshot) error { return nil }

// tableRows renders header plus one row per holding, sheet-origin order.
func tableRows(holdings []model.Holding) [][]any {
	rows := make([][]any, 0, len(holdings)+1)
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	rows = append(rows, hdr)
	for _, h := range holdings {
		rows = append(rows, []any{
			h.Ticker, h.Sector, h.ExpectedYield, h.InceptionDate,
			h.AdjustedEntryPrice, h.CurrentPrice, h.CeilingPrice,
			h.Allocation, h.Profitability, h.Bias,
		})
	}
	return rows
}
