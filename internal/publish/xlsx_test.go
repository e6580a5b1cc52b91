package publish

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fii-data/internal/model"
)

func holding(ticker string) model.Holding {
	return model.Holding{
		Ticker:             ticker,
		Sector:             "Logística",
		ExpectedYield:      "8,5%",
		InceptionDate:      "12/05/2017",
		AdjustedEntryPrice: "R$ 97,43",
		CurrentPrice:       "R$ 101,39",
		CeilingPrice:       "R$ 110,00",
		Allocation:         "7,5%",
		Profitability:      "45,2%",
		Bias:               "Comprar",
	}
}

func TestWorkbookSinkPublish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carteira.xlsx")
	sink := &WorkbookSink{Path: path, Worksheet: "Carteira_Suno"}

	at := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)
	snap := model.Snapshot{
		Holdings:  []model.Holding{holding("ABCD11"), holding("EFGH11")},
		UpdatedAt: at,
	}
	require.NoError(t, sink.Publish(context.Background(), snap))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Carteira_Suno", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "ticker", get("A1"))
	assert.Equal(t, "viés", get("J1"))
	assert.Equal(t, "ABCD11", get("A2"))
	assert.Equal(t, "R$ 101,39", get("F2"))
	assert.Equal(t, "EFGH11", get("A3"))
	assert.Equal(t, "ultima_atualizacao", get("L1"))
	assert.Equal(t, "30/08/2026 14:05:09", get("L2"))
}

func TestWorkbookSinkClearsStaleRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carteira.xlsx")
	sink := &WorkbookSink{Path: path, Worksheet: "Carteira_Suno"}
	ctx := context.Background()

	big := model.Snapshot{
		Holdings:  []model.Holding{holding("AAAA11"), holding("BBBB11"), holding("CCCC11")},
		UpdatedAt: time.Now(),
	}
	require.NoError(t, sink.Publish(ctx, big))

	small := model.Snapshot{
		Holdings:  []model.Holding{holding("DDDD11")},
		UpdatedAt: time.Now(),
	}
	require.NoError(t, sink.Publish(ctx, small))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Carteira_Suno", "A2")
	require.NoError(t, err)
	assert.Equal(t, "DDDD11", v)
	v, err = f.GetCellValue("Carteira_Suno", "A3")
	require.NoError(t, err)
	assert.Empty(t, v, "full-clear-then-write leaves no stale holdings")
}

func TestTableRows(t *testing.T) {
	rows := tableRows([]model.Holding{holding("ABCD11")})
	require.Len(t, rows, 2)
	assert.Equal(t, "ticker", rows[0][0])
	assert.Len(t, rows[0], 10)
	assert.Equal(t, "ABCD11", rows[1][0])
	assert.Equal(t, "Comprar", rows[1][9])
}
