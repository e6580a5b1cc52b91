package model

import "time"

// Holding is one portfolio position as shown on the dashboard table.
// All fields are locale-formatted display strings; the extractor only
// repairs the fields the page mangles, it does not parse numbers.
type Holding struct {
	Ticker             string `json:"ticker"`
	Sector             string `json:"setor_tipo"`
	ExpectedYield      string `json:"dy_esperado"`
	InceptionDate      string `json:"inicio"` // dd/mm/yyyy
	AdjustedEntryPrice string `json:"preco_entrada_ajustado"`
	CurrentPrice       string `json:"preco_atual"`
	CeilingPrice       string `json:"preco_teto"`
	Allocation         string `json:"alocacao"`
	Profitability      string `json:"rentabilidade"`
	Bias               string `json:"vies"`
}

// Snapshot is the full portfolio table for one run plus the publish time.
// Ephemeral: lives only between extraction and the publish stage.
type Snapshot struct {
	Holdings  []Holding
	UpdatedAt time.Time
}

// Tickers returns the ticker column as given, duplicates included.
// Dedup is the caller's call, not ours.
func (s Snapshot) Tickers() []string {
	out := make([]string, len(s.Holdings))
	for i, h := range s.Holdings {
		out[i] = h.Ticker
	}
	return out
}
