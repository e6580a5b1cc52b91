package model

import "time"

// Bar is one daily OHLCV row for a ticker.
// Shared by provider, store and serialization (json, parquet).
type Bar struct {
	Ticker string  `json:"ticker" parquet:"ticker"`
	Date   string  `json:"date" parquet:"date"` // trading day, "2006-01-02"
	Open   float64 `json:"open" parquet:"open"`
	High   float64 `json:"high" parquet:"high"`
	Low    float64 `json:"low" parquet:"low"`
	Close  float64 `json:"close" parquet:"close"`
	Volume int64   `json:"volume" parquet:"volume"`
}

// Key identifies a Bar inside the dataset. (ticker, date) is unique.
func (b Bar) Key() string {
	return b.Ticker + "|" + b.Date
}

// DateFromEpoch converts provider epoch seconds to the dataset date string.
func DateFromEpoch(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("2006-01-02")
}
