package brapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"fii-data/internal/model"
)

// DailyRaw is one raw historical record from the quote endpoint.
// Volume arrives as int, float or string depending on the instrument.
type DailyRaw struct {
	Date   int64         `json:"date"` // epoch seconds
	Open   float64       `json:"open"`
	High   float64       `json:"high"`
	Low    float64       `json:"low"`
	Close  float64       `json:"close"`
	Volume FlexibleInt64 `json:"volume"`
}

// ToBar converts DailyRaw to model.Bar tagged with the ticker.
func (d DailyRaw) ToBar(ticker string) model.Bar {
	return model.Bar{
		Ticker: ticker,
		Date:   model.DateFromEpoch(d.Date),
		Open:   d.Open,
		High:   d.High,
		Low:    d.Low,
		Close:  d.Close,
		Volume: d.Volume.Int64(),
	}
}

// QuoteResponse is the quote endpoint body. Only the historical list matters.
type QuoteResponse struct {
	Results []struct {
		Symbol              string     `json:"symbol"`
		HistoricalDataPrice []DailyRaw `json:"historicalDataPrice"`
	} `json:"results"`
	Error   bool   `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// FlexibleInt64 parses int, float (scientific notation) or string to int64
type FlexibleInt64 int64

// UnmarshalJSON parses int, float or numeric string
func (f *FlexibleInt64) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*f = FlexibleInt64(int64(val))
		return nil
	}

	var floatVal float64
	if err := json.Unmarshal(data, &floatVal); err == nil {
		*f = FlexibleInt64(int64(floatVal))
		return nil
	}

	var intVal int64
	if err := json.Unmarshal(data, &intVal); err == nil {
		*f = FlexibleInt64(intVal)
		return nil
	}

	return fmt.Errorf("cannot parse as int64: %s", string(data))
}

// Int64 returns int64 value
func (f FlexibleInt64) Int64() int64 {
	return int64(f)
}
