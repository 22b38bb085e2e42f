package entity

import "time"

// DailyBar is one OHLCV row. Missing values are NaN, not zero, so that a
// substituted calendar series is distinguishable from a flat market.
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
