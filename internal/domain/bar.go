package domain

import "time"

// PriceBar is one OHLC record for a single trading period.
type PriceBar struct {
	Time  time.Time `json:"time"`
	Open  Decimal   `json:"open"`
	High  Decimal   `json:"high"`
	Low   Decimal   `json:"low"`
	Close Decimal   `json:"close"`
}
