package domain

import "time"

// ExchangeRate converts one unit of Base into Quote, e.g. USD -> KRW.
type ExchangeRate struct {
	Base      string    `json:"base"`
	Quote     string    `json:"quote"`
	Rate      Decimal   `json:"rate"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Usable reports whether the rate can be multiplied into a price.
func (r *ExchangeRate) Usable() bool {
	return r != nil && r.Rate.IsPositive()
}
