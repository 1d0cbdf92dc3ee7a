package domain

// ConversionStatus explains what happened to the local-currency figures.
type ConversionStatus string

const (
	// ConversionDomestic means the instrument already trades in the local currency.
	ConversionDomestic ConversionStatus = "domestic"
	ConversionApplied  ConversionStatus = "converted"
	// ConversionUnavailable means a conversion was needed but no usable rate existed.
	ConversionUnavailable ConversionStatus = "unavailable"
)

// Conversion holds the local-currency figures. Rate converts one unit of Base,
// which need not be the instrument's own currency, into Currency.
type Conversion struct {
	Status           ConversionStatus `json:"status"`
	Currency         string           `json:"currency"`
	Base             string           `json:"base,omitempty"`
	Rate             *Decimal         `json:"rate,omitempty"`
	Price            *Decimal         `json:"price,omitempty"`
	FiftyTwoWeekHigh *Decimal         `json:"fifty_two_week_high,omitempty"`
}

// QuoteSnapshot is recomputed on every lookup and never persisted.
type QuoteSnapshot struct {
	Symbol           TickerSymbol `json:"symbol"`
	ShortName        string       `json:"short_name"`
	Currency         string       `json:"currency"`
	LatestClose      Decimal      `json:"latest_close"`
	PreviousClose    Decimal      `json:"previous_close"`
	Change           Decimal      `json:"change"`
	ChangePercent    Decimal      `json:"change_percent"`
	FiftyTwoWeekHigh *Decimal     `json:"fifty_two_week_high,omitempty"`
	MarketCap        *Decimal     `json:"market_cap,omitempty"`
	TrailingPE       *Decimal     `json:"trailing_pe,omitempty"`
	PeriodHigh       *Decimal     `json:"period_high,omitempty"`
	PeriodLow        *Decimal     `json:"period_low,omitempty"`
	Conversion       Conversion   `json:"conversion"`
}
