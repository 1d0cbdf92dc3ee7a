package domain

// InstrumentMeta is the free-form metadata a provider knows about a symbol.
// Optional figures are nil when the provider does not report them.
type InstrumentMeta struct {
	Symbol           TickerSymbol `json:"symbol"`
	ShortName        string       `json:"short_name"`
	Currency         string       `json:"currency"`
	MarketCap        *Decimal     `json:"market_cap,omitempty"`
	TrailingPE       *Decimal     `json:"trailing_pe,omitempty"`
	FiftyTwoWeekHigh *Decimal     `json:"fifty_two_week_high,omitempty"`
}

// NewInstrumentMeta returns metadata carrying only the symbol, used when the
// provider has nothing to say about it.
func NewInstrumentMeta(symbol TickerSymbol) InstrumentMeta {
	return InstrumentMeta{Symbol: symbol}
}

// DisplayName falls back to the symbol when no short name is known.
func (m InstrumentMeta) DisplayName() string {
	if m.ShortName != "" {
		return m.ShortName
	}
	return m.Symbol.String()
}

// OptionalDecimal converts a provider figure where zero means "not reported".
func OptionalDecimal(v float64) *Decimal {
	if v == 0 {
		return nil
	}
	d, err := NewDecimalFromFloat(v)
	if err != nil {
		return nil
	}
	return &d
}
