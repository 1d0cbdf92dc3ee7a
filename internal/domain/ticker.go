package domain

import "strings"

// TickerSymbol is an exchange-qualified instrument code such as "NVDA" or
// "005930.KS". After resolution it is treated as an opaque key.
type TickerSymbol string

func (s TickerSymbol) String() string {
	return string(s)
}

func (s TickerSymbol) IsEmpty() bool {
	return strings.TrimSpace(string(s)) == ""
}

// HasSuffix reports whether the symbol ends with any of the given exchange
// suffixes, compared case-insensitively.
func (s TickerSymbol) HasSuffix(suffixes []string) bool {
	upper := strings.ToUpper(string(s))
	for _, suffix := range suffixes {
		suffix = strings.ToUpper(strings.TrimSpace(suffix))
		if suffix != "" && strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	return false
}

// NormalizeQuery trims and uppercases raw user input. Alias table keys go
// through the same function so lookups are insensitive to case and padding.
func NormalizeQuery(query string) string {
	return strings.ToUpper(strings.TrimSpace(query))
}

// ResolutionSource tells how a symbol was obtained.
type ResolutionSource string

const (
	ResolutionSourceAlias     ResolutionSource = "alias"
	ResolutionSourceGenerated ResolutionSource = "generated"
	// ResolutionSourceInput means resolution degraded to the normalized input.
	ResolutionSourceInput ResolutionSource = "input"
)

type Resolution struct {
	Query      string           `json:"query"`
	Normalized string           `json:"normalized"`
	Symbol     TickerSymbol     `json:"symbol"`
	Source     ResolutionSource `json:"source"`
}

// Degraded reports a lower-confidence result that the fetcher may reject.
func (r Resolution) Degraded() bool {
	return r.Source == ResolutionSourceInput
}
