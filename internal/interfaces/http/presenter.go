package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jmanzanog/ticker-lens/internal/application"
	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// Placeholder is shown for figures the provider did not report.
const Placeholder = "N/A"

// QuoteDisplay holds ready-to-render strings for one snapshot.
type QuoteDisplay struct {
	Name                  string `json:"name"`
	Price                 string `json:"price"`
	Change                string `json:"change"`
	ChangePercent         string `json:"change_percent"`
	LocalPrice            string `json:"local_price"`
	FiftyTwoWeekHigh      string `json:"fifty_two_week_high"`
	LocalFiftyTwoWeekHigh string `json:"local_fifty_two_week_high"`
	MarketCap             string `json:"market_cap"`
	MarketCapShort        string `json:"market_cap_short"`
	TrailingPE            string `json:"trailing_pe"`
	PeriodRange           string `json:"period_range"`
	ConversionNote        string `json:"conversion_note,omitempty"`
}

type QuoteResponse struct {
	Resolution domain.Resolution    `json:"resolution"`
	Period     domain.Period        `json:"period"`
	Snapshot   domain.QuoteSnapshot `json:"snapshot"`
	Display    QuoteDisplay         `json:"display"`
	Bars       []domain.PriceBar    `json:"bars"`
}

func NewQuoteResponse(result *application.QuoteResult) QuoteResponse {
	bars := result.Bars
	if bars == nil {
		bars = []domain.PriceBar{}
	}
	return QuoteResponse{
		Resolution: result.Resolution,
		Period:     result.Period,
		Snapshot:   result.Snapshot,
		Display:    Present(result.Snapshot),
		Bars:       bars,
	}
}

// Present formats a snapshot for display. Absent figures render as
// Placeholder.
func Present(s domain.QuoteSnapshot) QuoteDisplay {
	conv := s.Conversion
	d := QuoteDisplay{
		Name:                  displayName(s),
		Price:                 money(&s.LatestClose, s.Currency),
		Change:                signed(s.Change, digitsFor(s.Currency)),
		ChangePercent:         percent(s.ChangePercent),
		LocalPrice:            money(conv.Price, conv.Currency),
		FiftyTwoWeekHigh:      money(s.FiftyTwoWeekHigh, s.Currency),
		LocalFiftyTwoWeekHigh: money(conv.FiftyTwoWeekHigh, conv.Currency),
		MarketCap:             marketCap(s.MarketCap),
		MarketCapShort:        marketCapShort(s.MarketCap),
		TrailingPE:            ratio(s.TrailingPE),
		PeriodRange:           periodRange(s),
	}

	switch conv.Status {
	case domain.ConversionDomestic:
		d.LocalPrice = d.Price
		d.LocalFiftyTwoWeekHigh = d.FiftyTwoWeekHigh
	case domain.ConversionUnavailable:
		d.ConversionNote = fmt.Sprintf("exchange rate unavailable, %s figures not shown", conv.Currency)
	case domain.ConversionApplied:
		if conv.Rate != nil {
			base := conv.Base
			if base == "" {
				base = s.Currency
			}
			d.ConversionNote = fmt.Sprintf("1 %s = %s %s", base, formatDecimal(*conv.Rate, 2), conv.Currency)
		}
	}
	return d
}

func displayName(s domain.QuoteSnapshot) string {
	if s.ShortName != "" {
		return s.ShortName
	}
	return s.Symbol.String()
}

// digitsFor returns the fraction digits shown for a currency.
func digitsFor(currency string) int32 {
	switch strings.ToUpper(currency) {
	case "KRW", "JPY":
		return 0
	default:
		return 2
	}
}

func money(v *domain.Decimal, currency string) string {
	if v == nil {
		return Placeholder
	}
	s := formatDecimal(*v, digitsFor(currency))
	if currency == "" {
		return s
	}
	return s + " " + strings.ToUpper(currency)
}

func signed(v domain.Decimal, places int32) string {
	s := formatDecimal(v, places)
	if v.IsPositive() {
		return "+" + s
	}
	return s
}

func percent(v domain.Decimal) string {
	return signed(v, 2) + "%"
}

func ratio(v *domain.Decimal) string {
	if v == nil {
		return Placeholder
	}
	return formatDecimal(*v, 2)
}

func marketCap(v *domain.Decimal) string {
	if v == nil {
		return Placeholder
	}
	return formatDecimal(*v, 0)
}

func marketCapShort(v *domain.Decimal) string {
	if v == nil {
		return Placeholder
	}
	return humanize.SIWithDigits(v.Float64(), 2, "")
}

func periodRange(s domain.QuoteSnapshot) string {
	if s.PeriodLow == nil || s.PeriodHigh == nil {
		return Placeholder
	}
	return money(s.PeriodLow, s.Currency) + " - " + money(s.PeriodHigh, s.Currency)
}

// formatDecimal rounds half-up to places and groups the integer part in
// thousands.
func formatDecimal(v domain.Decimal, places int32) string {
	rounded, err := v.Round(places)
	if err != nil {
		return v.String()
	}
	text := rounded.Text('f')

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	intPart, frac, hasFrac := strings.Cut(text, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + text
	}
	out := sign + humanize.Comma(n)
	if hasFrac {
		out += "." + frac
	}
	if out == "-0" || strings.HasPrefix(out, "-0.") && strings.Trim(frac, "0") == "" {
		out = out[1:]
	}
	return out
}
