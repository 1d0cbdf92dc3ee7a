package application

import (
	"fmt"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// DefaultDomesticSuffixes mark instruments already quoted in the local currency.
var DefaultDomesticSuffixes = []string{".KS", ".KQ"}

const percentPlaces = 4

// MetricDeriver computes the display figures for one lookup. It does no I/O
// and the same inputs always give the same snapshot.
type MetricDeriver struct {
	domesticSuffixes []string
	localCurrency    string
}

func NewMetricDeriver(domesticSuffixes []string, localCurrency string) *MetricDeriver {
	if len(domesticSuffixes) == 0 {
		domesticSuffixes = DefaultDomesticSuffixes
	}
	return &MetricDeriver{
		domesticSuffixes: domesticSuffixes,
		localCurrency:    localCurrency,
	}
}

// IsDomestic reports whether symbol needs no currency conversion.
func (d *MetricDeriver) IsDomestic(symbol domain.TickerSymbol) bool {
	return symbol.HasSuffix(d.domesticSuffixes)
}

// Derive reads latest and previous close from the short window, the period
// range from bars, and converts into the local currency when rate is usable.
func (d *MetricDeriver) Derive(bars, shortWindow []domain.PriceBar, meta domain.InstrumentMeta, rate *domain.ExchangeRate) (domain.QuoteSnapshot, error) {
	if len(shortWindow) < 2 {
		return domain.QuoteSnapshot{}, fmt.Errorf("%s has %d bars in the short window: %w", meta.Symbol, len(shortWindow), domain.ErrInsufficientHistory)
	}

	latest := shortWindow[len(shortWindow)-1].Close
	previous := shortWindow[len(shortWindow)-2].Close
	if previous.IsZero() {
		return domain.QuoteSnapshot{}, fmt.Errorf("%s: %w", meta.Symbol, domain.ErrZeroPreviousClose)
	}

	change, err := latest.Sub(previous)
	if err != nil {
		return domain.QuoteSnapshot{}, fmt.Errorf("failed to compute change: %w", err)
	}
	ratio, err := change.Div(previous)
	if err != nil {
		return domain.QuoteSnapshot{}, fmt.Errorf("failed to compute change ratio: %w", err)
	}
	percent, err := ratio.Mul(domain.Hundred)
	if err != nil {
		return domain.QuoteSnapshot{}, fmt.Errorf("failed to compute change percent: %w", err)
	}
	percent, err = percent.Round(percentPlaces)
	if err != nil {
		return domain.QuoteSnapshot{}, fmt.Errorf("failed to round change percent: %w", err)
	}

	snap := domain.QuoteSnapshot{
		Symbol:           meta.Symbol,
		ShortName:        meta.DisplayName(),
		Currency:         meta.Currency,
		LatestClose:      latest,
		PreviousClose:    previous,
		Change:           change,
		ChangePercent:    percent,
		FiftyTwoWeekHigh: meta.FiftyTwoWeekHigh,
		MarketCap:        meta.MarketCap,
		TrailingPE:       meta.TrailingPE,
	}
	snap.PeriodHigh, snap.PeriodLow = periodRange(bars)

	conv, err := d.convert(meta.Symbol, latest, meta.FiftyTwoWeekHigh, rate)
	if err != nil {
		return domain.QuoteSnapshot{}, err
	}
	snap.Conversion = conv

	return snap, nil
}

func (d *MetricDeriver) convert(symbol domain.TickerSymbol, price domain.Decimal, high *domain.Decimal, rate *domain.ExchangeRate) (domain.Conversion, error) {
	conv := domain.Conversion{Currency: d.localCurrency}

	if d.IsDomestic(symbol) {
		conv.Status = domain.ConversionDomestic
		conv.Price = &price
		conv.FiftyTwoWeekHigh = high
		return conv, nil
	}

	if !rate.Usable() {
		conv.Status = domain.ConversionUnavailable
		return conv, nil
	}

	converted, err := price.Mul(rate.Rate)
	if err != nil {
		return conv, fmt.Errorf("failed to convert price: %w", err)
	}
	r := rate.Rate
	conv.Status = domain.ConversionApplied
	conv.Base = rate.Base
	conv.Rate = &r
	conv.Price = &converted

	if high != nil {
		h, err := high.Mul(rate.Rate)
		if err != nil {
			return conv, fmt.Errorf("failed to convert 52-week high: %w", err)
		}
		conv.FiftyTwoWeekHigh = &h
	}
	return conv, nil
}

func periodRange(bars []domain.PriceBar) (*domain.Decimal, *domain.Decimal) {
	if len(bars) == 0 {
		return nil, nil
	}
	high, low := bars[0].High, bars[0].Low
	for _, b := range bars[1:] {
		if b.High.Cmp(high) > 0 {
			high = b.High
		}
		if b.Low.Cmp(low) < 0 {
			low = b.Low
		}
	}
	return &high, &low
}
