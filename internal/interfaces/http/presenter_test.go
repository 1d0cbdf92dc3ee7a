package http

import (
	"testing"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/stretchr/testify/assert"
)

func decPtr(s string) *domain.Decimal {
	d := domain.MustDecimal(s)
	return &d
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		in     string
		places int32
		want   string
	}{
		{"1234.5", 2, "1,234.50"},
		{"13000", 0, "13,000"},
		{"1234567.891", 2, "1,234,567.89"},
		{"-1234.565", 2, "-1,234.57"},
		{"0.004", 2, "0.00"},
		{"-0.004", 2, "0.00"},
		{"999.999", 2, "1,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDecimal(domain.MustDecimal(tt.in), tt.places))
		})
	}
}

func TestPresent_Converted(t *testing.T) {
	s := domain.QuoteSnapshot{
		Symbol:           "NVDA",
		ShortName:        "NVIDIA",
		Currency:         "USD",
		LatestClose:      domain.MustDecimal("10.00"),
		Change:           domain.MustDecimal("-1.1111"),
		ChangePercent:    domain.MustDecimal("-10.0000"),
		FiftyTwoWeekHigh: decPtr("12.5"),
		MarketCap:        decPtr("3450000500000"),
		TrailingPE:       decPtr("65.4321"),
		PeriodHigh:       decPtr("11"),
		PeriodLow:        decPtr("9.5"),
		Conversion: domain.Conversion{
			Status:           domain.ConversionApplied,
			Currency:         "KRW",
			Base:             "USD",
			Rate:             decPtr("1300"),
			Price:            decPtr("13000.00"),
			FiftyTwoWeekHigh: decPtr("16250.0"),
		},
	}

	d := Present(s)

	assert.Equal(t, "NVIDIA", d.Name)
	assert.Equal(t, "10.00 USD", d.Price)
	assert.Equal(t, "-1.11", d.Change)
	assert.Equal(t, "-10.00%", d.ChangePercent)
	assert.Equal(t, "13,000 KRW", d.LocalPrice)
	assert.Equal(t, "12.50 USD", d.FiftyTwoWeekHigh)
	assert.Equal(t, "16,250 KRW", d.LocalFiftyTwoWeekHigh)
	assert.Equal(t, "3,450,000,500,000", d.MarketCap)
	assert.Contains(t, d.MarketCapShort, "3.45")
	assert.Equal(t, "65.43", d.TrailingPE)
	assert.Equal(t, "9.50 USD - 11.00 USD", d.PeriodRange)
	assert.Equal(t, "1 USD = 1,300.00 KRW", d.ConversionNote)
}

func TestPresent_ConversionNoteNamesRateBase(t *testing.T) {
	s := domain.QuoteSnapshot{
		Symbol:      "7203.T",
		ShortName:   "Toyota",
		Currency:    "JPY",
		LatestClose: domain.MustDecimal("3000"),
		Conversion: domain.Conversion{
			Status:   domain.ConversionApplied,
			Currency: "KRW",
			Base:     "USD",
			Rate:     decPtr("1300"),
			Price:    decPtr("3900000"),
		},
	}

	d := Present(s)

	assert.Equal(t, "3,000 JPY", d.Price)
	assert.Equal(t, "1 USD = 1,300.00 KRW", d.ConversionNote)
	assert.NotContains(t, d.ConversionNote, "JPY")
}

func TestPresent_DomesticWithPlaceholders(t *testing.T) {
	s := domain.QuoteSnapshot{
		Symbol:        "005930.KS",
		Currency:      "KRW",
		LatestClose:   domain.MustDecimal("71500"),
		Change:        domain.MustDecimal("1500"),
		ChangePercent: domain.MustDecimal("2.1429"),
		Conversion: domain.Conversion{
			Status:   domain.ConversionDomestic,
			Currency: "KRW",
		},
	}

	d := Present(s)

	assert.Equal(t, "005930.KS", d.Name)
	assert.Equal(t, "71,500 KRW", d.Price)
	assert.Equal(t, "+1,500", d.Change)
	assert.Equal(t, "+2.14%", d.ChangePercent)
	assert.Equal(t, d.Price, d.LocalPrice)
	assert.Equal(t, Placeholder, d.FiftyTwoWeekHigh)
	assert.Equal(t, Placeholder, d.MarketCap)
	assert.Equal(t, Placeholder, d.MarketCapShort)
	assert.Equal(t, Placeholder, d.TrailingPE)
	assert.Equal(t, Placeholder, d.PeriodRange)
	assert.Empty(t, d.ConversionNote)
}

func TestPresent_Unavailable(t *testing.T) {
	s := domain.QuoteSnapshot{
		Symbol:        "AAPL",
		Currency:      "USD",
		LatestClose:   domain.MustDecimal("190"),
		ChangePercent: domain.MustDecimal("0"),
		Conversion: domain.Conversion{
			Status:   domain.ConversionUnavailable,
			Currency: "KRW",
		},
	}

	d := Present(s)

	assert.Equal(t, Placeholder, d.LocalPrice)
	assert.Equal(t, "0.00%", d.ChangePercent)
	assert.Contains(t, d.ConversionNote, "unavailable")
}

func TestNewQuoteResponse_NilBars(t *testing.T) {
	r := sampleResult()
	r.Bars = nil

	resp := NewQuoteResponse(r)

	assert.NotNil(t, resp.Bars)
	assert.Empty(t, resp.Bars)
}
