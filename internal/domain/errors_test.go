package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")

	testCases := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"nil", nil, KindNone},
		{"not found", NewNotFoundError("ZZZZ", nil), KindNotFound},
		{"not found wrapping transport error", fmt.Errorf("fetch: %w", NewNotFoundError("ZZZZ", cause)), KindNotFound},
		{"insufficient history", fmt.Errorf("derive: %w", ErrInsufficientHistory), KindInsufficientHistory},
		{"zero previous close", ErrZeroPreviousClose, KindZeroPreviousClose},
		{"rate", ErrExchangeRateUnavailable, KindExchangeRateUnavailable},
		{"external", NewExternalServiceError("gemini", cause), KindExternalServiceFailure},
		{"period", fmt.Errorf("parse: %w", ErrInvalidPeriod), KindInvalidInput},
		{"empty", ErrEmptyQuery, KindInvalidInput},
		{"other", cause, KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, KindOf(tc.err))
		})
	}
}

func TestNotFoundError_UnwrapsCause(t *testing.T) {
	cause := errors.New("malformed payload")
	err := NewNotFoundError("NVDA", cause)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "NVDA")
	assert.Contains(t, err.Error(), "malformed payload")
}

func TestExternalServiceError(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewExternalServiceError("gemini", cause)

	assert.ErrorIs(t, err, ErrExternalService)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gemini")
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, LookupOutcomeOK, OutcomeOf(nil))
	assert.Equal(t, LookupOutcome(KindNotFound), OutcomeOf(NewNotFoundError("X", nil)))
}

func TestNewLookupRecord(t *testing.T) {
	res := Resolution{Query: "nvidia", Normalized: "NVIDIA", Symbol: "NVDA", Source: ResolutionSourceAlias}
	rec := NewLookupRecord(res, Period3Mo, LookupOutcomeOK)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "nvidia", rec.Query)
	assert.Equal(t, TickerSymbol("NVDA"), rec.Symbol)
	assert.Equal(t, ResolutionSourceAlias, rec.Source)
	assert.Equal(t, Period3Mo, rec.Period)
	assert.False(t, rec.CreatedAt.IsZero())

	other := NewLookupRecord(res, Period3Mo, LookupOutcomeOK)
	assert.NotEqual(t, rec.ID, other.ID)
}

func TestInstrumentMeta(t *testing.T) {
	meta := NewInstrumentMeta("NVDA")
	assert.Equal(t, "NVDA", meta.DisplayName())
	meta.ShortName = "NVIDIA Corporation"
	assert.Equal(t, "NVIDIA Corporation", meta.DisplayName())

	assert.Nil(t, OptionalDecimal(0))
	pe := OptionalDecimal(61.25)
	if assert.NotNil(t, pe) {
		assert.True(t, pe.Equal(MustDecimal("61.25")))
	}
}

func TestExchangeRate_Usable(t *testing.T) {
	var missing *ExchangeRate
	assert.False(t, missing.Usable())
	assert.False(t, (&ExchangeRate{Rate: Zero}).Usable())
	assert.True(t, (&ExchangeRate{Rate: MustDecimal("1300")}).Usable())
}
