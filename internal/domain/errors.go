package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("instrument not found")
	ErrInsufficientHistory     = errors.New("insufficient price history")
	ErrZeroPreviousClose       = errors.New("previous close is zero")
	ErrExchangeRateUnavailable = errors.New("exchange rate unavailable")
	ErrExternalService         = errors.New("external service failure")
	ErrInvalidPeriod           = errors.New("invalid period")
	ErrEmptyQuery              = errors.New("query is empty")
)

// ErrorKind is the user-facing classification of a failed operation.
type ErrorKind string

const (
	KindNone                    ErrorKind = ""
	KindNotFound                ErrorKind = "not_found"
	KindInsufficientHistory     ErrorKind = "insufficient_history"
	KindZeroPreviousClose       ErrorKind = "zero_previous_close"
	KindExchangeRateUnavailable ErrorKind = "exchange_rate_unavailable"
	KindExternalServiceFailure  ErrorKind = "external_service_failure"
	KindInvalidInput            ErrorKind = "invalid_input"
	KindInternal                ErrorKind = "internal"
)

// NotFoundError carries the symbol and the transport or payload problem that
// made the provider come back empty-handed.
type NotFoundError struct {
	Symbol TickerSymbol
	Cause  error
}

func NewNotFoundError(symbol TickerSymbol, cause error) *NotFoundError {
	return &NotFoundError{Symbol: symbol, Cause: cause}
}

func (e *NotFoundError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", ErrNotFound, e.Symbol)
	}
	return fmt.Sprintf("%s: %s: %v", ErrNotFound, e.Symbol, e.Cause)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// ExternalServiceError wraps a failure of a market data, news or language
// model call.
type ExternalServiceError struct {
	Service string
	Err     error
}

func NewExternalServiceError(service string, err error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Err: err}
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrExternalService, e.Service, e.Err)
}

func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalService
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// KindOf maps an error to its kind. Not-found wins over anything it wraps.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientHistory):
		return KindInsufficientHistory
	case errors.Is(err, ErrZeroPreviousClose):
		return KindZeroPreviousClose
	case errors.Is(err, ErrExchangeRateUnavailable):
		return KindExchangeRateUnavailable
	case errors.Is(err, ErrExternalService):
		return KindExternalServiceFailure
	case errors.Is(err, ErrInvalidPeriod), errors.Is(err, ErrEmptyQuery):
		return KindInvalidInput
	default:
		return KindInternal
	}
}
