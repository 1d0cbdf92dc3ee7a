package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata"
)

var errEmptyHistory = errors.New("provider returned no rows")

// QuoteFetcher turns provider frames into chronological bars. Whatever goes
// wrong below it surfaces as a single not-found error carrying the cause.
type QuoteFetcher struct {
	provider marketdata.HistoryProvider
}

func NewQuoteFetcher(provider marketdata.HistoryProvider) *QuoteFetcher {
	return &QuoteFetcher{provider: provider}
}

// Fetch returns the bars for the caller's chart window.
func (f *QuoteFetcher) Fetch(ctx context.Context, symbol domain.TickerSymbol, period domain.Period) ([]domain.PriceBar, error) {
	if symbol.IsEmpty() {
		return nil, domain.NewNotFoundError(symbol, domain.ErrEmptyQuery)
	}

	frame, err := f.provider.History(ctx, symbol, period)
	if err != nil {
		return nil, domain.NewNotFoundError(symbol, err)
	}
	if frame.Empty() {
		return nil, domain.NewNotFoundError(symbol, errEmptyHistory)
	}

	bars, err := frame.Flatten().Bars()
	if err != nil {
		return nil, domain.NewNotFoundError(symbol, fmt.Errorf("normalize %s frame: %w", period, err))
	}
	if len(bars) == 0 {
		return nil, domain.NewNotFoundError(symbol, errEmptyHistory)
	}
	return bars, nil
}

// FetchShortWindow requests the last few sessions independently of the
// chart window; the day-over-day change is read from it.
func (f *QuoteFetcher) FetchShortWindow(ctx context.Context, symbol domain.TickerSymbol) ([]domain.PriceBar, error) {
	return f.Fetch(ctx, symbol, domain.ShortWindow)
}
