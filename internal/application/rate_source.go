package application

import (
	"context"
	"fmt"
	"time"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// HistoryRateSource reads an FX pair such as "KRW=X" like any other
// instrument and takes its last close as the rate.
type HistoryRateSource struct {
	fetcher *QuoteFetcher
	pair    domain.TickerSymbol
	base    string
	quote   string
	now     func() time.Time
}

func NewHistoryRateSource(fetcher *QuoteFetcher, pair domain.TickerSymbol, base, quote string) *HistoryRateSource {
	return &HistoryRateSource{
		fetcher: fetcher,
		pair:    pair,
		base:    base,
		quote:   quote,
		now:     time.Now,
	}
}

func (s *HistoryRateSource) FetchRate(ctx context.Context) (*domain.ExchangeRate, error) {
	bars, err := s.fetcher.FetchShortWindow(ctx, s.pair)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.pair, err)
	}

	return &domain.ExchangeRate{
		Base:      s.base,
		Quote:     s.quote,
		Rate:      bars[len(bars)-1].Close,
		FetchedAt: s.now().UTC(),
	}, nil
}
