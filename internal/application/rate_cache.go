package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// DefaultRateTTL is how long a fetched exchange rate is reused.
const DefaultRateTTL = time.Hour

// RateSource fetches a fresh exchange rate.
type RateSource interface {
	FetchRate(ctx context.Context) (*domain.ExchangeRate, error)
}

// RateCache holds the process-wide exchange rate. Concurrent refreshes may
// both hit the source; the last store wins.
type RateCache struct {
	source  RateSource
	ttl     time.Duration
	now     func() time.Time
	current atomic.Pointer[domain.ExchangeRate]
}

func NewRateCache(source RateSource, ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	return &RateCache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Rate returns the cached rate while it is younger than the TTL and
// otherwise refreshes it. A failed refresh is reported, never papered over
// with the expired value.
func (c *RateCache) Rate(ctx context.Context) (*domain.ExchangeRate, error) {
	if cached := c.current.Load(); cached != nil && c.now().Sub(cached.FetchedAt) < c.ttl {
		return cached, nil
	}

	rate, err := c.source.FetchRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExchangeRateUnavailable, err)
	}
	if !rate.Usable() {
		return nil, fmt.Errorf("%w: source returned a non-positive rate", domain.ErrExchangeRateUnavailable)
	}

	fresh := *rate
	if fresh.FetchedAt.IsZero() {
		fresh.FetchedAt = c.now()
	}
	c.current.Store(&fresh)
	slog.InfoContext(ctx, "exchange rate refreshed", "base", fresh.Base, "quote", fresh.Quote, "rate", fresh.Rate.String())

	return &fresh, nil
}
