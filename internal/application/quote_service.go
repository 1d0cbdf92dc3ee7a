package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata"
)

// RateProvider is satisfied by RateCache.
type RateProvider interface {
	Rate(ctx context.Context) (*domain.ExchangeRate, error)
}

// QuoteResult is everything one dashboard lookup produces.
type QuoteResult struct {
	Resolution domain.Resolution    `json:"resolution"`
	Period     domain.Period        `json:"period"`
	Bars       []domain.PriceBar    `json:"bars"`
	Snapshot   domain.QuoteSnapshot `json:"snapshot"`
}

// QuoteService runs resolve, fetch and derive for one query and journals
// the outcome.
type QuoteService struct {
	resolver *QuoteResolver
	fetcher  *QuoteFetcher
	deriver  *MetricDeriver
	metadata marketdata.MetadataProvider
	rates    RateProvider
	journal  domain.LookupRepository
}

func NewQuoteService(
	resolver *QuoteResolver,
	fetcher *QuoteFetcher,
	deriver *MetricDeriver,
	metadata marketdata.MetadataProvider,
	rates RateProvider,
	journal domain.LookupRepository,
) *QuoteService {
	return &QuoteService{
		resolver: resolver,
		fetcher:  fetcher,
		deriver:  deriver,
		metadata: metadata,
		rates:    rates,
		journal:  journal,
	}
}

func (s *QuoteService) Lookup(ctx context.Context, query string, period domain.Period) (*QuoteResult, error) {
	if domain.NormalizeQuery(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	res := s.resolver.Resolve(ctx, query)
	result, err := s.lookup(ctx, res, period)
	s.record(ctx, res, period, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *QuoteService) lookup(ctx context.Context, res domain.Resolution, period domain.Period) (*QuoteResult, error) {
	bars, err := s.fetcher.Fetch(ctx, res.Symbol, period)
	if err != nil {
		return nil, err
	}

	short, err := s.fetcher.FetchShortWindow(ctx, res.Symbol)
	if err != nil {
		return nil, err
	}

	meta := s.lookupMetadata(ctx, res.Symbol)

	var rate *domain.ExchangeRate
	if !s.deriver.IsDomestic(res.Symbol) && s.rates != nil {
		rate, err = s.rates.Rate(ctx)
		if err != nil {
			slog.WarnContext(ctx, "exchange rate unavailable, skipping conversion", "symbol", res.Symbol, "error", err)
			rate = nil
		}
	}

	snap, err := s.deriver.Derive(bars, short, meta, rate)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", res.Symbol, err)
	}

	return &QuoteResult{
		Resolution: res,
		Period:     period,
		Bars:       bars,
		Snapshot:   snap,
	}, nil
}

func (s *QuoteService) lookupMetadata(ctx context.Context, symbol domain.TickerSymbol) domain.InstrumentMeta {
	if s.metadata == nil {
		return domain.NewInstrumentMeta(symbol)
	}
	meta, err := s.metadata.Metadata(ctx, symbol)
	if err != nil || meta == nil {
		slog.WarnContext(ctx, "metadata unavailable, using placeholders", "symbol", symbol, "error", err)
		return domain.NewInstrumentMeta(symbol)
	}
	if meta.Symbol.IsEmpty() {
		meta.Symbol = symbol
	}
	return *meta
}

func (s *QuoteService) record(ctx context.Context, res domain.Resolution, period domain.Period, lookupErr error) {
	if s.journal == nil {
		return
	}
	rec := domain.NewLookupRecord(res, period, domain.OutcomeOf(lookupErr))
	if err := s.journal.Save(ctx, &rec); err != nil {
		slog.ErrorContext(ctx, "failed to journal lookup", "query", res.Query, "symbol", res.Symbol, "error", err)
	}
}

// RecentLookups lists journal entries, newest first.
func (s *QuoteService) RecentLookups(ctx context.Context, limit int) ([]domain.LookupRecord, error) {
	if s.journal == nil {
		return []domain.LookupRecord{}, nil
	}
	records, err := s.journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list lookups: %w", err)
	}
	return records, nil
}
