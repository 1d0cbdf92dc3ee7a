package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata"
)

// --- Mocks ---

type MockHistory struct {
	HistoryFunc func(ctx context.Context, symbol domain.TickerSymbol, period domain.Period) (*marketdata.Frame, error)
	calls       []domain.Period
}

func (m *MockHistory) History(ctx context.Context, symbol domain.TickerSymbol, period domain.Period) (*marketdata.Frame, error) {
	m.calls = append(m.calls, period)
	return m.HistoryFunc(ctx, symbol, period)
}

type MockMetadata struct {
	MetadataFunc func(ctx context.Context, symbol domain.TickerSymbol) (*domain.InstrumentMeta, error)
}

func (m *MockMetadata) Metadata(ctx context.Context, symbol domain.TickerSymbol) (*domain.InstrumentMeta, error) {
	return m.MetadataFunc(ctx, symbol)
}

type MockRates struct {
	rate *domain.ExchangeRate
	err  error
}

func (m *MockRates) Rate(_ context.Context) (*domain.ExchangeRate, error) {
	return m.rate, m.err
}

type MockJournal struct {
	mu      sync.Mutex
	records []domain.LookupRecord
	saveErr error
}

func (m *MockJournal) Save(_ context.Context, rec *domain.LookupRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *MockJournal) Recent(_ context.Context, limit int) ([]domain.LookupRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.LookupRecord, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

type MockNews struct {
	items []domain.NewsItem
	err   error
	query string
	lang  string
}

func (m *MockNews) Search(_ context.Context, query, lang string) ([]domain.NewsItem, error) {
	m.query, m.lang = query, lang
	return m.items, m.err
}

// --- Fixtures ---

var errProvider = errors.New("provider down")

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

// closesFrame builds a single-level frame whose OHLC all equal the closes.
func closesFrame(closes ...float64) *marketdata.Frame {
	b := marketdata.NewFrameBuilder(marketdata.ColumnOpen, marketdata.ColumnHigh, marketdata.ColumnLow, marketdata.ColumnClose)
	for i, c := range closes {
		b.AddRow(day0.AddDate(0, 0, i), f64(c), f64(c), f64(c), f64(c))
	}
	return b.Build()
}

func bars(closes ...string) []domain.PriceBar {
	out := make([]domain.PriceBar, 0, len(closes))
	for i, c := range closes {
		d := domain.MustDecimal(c)
		out = append(out, domain.PriceBar{Time: day0.AddDate(0, 0, i), Open: d, High: d, Low: d, Close: d})
	}
	return out
}

func decPtr(s string) *domain.Decimal {
	d := domain.MustDecimal(s)
	return &d
}
