package marketdata

import (
	"context"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// HistoryProvider returns the raw OHLC table for a symbol over a period.
// Implementations return an empty frame, not an error, when the provider
// simply has no rows for the symbol.
type HistoryProvider interface {
	History(ctx context.Context, symbol domain.TickerSymbol, period domain.Period) (*Frame, error)
}

// MetadataProvider returns display name, market cap, P/E and 52-week high.
type MetadataProvider interface {
	Metadata(ctx context.Context, symbol domain.TickerSymbol) (*domain.InstrumentMeta, error)
}

// Provider is implemented by sources that offer both history and metadata.
type Provider interface {
	HistoryProvider
	MetadataProvider
}
