package application

//go:generate mockgen -source=resolver.go -destination=mock_text_generator_test.go -package=application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// TextGenerator turns a prompt into free text. It backs the ticker guess
// and the briefing narratives.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QuoteResolver maps free-form input to a ticker. It never fails: when
// nothing better is known the normalized input itself is used.
type QuoteResolver struct {
	aliases  AliasTable
	fallback TextGenerator
}

func NewQuoteResolver(aliases AliasTable, fallback TextGenerator) *QuoteResolver {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &QuoteResolver{
		aliases:  aliases,
		fallback: fallback,
	}
}

func (r *QuoteResolver) Resolve(ctx context.Context, query string) domain.Resolution {
	normalized := domain.NormalizeQuery(query)
	res := domain.Resolution{
		Query:      query,
		Normalized: normalized,
		Symbol:     domain.TickerSymbol(normalized),
		Source:     domain.ResolutionSourceInput,
	}

	if normalized == "" {
		return res
	}

	if symbol, ok := r.aliases[normalized]; ok {
		res.Symbol = symbol
		res.Source = domain.ResolutionSourceAlias
		return res
	}

	if r.fallback == nil {
		return res
	}

	guess, err := r.fallback.Generate(ctx, tickerPrompt(normalized))
	if err != nil {
		slog.WarnContext(ctx, "ticker guess failed, using input as symbol", "query", normalized, "error", err)
		return res
	}

	guess = strings.TrimSpace(guess)
	if guess == "" {
		slog.WarnContext(ctx, "ticker guess was empty, using input as symbol", "query", normalized)
		return res
	}

	res.Symbol = domain.TickerSymbol(guess)
	res.Source = domain.ResolutionSourceGenerated
	return res
}
