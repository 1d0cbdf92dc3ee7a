package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

const llmService = "llm"

// NewsSource searches recent headlines.
type NewsSource interface {
	Search(ctx context.Context, query, lang string) ([]domain.NewsItem, error)
}

type NewsSummary struct {
	Resolution domain.Resolution `json:"resolution"`
	Items      []domain.NewsItem `json:"items"`
	Summary    string            `json:"summary"`
}

type FactCheckResult struct {
	Claim   string            `json:"claim"`
	Verdict string            `json:"verdict"`
	Sources []domain.NewsItem `json:"sources"`
}

// BriefingService produces the narrative parts of the dashboard: knowledge
// answers, news outlooks and claim checks.
type BriefingService struct {
	resolver *QuoteResolver
	news     NewsSource
	llm      TextGenerator
	lang     string
}

func NewBriefingService(resolver *QuoteResolver, news NewsSource, llm TextGenerator, lang string) *BriefingService {
	return &BriefingService{
		resolver: resolver,
		news:     news,
		llm:      llm,
		lang:     lang,
	}
}

func (s *BriefingService) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question: %w", domain.ErrEmptyQuery)
	}
	return s.generate(ctx, askPrompt(question))
}

// News returns headlines for query in lang, or the default language.
func (s *BriefingService) News(ctx context.Context, query, lang string) ([]domain.NewsItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if lang == "" {
		lang = s.lang
	}
	items, err := s.news.Search(ctx, query, lang)
	if err != nil {
		return nil, asExternal("news", err)
	}
	return items, nil
}

// SummarizeNews resolves query, collects its headlines and asks for an
// outlook. A query with no headlines is reported as not found.
func (s *BriefingService) SummarizeNews(ctx context.Context, query string) (*NewsSummary, error) {
	if domain.NormalizeQuery(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	res := s.resolver.Resolve(ctx, query)

	items, err := s.News(ctx, query, "")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.NewNotFoundError(res.Symbol, errors.New("no news found"))
	}

	label := strings.TrimSpace(query)
	if !res.Degraded() && res.Symbol.String() != res.Normalized {
		label = fmt.Sprintf("%s(%s)", label, res.Symbol)
	}

	summary, err := s.generate(ctx, newsSummaryPrompt(label, items))
	if err != nil {
		return nil, err
	}

	return &NewsSummary{
		Resolution: res,
		Items:      items,
		Summary:    summary,
	}, nil
}

// FactCheck judges claim against current headlines. A news failure only
// removes the evidence; the judgement is still asked for.
func (s *BriefingService) FactCheck(ctx context.Context, claim string) (*FactCheckResult, error) {
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return nil, fmt.Errorf("claim: %w", domain.ErrEmptyQuery)
	}

	sources, err := s.News(ctx, claim, "")
	if err != nil {
		slog.WarnContext(ctx, "no news evidence for fact check", "error", err)
		sources = nil
	}

	verdict, err := s.generate(ctx, factCheckPrompt(claim, sources))
	if err != nil {
		return nil, err
	}

	if sources == nil {
		sources = []domain.NewsItem{}
	}
	return &FactCheckResult{
		Claim:   claim,
		Verdict: verdict,
		Sources: sources,
	}, nil
}

func (s *BriefingService) generate(ctx context.Context, prompt string) (string, error) {
	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", asExternal(llmService, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewExternalServiceError(llmService, errors.New("empty completion"))
	}
	return text, nil
}

func asExternal(service string, err error) error {
	if errors.Is(err, domain.ErrExternalService) {
		return err
	}
	return domain.NewExternalServiceError(service, err)
}
