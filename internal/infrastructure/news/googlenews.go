package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

const (
	defaultBaseURL = "https://news.google.com"
	searchPath     = "/rss/search"
	serviceName    = "google news"
	DefaultLimit   = 5
)

// regionByLanguage picks the edition for a language when it differs from
// the configured one.
var regionByLanguage = map[string]string{
	"ko": "KR",
	"en": "US",
	"ja": "JP",
}

// GoogleNews searches the Google News RSS endpoint.
type GoogleNews struct {
	baseURL    string
	language   string
	region     string
	limit      int
	httpClient *http.Client
}

func NewGoogleNews(language, region string, limit int) *GoogleNews {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &GoogleNews{
		baseURL:  defaultBaseURL,
		language: language,
		region:   region,
		limit:    limit,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL sets the base URL for the feed (useful for testing).
func (g *GoogleNews) SetBaseURL(baseURL string) {
	g.baseURL = baseURL
}

// Search returns at most limit items for query, newest as ordered by the feed.
func (g *GoogleNews) Search(ctx context.Context, query, lang string) ([]domain.NewsItem, error) {
	if lang == "" {
		lang = g.language
	}
	region := g.region
	if lang != g.language {
		if r, ok := regionByLanguage[lang]; ok {
			region = r
		}
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("hl", lang)
	params.Add("gl", region)
	params.Add("ceid", region+":"+lang)

	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, searchPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewExternalServiceError(serviceName, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewExternalServiceError(serviceName, fmt.Errorf("failed to execute request: %w", err))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewExternalServiceError(serviceName, fmt.Errorf("feed returned status %d", resp.StatusCode))
	}

	parser := rss.Parser{}
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, domain.NewExternalServiceError(serviceName, fmt.Errorf("failed to parse feed: %w", err))
	}

	items := make([]domain.NewsItem, 0, g.limit)
	for _, it := range feed.Items {
		if len(items) == g.limit {
			break
		}
		items = append(items, toNewsItem(it))
	}

	slog.DebugContext(ctx, "news search", "query", query, "lang", lang, "items", len(items))
	return items, nil
}

// toNewsItem takes the publisher from <source> and falls back to the
// " - Publisher" suffix Google appends to every title.
func toNewsItem(it *rss.Item) domain.NewsItem {
	title := strings.TrimSpace(it.Title)
	source := ""
	if it.Source != nil {
		source = strings.TrimSpace(it.Source.Title)
	}

	if source != "" {
		title = strings.TrimSpace(strings.TrimSuffix(title, " - "+source))
	} else if i := strings.LastIndex(title, " - "); i > 0 {
		source = strings.TrimSpace(title[i+3:])
		title = strings.TrimSpace(title[:i])
	}

	item := domain.NewsItem{
		Title:  title,
		Link:   it.Link,
		Source: source,
	}
	if it.PubDateParsed != nil {
		item.PublishedAt = it.PubDateParsed.UTC()
	}
	return item
}
