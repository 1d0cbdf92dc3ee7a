package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata"
)

const (
	defaultBaseURL = "https://finnhub.io/api/v1"
	profilePath    = "/stock/profile2"
	metricPath     = "/stock/metric"
)

// millions is the unit Finnhub reports market capitalization in.
var millions = domain.NewDecimalFromInt(1_000_000)

// Client implements marketdata.MetadataProvider using the Finnhub API. The
// free tier has no daily candles, so it is only used for metadata.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Finnhub API client.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates a new Finnhub client with a custom HTTP client (for testing).
func NewClientWithHTTPClient(apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// SetBaseURL sets the base URL for the API (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// profileResponse represents the Finnhub company profile response.
type profileResponse struct {
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
	Exchange             string  `json:"exchange"`
	MarketCapitalization float64 `json:"marketCapitalization"` // millions
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
}

// metricResponse carries the "all" basic financials; only two are used.
type metricResponse struct {
	Metric struct {
		FiftyTwoWeekHigh float64 `json:"52WeekHigh"`
		PETTM            float64 `json:"peTTM"`
	} `json:"metric"`
	Symbol string `json:"symbol"`
}

// Metadata combines the company profile with basic financials. A failing
// metrics call only drops the figures it would have supplied.
func (c *Client) Metadata(ctx context.Context, symbol domain.TickerSymbol) (*domain.InstrumentMeta, error) {
	profile, err := c.getProfile(ctx, symbol.String())
	if err != nil {
		return nil, err
	}

	meta := domain.NewInstrumentMeta(symbol)
	meta.ShortName = profile.Name
	meta.Currency = profile.Currency

	if capMillions := domain.OptionalDecimal(profile.MarketCapitalization); capMillions != nil {
		marketCap, err := capMillions.Mul(millions)
		if err != nil {
			return nil, fmt.Errorf("failed to scale market cap: %w", err)
		}
		meta.MarketCap = &marketCap
	}

	metrics, err := c.getMetrics(ctx, symbol.String())
	if err != nil {
		slog.WarnContext(ctx, "failed to get basic financials, continuing with profile only",
			"symbol", symbol, "error", err)
		return &meta, nil
	}

	meta.TrailingPE = domain.OptionalDecimal(metrics.Metric.PETTM)
	meta.FiftyTwoWeekHigh = domain.OptionalDecimal(metrics.Metric.FiftyTwoWeekHigh)

	return &meta, nil
}

// getProfile fetches the company profile for a symbol.
func (c *Client) getProfile(ctx context.Context, symbol string) (*profileResponse, error) {
	params := url.Values{}
	params.Add("symbol", symbol)

	var profileResp profileResponse
	if err := c.getJSON(ctx, profilePath, params, &profileResp); err != nil {
		return nil, err
	}

	// Finnhub answers unknown symbols with an empty object
	if profileResp.Currency == "" && profileResp.Name == "" {
		return nil, fmt.Errorf("no profile data found for symbol: %s", symbol)
	}

	return &profileResp, nil
}

func (c *Client) getMetrics(ctx context.Context, symbol string) (*metricResponse, error) {
	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("metric", "all")

	var metricResp metricResponse
	if err := c.getJSON(ctx, metricPath, params, &metricResp); err != nil {
		return nil, err
	}
	return &metricResp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Add("token", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "path", path)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ marketdata.MetadataProvider = (*Client)(nil)
