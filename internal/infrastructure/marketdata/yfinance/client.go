package yfinance

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
	defaultBaseURL = "http://localhost:8000"
	historyPath    = "/api/v1/history"
	infoPath       = "/api/v1/info"
	dailyInterval  = "1d"
)

// Client talks to the yfinance-based Market Data Service, a small Python
// microservice that exposes yfinance downloads over REST. History is
// returned as a pandas frame in "split" orientation, with (field, symbol)
// column pairs on recent yfinance releases.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the default local service.
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a client with a custom base URL (useful for K8s deployments).
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

// SetBaseURL sets the base URL for the API (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// infoResponse mirrors the subset of yfinance Ticker.info the service returns.
type infoResponse struct {
	Symbol           string   `json:"symbol"`
	ShortName        string   `json:"shortName"`
	LongName         string   `json:"longName"`
	Currency         string   `json:"currency"`
	MarketCap        *float64 `json:"marketCap"`
	TrailingPE       *float64 `json:"trailingPE"`
	FiftyTwoWeekHigh *float64 `json:"fiftyTwoWeekHigh"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// History downloads daily bars for the period. A 404 from the service means
// yfinance returned an empty frame and is reported as such, not as an error.
func (c *Client) History(ctx context.Context, symbol domain.TickerSymbol, period domain.Period) (*marketdata.Frame, error) {
	params := url.Values{}
	params.Add("period", period.String())
	params.Add("interval", dailyInterval)

	reqURL := fmt.Sprintf("%s%s/%s?%s", c.baseURL, historyPath, url.PathEscape(symbol.String()), params.Encode())

	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		slog.DebugContext(ctx, "history not available", "symbol", symbol, "period", period)
		return &marketdata.Frame{}, nil
	}

	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	frame, err := marketdata.DecodeFrame(body)
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// Metadata retrieves name, market cap, trailing P/E and 52-week high.
func (c *Client) Metadata(ctx context.Context, symbol domain.TickerSymbol) (*domain.InstrumentMeta, error) {
	reqURL := fmt.Sprintf("%s%s/%s", c.baseURL, infoPath, url.PathEscape(symbol.String()))

	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, fmt.Errorf("no info found for symbol: %s", symbol)
	}

	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	var info infoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	meta := domain.NewInstrumentMeta(symbol)
	meta.ShortName = info.ShortName
	if meta.ShortName == "" {
		meta.ShortName = info.LongName
	}
	meta.Currency = info.Currency
	meta.MarketCap = optional(info.MarketCap)
	meta.TrailingPE = optional(info.TrailingPE)
	meta.FiftyTwoWeekHigh = optional(info.FiftyTwoWeekHigh)

	return &meta, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func apiError(status int, body []byte) error {
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Detail != "" {
		return fmt.Errorf("API error: %s", errResp.Detail)
	}
	return fmt.Errorf("API returned status %d: %s", status, string(body))
}

func optional(v *float64) *domain.Decimal {
	if v == nil {
		return nil
	}
	return domain.OptionalDecimal(*v)
}

// Compile-time check that Client implements Provider.
var _ marketdata.Provider = (*Client)(nil)
