package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	chartPath      = "/v8/finance/chart"
	dailyInterval  = "1d"
	notFoundCode   = "Not Found"
)

// EquityFunc fetches an equity quote. equity.Get is the production value.
type EquityFunc func(symbol string) (*finance.Equity, error)

// Client reads daily bars straight from the public Yahoo chart API and
// metadata through finance-go, without the yfinance service in between.
type Client struct {
	baseURL    string
	httpClient *http.Client
	equity     EquityFunc
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		equity: equity.Get,
	}
}

// NewClientWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	c := NewClient()
	c.httpClient = httpClient
	return c
}

// SetBaseURL sets the base URL for the chart API (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetEquityFunc replaces the finance-go lookup (useful for testing).
func (c *Client) SetEquityFunc(fn EquityFunc) {
	c.equity = fn
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the chart for the period as a range. Null bars (holidays,
// halted sessions) become missing cells and are dropped by Frame.Bars.
func (c *Client) History(ctx context.Context, symbol domain.TickerSymbol, period domain.Period) (*marketdata.Frame, error) {
	params := url.Values{}
	params.Add("interval", dailyInterval)
	params.Add("range", period.String())

	reqURL := fmt.Sprintf("%s%s/%s?%s", c.baseURL, chartPath, url.PathEscape(symbol.String()), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Yahoo answers unknown symbols with 404 and a structured error
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == notFoundCode {
			return &marketdata.Frame{}, nil
		}
		return nil, fmt.Errorf("chart API error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	builder := marketdata.NewFrameBuilder(marketdata.ColumnOpen, marketdata.ColumnHigh, marketdata.ColumnLow, marketdata.ColumnClose)
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return builder.Build(), nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	for i, ts := range result.Timestamp {
		builder.AddRow(time.Unix(ts, 0).UTC(), at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i))
	}

	return builder.Build(), nil
}

// Metadata maps a finance-go equity quote onto InstrumentMeta.
func (c *Client) Metadata(ctx context.Context, symbol domain.TickerSymbol) (*domain.InstrumentMeta, error) {
	eq, err := c.equity(symbol.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get equity quote: %w", err)
	}
	if eq == nil {
		return nil, fmt.Errorf("no equity quote found for symbol: %s", symbol)
	}

	meta := domain.NewInstrumentMeta(symbol)
	meta.ShortName = eq.ShortName
	if meta.ShortName == "" {
		meta.ShortName = eq.LongName
	}
	meta.Currency = eq.CurrencyID
	meta.MarketCap = domain.OptionalDecimal(float64(eq.MarketCap))
	meta.TrailingPE = domain.OptionalDecimal(eq.TrailingPE)
	meta.FiftyTwoWeekHigh = domain.OptionalDecimal(eq.FiftyTwoWeekHigh)

	slog.DebugContext(ctx, "equity metadata loaded", "symbol", symbol, "name", meta.ShortName)
	return &meta, nil
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

var _ marketdata.Provider = (*Client)(nil)
