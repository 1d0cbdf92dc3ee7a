package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata"
)

const (
	defaultBaseURL = "https://api.twelvedata.com"
	timeSeriesPath = "/time_series"
	quotePath      = "/quote"
	dailyInterval  = "1day"
	statusError    = "error"
	// maxOutputSize is the API ceiling; start_date bounds the window.
	maxOutputSize = 5000
	dateLayout    = "2006-01-02"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// SetBaseURL sets the base URL for the API (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type timeSeriesResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
	} `json:"values"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type fiftyTwoWeek struct {
	High string `json:"high"`
	Low  string `json:"low"`
}

type quoteResponse struct {
	Symbol       string       `json:"symbol"`
	Name         string       `json:"name"`
	Currency     string       `json:"currency"`
	FiftyTwoWeek fiftyTwoWeek `json:"fifty_two_week"`
	Status       string       `json:"status"`
	Message      string       `json:"message"`
}

// History requests the daily values from the period's first calendar day
// onwards. outputsize counts data points, not days, so it is only set to the
// ceiling and start_date does the trimming. An "error" status with code 400
// or 404 means the symbol is unknown and yields an empty frame.
func (c *Client) History(ctx context.Context, symbol domain.TickerSymbol, period domain.Period) (*marketdata.Frame, error) {
	params := url.Values{}
	params.Add("symbol", symbol.String())
	params.Add("interval", dailyInterval)
	params.Add("start_date", period.Start(c.now().UTC()).Format(dateLayout))
	params.Add("outputsize", fmt.Sprintf("%d", maxOutputSize))
	params.Add("apikey", c.apiKey)

	var seriesResp timeSeriesResponse
	if err := c.getJSON(ctx, timeSeriesPath, params, &seriesResp); err != nil {
		return nil, err
	}

	if seriesResp.Status == statusError {
		if seriesResp.Code == http.StatusBadRequest || seriesResp.Code == http.StatusNotFound {
			slog.DebugContext(ctx, "time series not available", "symbol", symbol, "message", seriesResp.Message)
			return &marketdata.Frame{}, nil
		}
		return nil, fmt.Errorf("time series request failed for symbol %s: %s", symbol, seriesResp.Message)
	}

	builder := marketdata.NewFrameBuilder(marketdata.ColumnOpen, marketdata.ColumnHigh, marketdata.ColumnLow, marketdata.ColumnClose)
	for _, v := range seriesResp.Values {
		t, err := parseDatetime(v.Datetime)
		if err != nil {
			slog.WarnContext(ctx, "skipping value with unparseable datetime", "symbol", symbol, "datetime", v.Datetime)
			continue
		}
		builder.AddTextRow(t, v.Open, v.High, v.Low, v.Close)
	}

	return builder.Build(), nil
}

// Metadata uses /quote, which reports name, currency and the 52-week range.
// Twelve Data has no market cap or P/E on this endpoint.
func (c *Client) Metadata(ctx context.Context, symbol domain.TickerSymbol) (*domain.InstrumentMeta, error) {
	params := url.Values{}
	params.Add("symbol", symbol.String())
	params.Add("apikey", c.apiKey)

	var quoteResp quoteResponse
	if err := c.getJSON(ctx, quotePath, params, &quoteResp); err != nil {
		return nil, err
	}

	if quoteResp.Status == statusError {
		return nil, fmt.Errorf("quote request failed for symbol %s: %s", symbol, quoteResp.Message)
	}

	meta := domain.NewInstrumentMeta(symbol)
	meta.ShortName = quoteResp.Name
	meta.Currency = quoteResp.Currency

	if quoteResp.FiftyTwoWeek.High != "" {
		high, err := domain.NewDecimalFromString(quoteResp.FiftyTwoWeek.High)
		if err != nil {
			return nil, fmt.Errorf("failed to parse 52-week high: %w", err)
		}
		meta.FiftyTwoWeekHigh = &high
	}

	return &meta, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
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

func parseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateTime, s)
}

var _ marketdata.Provider = (*Client)(nil)
