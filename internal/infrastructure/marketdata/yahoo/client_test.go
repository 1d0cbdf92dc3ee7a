package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

const chartWithNullBar = `{
	"chart": {
		"result": [{
			"meta": {"currency": "KRW", "symbol": "005930.KS"},
			"timestamp": [1704153600, 1704240000, 1704326400],
			"indicators": {"quote": [{
				"open":  [78200, null, 76100],
				"high":  [79800, null, 77300],
				"low":   [78200, null, 76000],
				"close": [79600, null, 77000]
			}]}
		}],
		"error": null
	}
}`

func TestClient_History(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		body         string
		expectedBars int
		expectEmpty  bool
		expectError  bool
	}{
		{
			name:         "null bars are dropped",
			statusCode:   http.StatusOK,
			body:         chartWithNullBar,
			expectedBars: 2,
		},
		{
			name:        "unknown symbol",
			statusCode:  http.StatusNotFound,
			body:        `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`,
			expectEmpty: true,
		},
		{
			name:        "invalid range",
			statusCode:  http.StatusUnprocessableEntity,
			body:        `{"chart": {"result": null, "error": {"code": "Unprocessable Entity", "description": "Invalid input - range"}}}`,
			expectError: true,
		},
		{
			name:        "rate limited plain body",
			statusCode:  http.StatusTooManyRequests,
			body:        `Too Many Requests`,
			expectError: true,
		},
		{
			name:        "empty result",
			statusCode:  http.StatusOK,
			body:        `{"chart": {"result": [], "error": null}}`,
			expectEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v8/finance/chart/005930.KS", r.URL.Path)
				assert.Equal(t, "3mo", r.URL.Query().Get("range"))
				assert.Equal(t, "1d", r.URL.Query().Get("interval"))
				assert.NotEmpty(t, r.Header.Get("User-Agent"))
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient()
			client.SetBaseURL(server.URL)

			frame, err := client.History(context.Background(), "005930.KS", domain.Period3Mo)

			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.expectEmpty {
				bars, err := frame.Bars()
				if err == nil {
					assert.Empty(t, bars)
				}
				assert.True(t, frame.Empty())
				return
			}

			bars, err := frame.Bars()
			require.NoError(t, err)
			require.Len(t, bars, tt.expectedBars)
			assert.True(t, bars[0].Close.Equal(domain.NewDecimalFromInt(79600)))
			assert.True(t, bars[1].Close.Equal(domain.NewDecimalFromInt(77000)))
		})
	}
}

func TestClient_History_NetworkError(t *testing.T) {
	client := NewClient()
	client.SetBaseURL("http://127.0.0.1:0")

	_, err := client.History(context.Background(), "AAPL", domain.Period1Mo)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
}

func TestClient_Metadata(t *testing.T) {
	client := NewClient()
	client.SetEquityFunc(func(symbol string) (*finance.Equity, error) {
		assert.Equal(t, "NVDA", symbol)
		eq := &finance.Equity{
			MarketCap:  3200000000000,
			TrailingPE: 65.2,
		}
		eq.ShortName = "NVIDIA Corporation"
		eq.CurrencyID = "USD"
		eq.FiftyTwoWeekHigh = 152.89
		return eq, nil
	})

	meta, err := client.Metadata(context.Background(), "NVDA")

	require.NoError(t, err)
	assert.Equal(t, "NVIDIA Corporation", meta.ShortName)
	assert.Equal(t, "USD", meta.Currency)
	require.NotNil(t, meta.MarketCap)
	assert.True(t, meta.MarketCap.Equal(domain.NewDecimalFromInt(3200000000000)))
	require.NotNil(t, meta.TrailingPE)
	assert.True(t, meta.TrailingPE.Equal(domain.MustDecimal("65.2")))
	require.NotNil(t, meta.FiftyTwoWeekHigh)
	assert.True(t, meta.FiftyTwoWeekHigh.Equal(domain.MustDecimal("152.89")))
}

func TestClient_Metadata_Sparse(t *testing.T) {
	client := NewClient()
	client.SetEquityFunc(func(string) (*finance.Equity, error) {
		eq := &finance.Equity{LongName: "Bitcoin USD"}
		eq.CurrencyID = "USD"
		return eq, nil
	})

	meta, err := client.Metadata(context.Background(), "BTC-USD")

	require.NoError(t, err)
	assert.Equal(t, "Bitcoin USD", meta.ShortName)
	assert.Nil(t, meta.MarketCap)
	assert.Nil(t, meta.TrailingPE)
	assert.Nil(t, meta.FiftyTwoWeekHigh)
}

func TestClient_Metadata_Errors(t *testing.T) {
	client := NewClient()

	client.SetEquityFunc(func(string) (*finance.Equity, error) {
		return nil, errors.New("remote-error")
	})
	_, err := client.Metadata(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote-error")

	client.SetEquityFunc(func(string) (*finance.Equity, error) {
		return nil, nil
	})
	_, err = client.Metadata(context.Background(), "AAPL")
	require.Error(t, err)
}
