package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		key := r.Header.Get("x-goog-api-key")
		if key == "" {
			key = r.URL.Query().Get("key")
		}
		assert.Equal(t, "test-key", key)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]any
		require.NoError(t, json.Unmarshal(raw, &req))
		assert.Contains(t, string(raw), "삼성전자 티커")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestClient_Generate(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "005930.KS"}]},
			"finishReason": "STOP"
		}]
	}`)
	defer server.Close()

	client, err := NewClient(context.Background(), Config{APIKey: "test-key", BaseURL: server.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.Model())

	text, err := client.Generate(context.Background(), "삼성전자 티커")

	require.NoError(t, err)
	assert.Equal(t, "005930.KS", text)
}

func TestClient_Generate_APIError(t *testing.T) {
	server := newTestServer(t, http.StatusTooManyRequests, `{
		"error": {"code": 429, "message": "Resource has been exhausted", "status": "RESOURCE_EXHAUSTED"}
	}`)
	defer server.Close()

	client, err := NewClient(context.Background(), Config{APIKey: "test-key", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "삼성전자 티커")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini-2.5-flash")
}

func TestClient_Generate_NoCandidates(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"candidates": []}`)
	defer server.Close()

	client, err := NewClient(context.Background(), Config{APIKey: "test-key", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "삼성전자 티커")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text")
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})

	assert.Error(t, err)
}
