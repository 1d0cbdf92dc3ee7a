package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

func feedXML(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>"엔비디아" - Google 뉴스</title>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<item><title>엔비디아 뉴스 %d - 한국경제</title><link>https://news.example/%d</link>`+
			`<pubDate>Tue, 02 Jan 2024 0%d:00:00 GMT</pubDate><source url="https://www.hankyung.com">한국경제</source></item>`, i, i, i%10)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func TestGoogleNews_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rss/search", r.URL.Path)
		assert.Equal(t, "엔비디아", r.URL.Query().Get("q"))
		assert.Equal(t, "ko", r.URL.Query().Get("hl"))
		assert.Equal(t, "KR", r.URL.Query().Get("gl"))
		assert.Equal(t, "KR:ko", r.URL.Query().Get("ceid"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML(8)))
	}))
	defer server.Close()

	feed := NewGoogleNews("ko", "KR", 0)
	feed.SetBaseURL(server.URL)

	items, err := feed.Search(context.Background(), "엔비디아", "")

	require.NoError(t, err)
	require.Len(t, items, DefaultLimit)
	assert.Equal(t, "엔비디아 뉴스 1", items[0].Title)
	assert.Equal(t, "한국경제", items[0].Source)
	assert.Equal(t, "https://news.example/1", items[0].Link)
	assert.True(t, time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC).Equal(items[0].PublishedAt), "got %s", items[0].PublishedAt)
}

func TestGoogleNews_Search_OtherLanguage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("hl"))
		assert.Equal(t, "US", r.URL.Query().Get("gl"))
		assert.Equal(t, "US:en", r.URL.Query().Get("ceid"))
		_, _ = w.Write([]byte(feedXML(1)))
	}))
	defer server.Close()

	feed := NewGoogleNews("ko", "KR", 3)
	feed.SetBaseURL(server.URL)

	items, err := feed.Search(context.Background(), "nvidia", "en")

	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestGoogleNews_Search_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusServiceUnavailable, ""},
		{"not a feed", http.StatusOK, "<html><body>captcha</body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			feed := NewGoogleNews("ko", "KR", 5)
			feed.SetBaseURL(server.URL)

			_, err := feed.Search(context.Background(), "nvidia", "")

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrExternalService))
		})
	}
}

func TestGoogleNews_Search_NetworkError(t *testing.T) {
	feed := NewGoogleNews("ko", "KR", 5)
	feed.SetBaseURL("http://127.0.0.1:0")

	_, err := feed.Search(context.Background(), "nvidia", "")

	assert.Equal(t, domain.KindExternalServiceFailure, domain.KindOf(err))
}

func TestToNewsItem_TitleSuffixFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<rss version="2.0"><channel>` +
			`<item><title>Nvidia - Apple - hits record - Reuters</title><link>https://r.example/1</link></item>` +
			`<item><title>No publisher here</title><link>https://r.example/2</link></item>` +
			`</channel></rss>`))
	}))
	defer server.Close()

	feed := NewGoogleNews("en", "US", 5)
	feed.SetBaseURL(server.URL)

	items, err := feed.Search(context.Background(), "nvidia", "")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Nvidia - Apple - hits record", items[0].Title)
	assert.Equal(t, "Reuters", items[0].Source)
	assert.Equal(t, "No publisher here", items[1].Title)
	assert.Equal(t, "", items[1].Source)
	assert.True(t, items[1].PublishedAt.IsZero())
}
