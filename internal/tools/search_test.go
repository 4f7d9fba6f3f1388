package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newSearchToolForURL(baseURL string) *WebSearchTool {
	tool := NewWebSearchTool(
		&http.Client{Timeout: 2 * time.Second},
		rate.NewLimiter(rate.Inf, 1),
		zap.NewNop(),
	)
	tool.baseURL = baseURL
	return tool
}

func TestWebSearchFormatsInstantAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "solar capacity factor", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{
			"Abstract": "Capacity factor is the ratio of actual output to nameplate output.",
			"AbstractURL": "https://example.org/cf",
			"Answer": "",
			"RelatedTopics": [
				{"Text": "Solar power in the United States", "FirstURL": "https://example.org/us"},
				{"Text": ""},
				{"Text": "Photovoltaic system performance"}
			]
		}`))
	}))
	defer srv.Close()

	tool := newSearchToolForURL(srv.URL)
	out, err := tool.Call(context.Background(), `{"query": "solar capacity factor"}`)
	require.NoError(t, err)

	assert.Contains(t, out, "Summary: Capacity factor")
	assert.Contains(t, out, "Source: https://example.org/cf")
	assert.Contains(t, out, "1. Solar power in the United States")
	assert.Contains(t, out, "2. Photovoltaic system performance")
}

func TestWebSearchFallbackOnFailure(t *testing.T) {
	tool := newSearchToolForURL("http://127.0.0.1:1")

	out, err := tool.Call(context.Background(), `{"query": "anything"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "temporarily unavailable")
}

func TestWebSearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Abstract": "", "RelatedTopics": []}`))
	}))
	defer srv.Close()

	tool := newSearchToolForURL(srv.URL)
	out := tool.Search(context.Background(), "obscure query")
	assert.Contains(t, out, "No detailed results found")
}

func TestEnergyNewsDefaultsTopic(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"Abstract": "news"}`))
	}))
	defer srv.Close()

	news := NewEnergyNewsTool(newSearchToolForURL(srv.URL))
	_, err := news.Call(context.Background(), `{}`)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "solar energy market")
	assert.Contains(t, gotQuery, "renewable energy latest news")
}

func TestMarketAnalysisRunsAllQueries(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"Abstract": "result"}`))
	}))
	defer srv.Close()

	market := NewMarketAnalysisTool(newSearchToolForURL(srv.URL))
	out, err := market.Call(context.Background(), `{"location": "Texas"}`)
	require.NoError(t, err)

	require.Len(t, queries, 3)
	assert.Contains(t, queries[0], "Texas solar energy incentives")
	assert.Contains(t, out, "power purchase agreement")
}

func TestMarketAnalysisRequiresLocation(t *testing.T) {
	market := NewMarketAnalysisTool(newSearchToolForURL("http://127.0.0.1:1"))

	out, err := market.Call(context.Background(), `{}`)
	require.NoError(t, err)
	assert.Contains(t, out, "No location given")
}
