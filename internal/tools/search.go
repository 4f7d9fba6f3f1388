package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// defaultDDGBaseURL is the DuckDuckGo instant-answer endpoint (keyless).
const defaultDDGBaseURL = "https://api.duckduckgo.com"

// maxSearchResults caps related-topic entries per search.
const maxSearchResults = 5

// WebSearchTool queries the DuckDuckGo instant-answer API. A shared rate
// limiter keeps the keyless endpoint at one request per configured
// interval across all search-backed tools.
type WebSearchTool struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewWebSearchTool(client *http.Client, limiter *rate.Limiter, logger *zap.Logger) *WebSearchTool {
	return &WebSearchTool{
		client:  client,
		baseURL: defaultDDGBaseURL,
		limiter: limiter,
		logger:  logger.Named("web_search"),
	}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
	return "General web search for background information, via DuckDuckGo instant answers."
}

func (t *WebSearchTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"query": stringParam("Search query"),
	}, "query")
}

func (t *WebSearchTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		Query string `json:"query"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	return t.Search(ctx, in.Query), nil
}

// Search runs one query and formats the instant-answer payload. Failures
// collapse to a labeled unavailable message, never an error.
func (t *WebSearchTool) Search(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "Empty search query; nothing to look up."
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Sprintf("Search skipped for %q: %v.", query, err)
	}

	text, err := t.fetch(ctx, query)
	if err != nil {
		t.logger.Warn("web search failed", zap.String("query", query), zap.Error(err))
		return fmt.Sprintf("Web search temporarily unavailable for %q; answer from general knowledge.", query)
	}
	return text
}

type ddgResponse struct {
	Abstract      string `json:"Abstract"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

func (t *WebSearchTool) fetch(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_redirect", "1")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling DuckDuckGo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("DuckDuckGo returned status %d", resp.StatusCode)
	}

	var data ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decoding DuckDuckGo response: %w", err)
	}

	var b strings.Builder
	if data.Abstract != "" {
		fmt.Fprintf(&b, "Summary: %s\n", data.Abstract)
		if data.AbstractURL != "" {
			fmt.Fprintf(&b, "Source: %s\n", data.AbstractURL)
		}
	}
	if data.Answer != "" {
		fmt.Fprintf(&b, "Direct Answer: %s\n", data.Answer)
	}
	count := 0
	for _, topic := range data.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		if count == 0 {
			b.WriteString("Related Information:\n")
		}
		count++
		text := topic.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Fprintf(&b, "%d. %s\n", count, text)
		if topic.FirstURL != "" {
			fmt.Fprintf(&b, "   Source: %s\n", topic.FirstURL)
		}
		if count >= maxSearchResults {
			break
		}
	}

	if b.Len() == 0 {
		return fmt.Sprintf("No detailed results found for query: %s", query), nil
	}
	return b.String(), nil
}

// EnergyNewsTool narrows web search to energy industry news.
type EnergyNewsTool struct {
	search *WebSearchTool
}

func NewEnergyNewsTool(search *WebSearchTool) *EnergyNewsTool {
	return &EnergyNewsTool{search: search}
}

func (t *EnergyNewsTool) Name() string { return "energy_news" }

func (t *EnergyNewsTool) Description() string {
	return "Recent energy industry news and market information for a topic."
}

func (t *EnergyNewsTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"topic": stringParam("News topic, e.g. \"solar energy market\""),
	})
}

func (t *EnergyNewsTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		Topic string `json:"topic"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Topic) == "" {
		in.Topic = "solar energy market"
	}
	return t.search.Search(ctx, in.Topic+" renewable energy latest news"), nil
}

// MarketAnalysisTool runs a batch of market/regulatory searches for a
// location. The search tool's limiter spaces the underlying requests.
type MarketAnalysisTool struct {
	search *WebSearchTool
}

func NewMarketAnalysisTool(search *WebSearchTool) *MarketAnalysisTool {
	return &MarketAnalysisTool{search: search}
}

func (t *MarketAnalysisTool) Name() string { return "market_analysis" }

func (t *MarketAnalysisTool) Description() string {
	return "Market analysis for solar projects in a location: incentives, regulations, " +
		"and power purchase agreement rates."
}

func (t *MarketAnalysisTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"location": stringParam("Location name or region"),
	}, "location")
}

func (t *MarketAnalysisTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		Location string `json:"location"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Location) == "" {
		return "No location given; provide a region for market analysis.", nil
	}

	queries := []string{
		in.Location + " solar energy incentives regulations",
		in.Location + " renewable energy market analysis",
		in.Location + " solar power purchase agreement rates",
	}

	var b strings.Builder
	for _, q := range queries {
		fmt.Fprintf(&b, "## %s\n%s\n", q, t.search.Search(ctx, q))
	}
	return b.String(), nil
}
