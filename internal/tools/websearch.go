// Package tools contains the built-in tool implementations: web search,
// file access, knowledge retrieval, and memory access.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aura-ai/aura/internal/tool"
)

// maxSearchResults caps how many results a single search reports back to
// the model. More results add prompt tokens without adding signal.
const maxSearchResults = 5

// SearchConfig configures the SearxNG web search client.
type SearchConfig struct {
	// BaseURL is the SearxNG instance, e.g. http://localhost:8088.
	BaseURL string `yaml:"base_url"`

	// Language is passed to SearxNG as the result language.
	Language string `yaml:"language"`

	// RatePerMinute caps outgoing search requests. Zero means 10.
	RatePerMinute int `yaml:"rate_per_minute"`

	// Timeout bounds a single search request. Zero means 15s.
	Timeout time.Duration `yaml:"timeout"`
}

// Defaults sets default values for unset fields.
func (c *SearchConfig) Defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8088"
	}
	if c.Language == "" {
		c.Language = "zh"
	}
	if c.RatePerMinute == 0 {
		c.RatePerMinute = 10
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
}

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"content"`
}

// SearchClient queries a SearxNG instance for web results.
type SearchClient struct {
	config  SearchConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewSearchClient creates a search client from the given configuration.
func NewSearchClient(cfg SearchConfig) *SearchClient {
	cfg.Defaults()
	return &SearchClient{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), 1),
	}
}

type searxResponse struct {
	Results []SearchResult `json:"results"`
}

// Search runs a query and returns at most maxSearchResults hits.
// An empty result list is a valid outcome, not an error.
func (c *SearchClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tools: search rate limit wait: %w", err)
	}

	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tools: create search request: %w", err)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("language", c.config.Language)
	q.Set("safesearch", "0")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tools: search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tools: search returned status %d", resp.StatusCode)
	}

	var parsed searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("tools: decode search response: %w", err)
	}

	results := parsed.Results
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results, nil
}

// WebSearchTool exposes the search client as an agent tool.
type WebSearchTool struct {
	client *SearchClient
}

// Compile-time interface check.
var _ tool.Tool = (*WebSearchTool)(nil)

// NewWebSearchTool wraps a search client as a tool.
func NewWebSearchTool(client *SearchClient) *WebSearchTool {
	return &WebSearchTool{client: client}
}

// Name implements tool.Tool.
func (t *WebSearchTool) Name() string { return "websearch" }

// Description implements tool.Tool.
func (t *WebSearchTool) Description() string {
	return "Search the web for current information such as weather, news, and stock prices."
}

// Schema implements tool.Tool.
func (t *WebSearchTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "The search query"}
		},
		"required": ["query"]
	}`)
}

type webSearchArgs struct {
	Query string `json:"query"`
}

// Execute implements tool.Tool.
func (t *WebSearchTool) Execute(ctx context.Context, args json.RawMessage) (tool.Output, error) {
	var parsed webSearchArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return tool.Output{Content: "invalid arguments: " + err.Error(), IsError: true}, nil
	}
	if strings.TrimSpace(parsed.Query) == "" {
		return tool.Output{Content: "query must not be empty", IsError: true}, nil
	}

	results, err := t.client.Search(ctx, parsed.Query)
	if err != nil {
		return tool.Output{Content: "search failed: " + err.Error(), IsError: true}, nil
	}
	if len(results) == 0 {
		return tool.Output{Content: "No search results found."}, nil
	}
	return tool.Output{Content: FormatSearchResults(results)}, nil
}

// FormatSearchResults renders results as a numbered list for the model.
func FormatSearchResults(results []SearchResult) string {
	var sb strings.Builder
	sb.WriteString("Search results:\n\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&sb, "   Link: %s\n", r.URL)
		fmt.Fprintf(&sb, "   %s\n\n", r.Snippet)
	}
	return sb.String()
}
