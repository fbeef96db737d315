// Package retrieval provides the knowledge-retrieval collaborator interface
// and an HTTP client for it. Embedding computation and vector similarity
// search live in the external service; the core only issues a query and
// judges the returned passage.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// defaultMinPassageLen is the passage length below which a retrieval result
// counts as "not found". Trivially short passages carry no usable context.
const defaultMinPassageLen = 20

// Client retrieves knowledge passages for a query.
type Client interface {
	// Retrieve returns the best passage for the query and whether anything
	// usable was found. An empty or trivially short passage is not-found,
	// not an error; errors are reserved for transport failures.
	Retrieve(ctx context.Context, query string) (passage string, found bool, err error)
}

// Disabled returns a Client that never finds anything. It stands in when
// the knowledge base is switched off so callers need no nil checks.
func Disabled() Client { return disabledClient{} }

type disabledClient struct{}

func (disabledClient) Retrieve(context.Context, string) (string, bool, error) {
	return "", false, nil
}

// HTTPConfig configures the HTTP retrieval client.
type HTTPConfig struct {
	// URL is the retrieval endpoint (POST, JSON body {"query":..., "top_k":...}).
	URL string `yaml:"url"`

	// TopK is the number of passages requested. Zero means 3.
	TopK int `yaml:"top_k"`

	// MinPassageLen is the minimum byte length for a passage to count as
	// found. Zero means the default (20).
	MinPassageLen int `yaml:"min_passage_len"`

	// Timeout bounds a single retrieval call. Zero means 15s.
	Timeout time.Duration `yaml:"timeout"`
}

// Defaults sets default values for unset fields.
func (c *HTTPConfig) Defaults() {
	if c.TopK == 0 {
		c.TopK = 3
	}
	if c.MinPassageLen == 0 {
		c.MinPassageLen = defaultMinPassageLen
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
}

// HTTPClient is a Client backed by a retrieval HTTP service.
type HTTPClient struct {
	config HTTPConfig
	client *http.Client
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a retrieval client from the given configuration.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	cfg.Defaults()
	return &HTTPClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type retrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type retrieveResponse struct {
	Passages []struct {
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"passages"`
}

// Retrieve implements Client. Passages are concatenated in result order;
// the service already ranks them.
func (c *HTTPClient) Retrieve(ctx context.Context, query string) (string, bool, error) {
	payload, err := json.Marshal(retrieveRequest{Query: query, TopK: c.config.TopK})
	if err != nil {
		return "", false, fmt.Errorf("retrieval: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("retrieval: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("retrieval: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("retrieval: unexpected status %d", resp.StatusCode)
	}

	var parsed retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("retrieval: decode response: %w", err)
	}

	var sb strings.Builder
	for _, p := range parsed.Passages {
		if strings.TrimSpace(p.Content) == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimSpace(p.Content))
	}

	passage := sb.String()
	if len(passage) < c.config.MinPassageLen {
		return "", false, nil
	}
	return passage, true, nil
}
