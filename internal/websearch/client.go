// Package websearch provides the web fallback used when the catalog has no answer.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/vivohome/assistant/internal/models"
)

// DefaultEndpoint is the Tavily search API.
const DefaultEndpoint = "https://api.tavily.com/search"

const maxSnippetLen = 300

// Client calls the Tavily search API. Each request is bounded by the client
// timeout and never retried; the caller decides what a failure means.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient creates a web search client. An empty endpoint uses the Tavily
// default.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
	IncludeImages bool   `json:"include_images"`
	MaxResults    int    `json:"max_results"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		URL     string `json:"url"`
	} `json:"results"`
}

// Search runs a web search for a product query. " giá" is appended so results
// skew toward pricing pages, matching how shoppers phrase the question. The
// AI answer, when present, leads the result list.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.WebResult, error) {
	if limit <= 0 {
		limit = 3
	}
	body, err := json.Marshal(searchRequest{
		APIKey:        c.apiKey,
		Query:         query + " giá",
		SearchDepth:   "basic",
		IncludeAnswer: true,
		MaxResults:    limit,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("web search returned %d: %s", resp.StatusCode, string(b))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode web search response: %w", err)
	}

	var results []models.WebResult
	if parsed.Answer != "" {
		results = append(results, models.WebResult{
			Type:    models.WebTypeAnswer,
			Content: parsed.Answer,
		})
	}
	for i, item := range parsed.Results {
		if i >= limit {
			break
		}
		content := item.Content
		if utf8.RuneCountInString(content) > maxSnippetLen {
			content = string([]rune(content)[:maxSnippetLen])
		}
		results = append(results, models.WebResult{
			Type:    models.WebTypeResult,
			Title:   item.Title,
			Content: content,
			URL:     item.URL,
		})
	}
	return results, nil
}
