// Package searchclient implements agent.SearchClient against a SearxNG
// instance for querying, and direct HTTP + HTML/PDF extraction for
// reading pages.
package searchclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go-deepresearch/internal/agent"
	"go-deepresearch/internal/types"
)

var _ agent.SearchClient = (*Client)(nil)

// Client implements agent.SearchClient: Search against SearxNG, ReadURL
// by fetching and extracting the page directly.
type Client struct {
	baseURL    string
	maxResults int
	http       *http.Client
	userAgent  string
}

// New builds a Client. baseURL is the SearxNG instance root (e.g.
// "http://localhost:8888"); maxResults bounds how many results Search
// returns per query.
func New(baseURL string, maxResults int, timeout time.Duration) *Client {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Client{
		baseURL:    baseURL,
		maxResults: maxResults,
		http:       &http.Client{Timeout: timeout},
		userAgent:  "Mozilla/5.0 (compatible; go-deepresearch/1.0)",
	}
}

type searxResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type searxResponse struct {
	Query           string        `json:"query"`
	NumberOfResults int           `json:"number_of_results"`
	Results         []searxResult `json:"results"`
}

// Search queries SearxNG and returns boosted snippets in rank-and-filter
// order, each with Weight 1.0 and the boost fields left at their zero
// value (the caller applies HostnameBoost/PathBoost and ComputeScore).
func (c *Client) Search(ctx context.Context, q types.SerpQuery) ([]types.BoostedSearchSnippet, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("searchclient: invalid base URL: %w", err)
	}

	query := u.Query()
	query.Set("q", q.Q)
	query.Set("format", "json")
	if q.Tbs != "" {
		query.Set("time_range", q.Tbs)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("searchclient: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searchclient: search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("searchclient: read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searchclient: searxng returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searxResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("searchclient: parse search response: %w", err)
	}

	ranked := rankAndFilter(q.Q, parsed.Results)
	limit := c.maxResults
	if limit > len(ranked) {
		limit = len(ranked)
	}

	out := make([]types.BoostedSearchSnippet, 0, limit)
	for i := 0; i < limit; i++ {
		r := ranked[i]
		out = append(out, types.BoostedSearchSnippet{
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Content,
			Weight:      1.0,
		})
	}
	return out, nil
}
