package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client submits one JSON request/response round trip through a Manager,
// at a fixed priority and timeout.
type Client struct {
	manager  *Manager
	http     *http.Client
	endpoint string
	priority Priority
	timeout  time.Duration
}

// NewClient builds a Client bound to endpoint (an OpenAI-compatible chat
// completions URL) at the given priority.
func NewClient(manager *Manager, endpoint string, priority Priority, timeout time.Duration) *Client {
	return &Client{
		manager:  manager,
		http:     &http.Client{Timeout: timeout + 5*time.Second},
		endpoint: endpoint,
		priority: priority,
		timeout:  timeout,
	}
}

// call posts payload as JSON to c.endpoint and returns the raw response
// body, routed through the priority queue.
func (c *Client) call(ctx context.Context, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("llmclient: marshal payload: %w", err)
	}

	resultCh := make(chan []byte, 1)
	errCh := make(chan error, 1)

	req := &Request{
		Priority: c.priority,
		resultCh: resultCh,
		errCh:    errCh,
		fn: func() ([]byte, error) {
			return c.doPost(ctx, body)
		},
	}
	if err := c.manager.Submit(req); err != nil {
		return nil, err
	}

	select {
	case b := <-resultCh:
		return b, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) doPost(ctx context.Context, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llmclient: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llmclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llmclient: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llmclient: endpoint returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
