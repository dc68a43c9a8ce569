// internal/places/client.go

package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the external places API
type Client interface {
	// TextSearch runs a free-text place search and returns the raw
	// provider response
	TextSearch(ctx context.Context, query string) (json.RawMessage, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) TextSearch(ctx context.Context, query string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/textsearch?query=%s&key=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read places response: %w", err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("places search returned invalid JSON")
	}

	return json.RawMessage(body), nil
}
