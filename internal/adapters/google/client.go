package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flex_reviews/internal/adapters/observability"
)

// Client fetches place details (name, rating, reviews) from the Places
// API. One endpoint, no retries: the ingestion layer absorbs failures
// with its fallback dataset, so a fast error beats a slow one here.
type Client struct {
	base string
	key  string
	hc   *http.Client
}

func New(base, key string) *Client {
	return &Client{
		base: base,
		key:  key,
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
}

var ErrUnavailable = errors.New("google: provider unavailable")

func (c *Client) FetchPlaceReviews(ctx context.Context, placeID string) (map[string]any, error) {
	if c.key == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "name,rating,reviews")
	q.Set("key", c.key)
	q.Set("language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/details/json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("google", "/details/json", 0, time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("google", "/details/json", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var env struct {
		Status string         `json:"status"`
		Result map[string]any `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if env.Status != "OK" || env.Result == nil {
		return nil, fmt.Errorf("%w: status %q", ErrUnavailable, env.Status)
	}
	return env.Result, nil
}
