package hostaway

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"flex_reviews/internal/adapters/observability"
)

// Client talks to the Hostaway reviews API with client-side rate limiting
// and bounded retries. Callers treat any returned error as
// provider-unavailable and fall back locally.
type Client struct {
	base      string
	accountID string
	key       string
	hc        *http.Client
	rl        *rate.Limiter
}

func New(base, accountID, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:      base,
		accountID: accountID,
		key:       key,
		hc:        &http.Client{Timeout: 10 * time.Second},
		rl:        rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrUnavailable = errors.New("hostaway: provider unavailable")
	ErrBadEnvelope = errors.New("hostaway: malformed response envelope")
)

// envelope is the Hostaway wire format: {"status":"success","result":[...]}.
type envelope struct {
	Status string           `json:"status"`
	Result []map[string]any `json:"result"`
}

func (c *Client) FetchReviews(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = 100
	}
	q := url.Values{}
	q.Set("accountId", c.accountID)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var env envelope
	if err := c.get(ctx, c.base+"/reviews?"+q.Encode(), &env); err != nil {
		return nil, err
	}
	if env.Status != "success" {
		return nil, fmt.Errorf("%w: status %q", ErrBadEnvelope, env.Status)
	}
	return env.Result, nil
}

// get performs a GET with rate limiting, retries on 429/transient 5xx
// (honoring Retry-After), and a JSON decode into out.
func (c *Client) get(ctx context.Context, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "flex-reviews/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			observability.ObserveExternal("hostaway", "/reviews", 0, time.Since(start))
			return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			observability.ObserveExternal("hostaway", "/reviews", resp.StatusCode, time.Since(start))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrBadEnvelope, err)
			}
			return nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			observability.ObserveExternal("hostaway", "/reviews", resp.StatusCode, time.Since(start))
			return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			observability.ObserveExternal("hostaway", "/reviews", resp.StatusCode, time.Since(start))
			return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if
// absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles each attempt (200ms, 400ms, 800ms...) with up to +50%
// jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
