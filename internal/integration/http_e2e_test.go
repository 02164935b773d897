//go:build integration || !unit

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	server "flex_reviews/internal/adapters/http_server"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
	"flex_reviews/internal/storage/memory"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

// Full wiring minus external providers: memory store, real redis cache
// (miniredis), chi router. Ingestion serves the fallback dataset.
func newStack(t *testing.T) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	store := memory.New()

	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Q: app.NewQueryService(store, cache, time.Minute),
		M: app.NewModerationService(store, cache),
		A: app.NewAnalyticsService(store),
		I: app.NewIngestionService(nil, nil, store, cache, time.Minute, time.Second),
	})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url string, body any) (int, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s: %v", method, url, err)
	}
	return resp.StatusCode, out
}

func TestEndToEnd_SyncModeratePublish(t *testing.T) {
	ts := newStack(t)

	// 1. sync: no provider configured, the fallback dataset lands in the store
	code, out := call(t, "POST", ts.URL+"/api/reviews/sync", nil)
	if code != http.StatusOK || !out.Success {
		t.Fatalf("sync: %d %s", code, out.Message)
	}

	// 2. list pending reviews
	code, out = call(t, "GET", ts.URL+"/api/reviews?status=pending&sortBy=date&sortOrder=asc", nil)
	if code != http.StatusOK {
		t.Fatalf("list: %d", code)
	}
	var pending []domain.Review
	if err := json.Unmarshal(out.Data, &pending); err != nil || len(pending) == 0 {
		t.Fatalf("expected pending reviews from fallback, err=%v", err)
	}
	target := pending[0]

	// 3. the property's public page is empty before moderation
	code, out = call(t, "GET", ts.URL+"/api/reviews/public/"+target.PropertyID, nil)
	if code != http.StatusOK {
		t.Fatalf("public: %d", code)
	}
	var pub []domain.PublicReview
	_ = json.Unmarshal(out.Data, &pub)
	if len(pub) != 0 {
		t.Fatalf("expected no public reviews before approval, got %d", len(pub))
	}

	// 4. approve one review
	code, out = call(t, "POST", ts.URL+"/api/reviews/"+target.ID+"/approve",
		map[string]string{"actionBy": "manager@flex.test", "notes": "verified"})
	if code != http.StatusOK || !out.Success {
		t.Fatalf("approve: %d %s", code, out.Message)
	}

	// 5. the public page now shows it; cached variants were invalidated
	code, out = call(t, "GET", ts.URL+"/api/reviews/public/"+target.PropertyID, nil)
	if code != http.StatusOK {
		t.Fatalf("public after approve: %d", code)
	}
	if err := json.Unmarshal(out.Data, &pub); err != nil {
		t.Fatalf("decode public: %v", err)
	}
	if len(pub) != 1 || pub[0].ID != target.ID {
		t.Fatalf("expected the approved review public, got %+v", pub)
	}

	// 6. dashboard reflects the moderation state
	code, out = call(t, "GET", ts.URL+"/api/analytics/dashboard", nil)
	if code != http.StatusOK {
		t.Fatalf("dashboard: %d", code)
	}
	var sum app.DashboardSummary
	if err := json.Unmarshal(out.Data, &sum); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if sum.Overview.ApprovedReviews != 1 {
		t.Fatalf("expected 1 approved in overview: %+v", sum.Overview)
	}
	if sum.Overview.TotalReviews == 0 || sum.Overview.TotalProperties == 0 {
		t.Fatalf("empty overview after sync: %+v", sum.Overview)
	}
}

func TestEndToEnd_CachedIngestKeepsIDs(t *testing.T) {
	ts := newStack(t)

	code, out := call(t, "GET", ts.URL+"/api/reviews/hostaway", nil)
	if code != http.StatusOK {
		t.Fatalf("fetch: %d", code)
	}
	var first []domain.Review
	if err := json.Unmarshal(out.Data, &first); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// fallback batches are not cached, so ids are reassigned per fetch;
	// within a batch every id must still be unique
	seen := map[string]bool{}
	for _, rv := range first {
		if seen[rv.ID] {
			t.Fatalf("duplicate id in batch: %s", rv.ID)
		}
		seen[rv.ID] = true
	}
}
