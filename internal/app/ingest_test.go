package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

func TestSyncHostaway_FetchAndPersist(t *testing.T) {
	client := &fakeHostaway{records: []map[string]any{hostawayRecord()}}
	store := newFakeStore()
	cache := &fakeCache{}
	ing := app.NewIngestionService(client, nil, store, cache, time.Minute, time.Second)

	reviews, cached, err := ing.SyncHostaway(context.Background(), 100, 0, false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if cached {
		t.Fatalf("first sync cannot be cached")
	}
	if len(reviews) != 1 || reviews[0].SourceID != "7453" {
		t.Fatalf("unexpected batch: %+v", reviews)
	}
	all, _ := store.GetAll(context.Background())
	if len(all) != 1 {
		t.Fatalf("batch not persisted: %d", len(all))
	}

	// second call is served from the cache with the same ids
	reviews2, cached2, err := ing.SyncHostaway(context.Background(), 100, 0, false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !cached2 || client.calls != 1 {
		t.Fatalf("expected cache hit, calls=%d cached=%v", client.calls, cached2)
	}
	if reviews2[0].ID != reviews[0].ID {
		t.Fatalf("cache must preserve assigned ids")
	}
}

func TestSyncHostaway_ForceBypassesCache(t *testing.T) {
	client := &fakeHostaway{records: []map[string]any{hostawayRecord()}}
	ing := app.NewIngestionService(client, nil, newFakeStore(), &fakeCache{}, time.Minute, time.Second)

	if _, _, err := ing.SyncHostaway(context.Background(), 100, 0, false); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, _, err := ing.SyncHostaway(context.Background(), 100, 0, true); err != nil {
		t.Fatalf("err: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("force must hit the provider, calls=%d", client.calls)
	}
}

func TestSyncHostaway_FallbackOnProviderError(t *testing.T) {
	client := &fakeHostaway{err: errors.New("boom")}
	store := newFakeStore()
	cache := &fakeCache{}
	ing := app.NewIngestionService(client, nil, store, cache, time.Minute, time.Second)

	reviews, cached, err := ing.SyncHostaway(context.Background(), 100, 0, false)
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if cached || len(reviews) == 0 {
		t.Fatalf("expected fallback batch, got %d cached=%v", len(reviews), cached)
	}
	for _, rv := range reviews {
		if rv.Source != "hostaway" || !rv.Status.Valid() {
			t.Fatalf("malformed fallback review: %+v", rv)
		}
	}
	// fallback batches are never cached
	if len(cache.store) != 0 {
		t.Fatalf("fallback must not populate the cache: %v", cache.store)
	}
}

func TestSyncHostaway_NilClientUsesFallback(t *testing.T) {
	ing := app.NewIngestionService(nil, nil, newFakeStore(), nil, time.Minute, time.Second)
	reviews, _, err := ing.SyncHostaway(context.Background(), 100, 0, false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(reviews) == 0 {
		t.Fatalf("expected fallback batch")
	}
}

func TestSyncGoogleProperty(t *testing.T) {
	client := &fakeGoogle{result: map[string]any{
		"name":   "2B N1 A - 29 Shoreditch Heights",
		"rating": float64(4.6),
		"reviews": []any{
			map[string]any{"author_name": "Emma", "rating": float64(5), "text": "lovely", "time": float64(1724198400)},
		},
	}}
	store := newFakeStore()
	ing := app.NewIngestionService(nil, client, store, &fakeCache{}, time.Minute, time.Second)

	reviews, err := ing.SyncGoogleProperty(context.Background(), "2b-n1-a-29-shoreditch-heights", "fallback name", "place-1", false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviews))
	}
	rv := reviews[0]
	if rv.PropertyID != "2b-n1-a-29-shoreditch-heights" {
		t.Fatalf("unexpected propertyId: %q", rv.PropertyID)
	}
	// the place details name wins over the configured one
	if rv.PropertyName != "2B N1 A - 29 Shoreditch Heights" {
		t.Fatalf("unexpected propertyName: %q", rv.PropertyName)
	}
	if rv.Status != domain.StatusPending {
		t.Fatalf("google reviews must seed pending, got %s", rv.Status)
	}
}

func TestSyncGoogleProperty_FallbackWithoutPlaceID(t *testing.T) {
	client := &fakeGoogle{}
	store := newFakeStore()
	ing := app.NewIngestionService(nil, client, store, nil, time.Minute, time.Second)

	reviews, err := ing.SyncGoogleProperty(context.Background(), "p1", "Property One", "", false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("no place id must mean no provider call")
	}
	if len(reviews) == 0 {
		t.Fatalf("expected fallback reviews")
	}
	if reviews[0].PropertyName != "Property One" {
		t.Fatalf("fallback must keep the configured name, got %q", reviews[0].PropertyName)
	}
}

func TestCacheInfo(t *testing.T) {
	client := &fakeHostaway{records: []map[string]any{hostawayRecord()}}
	ing := app.NewIngestionService(client, nil, newFakeStore(), &fakeCache{}, 5*time.Minute, time.Second)

	info := ing.CacheInfo(context.Background())
	if info.Cached || info.TTLSeconds != 300 {
		t.Fatalf("unexpected pre-sync info: %+v", info)
	}
	if _, _, err := ing.SyncHostaway(context.Background(), 10, 0, false); err != nil {
		t.Fatalf("err: %v", err)
	}
	if info := ing.CacheInfo(context.Background()); !info.Cached {
		t.Fatalf("expected cached batch after sync")
	}
}
