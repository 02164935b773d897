package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/domain"
)

const hostawayCacheKey = "ingest:hostaway"

func googleCacheKey(propertyID string) string { return "ingest:google:" + propertyID }

// IngestionService pulls raw batches from the providers, normalizes them
// and hands the result to the store. Provider failures never surface to
// callers: the fixed fallback dataset is substituted instead. Successful
// batches are cached with a TTL; force bypasses the cache.
type IngestionService struct {
	hostaway domain.HostawayClient
	google   domain.GoogleClient
	store    domain.ReviewStore
	cache    domain.Cache
	cacheTTL time.Duration
	timeout  time.Duration
}

func NewIngestionService(h domain.HostawayClient, g domain.GoogleClient, store domain.ReviewStore, cache domain.Cache, ttl, timeout time.Duration) *IngestionService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IngestionService{hostaway: h, google: g, store: store, cache: cache, cacheTTL: ttl, timeout: timeout}
}

// SyncHostaway fetches, normalizes and persists one Hostaway batch. The
// second return reports whether the batch came from the TTL cache.
func (s *IngestionService) SyncHostaway(ctx context.Context, limit, offset int, force bool) ([]domain.Review, bool, error) {
	if !force && s.cache != nil {
		var cached []domain.Review
		if ok, _ := s.cache.Get(ctx, hostawayCacheKey, &cached); ok {
			// keep the store authoritative even on a cache hit
			if err := s.store.Save(ctx, cached); err != nil {
				return nil, false, err
			}
			return cached, true, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		raw          []map[string]any
		err          error
		fromFallback bool
	)
	if s.hostaway == nil {
		observability.ObserveFallback("hostaway")
		raw = hostawayFallback()
		fromFallback = true
	} else if raw, err = s.hostaway.FetchReviews(fetchCtx, limit, offset); err != nil {
		log.Warn().Err(err).Msg("hostaway fetch failed, using fallback dataset")
		observability.ObserveFallback("hostaway")
		raw = hostawayFallback()
		fromFallback = true
	}

	reviews := NormalizeHostawayBatch(raw, time.Now().UTC())
	if err := s.store.Save(ctx, reviews); err != nil {
		return nil, false, err
	}
	observability.ObserveIngest("hostaway", len(reviews))

	if !fromFallback && s.cache != nil {
		_ = s.cache.Set(ctx, hostawayCacheKey, reviews, int(s.cacheTTL.Seconds()))
	}
	log.Info().Int("count", len(reviews)).Bool("fallback", fromFallback).Msg("hostaway sync done")
	return reviews, false, nil
}

// SyncGoogleProperty fetches the Places reviews for one mapped property.
func (s *IngestionService) SyncGoogleProperty(ctx context.Context, propertyID, propertyName, placeID string, force bool) ([]domain.Review, error) {
	key := googleCacheKey(propertyID)
	if !force && s.cache != nil {
		var cached []domain.Review
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			if err := s.store.Save(ctx, cached); err != nil {
				return nil, err
			}
			return cached, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, fromFallback := s.fetchGoogle(fetchCtx, propertyID, placeID)
	if name := stringAt(raw, "name"); name != "" {
		propertyName = name
	}

	var records []map[string]any
	if revs, ok := raw["reviews"].([]any); ok {
		for _, r := range revs {
			if m, ok := r.(map[string]any); ok {
				records = append(records, m)
			}
		}
	}

	reviews := NormalizeGoogleBatch(records, propertyID, propertyName, time.Now().UTC())
	if err := s.store.Save(ctx, reviews); err != nil {
		return nil, err
	}
	observability.ObserveIngest("google", len(reviews))

	if !fromFallback && s.cache != nil {
		_ = s.cache.Set(ctx, key, reviews, int(s.cacheTTL.Seconds()))
	}
	log.Info().Str("property", propertyID).Int("count", len(reviews)).Bool("fallback", fromFallback).Msg("google sync done")
	return reviews, nil
}

func (s *IngestionService) fetchGoogle(ctx context.Context, propertyID, placeID string) (map[string]any, bool) {
	if s.google == nil || placeID == "" {
		observability.ObserveFallback("google")
		return map[string]any{"reviews": asAny(googleFallback())}, true
	}
	result, err := s.google.FetchPlaceReviews(ctx, placeID)
	if err != nil {
		log.Warn().Err(err).Str("property", propertyID).Msg("google fetch failed, using fallback dataset")
		observability.ObserveFallback("google")
		return map[string]any{"reviews": asAny(googleFallback())}, true
	}
	return result, false
}

func asAny(in []map[string]any) []any {
	out := make([]any, len(in))
	for i, m := range in {
		out[i] = m
	}
	return out
}

// CacheInfo reports whether a fresh Hostaway batch is cached; surfaced on
// the stats endpoint.
type CacheInfo struct {
	Cached     bool `json:"cached"`
	TTLSeconds int  `json:"ttlSeconds"`
}

func (s *IngestionService) CacheInfo(ctx context.Context) CacheInfo {
	info := CacheInfo{TTLSeconds: int(s.cacheTTL.Seconds())}
	if s.cache == nil {
		return info
	}
	var cached []domain.Review
	info.Cached, _ = s.cache.Get(ctx, hostawayCacheKey, &cached)
	return info
}
