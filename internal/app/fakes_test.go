package app_test

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"flex_reviews/internal/domain"
)

// ---- fakes ----

type fakeStore struct {
	reviews  map[string]domain.Review
	saveErr  error
	saveSeen int
}

func newFakeStore(rs ...domain.Review) *fakeStore {
	s := &fakeStore{reviews: map[string]domain.Review{}}
	for _, rv := range rs {
		s.reviews[rv.ID] = rv
	}
	return s
}

func (s *fakeStore) Save(ctx context.Context, rs []domain.Review) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saveSeen += len(rs)
	for _, rv := range rs {
		s.reviews[rv.ID] = rv
	}
	return nil
}

func (s *fakeStore) GetAll(ctx context.Context) ([]domain.Review, error) {
	out := make([]domain.Review, 0, len(s.reviews))
	for _, rv := range s.reviews {
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (domain.Review, error) {
	rv, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.reviews = map[string]domain.Review{}
	return nil
}

// fakeCache round-trips through JSON the way the real adapter does.
type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

type fakeHostaway struct {
	records []map[string]any
	err     error
	calls   int
}

func (f *fakeHostaway) FetchReviews(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	f.calls++
	return f.records, f.err
}

type fakeGoogle struct {
	result map[string]any
	err    error
	calls  int
}

func (f *fakeGoogle) FetchPlaceReviews(ctx context.Context, placeID string) (map[string]any, error) {
	f.calls++
	return f.result, f.err
}

// ---- fixture helpers ----

func pfloat(f float64) *float64 { return &f }

func mkReview(id, propertyID, status string, rating *float64, submitted time.Time) domain.Review {
	return domain.Review{
		ID:           id,
		SourceID:     "src-" + id,
		Source:       "hostaway",
		PropertyID:   propertyID,
		PropertyName: propertyID,
		GuestName:    "Guest " + id,
		ReviewText:   "review " + id,
		Rating:       domain.Rating{Overall: rating, Categories: map[string]float64{}},
		SubmittedAt:  submitted,
		Status:       domain.Status(status),
		IsPublic:     status == "approved",
		Channel:      "multiple",
		Type:         "guest-review",
		Metadata:     domain.Metadata{Priority: domain.PriorityLow, Tags: []string{}},
		CreatedAt:    submitted,
		UpdatedAt:    submitted,
	}
}
