package memory

import (
	"context"
	"sort"
	"sync"

	"flex_reviews/internal/domain"
)

// Store is the in-memory adapter: a mutex-guarded map keyed by review id.
// Reads hand out deep copies, so callers get a snapshot-equivalent view
// and can never observe a mutation applied after their read started.
type Store struct {
	mu      sync.RWMutex
	reviews map[string]domain.Review
}

func New() *Store {
	return &Store{reviews: make(map[string]domain.Review)}
}

func (s *Store) Save(ctx context.Context, rs []domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rv := range rs {
		s.reviews[rv.ID] = rv.Clone()
	}
	return nil
}

func (s *Store) GetAll(ctx context.Context) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Review, 0, len(s.reviews))
	for _, rv := range s.reviews {
		out = append(out, rv.Clone())
	}
	// stable base order; the query engine re-sorts as requested
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rv, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv.Clone(), nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = make(map[string]domain.Review)
	return nil
}

// Len is a convenience for the stats endpoint and tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}
