package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

// QueryService answers filtered/sorted/paginated reads over the full
// review collection. Public reads are cache-aside; moderator reads always
// hit the store.
type QueryService struct {
	store    domain.ReviewStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(store domain.ReviewStore, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: store, cache: cache, cacheTTL: ttl}
}

func (s *QueryService) List(ctx context.Context, q domain.ReviewQuery) (domain.ReviewsPage, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return domain.ReviewsPage{}, err
	}
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	return ApplyQuery(all, q), nil
}

func (s *QueryService) GetByID(ctx context.Context, id string) (domain.Review, error) {
	return s.store.GetByID(ctx, id)
}

// PublicByProperty restricts the engine to approved reviews of one
// property and projects them to the guest-safe view. The distribution and
// mean cover every approved review of the property, not just the page.
func (s *QueryService) PublicByProperty(ctx context.Context, propertyID string, q domain.ReviewQuery) (domain.PublicReviewsPage, error) {
	q.PropertyIDs = []string{propertyID}
	q.Statuses = []domain.Status{domain.StatusApproved}
	q.Normalize()
	if err := q.Validate(); err != nil {
		return domain.PublicReviewsPage{}, err
	}

	key := publicCacheKey(propertyID, q.Page, q.Limit)
	var cached domain.PublicReviewsPage
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	all, err := s.store.GetAll(ctx)
	if err != nil {
		return domain.PublicReviewsPage{}, err
	}
	page := ApplyQuery(all, q)

	out := domain.PublicReviewsPage{
		Items: make([]domain.PublicReview, 0, len(page.Items)),
		Meta:  domain.PublicMeta{PageMeta: page.Meta},
	}
	for _, rv := range page.Items {
		out.Items = append(out.Items, rv.PublicView())
	}

	approved := filterReviews(all, domain.ReviewQuery{
		PropertyIDs: []string{propertyID},
		Statuses:    []domain.Status{domain.StatusApproved},
	})
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	var totalRating float64
	for _, rv := range approved {
		if rv.Rating.Overall == nil {
			continue
		}
		totalRating += *rv.Rating.Overall
		star := int(math.Round(*rv.Rating.Overall))
		if star >= 1 && star <= 5 {
			dist[star]++
		}
	}
	if len(approved) > 0 {
		out.Meta.AverageRating = round1(totalRating / float64(len(approved)))
	}
	out.Meta.RatingDistribution = dist

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func publicCacheKey(propertyID string, page, limit int) string {
	return fmt.Sprintf("public:%s:%d:%d", propertyID, page, limit)
}

/********** pure engine **********/

// ApplyQuery filters, sorts and pages an in-memory collection. The input
// slice is never mutated.
func ApplyQuery(all []domain.Review, q domain.ReviewQuery) domain.ReviewsPage {
	matched := filterReviews(all, q)
	sortReviews(matched, q.SortBy, q.SortOrder)

	total := len(matched)
	totalPages := 0
	if q.Limit > 0 {
		totalPages = (total + q.Limit - 1) / q.Limit
	}
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return domain.ReviewsPage{
		Items: matched[start:end],
		Meta: domain.PageMeta{
			Total:      total,
			Page:       q.Page,
			Limit:      q.Limit,
			TotalPages: totalPages,
			HasMore:    end < total,
		},
	}
}

func filterReviews(all []domain.Review, q domain.ReviewQuery) []domain.Review {
	out := make([]domain.Review, 0, len(all))
	search := strings.ToLower(q.Search)
	for _, rv := range all {
		if len(q.PropertyIDs) > 0 && !containsStr(q.PropertyIDs, rv.PropertyID) {
			continue
		}
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, rv.Status) {
			continue
		}
		if q.RatingMin != nil || q.RatingMax != nil {
			// a rating filter excludes reviews with no overall score
			if rv.Rating.Overall == nil {
				continue
			}
			if q.RatingMin != nil && *rv.Rating.Overall < *q.RatingMin {
				continue
			}
			if q.RatingMax != nil && *rv.Rating.Overall > *q.RatingMax {
				continue
			}
		}
		if q.DateFrom != nil && rv.SubmittedAt.Before(*q.DateFrom) {
			continue
		}
		if q.DateTo != nil && rv.SubmittedAt.After(*q.DateTo) {
			continue
		}
		if len(q.Channels) > 0 && !containsStr(q.Channels, rv.Channel) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(rv.ReviewText), search) &&
			!strings.Contains(strings.ToLower(rv.GuestName), search) &&
			!strings.Contains(strings.ToLower(rv.PropertyName), search) {
			continue
		}
		out = append(out, rv)
	}
	return out
}

// sortReviews orders by the chosen key with id ascending as the tie-break,
// so output is reproducible regardless of collection order.
func sortReviews(rs []domain.Review, sortBy, sortOrder string) {
	desc := sortOrder == "desc"
	sort.Slice(rs, func(i, j int) bool {
		c := compareBy(rs[i], rs[j], sortBy)
		if c == 0 {
			return rs[i].ID < rs[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareBy(a, b domain.Review, key string) int {
	switch key {
	case domain.SortByRating:
		return cmpFloat(overallOrZero(a), overallOrZero(b))
	case domain.SortByProperty:
		return strings.Compare(a.PropertyName, b.PropertyName)
	case domain.SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	default: // date
		if a.SubmittedAt.Before(b.SubmittedAt) {
			return -1
		}
		if a.SubmittedAt.After(b.SubmittedAt) {
			return 1
		}
		return 0
	}
}

func overallOrZero(r domain.Review) float64 {
	if r.Rating.Overall == nil {
		return 0
	}
	return *r.Rating.Overall
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func containsStr(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsStatus(set []domain.Status, v domain.Status) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// round1 applies the one-decimal presentation rounding used across
// averages.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
