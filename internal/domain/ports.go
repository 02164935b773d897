package domain

import (
	"context"
	"time"
)

// ReviewStore is the storage adapter contract. GetAll returns the
// authoritative current set; implementations must hand out snapshot
// copies so readers never observe in-flight mutations.
type ReviewStore interface {
	Save(ctx context.Context, rs []Review) error
	GetAll(ctx context.Context) ([]Review, error)
	GetByID(ctx context.Context, id string) (Review, error)
	Clear(ctx context.Context) error
}

// HostawayClient fetches raw review records from the Hostaway API.
type HostawayClient interface {
	FetchReviews(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

// GoogleClient fetches the place details payload (name, rating, reviews)
// for one Google Place.
type GoogleClient interface {
	FetchPlaceReviews(ctx context.Context, placeID string) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Sort keys accepted by the query engine.
const (
	SortByDate     = "date"
	SortByRating   = "rating"
	SortByProperty = "property"
	SortByStatus   = "status"
)

// ReviewQuery carries the filter/sort/pagination criteria. All filters
// are AND-combined; zero values mean "no constraint".
type ReviewQuery struct {
	PropertyIDs []string
	Statuses    []Status
	RatingMin   *float64
	RatingMax   *float64
	DateFrom    *time.Time
	DateTo      *time.Time
	Channels    []string
	Search      string
	SortBy      string
	SortOrder   string // asc|desc
	Page        int
	Limit       int
}

// Normalize fills defaults; Validate reports the first malformed field.
func (q *ReviewQuery) Normalize() {
	if q.SortBy == "" {
		q.SortBy = SortByDate
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
}

func (q ReviewQuery) Validate() error {
	if q.Page < 1 {
		return &ValidationError{Field: "page", Reason: "must be >= 1"}
	}
	if q.Limit < 1 || q.Limit > 100 {
		return &ValidationError{Field: "limit", Reason: "must be between 1 and 100"}
	}
	switch q.SortBy {
	case SortByDate, SortByRating, SortByProperty, SortByStatus:
	default:
		return &ValidationError{Field: "sortBy", Reason: "must be one of date, rating, property, status"}
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		return &ValidationError{Field: "sortOrder", Reason: "must be asc or desc"}
	}
	for _, s := range q.Statuses {
		if !s.Valid() {
			return &ValidationError{Field: "status", Reason: "must be pending, approved or rejected"}
		}
	}
	if q.RatingMin != nil && q.RatingMax != nil && *q.RatingMin > *q.RatingMax {
		return &ValidationError{Field: "rating", Reason: "min must not exceed max"}
	}
	return nil
}

type PageMeta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

type ReviewsPage struct {
	Items []Review `json:"data"`
	Meta  PageMeta `json:"meta"`
}

// PublicMeta extends the pagination meta with the rating distribution and
// mean over all matching approved reviews (not just the current page).
type PublicMeta struct {
	PageMeta
	AverageRating      float64     `json:"averageRating"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

type PublicReviewsPage struct {
	Items []PublicReview `json:"data"`
	Meta  PublicMeta     `json:"meta"`
}
