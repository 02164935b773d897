package app_test

import (
	"context"
	"testing"
	"time"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

func day(d int) time.Time { return time.Date(2024, 8, d, 10, 0, 0, 0, time.UTC) }

func fixture() []domain.Review {
	return []domain.Review{
		mkReview("r1", "shoreditch", "approved", pfloat(4.5), day(1)),
		mkReview("r2", "shoreditch", "pending", pfloat(3.0), day(2)),
		mkReview("r3", "camden", "approved", pfloat(5.0), day(3)),
		mkReview("r4", "camden", "rejected", nil, day(4)),
		mkReview("r5", "shoreditch", "approved", pfloat(2.0), day(5)),
	}
}

func TestApplyQuery_Filters(t *testing.T) {
	q := domain.ReviewQuery{
		Statuses:  []domain.Status{domain.StatusApproved},
		RatingMin: pfloat(4),
	}
	q.Normalize()
	page := app.ApplyQuery(fixture(), q)

	if page.Meta.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", page.Meta.Total)
	}
	for _, rv := range page.Items {
		if rv.Status != domain.StatusApproved || *rv.Rating.Overall < 4 {
			t.Fatalf("filter leaked: %+v", rv)
		}
	}
}

func TestApplyQuery_RatingFilterExcludesUnrated(t *testing.T) {
	q := domain.ReviewQuery{RatingMin: pfloat(0)}
	q.Normalize()
	page := app.ApplyQuery(fixture(), q)
	for _, rv := range page.Items {
		if rv.Rating.Overall == nil {
			t.Fatalf("unrated review passed a rating filter: %+v", rv)
		}
	}
	if page.Meta.Total != 4 {
		t.Fatalf("expected 4 rated reviews, got %d", page.Meta.Total)
	}
}

func TestApplyQuery_DateBoundsInclusive(t *testing.T) {
	from, to := day(2), day(4)
	q := domain.ReviewQuery{DateFrom: &from, DateTo: &to}
	q.Normalize()
	page := app.ApplyQuery(fixture(), q)
	if page.Meta.Total != 3 {
		t.Fatalf("expected r2,r3,r4 within bounds, got %d", page.Meta.Total)
	}
}

func TestApplyQuery_Search(t *testing.T) {
	rs := fixture()
	rs[2].ReviewText = "Amazing location near the canal"
	q := domain.ReviewQuery{Search: "CANAL"}
	q.Normalize()
	page := app.ApplyQuery(rs, q)
	if page.Meta.Total != 1 || page.Items[0].ID != "r3" {
		t.Fatalf("case-insensitive search failed: %+v", page.Items)
	}
}

func TestApplyQuery_Pagination(t *testing.T) {
	q := domain.ReviewQuery{SortBy: domain.SortByDate, SortOrder: "asc", Page: 2, Limit: 2}
	q.Normalize()
	page := app.ApplyQuery(fixture(), q)

	if len(page.Items) != 2 || page.Items[0].ID != "r3" || page.Items[1].ID != "r4" {
		t.Fatalf("wrong page window: %+v", page.Items)
	}
	m := page.Meta
	if m.Total != 5 || m.TotalPages != 3 || !m.HasMore || m.Page != 2 || m.Limit != 2 {
		t.Fatalf("unexpected meta: %+v", m)
	}

	q.Page = 3
	last := app.ApplyQuery(fixture(), q)
	if len(last.Items) != 1 || last.Meta.HasMore {
		t.Fatalf("last page wrong: %d items, hasMore=%v", len(last.Items), last.Meta.HasMore)
	}

	q.Page = 9
	empty := app.ApplyQuery(fixture(), q)
	if len(empty.Items) != 0 || empty.Meta.HasMore {
		t.Fatalf("out-of-range page must be empty: %+v", empty.Items)
	}
}

func TestApplyQuery_SortTieBreakByID(t *testing.T) {
	rs := []domain.Review{
		mkReview("b", "p", "pending", pfloat(4), day(1)),
		mkReview("a", "p", "pending", pfloat(4), day(1)),
		mkReview("c", "p", "pending", pfloat(4), day(1)),
	}
	q := domain.ReviewQuery{SortBy: domain.SortByRating, SortOrder: "desc"}
	q.Normalize()
	page := app.ApplyQuery(rs, q)
	if page.Items[0].ID != "a" || page.Items[1].ID != "b" || page.Items[2].ID != "c" {
		t.Fatalf("tie-break must be id ascending even for desc sorts: %+v", page.Items)
	}
}

func TestList_RejectsBadQuery(t *testing.T) {
	q := app.NewQueryService(newFakeStore(fixture()...), nil, time.Minute)

	_, err := q.List(context.Background(), domain.ReviewQuery{Limit: 101})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = q.List(context.Background(), domain.ReviewQuery{SortBy: "bogus"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPublicByProperty(t *testing.T) {
	store := newFakeStore(fixture()...)
	cache := &fakeCache{}
	q := app.NewQueryService(store, cache, time.Minute)

	page, err := q.PublicByProperty(context.Background(), "shoreditch", domain.ReviewQuery{})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// r1 (4.5) and r5 (2.0); the pending r2 stays hidden
	if page.Meta.Total != 2 {
		t.Fatalf("expected 2 approved reviews, got %d", page.Meta.Total)
	}
	if page.Meta.AverageRating != 3.3 {
		t.Fatalf("expected mean 3.3, got %v", page.Meta.AverageRating)
	}
	if page.Meta.RatingDistribution[5] != 1 || page.Meta.RatingDistribution[2] != 1 {
		t.Fatalf("unexpected distribution: %+v", page.Meta.RatingDistribution)
	}
	for _, it := range page.Items {
		if it.ReviewText == "" || it.PropertyName == "" {
			t.Fatalf("incomplete public projection: %+v", it)
		}
	}

	// second read must come from cache
	store.reviews = map[string]domain.Review{}
	again, err := q.PublicByProperty(context.Background(), "shoreditch", domain.ReviewQuery{})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if again.Meta.Total != 2 {
		t.Fatalf("expected cached page, got total=%d", again.Meta.Total)
	}
}
