package memory_test

import (
	"context"
	"testing"
	"time"

	"flex_reviews/internal/domain"
	"flex_reviews/internal/storage/memory"
)

func rev(id string) domain.Review {
	r := 4.0
	return domain.Review{
		ID:          id,
		PropertyID:  "p1",
		Rating:      domain.Rating{Overall: &r, Categories: map[string]float64{"cleanliness": 4}},
		Status:      domain.StatusPending,
		SubmittedAt: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		Metadata:    domain.Metadata{Tags: []string{"a"}},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	if err := s.Save(ctx, []domain.Review{rev("b"), rev("a")}); err != nil {
		t.Fatalf("save: %v", err)
	}
	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("getall: %v", err)
	}
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
		t.Fatalf("expected id-ordered snapshot, got %+v", all)
	}

	got, err := s.GetByID(ctx, "a")
	if err != nil || got.ID != "a" {
		t.Fatalf("getbyid: %v %+v", err, got)
	}
	if _, err := s.GetByID(ctx, "zz"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len: %d", s.Len())
	}
}

func TestSaveUpserts(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	r := rev("a")
	if err := s.Save(ctx, []domain.Review{r}); err != nil {
		t.Fatalf("save: %v", err)
	}
	r.Status = domain.StatusApproved
	if err := s.Save(ctx, []domain.Review{r}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := s.GetByID(ctx, "a")
	if got.Status != domain.StatusApproved {
		t.Fatalf("expected upsert, got %s", got.Status)
	}
	if s.Len() != 1 {
		t.Fatalf("duplicate row after upsert: %d", s.Len())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	in := rev("a")
	if err := s.Save(ctx, []domain.Review{in}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// mutating the input after Save must not affect the store
	in.Rating.Categories["cleanliness"] = 0
	in.Metadata.Tags[0] = "mutated"

	got, _ := s.GetByID(ctx, "a")
	if got.Rating.Categories["cleanliness"] != 4 || got.Metadata.Tags[0] != "a" {
		t.Fatalf("store aliases caller memory: %+v", got)
	}

	// mutating a returned snapshot must not affect later reads
	got.Rating.Categories["cleanliness"] = 0
	again, _ := s.GetByID(ctx, "a")
	if again.Rating.Categories["cleanliness"] != 4 {
		t.Fatalf("snapshot aliases store memory: %+v", again)
	}
}

func TestClear(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	_ = s.Save(ctx, []domain.Review{rev("a")})
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	all, _ := s.GetAll(ctx)
	if len(all) != 0 || s.Len() != 0 {
		t.Fatalf("store not empty: %d", len(all))
	}
}
