package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

// ModerationService applies approve/reject transitions through the store.
// Entities are values; a transition produces a new value that the adapter
// persists.
type ModerationService struct {
	store domain.ReviewStore
	cache domain.Cache
}

func NewModerationService(store domain.ReviewStore, cache domain.Cache) *ModerationService {
	return &ModerationService{store: store, cache: cache}
}

func (s *ModerationService) Approve(ctx context.Context, id, actionBy, notes string) (domain.Review, error) {
	if actionBy == "" {
		return domain.Review{}, &domain.ValidationError{Field: "actionBy", Reason: "required"}
	}
	rv, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	updated := rv.Approve(actionBy, notes, time.Now().UTC())
	if err := s.store.Save(ctx, []domain.Review{updated}); err != nil {
		return domain.Review{}, err
	}
	s.invalidatePublic(ctx, updated.PropertyID)
	log.Info().Str("id", id).Str("by", actionBy).Msg("review approved")
	return updated, nil
}

func (s *ModerationService) Reject(ctx context.Context, id, actionBy, reason string) (domain.Review, error) {
	if actionBy == "" {
		return domain.Review{}, &domain.ValidationError{Field: "actionBy", Reason: "required"}
	}
	rv, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	updated := rv.Reject(actionBy, reason, time.Now().UTC())
	if err := s.store.Save(ctx, []domain.Review{updated}); err != nil {
		return domain.Review{}, err
	}
	s.invalidatePublic(ctx, updated.PropertyID)
	log.Info().Str("id", id).Str("by", actionBy).Msg("review rejected")
	return updated, nil
}

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type BulkResult struct {
	ReviewID string         `json:"reviewId"`
	Success  bool           `json:"success"`
	Review   *domain.Review `json:"review,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type BulkSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BulkUpdate applies the action to each id independently. Per-item
// failures are captured, never propagated; partial success is the normal
// case and is reported in the result list.
func (s *ModerationService) BulkUpdate(ctx context.Context, ids []string, action, actionBy, reason string) ([]BulkResult, BulkSummary, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, BulkSummary{}, &domain.ValidationError{Field: "action", Reason: "must be approve or reject"}
	}
	if actionBy == "" {
		return nil, BulkSummary{}, &domain.ValidationError{Field: "actionBy", Reason: "required"}
	}

	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		var (
			rv  domain.Review
			err error
		)
		if action == ActionApprove {
			rv, err = s.Approve(ctx, id, actionBy, reason)
		} else {
			rv, err = s.Reject(ctx, id, actionBy, reason)
		}
		if err != nil {
			results = append(results, BulkResult{ReviewID: id, Error: err.Error()})
			continue
		}
		results = append(results, BulkResult{ReviewID: id, Success: true, Review: &rv})
	}

	summary := BulkSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	log.Info().
		Str("action", action).
		Int("ok", summary.Successful).
		Int("failed", summary.Failed).
		Msg("bulk moderation done")
	return results, summary, nil
}

// Clear empties the whole collection. Test/debug resets only.
func (s *ModerationService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	log.Info().Msg("all reviews cleared")
	return nil
}

// invalidatePublic drops the common public page variants for a property;
// the public read path rebuilds them on demand.
func (s *ModerationService) invalidatePublic(ctx context.Context, propertyID string) {
	if s.cache == nil {
		return
	}
	for _, limit := range []int{20, 50, 100} {
		_ = s.cache.Del(ctx, fmt.Sprintf("public:%s:%d:%d", propertyID, 1, limit))
	}
}
