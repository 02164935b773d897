package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	M *app.ModerationService
	A *app.AnalyticsService
	I *app.IngestionService
}

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api/reviews", func(r chi.Router) {
		r.Get("/", h.listReviews)
		r.Get("/hostaway", h.fetchHostaway)
		r.Post("/sync", h.syncReviews)
		r.Post("/clear", h.clearReviews)
		r.Get("/stats", h.stats)
		r.Post("/bulk-action", h.bulkAction)
		r.Get("/public/{propertyId}", h.publicReviews)
		r.Get("/{id}", h.getReview)
		r.Post("/{id}/approve", h.approveReview)
		r.Post("/{id}/reject", h.rejectReview)
	})

	s.mux.Route("/api/analytics", func(r chi.Router) {
		r.Get("/properties", h.propertyAnalytics)
		r.Get("/trends", h.trends)
		r.Get("/dashboard", h.dashboard)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeErr maps the error taxonomy onto status codes: NotFound -> 404,
// ValidationError -> 400, anything else -> 500.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Message: err.Error()})
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, envelope{Message: err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, envelope{Message: "internal error"})
	}
}

/********** moderation views **********/

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q, err := parseReviewQuery(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	page, err := h.Q.List(r.Context(), q)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: page.Items, Meta: page.Meta})
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Q.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: rv})
}

func (h *Handlers) publicReviews(w http.ResponseWriter, r *http.Request) {
	q, err := parseReviewQuery(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	page, err := h.Q.PublicByProperty(r.Context(), chi.URLParam(r, "propertyId"), q)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: page.Items, Meta: page.Meta})
}

/********** moderation actions **********/

type actionBody struct {
	ActionBy string `json:"actionBy"`
	Notes    string `json:"notes"`
	Reason   string `json:"reason"`
}

func (h *Handlers) approveReview(w http.ResponseWriter, r *http.Request) {
	var body actionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, &domain.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	rv, err := h.M.Approve(r.Context(), chi.URLParam(r, "id"), body.ActionBy, body.Notes)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Review approved successfully", Data: rv})
}

func (h *Handlers) rejectReview(w http.ResponseWriter, r *http.Request) {
	var body actionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, &domain.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	rv, err := h.M.Reject(r.Context(), chi.URLParam(r, "id"), body.ActionBy, body.Reason)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Review rejected successfully", Data: rv})
}

type bulkBody struct {
	ReviewIDs []string `json:"reviewIds"`
	Action    string   `json:"action"`
	ActionBy  string   `json:"actionBy"`
	Reason    string   `json:"reason"`
}

func (h *Handlers) bulkAction(w http.ResponseWriter, r *http.Request) {
	var body bulkBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, &domain.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	results, summary, err := h.M.BulkUpdate(r.Context(), body.ReviewIDs, body.Action, body.ActionBy, body.Reason)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data: map[string]any{
			"results": results,
			"summary": summary,
		},
	})
}

func (h *Handlers) clearReviews(w http.ResponseWriter, r *http.Request) {
	if err := h.M.Clear(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "All reviews cleared"})
}

/********** ingestion **********/

func (h *Handlers) fetchHostaway(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 100)
	offset := intQuery(r, "offset", 0)
	reviews, cached, err := h.I.SyncHostaway(r.Context(), limit, offset, false)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    reviews,
		Meta: map[string]any{
			"total":     len(reviews),
			"source":    "hostaway",
			"cached":    cached,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (h *Handlers) syncReviews(w http.ResponseWriter, r *http.Request) {
	reviews, _, err := h.I.SyncHostaway(r.Context(), 100, 0, true)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Reviews synced successfully",
		Data:    map[string]any{"reviewCount": len(reviews)},
	})
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.A.PropertyStats(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data: map[string]any{
			"properties": stats,
			"system": map[string]any{
				"cache":     h.I.CacheInfo(r.Context()),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		},
	})
}

/********** analytics **********/

func (h *Handlers) propertyAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.A.PropertyAnalytics(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    analytics,
		Meta:    map[string]any{"totalProperties": len(analytics)},
	})
}

func (h *Handlers) trends(w http.ResponseWriter, r *http.Request) {
	report, err := h.A.Trends(r.Context(), r.URL.Query().Get("period"), r.URL.Query().Get("propertyId"))
	if err != nil {
		writeErr(w, err)
		return
	}
	meta := map[string]any{}
	if n := len(report.Trends); n > 0 {
		meta["dateRange"] = map[string]any{"from": report.Trends[0].Period, "to": report.Trends[n-1].Period}
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: report, Meta: meta})
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.A.Dashboard(r.Context(), intQuery(r, "top", 5))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    summary,
		Meta:    map[string]any{"generatedAt": time.Now().UTC().Format(time.RFC3339)},
	})
}
