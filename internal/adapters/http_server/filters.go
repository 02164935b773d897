package httpserver

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

// parseReviewQuery turns the request's query string into a ReviewQuery.
// List parameters accept both repeated keys (?status=a&status=b) and
// comma-separated values (?status=a,b). Validation of the assembled
// query happens in the application layer.
func parseReviewQuery(r *http.Request) (domain.ReviewQuery, error) {
	vals := r.URL.Query()
	q := domain.ReviewQuery{
		PropertyIDs: multiValue(vals, "propertyId"),
		Channels:    multiValue(vals, "channel"),
		Search:      strings.TrimSpace(vals.Get("search")),
		SortBy:      vals.Get("sortBy"),
		SortOrder:   vals.Get("sortOrder"),
	}

	for _, s := range multiValue(vals, "status") {
		q.Statuses = append(q.Statuses, domain.Status(s))
	}

	if raw := vals.Get("rating"); raw != "" {
		min, max, err := parseRatingRange(raw)
		if err != nil {
			return q, err
		}
		q.RatingMin, q.RatingMax = min, max
	}

	var err error
	if q.DateFrom, err = parseDate(vals.Get("dateFrom"), "dateFrom"); err != nil {
		return q, err
	}
	if q.DateTo, err = parseDate(vals.Get("dateTo"), "dateTo"); err != nil {
		return q, err
	}

	if raw := vals.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, &domain.ValidationError{Field: "page", Reason: "must be an integer"}
		}
		q.Page = n
	}
	if raw := vals.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, &domain.ValidationError{Field: "limit", Reason: "must be an integer"}
		}
		q.Limit = n
	}
	return q, nil
}

func multiValue(vals url.Values, key string) []string {
	var out []string
	for _, raw := range vals[key] {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// parseRatingRange parses "min-max" ("3-5") or a single value ("4"),
// which constrains both bounds.
func parseRatingRange(raw string) (*float64, *float64, error) {
	badRange := &domain.ValidationError{Field: "rating", Reason: "must be a number or min-max range"}
	parts := strings.SplitN(raw, "-", 2)
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, nil, badRange
	}
	max := min
	if len(parts) == 2 {
		if max, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
			return nil, nil, badRange
		}
	}
	return &min, &max, nil
}

func parseDate(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			u := t.UTC()
			return &u, nil
		}
	}
	return nil, &domain.ValidationError{Field: field, Reason: "must be RFC3339 or YYYY-MM-DD"}
}

func intQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
