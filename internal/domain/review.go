package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rating carries the overall score plus per-category sub-ratings.
// Overall is nil when the source supplied neither an explicit score
// nor any categories.
type Rating struct {
	Overall    *float64           `json:"overall"`
	Categories map[string]float64 `json:"categories"`
}

// NewRating derives Overall as the mean of the category values when the
// source omitted an explicit overall score.
func NewRating(overall *float64, categories map[string]float64) Rating {
	r := Rating{Overall: overall, Categories: categories}
	if r.Categories == nil {
		r.Categories = map[string]float64{}
	}
	if r.Overall == nil && len(r.Categories) > 0 {
		var sum float64
		for _, v := range r.Categories {
			sum += v
		}
		avg := sum / float64(len(r.Categories))
		r.Overall = &avg
	}
	return r
}

type Metadata struct {
	ResponseRequired bool            `json:"responseRequired"`
	FlaggedForReview bool            `json:"flaggedForReview"`
	Priority         Priority        `json:"priority"`
	Tags             []string        `json:"tags"`
	ApprovalNotes    *string         `json:"approvalNotes,omitempty"`
	RejectionReason  *string         `json:"rejectionReason,omitempty"`
	SourceData       json.RawMessage `json:"sourceData,omitempty"` // audit copy of the raw payload, never read back
}

// Review is the canonical, source-independent guest review record.
type Review struct {
	ID           string     `json:"id"`
	SourceID     string     `json:"sourceId"`
	Source       string     `json:"source"`
	PropertyID   string     `json:"propertyId"`
	PropertyName string     `json:"propertyName"`
	GuestName    string     `json:"guestName"`
	ReviewText   string     `json:"reviewText"`
	Rating       Rating     `json:"rating"`
	SubmittedAt  time.Time  `json:"submittedAt"`
	Status       Status     `json:"status"`
	IsPublic     bool       `json:"isPublic"`
	ApprovedBy   *string    `json:"approvedBy"`
	ApprovedAt   *time.Time `json:"approvedAt"`
	RejectedBy   *string    `json:"rejectedBy"`
	RejectedAt   *time.Time `json:"rejectedAt"`
	Channel      string     `json:"channel"`
	Type         string     `json:"type"`
	Metadata     Metadata   `json:"metadata"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Clone deep-copies the mutable parts so transitions and snapshot reads
// never alias a stored value.
func (r Review) Clone() Review {
	out := r
	if r.Rating.Overall != nil {
		v := *r.Rating.Overall
		out.Rating.Overall = &v
	}
	if r.Rating.Categories != nil {
		out.Rating.Categories = make(map[string]float64, len(r.Rating.Categories))
		for k, v := range r.Rating.Categories {
			out.Rating.Categories[k] = v
		}
	}
	if r.Metadata.Tags != nil {
		out.Metadata.Tags = append([]string(nil), r.Metadata.Tags...)
	}
	if r.Metadata.SourceData != nil {
		out.Metadata.SourceData = append(json.RawMessage(nil), r.Metadata.SourceData...)
	}
	return out
}

// Approve returns a new value with status=approved. The rejection pair is
// cleared so exactly one transition pair is ever populated.
func (r Review) Approve(by, notes string, now time.Time) Review {
	out := r.Clone()
	out.Status = StatusApproved
	out.IsPublic = true
	out.ApprovedBy = &by
	t := now
	out.ApprovedAt = &t
	out.RejectedBy = nil
	out.RejectedAt = nil
	out.Metadata.RejectionReason = nil
	if notes != "" {
		out.Metadata.ApprovalNotes = &notes
	}
	out.UpdatedAt = now
	return out
}

// Reject is the symmetric transition; isPublic drops immediately.
func (r Review) Reject(by, reason string, now time.Time) Review {
	out := r.Clone()
	out.Status = StatusRejected
	out.IsPublic = false
	out.RejectedBy = &by
	t := now
	out.RejectedAt = &t
	out.ApprovedBy = nil
	out.ApprovedAt = nil
	out.Metadata.ApprovalNotes = nil
	if reason != "" {
		out.Metadata.RejectionReason = &reason
	}
	out.UpdatedAt = now
	return out
}

// PublicReview is the guest-safe projection for external display.
type PublicReview struct {
	ID           string    `json:"id"`
	PropertyName string    `json:"propertyName"`
	GuestName    string    `json:"guestName"`
	ReviewText   string    `json:"reviewText"`
	Rating       Rating    `json:"rating"`
	SubmittedAt  time.Time `json:"submittedAt"`
	Channel      string    `json:"channel"`
}

func (r Review) PublicView() PublicReview {
	return PublicReview{
		ID:           r.ID,
		PropertyName: r.PropertyName,
		GuestName:    r.GuestName,
		ReviewText:   r.ReviewText,
		Rating:       r.Rating,
		SubmittedAt:  r.SubmittedAt,
		Channel:      r.Channel,
	}
}

var (
	slugStrip   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-+`)
)

// SlugID derives the deterministic property id from a listing name.
// This is the join key across the whole system; equal names always
// slug equally, e.g. "2B N1 A - 29 Shoreditch Heights" ->
// "2b-n1-a-29-shoreditch-heights".
func SlugID(listingName string) string {
	s := strings.ToLower(listingName)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

var channelMap = map[string]string{
	"hostaway": "multiple",
	"airbnb":   "airbnb",
	"booking":  "booking.com",
	"vrbo":     "vrbo",
	"google":   "google",
}

// ChannelFor maps a source tag to its display channel label.
func ChannelFor(source string) string {
	if c, ok := channelMap[strings.ToLower(source)]; ok {
		return c
	}
	return "unknown"
}
