package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

// errUnusableRecord marks a raw record that cannot become a canonical
// review (missing origin identifier or body). Such records are skipped,
// never fatal.
var errUnusableRecord = errors.New("unusable source record")

// StatusPolicy decides the seeded status from the origin status string.
// Each source configures its own table; adding a provider never touches
// shared logic.
type StatusPolicy struct {
	Seed    map[string]domain.Status
	Default domain.Status
}

func (p StatusPolicy) For(originStatus string) domain.Status {
	if s, ok := p.Seed[strings.ToLower(originStatus)]; ok {
		return s
	}
	return p.Default
}

// Normalizer maps one provider's raw payload shape into canonical reviews.
type Normalizer struct {
	Source string
	Policy StatusPolicy
}

// Hostaway: a "published" origin status awaits the manager's decision;
// anything else was never publishable and seeds rejected directly.
var Hostaway = Normalizer{
	Source: "hostaway",
	Policy: StatusPolicy{
		Seed:    map[string]domain.Status{"published": domain.StatusPending},
		Default: domain.StatusRejected,
	},
}

// Google payloads carry no origin status; every review starts pending so
// the public-display decision stays with the moderator.
var Google = Normalizer{
	Source: "google",
	Policy: StatusPolicy{Default: domain.StatusPending},
}

/********** flexible payload lookups **********/

func stringAt(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		}
	}
	return ""
}

func floatAt(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		f := v
		return &f
	case int:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// hostawayTime accepts the API's "2006-01-02 15:04:05" form as well as
// RFC3339; the ingestion time stands in when the source omits it.
func hostawayTime(s string, now time.Time) time.Time {
	if s == "" {
		return now
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return now
}

func synthSourceID(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

/********** Hostaway **********/

// FromHostaway maps one raw Hostaway record. Records without an origin id
// are unusable.
func (n Normalizer) FromHostaway(raw map[string]any, now time.Time) (domain.Review, error) {
	sourceID := stringAt(raw, "id")
	if sourceID == "" {
		return domain.Review{}, fmt.Errorf("%w: missing id", errUnusableRecord)
	}

	categories := map[string]float64{}
	if cats, ok := raw["reviewCategory"].([]any); ok {
		for _, c := range cats {
			cm, ok := c.(map[string]any)
			if !ok {
				continue
			}
			name := stringAt(cm, "category")
			if name == "" {
				continue
			}
			if v := floatAt(cm, "rating"); v != nil {
				categories[name] = *v
			}
		}
	}

	listing := stringAt(raw, "listingName")
	rawJSON, _ := json.Marshal(raw)

	rv := domain.Review{
		ID:           uuid.NewString(),
		SourceID:     sourceID,
		Source:       n.Source,
		PropertyID:   domain.SlugID(listing),
		PropertyName: listing,
		GuestName:    stringAt(raw, "guestName"),
		ReviewText:   stringAt(raw, "publicReview"),
		Rating:       domain.NewRating(floatAt(raw, "rating"), categories),
		SubmittedAt:  hostawayTime(stringAt(raw, "submittedAt"), now),
		Status:       n.Policy.For(stringAt(raw, "status")),
		Channel:      domain.ChannelFor(n.Source),
		Type:         reviewType(raw),
		Metadata: domain.Metadata{
			Priority:   domain.PriorityLow,
			Tags:       []string{},
			SourceData: rawJSON,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	rv.IsPublic = rv.Status == domain.StatusApproved
	return rv, nil
}

/********** Google Places **********/

// FromGoogle maps one raw Places review. The property is resolved by the
// caller (the payload has no listing reference of its own); reviews
// without text are unusable.
func (n Normalizer) FromGoogle(raw map[string]any, propertyID, propertyName string, now time.Time) (domain.Review, error) {
	text := stringAt(raw, "text")
	if text == "" {
		return domain.Review{}, fmt.Errorf("%w: missing text", errUnusableRecord)
	}

	author := stringAt(raw, "author_name")
	submitted := now
	if ts := floatAt(raw, "time"); ts != nil {
		submitted = time.Unix(int64(*ts), 0).UTC()
	}

	rawJSON, _ := json.Marshal(raw)

	rv := domain.Review{
		ID:           uuid.NewString(),
		SourceID:     synthSourceID(author, submitted.Format(time.RFC3339), text),
		Source:       n.Source,
		PropertyID:   propertyID,
		PropertyName: propertyName,
		GuestName:    author,
		ReviewText:   text,
		Rating:       domain.NewRating(floatAt(raw, "rating"), nil),
		SubmittedAt:  submitted,
		Status:       n.Policy.For(""),
		Channel:      domain.ChannelFor(n.Source),
		Type:         "guest-review",
		Metadata: domain.Metadata{
			Priority:   domain.PriorityLow,
			Tags:       []string{},
			SourceData: rawJSON,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	rv.IsPublic = rv.Status == domain.StatusApproved
	return rv, nil
}

func reviewType(raw map[string]any) string {
	if t := stringAt(raw, "type"); t != "" {
		return t
	}
	return "guest-review"
}

/********** batch entry points **********/

// NormalizeHostawayBatch yields at most len(in) reviews; invalid records
// are logged and dropped.
func NormalizeHostawayBatch(in []map[string]any, now time.Time) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, raw := range in {
		rv, err := Hostaway.FromHostaway(raw, now)
		if err != nil {
			log.Warn().Err(err).Str("source", Hostaway.Source).Msg("skipping review")
			continue
		}
		out = append(out, rv)
	}
	return out
}

func NormalizeGoogleBatch(in []map[string]any, propertyID, propertyName string, now time.Time) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, raw := range in {
		rv, err := Google.FromGoogle(raw, propertyID, propertyName, now)
		if err != nil {
			log.Warn().Err(err).Str("source", Google.Source).Str("property", propertyID).Msg("skipping review")
			continue
		}
		out = append(out, rv)
	}
	return out
}
