package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"flex_reviews/internal/domain"
)

// AnalyticsService derives operator-facing statistics over the full
// collection. Everything is recomputed on demand; there is no incremental
// state.
type AnalyticsService struct {
	store domain.ReviewStore
}

func NewAnalyticsService(store domain.ReviewStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

/********** per-property stats **********/

type ChannelStat struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

type PropertyStats struct {
	PropertyID       string                 `json:"propertyId"`
	PropertyName     string                 `json:"propertyName"`
	TotalReviews     int                    `json:"totalReviews"`
	ApprovedReviews  int                    `json:"approvedReviews"`
	PendingReviews   int                    `json:"pendingReviews"`
	RejectedReviews  int                    `json:"rejectedReviews"`
	AverageRating    float64                `json:"averageRating"`
	LastReviewDate   *time.Time             `json:"lastReviewDate"`
	ChannelBreakdown map[string]ChannelStat `json:"channelBreakdown"`
}

func (s *AnalyticsService) PropertyStats(ctx context.Context) ([]PropertyStats, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ComputePropertyStats(all), nil
}

// ComputePropertyStats groups by propertyId. The mean covers reviews with
// a non-nil overall; output is ordered by propertyId.
func ComputePropertyStats(all []domain.Review) []PropertyStats {
	type acc struct {
		stats      PropertyStats
		ratingSum  float64
		rated      int
		chRatings  map[string]float64
		chRated    map[string]int
		lastReview time.Time
	}
	byProp := map[string]*acc{}

	for _, rv := range all {
		a, ok := byProp[rv.PropertyID]
		if !ok {
			a = &acc{
				stats: PropertyStats{
					PropertyID:       rv.PropertyID,
					PropertyName:     rv.PropertyName,
					ChannelBreakdown: map[string]ChannelStat{},
				},
				chRatings: map[string]float64{},
				chRated:   map[string]int{},
			}
			byProp[rv.PropertyID] = a
		}
		a.stats.TotalReviews++
		switch rv.Status {
		case domain.StatusApproved:
			a.stats.ApprovedReviews++
		case domain.StatusPending:
			a.stats.PendingReviews++
		case domain.StatusRejected:
			a.stats.RejectedReviews++
		}
		if rv.Rating.Overall != nil {
			a.ratingSum += *rv.Rating.Overall
			a.rated++
		}
		if a.stats.LastReviewDate == nil || rv.SubmittedAt.After(a.lastReview) {
			t := rv.SubmittedAt
			a.lastReview = t
			a.stats.LastReviewDate = &t
		}

		ch := a.stats.ChannelBreakdown[rv.Channel]
		ch.Count++
		a.stats.ChannelBreakdown[rv.Channel] = ch
		if rv.Rating.Overall != nil {
			a.chRatings[rv.Channel] += *rv.Rating.Overall
			a.chRated[rv.Channel]++
		}
	}

	out := make([]PropertyStats, 0, len(byProp))
	for _, a := range byProp {
		if a.rated > 0 {
			a.stats.AverageRating = a.ratingSum / float64(a.rated)
		}
		for name, ch := range a.stats.ChannelBreakdown {
			if n := a.chRated[name]; n > 0 {
				ch.AverageRating = round1(a.chRatings[name] / float64(n))
				a.stats.ChannelBreakdown[name] = ch
			}
		}
		out = append(out, a.stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PropertyID < out[j].PropertyID })
	return out
}

/********** performance score **********/

// PerformanceScore is a 0-100 weighted sum: rating 40, volume 30
// (saturates at 20 reviews), approval rate 20, recency 10 (linear decay
// over 30 days).
func PerformanceScore(p PropertyStats, now time.Time) int {
	var score float64
	if p.AverageRating > 0 {
		score += (p.AverageRating / 5) * 40
	}
	score += math.Min(float64(p.TotalReviews)/20, 1) * 30
	if p.TotalReviews > 0 {
		score += (float64(p.ApprovedReviews) / float64(p.TotalReviews)) * 20
	}
	if p.LastReviewDate != nil {
		days := now.Sub(*p.LastReviewDate).Hours() / 24
		score += math.Max(0, 1-days/30) * 10
	}
	return int(math.Round(score))
}

type PropertyMetrics struct {
	TotalReviews     int                    `json:"totalReviews"`
	AverageRating    float64                `json:"averageRating"`
	ApprovedReviews  int                    `json:"approvedReviews"`
	PendingReviews   int                    `json:"pendingReviews"`
	RejectedReviews  int                    `json:"rejectedReviews"`
	ApprovalRate     int                    `json:"approvalRate"`
	LastReviewDate   *time.Time             `json:"lastReviewDate"`
	Performance      int                    `json:"performance"`
	CategoryRatings  map[string]float64     `json:"categoryRatings"`
	ChannelBreakdown map[string]ChannelStat `json:"channelBreakdown"`
}

type PropertyAnalytics struct {
	PropertyStats
	Metrics PropertyMetrics `json:"metrics"`
}

// PropertyAnalytics ranks properties by performance score, descending.
func (s *AnalyticsService) PropertyAnalytics(ctx context.Context) ([]PropertyAnalytics, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	stats := ComputePropertyStats(all)

	out := make([]PropertyAnalytics, 0, len(stats))
	for _, p := range stats {
		approvalRate := 0
		if p.TotalReviews > 0 {
			approvalRate = roundPct(float64(p.ApprovedReviews) / float64(p.TotalReviews))
		}
		out = append(out, PropertyAnalytics{
			PropertyStats: p,
			Metrics: PropertyMetrics{
				TotalReviews:     p.TotalReviews,
				AverageRating:    round1(p.AverageRating),
				ApprovedReviews:  p.ApprovedReviews,
				PendingReviews:   p.PendingReviews,
				RejectedReviews:  p.RejectedReviews,
				ApprovalRate:     approvalRate,
				LastReviewDate:   p.LastReviewDate,
				Performance:      PerformanceScore(p, now),
				CategoryRatings:  categoryAverages(all, p.PropertyID),
				ChannelBreakdown: p.ChannelBreakdown,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Metrics.Performance != out[j].Metrics.Performance {
			return out[i].Metrics.Performance > out[j].Metrics.Performance
		}
		return out[i].PropertyID < out[j].PropertyID
	})
	return out, nil
}

// categoryAverages covers approved reviews of the property only.
func categoryAverages(all []domain.Review, propertyID string) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, rv := range all {
		if rv.PropertyID != propertyID || rv.Status != domain.StatusApproved {
			continue
		}
		for cat, v := range rv.Rating.Categories {
			sums[cat] += v
			counts[cat]++
		}
	}
	out := make(map[string]float64, len(sums))
	for cat, sum := range sums {
		out[cat] = round1(sum / float64(counts[cat]))
	}
	return out
}

/********** trends **********/

type TrendBucket struct {
	Period        string  `json:"period"`
	ReviewCount   int     `json:"reviewCount"`
	AverageRating float64 `json:"averageRating"`
	ApprovedCount int     `json:"approvedCount"`
	RejectedCount int     `json:"rejectedCount"`
	ApprovalRate  int     `json:"approvalRate"`
}

type TrendReport struct {
	Trends     []TrendBucket `json:"trends"`
	Insights   []Insight     `json:"insights"`
	Period     string        `json:"period"`
	PropertyID string        `json:"propertyId"`
}

func (s *AnalyticsService) Trends(ctx context.Context, period, propertyID string) (TrendReport, error) {
	switch period {
	case "week", "month", "quarter", "year":
	case "":
		period = "month"
	default:
		return TrendReport{}, &domain.ValidationError{Field: "period", Reason: "must be week, month, quarter or year"}
	}

	all, err := s.store.GetAll(ctx)
	if err != nil {
		return TrendReport{}, err
	}
	if propertyID != "" {
		all = filterReviews(all, domain.ReviewQuery{PropertyIDs: []string{propertyID}})
	}

	report := TrendReport{
		Trends:     ComputeTrends(all, period),
		Insights:   GenerateInsights(all),
		Period:     period,
		PropertyID: propertyID,
	}
	if report.PropertyID == "" {
		report.PropertyID = "all"
	}
	return report, nil
}

// bucketKey maps a submission time onto its calendar bucket's canonical
// start. Weeks start on Sunday.
func bucketKey(t time.Time, period string) string {
	t = t.UTC()
	switch period {
	case "week":
		start := t.AddDate(0, 0, -int(t.Weekday()))
		return start.Format("2006-01-02")
	case "quarter":
		qm := time.Month((int(t.Month())-1)/3*3 + 1)
		return time.Date(t.Year(), qm, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	case "year":
		return t.Format("2006")
	default: // month
		return t.Format("2006-01")
	}
}

// ComputeTrends emits buckets sorted ascending by bucket key.
func ComputeTrends(all []domain.Review, period string) []TrendBucket {
	type acc struct {
		bucket    TrendBucket
		ratingSum float64
	}
	buckets := map[string]*acc{}

	for _, rv := range all {
		key := bucketKey(rv.SubmittedAt, period)
		a, ok := buckets[key]
		if !ok {
			a = &acc{bucket: TrendBucket{Period: key}}
			buckets[key] = a
		}
		a.bucket.ReviewCount++
		if rv.Rating.Overall != nil {
			a.ratingSum += *rv.Rating.Overall
		}
		switch rv.Status {
		case domain.StatusApproved:
			a.bucket.ApprovedCount++
		case domain.StatusRejected:
			a.bucket.RejectedCount++
		}
	}

	out := make([]TrendBucket, 0, len(buckets))
	for _, a := range buckets {
		if a.ratingSum > 0 {
			a.bucket.AverageRating = round1(a.ratingSum / float64(a.bucket.ReviewCount))
		}
		if a.bucket.ReviewCount > 0 {
			a.bucket.ApprovalRate = roundPct(float64(a.bucket.ApprovedCount) / float64(a.bucket.ReviewCount))
		}
		out = append(out, a.bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

/********** insights & issues **********/

type Insight struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Action   string `json:"action"`
	Priority string `json:"priority"`
}

// GenerateInsights applies each rule independently, preserving rule order.
func GenerateInsights(all []domain.Review) []Insight {
	insights := []Insight{}

	lowRated := 0
	highRated := 0
	pending := 0
	for _, rv := range all {
		if rv.Rating.Overall != nil {
			if *rv.Rating.Overall < 3 {
				lowRated++
			}
			if *rv.Rating.Overall >= 4.5 {
				highRated++
			}
		}
		if rv.Status == domain.StatusPending {
			pending++
		}
	}

	if lowRated > 0 {
		insights = append(insights, Insight{
			Type:     "warning",
			Title:    "Low Rating Alert",
			Message:  fmt.Sprintf("%d reviews with rating below 3.0 require attention", lowRated),
			Action:   "review_low_ratings",
			Priority: "high",
		})
	}
	if pending > 5 {
		insights = append(insights, Insight{
			Type:     "info",
			Title:    "Pending Reviews",
			Message:  fmt.Sprintf("%d reviews are waiting for approval", pending),
			Action:   "approve_pending",
			Priority: "medium",
		})
	}
	if len(all) > 0 && float64(highRated) > float64(len(all))*0.7 {
		insights = append(insights, Insight{
			Type:     "success",
			Title:    "Excellent Performance",
			Message:  fmt.Sprintf("%d%% of reviews are 4.5+ stars", roundPct(float64(highRated)/float64(len(all)))),
			Action:   "celebrate",
			Priority: "low",
		})
	}
	return insights
}

type Issue struct {
	Type        string `json:"type"`
	Count       int    `json:"count"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

func DetectIssues(all []domain.Review, now time.Time) []Issue {
	issues := []Issue{}

	lowRated := 0
	stalePending := 0
	for _, rv := range all {
		if rv.Rating.Overall != nil && *rv.Rating.Overall < 3 {
			lowRated++
		}
		if rv.Status == domain.StatusPending && now.Sub(rv.SubmittedAt).Hours()/24 > 7 {
			stalePending++
		}
	}

	if lowRated > 0 {
		issues = append(issues, Issue{
			Type:        "low_ratings",
			Count:       lowRated,
			Severity:    "high",
			Description: "Reviews with ratings below 3.0",
		})
	}
	if stalePending > 0 {
		issues = append(issues, Issue{
			Type:        "stale_pending",
			Count:       stalePending,
			Severity:    "medium",
			Description: "Pending reviews older than 7 days",
		})
	}
	return issues
}

/********** dashboard **********/

type Overview struct {
	TotalReviews    int     `json:"totalReviews"`
	ApprovedReviews int     `json:"approvedReviews"`
	PendingReviews  int     `json:"pendingReviews"`
	RejectedReviews int     `json:"rejectedReviews"`
	AverageRating   float64 `json:"averageRating"`
	TotalProperties int     `json:"totalProperties"`
}

type ActivityEntry struct {
	ID           string    `json:"id"`
	PropertyName string    `json:"propertyName"`
	GuestName    string    `json:"guestName"`
	Action       string    `json:"action"`
	Timestamp    time.Time `json:"timestamp"`
	Rating       *float64  `json:"rating"`
}

type TopProperty struct {
	PropertyID    string  `json:"propertyId"`
	PropertyName  string  `json:"propertyName"`
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
	ApprovalRate  int     `json:"approvalRate"`
}

type ChannelPerformance struct {
	Name            string  `json:"name"`
	TotalReviews    int     `json:"totalReviews"`
	AverageRating   float64 `json:"averageRating"`
	ApprovedReviews int     `json:"approvedReviews"`
	ApprovalRate    int     `json:"approvalRate"`
}

type DashboardSummary struct {
	Overview                 Overview             `json:"overview"`
	RecentActivity           []ActivityEntry      `json:"recentActivity"`
	TopPerformingProperties  []TopProperty        `json:"topPerformingProperties"`
	IssuesRequiringAttention []Issue              `json:"issuesRequiringAttention"`
	ChannelPerformance       []ChannelPerformance `json:"channelPerformance"`
	RatingDistribution       map[int]int          `json:"ratingDistribution"`
}

func (s *AnalyticsService) Dashboard(ctx context.Context, topN int) (DashboardSummary, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	if topN <= 0 {
		topN = 5
	}
	now := time.Now().UTC()
	stats := ComputePropertyStats(all)

	overview := Overview{
		TotalReviews:    len(all),
		AverageRating:   overallAverage(all),
		TotalProperties: len(stats),
	}
	for _, rv := range all {
		switch rv.Status {
		case domain.StatusApproved:
			overview.ApprovedReviews++
		case domain.StatusPending:
			overview.PendingReviews++
		case domain.StatusRejected:
			overview.RejectedReviews++
		}
	}

	return DashboardSummary{
		Overview:                 overview,
		RecentActivity:           recentActivity(all, 10),
		TopPerformingProperties:  topProperties(stats, topN),
		IssuesRequiringAttention: DetectIssues(all, now),
		ChannelPerformance:       channelPerformance(all),
		RatingDistribution:       RatingDistribution(all),
	}, nil
}

func overallAverage(all []domain.Review) float64 {
	var sum float64
	rated := 0
	for _, rv := range all {
		if rv.Rating.Overall != nil {
			sum += *rv.Rating.Overall
			rated++
		}
	}
	if rated == 0 {
		return 0
	}
	return round1(sum / float64(rated))
}

// recentActivity projects the most recently updated reviews, newest first.
func recentActivity(all []domain.Review, limit int) []ActivityEntry {
	sorted := append([]domain.Review(nil), all...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].UpdatedAt.Equal(sorted[j].UpdatedAt) {
			return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]ActivityEntry, 0, len(sorted))
	for _, rv := range sorted {
		out = append(out, ActivityEntry{
			ID:           rv.ID,
			PropertyName: rv.PropertyName,
			GuestName:    rv.GuestName,
			Action:       string(rv.Status),
			Timestamp:    rv.UpdatedAt,
			Rating:       rv.Rating.Overall,
		})
	}
	return out
}

func topProperties(stats []PropertyStats, limit int) []TopProperty {
	withReviews := make([]PropertyStats, 0, len(stats))
	for _, p := range stats {
		if p.TotalReviews > 0 {
			withReviews = append(withReviews, p)
		}
	}
	sort.Slice(withReviews, func(i, j int) bool {
		if withReviews[i].AverageRating != withReviews[j].AverageRating {
			return withReviews[i].AverageRating > withReviews[j].AverageRating
		}
		return withReviews[i].PropertyID < withReviews[j].PropertyID
	})
	if len(withReviews) > limit {
		withReviews = withReviews[:limit]
	}
	out := make([]TopProperty, 0, len(withReviews))
	for _, p := range withReviews {
		out = append(out, TopProperty{
			PropertyID:    p.PropertyID,
			PropertyName:  p.PropertyName,
			AverageRating: round1(p.AverageRating),
			TotalReviews:  p.TotalReviews,
			ApprovalRate:  roundPct(float64(p.ApprovedReviews) / float64(p.TotalReviews)),
		})
	}
	return out
}

func channelPerformance(all []domain.Review) []ChannelPerformance {
	type acc struct {
		perf      ChannelPerformance
		ratingSum float64
		rated     int
	}
	byChannel := map[string]*acc{}
	for _, rv := range all {
		a, ok := byChannel[rv.Channel]
		if !ok {
			a = &acc{perf: ChannelPerformance{Name: rv.Channel}}
			byChannel[rv.Channel] = a
		}
		a.perf.TotalReviews++
		if rv.Rating.Overall != nil {
			a.ratingSum += *rv.Rating.Overall
			a.rated++
		}
		if rv.Status == domain.StatusApproved {
			a.perf.ApprovedReviews++
		}
	}
	out := make([]ChannelPerformance, 0, len(byChannel))
	for _, a := range byChannel {
		if a.rated > 0 {
			a.perf.AverageRating = round1(a.ratingSum / float64(a.rated))
		}
		a.perf.ApprovalRate = roundPct(float64(a.perf.ApprovedReviews) / float64(a.perf.TotalReviews))
		out = append(out, a.perf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RatingDistribution counts reviews per integer star bucket 1-5, rounding
// overall to the nearest star.
func RatingDistribution(all []domain.Review) map[int]int {
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, rv := range all {
		if rv.Rating.Overall == nil {
			continue
		}
		star := int(math.Round(*rv.Rating.Overall))
		if _, ok := dist[star]; ok {
			dist[star]++
		}
	}
	return dist
}

func roundPct(ratio float64) int {
	return int(math.Round(ratio * 100))
}
