package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// Repo is the MySQL storage adapter.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Save(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*21)
	for _, rv := range rs {
		cats, _ := json.Marshal(rv.Rating.Categories)
		meta, _ := json.Marshal(rv.Metadata)
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.ID,
			rv.SourceID,
			rv.Source,
			rv.PropertyID,
			rv.PropertyName,
			rv.GuestName,
			rv.ReviewText,
			valF64(rv.Rating.Overall),
			string(cats),
			rv.SubmittedAt.UTC(),
			string(rv.Status),
			rv.IsPublic,
			valStr(rv.ApprovedBy),
			valTime(rv.ApprovedAt),
			valStr(rv.RejectedBy),
			valTime(rv.RejectedAt),
			rv.Channel,
			rv.Type,
			string(meta),
			rv.CreatedAt.UTC(),
			rv.UpdatedAt.UTC(),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) GetAll(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, getAllSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id string) (domain.Review, error) {
	row := r.db.QueryRowContext(ctx, getByIDSQL, id)
	rv, err := scanReview(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, clearSQL)
	return err
}

func scanReview(scan func(...any) error) (domain.Review, error) {
	var (
		rv                       domain.Review
		reviewText               sql.NullString
		overall                  sql.NullFloat64
		catsJSON, metaJSON       []byte
		approvedBy, rejectedBy   sql.NullString
		approvedAt, rejectedAt   sql.NullTime
		submitted, created, updd time.Time
		status                   string
	)
	if err := scan(
		&rv.ID,
		&rv.SourceID,
		&rv.Source,
		&rv.PropertyID,
		&rv.PropertyName,
		&rv.GuestName,
		&reviewText,
		&overall,
		&catsJSON,
		&submitted,
		&status,
		&rv.IsPublic,
		&approvedBy,
		&approvedAt,
		&rejectedBy,
		&rejectedAt,
		&rv.Channel,
		&rv.Type,
		&metaJSON,
		&created,
		&updd,
	); err != nil {
		return domain.Review{}, err
	}

	if reviewText.Valid {
		rv.ReviewText = reviewText.String
	}
	rv.Rating.Categories = map[string]float64{}
	_ = json.Unmarshal(catsJSON, &rv.Rating.Categories)
	if overall.Valid {
		f := overall.Float64
		rv.Rating.Overall = &f
	}
	rv.SubmittedAt = submitted.UTC()
	rv.Status = domain.Status(status)
	if approvedBy.Valid {
		s := approvedBy.String
		rv.ApprovedBy = &s
	}
	if approvedAt.Valid {
		t := approvedAt.Time.UTC()
		rv.ApprovedAt = &t
	}
	if rejectedBy.Valid {
		s := rejectedBy.String
		rv.RejectedBy = &s
	}
	if rejectedAt.Valid {
		t := rejectedAt.Time.UTC()
		rv.RejectedAt = &t
	}
	_ = json.Unmarshal(metaJSON, &rv.Metadata)
	rv.CreatedAt = created.UTC()
	rv.UpdatedAt = updd.UTC()
	return rv, nil
}
