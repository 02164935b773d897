package mysql

// `status` and timestamps are rewritten wholesale on upsert: a re-synced
// batch carries new moderation state, unlike provider fields which never
// regress to NULL.
const insertReviewsPrefix = `INSERT INTO reviews
  (id, source_id, source, property_id, property_name, guest_name, review_text,
   rating_overall, rating_categories, submitted_at, status, is_public,
   approved_by, approved_at, rejected_by, rejected_at,
   channel, type, metadata, created_at, updated_at)
VALUES `

const insertReviewsOnDup = ` ON DUPLICATE KEY UPDATE
  status       = VALUES(status),
  is_public    = VALUES(is_public),
  approved_by  = VALUES(approved_by),
  approved_at  = VALUES(approved_at),
  rejected_by  = VALUES(rejected_by),
  rejected_at  = VALUES(rejected_at),
  metadata     = VALUES(metadata),
  updated_at   = VALUES(updated_at)
`

const selectReviewCols = `
SELECT id, source_id, source, property_id, property_name, guest_name, review_text,
       rating_overall, rating_categories, submitted_at, status, is_public,
       approved_by, approved_at, rejected_by, rejected_at,
       channel, type, metadata, created_at, updated_at
FROM reviews
`

const getAllSQL = selectReviewCols + ` ORDER BY id`

const getByIDSQL = selectReviewCols + ` WHERE id = ?`

const clearSQL = `DELETE FROM reviews`
