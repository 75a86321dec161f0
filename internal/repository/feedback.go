package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"civicsense/internal/models"
	"civicsense/internal/source"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// IngestResult reports the outcome of one ingestion call.
type IngestResult struct {
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
	TotalSeen int `json:"total_seen"`
}

// PurgeResult reports the outcome of an unprocessed purge.
type PurgeResult struct {
	DeletedCount   int64 `json:"deleted_count"`
	RemainingCount int64 `json:"remaining_count"`
}

// ProcessedUpdate pairs an item id with the annotation to persist.
type ProcessedUpdate struct {
	ItemID     int64
	Annotation models.Annotation
}

// FeedbackStore is the persistence boundary for feedback items.
type FeedbackStore interface {
	Ingest(ctx context.Context, items []source.RawItem, locationName *string) (*IngestResult, error)
	FetchUnprocessed(ctx context.Context, limit int) ([]*models.FeedbackItem, error)
	FetchProcessed(ctx context.Context, limit int) ([]*models.FeedbackItem, error)
	FetchProcessedByLanguage(ctx context.Context, language string, limit int) ([]*models.FeedbackItem, error)
	MarkProcessedBatch(ctx context.Context, updates []ProcessedUpdate) error
	PurgeUnprocessed(ctx context.Context, sourceRef string) (*PurgeResult, error)
}

// FeedbackRepository is the PostgreSQL implementation of both the
// feedback store and the analytics store.
type FeedbackRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewFeedbackRepository creates the PostgreSQL-backed feedback store.
func NewFeedbackRepository(db *sqlx.DB, logger *zap.Logger) *FeedbackRepository {
	return &FeedbackRepository{db: db, logger: logger}
}

// Ingest inserts each raw item unless an item with the same source and
// identical text already exists. The unique index on
// (source, md5(original_text)) makes the check-and-insert atomic per
// item, so concurrent ingestion of the same text cannot duplicate it.
func (r *FeedbackRepository) Ingest(ctx context.Context, items []source.RawItem, locationName *string) (*IngestResult, error) {
	result := &IngestResult{TotalSeen: len(items)}

	query := `
		INSERT INTO feedback (
			source, source_ref, original_text, status,
			source_timestamp, location_name, raw_metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`

	for _, item := range items {
		res, err := r.db.ExecContext(ctx, query,
			item.Source,
			item.SourceRef,
			item.OriginalText,
			models.StatusUnprocessed,
			item.Timestamp,
			locationName,
			[]byte(item.RawMetadata),
			item.ScrapedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert feedback item: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			result.Skipped++
		} else {
			result.Inserted++
		}
	}

	r.logger.Info("Ingestion batch stored",
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

const feedbackColumns = `
	id, source, source_ref, original_text, status,
	detected_language, translated_text, aspect, sentiment,
	confidence_score, category, processed_at,
	source_timestamp, location_name, raw_metadata, created_at`

// FetchUnprocessed returns unprocessed items in creation order so that
// retried runs make forward progress. limit <= 0 means no limit.
func (r *FeedbackRepository) FetchUnprocessed(ctx context.Context, limit int) ([]*models.FeedbackItem, error) {
	query := `SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE status = $1
		ORDER BY created_at, id`
	args := []interface{}{models.StatusUnprocessed}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	return r.queryItems(ctx, query, args...)
}

// FetchProcessed returns processed items, newest first.
func (r *FeedbackRepository) FetchProcessed(ctx context.Context, limit int) ([]*models.FeedbackItem, error) {
	query := `SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE status = $1
		ORDER BY processed_at DESC, id`
	args := []interface{}{models.StatusProcessed}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	return r.queryItems(ctx, query, args...)
}

// FetchProcessedByLanguage returns processed items whose detected
// language matches, for the translation consistency check.
func (r *FeedbackRepository) FetchProcessedByLanguage(ctx context.Context, language string, limit int) ([]*models.FeedbackItem, error) {
	query := `SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE status = $1 AND detected_language = $2 AND original_text <> ''
		ORDER BY id`
	args := []interface{}{models.StatusProcessed, language}

	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	return r.queryItems(ctx, query, args...)
}

// MarkProcessedBatch persists the annotations for one chunk inside a
// single transaction. Every annotation field of an item is written
// together with the status flip; a failure rolls back the whole chunk.
func (r *FeedbackRepository) MarkProcessedBatch(ctx context.Context, updates []ProcessedUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE feedback SET
			detected_language = $1,
			translated_text = $2,
			aspect = $3,
			sentiment = $4,
			confidence_score = $5,
			category = $6,
			status = $7,
			processed_at = $8
		WHERE id = $9 AND status = $10`

	now := time.Now().UTC()
	for _, u := range updates {
		res, err := tx.ExecContext(ctx, query,
			u.Annotation.DetectedLanguage,
			u.Annotation.TranslatedText,
			u.Annotation.Aspect,
			u.Annotation.Sentiment,
			u.Annotation.ConfidenceScore,
			u.Annotation.Category,
			models.StatusProcessed,
			now,
			u.ItemID,
			models.StatusUnprocessed,
		)
		if err != nil {
			return fmt.Errorf("failed to mark item %d processed: %w", u.ItemID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("item %d is missing or already processed", u.ItemID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit processed batch: %w", err)
	}

	return nil
}

// PurgeUnprocessed deletes every unprocessed item for the given source
// reference. Processed items are never touched.
func (r *FeedbackRepository) PurgeUnprocessed(ctx context.Context, sourceRef string) (*PurgeResult, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM feedback WHERE source_ref = $1 AND status = $2`,
		sourceRef, models.StatusUnprocessed)
	if err != nil {
		return nil, fmt.Errorf("failed to delete unprocessed items: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}

	var remaining int64
	if err := r.db.GetContext(ctx, &remaining,
		`SELECT COUNT(*) FROM feedback WHERE source_ref = $1`, sourceRef); err != nil {
		return nil, fmt.Errorf("failed to count remaining items: %w", err)
	}

	r.logger.Info("Purged unprocessed items",
		zap.String("source_ref", sourceRef),
		zap.Int64("deleted", deleted),
		zap.Int64("remaining", remaining))

	return &PurgeResult{DeletedCount: deleted, RemainingCount: remaining}, nil
}

func (r *FeedbackRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]*models.FeedbackItem, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var items []*models.FeedbackItem
	for rows.Next() {
		item, err := scanFeedbackItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// scanFeedbackItem assembles a FeedbackItem from one row. The
// annotation variant is attached only when the row is processed, so a
// half-populated record cannot be represented.
func scanFeedbackItem(rows *sqlx.Rows) (*models.FeedbackItem, error) {
	var (
		item       models.FeedbackItem
		language   sql.NullString
		translated sql.NullString
		aspect     sql.NullString
		sentiment  sql.NullString
		confidence sql.NullFloat64
		category   sql.NullString
		processed  sql.NullTime
		timestamp  sql.NullString
		location   sql.NullString
		metadata   []byte
	)

	if err := rows.Scan(
		&item.ID, &item.Source, &item.SourceRef, &item.OriginalText, &item.Status,
		&language, &translated, &aspect, &sentiment,
		&confidence, &category, &processed,
		&timestamp, &location, &metadata, &item.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan feedback row: %w", err)
	}

	item.Timestamp = timestamp.String
	if location.Valid {
		item.LocationName = &location.String
	}
	item.RawMetadata = metadata

	if item.Status == models.StatusProcessed {
		item.Annotation = &models.Annotation{
			DetectedLanguage: language.String,
			TranslatedText:   translated.String,
			Aspect:           aspect.String,
			Sentiment:        models.Sentiment(sentiment.String),
			ConfidenceScore:  confidence.Float64,
			Category:         models.Category(category.String),
		}
		if processed.Valid {
			t := processed.Time
			item.ProcessedAt = &t
		}
	}

	return &item, nil
}
