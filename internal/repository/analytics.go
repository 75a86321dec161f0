package repository

import (
	"context"
	"fmt"

	"civicsense/internal/models"
)

// CountBucket is a generic label/count pair for the distribution
// endpoints.
type CountBucket struct {
	Label string `db:"label" json:"label"`
	Count int64  `db:"count" json:"count"`
}

// Summary is the headline analytics projection.
type Summary struct {
	TotalFeedback         int64            `json:"total_feedback"`
	SentimentDistribution map[string]int64 `json:"sentiment_distribution"`
	TopAspect             *string          `json:"top_aspect"`
	TopSource             *string          `json:"top_source"`
}

// ContentFilter narrows ListProcessed results.
type ContentFilter struct {
	Sentiment string
	Aspect    string
	Source    string
	Limit     int
	Offset    int
}

// AnalyticsStore exposes the read-only aggregation queries.
type AnalyticsStore interface {
	Summary(ctx context.Context) (*Summary, error)
	SentimentDistribution(ctx context.Context) ([]CountBucket, error)
	AspectDistribution(ctx context.Context) ([]CountBucket, error)
	SourceDistribution(ctx context.Context) ([]CountBucket, error)
	LanguageDistribution(ctx context.Context) ([]CountBucket, error)
	DailyVolume(ctx context.Context) ([]CountBucket, error)
	ListProcessed(ctx context.Context, filter ContentFilter) ([]*models.FeedbackItem, error)
	LocationsBySentiment(ctx context.Context, sentiment models.Sentiment) ([]CountBucket, error)
}

func (r *FeedbackRepository) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{SentimentDistribution: map[string]int64{}}

	if err := r.db.GetContext(ctx, &summary.TotalFeedback,
		`SELECT COUNT(*) FROM feedback`); err != nil {
		return nil, fmt.Errorf("failed to count feedback: %w", err)
	}

	buckets, err := r.SentimentDistribution(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range buckets {
		summary.SentimentDistribution[b.Label] = b.Count
	}

	var topAspect string
	err = r.db.GetContext(ctx, &topAspect, `
		SELECT aspect FROM feedback
		WHERE status = $1 AND aspect IS NOT NULL
		GROUP BY aspect ORDER BY COUNT(id) DESC LIMIT 1`,
		models.StatusProcessed)
	if err == nil {
		summary.TopAspect = &topAspect
	}

	var topSource string
	err = r.db.GetContext(ctx, &topSource, `
		SELECT source FROM feedback
		GROUP BY source ORDER BY COUNT(id) DESC LIMIT 1`)
	if err == nil {
		summary.TopSource = &topSource
	}

	return summary, nil
}

func (r *FeedbackRepository) SentimentDistribution(ctx context.Context) ([]CountBucket, error) {
	return r.bucketQuery(ctx, `
		SELECT sentiment AS label, COUNT(id) AS count
		FROM feedback WHERE status = $1
		GROUP BY sentiment`, models.StatusProcessed)
}

func (r *FeedbackRepository) AspectDistribution(ctx context.Context) ([]CountBucket, error) {
	return r.bucketQuery(ctx, `
		SELECT aspect AS label, COUNT(id) AS count
		FROM feedback WHERE status = $1
		GROUP BY aspect`, models.StatusProcessed)
}

func (r *FeedbackRepository) SourceDistribution(ctx context.Context) ([]CountBucket, error) {
	return r.bucketQuery(ctx, `
		SELECT source AS label, COUNT(id) AS count
		FROM feedback
		GROUP BY source`)
}

func (r *FeedbackRepository) LanguageDistribution(ctx context.Context) ([]CountBucket, error) {
	return r.bucketQuery(ctx, `
		SELECT detected_language AS label, COUNT(id) AS count
		FROM feedback WHERE status = $1
		GROUP BY detected_language`, models.StatusProcessed)
}

func (r *FeedbackRepository) DailyVolume(ctx context.Context) ([]CountBucket, error) {
	return r.bucketQuery(ctx, `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS label, COUNT(id) AS count
		FROM feedback
		GROUP BY created_at::date
		ORDER BY created_at::date`)
}

func (r *FeedbackRepository) LocationsBySentiment(ctx context.Context, sentiment models.Sentiment) ([]CountBucket, error) {
	return r.bucketQuery(ctx, `
		SELECT location_name AS label, COUNT(id) AS count
		FROM feedback
		WHERE status = $1 AND sentiment = $2 AND location_name IS NOT NULL
		GROUP BY location_name
		ORDER BY COUNT(id) DESC`, models.StatusProcessed, sentiment)
}

func (r *FeedbackRepository) ListProcessed(ctx context.Context, filter ContentFilter) ([]*models.FeedbackItem, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE status = $1`
	args := []interface{}{models.StatusProcessed}

	if filter.Sentiment != "" {
		args = append(args, filter.Sentiment)
		query += fmt.Sprintf(" AND sentiment = $%d", len(args))
	}
	if filter.Aspect != "" {
		args = append(args, filter.Aspect)
		query += fmt.Sprintf(" AND aspect = $%d", len(args))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return r.queryItems(ctx, query, args...)
}

func (r *FeedbackRepository) bucketQuery(ctx context.Context, query string, args ...interface{}) ([]CountBucket, error) {
	var buckets []CountBucket
	if err := r.db.SelectContext(ctx, &buckets, query, args...); err != nil {
		return nil, fmt.Errorf("failed to run aggregation: %w", err)
	}
	return buckets, nil
}
