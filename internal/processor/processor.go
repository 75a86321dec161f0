// Package processor drives unprocessed feedback items through the
// annotation service in bounded batches.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"civicsense/internal/metrics"
	"civicsense/internal/models"
	"civicsense/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Annotator is the boundary to the external annotation service. It
// either returns one result per text in input order or fails the whole
// batch.
type Annotator interface {
	AnnotateBatch(ctx context.Context, texts []string) ([]models.Annotation, error)
}

// Processor batches unprocessed items and records the results.
type Processor struct {
	store      repository.FeedbackStore
	annotator  Annotator
	logger     *zap.Logger
	batchSize  int
	fetchLimit int
}

// NewProcessor creates a batch annotation processor. batchSize is a
// throughput/blast-radius tradeoff, not a correctness knob; fetchLimit
// of 0 selects every unprocessed item.
func NewProcessor(store repository.FeedbackStore, annotator Annotator, logger *zap.Logger, batchSize, fetchLimit int) *Processor {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Processor{
		store:      store,
		annotator:  annotator,
		logger:     logger,
		batchSize:  batchSize,
		fetchLimit: fetchLimit,
	}
}

// Run processes all currently unprocessed items. A failed chunk is left
// entirely untouched and picked up again by the next run; a store
// failure aborts the run. Items are only ever written with their full
// annotation in one update, so a cancelled run cannot leave
// half-annotated records.
func (p *Processor) Run(ctx context.Context) (*models.RunReport, error) {
	report := &models.RunReport{RunID: uuid.New().String()}

	items, err := p.store.FetchUnprocessed(ctx, p.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unprocessed items: %w", err)
	}
	report.Total = len(items)

	if len(items) == 0 {
		report.Status = "Processing complete"
		p.logger.Info("No unprocessed items", zap.String("run_id", report.RunID))
		return report, nil
	}

	p.logger.Info("Annotation run started",
		zap.String("run_id", report.RunID),
		zap.Int("total", report.Total),
		zap.Int("batch_size", p.batchSize))

	for start := 0; start < len(items); start += p.batchSize {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("annotation run cancelled: %w", ctx.Err())
		default:
		}

		end := start + p.batchSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]

		if err := p.processChunk(ctx, chunk); err != nil {
			var storeErr *storeFailure
			if errors.As(err, &storeErr) {
				return nil, storeErr.err
			}
			// Annotation failure: the chunk stays unprocessed and the
			// run moves on.
			p.logger.Warn("Chunk left unprocessed",
				zap.String("run_id", report.RunID),
				zap.Int("chunk_start", start),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err))
			report.Failed += len(chunk)
			continue
		}

		report.Processed += len(chunk)
	}

	if report.Failed > 0 {
		report.Status = "Error processing batch"
	} else {
		report.Status = "Processing complete"
	}

	p.logger.Info("Annotation run finished",
		zap.String("run_id", report.RunID),
		zap.Int("processed", report.Processed),
		zap.Int("failed", report.Failed))

	return report, nil
}

// storeFailure marks errors that must abort the whole run.
type storeFailure struct {
	err error
}

func (e *storeFailure) Error() string { return e.err.Error() }

func (e *storeFailure) Unwrap() error { return e.err }

func (p *Processor) processChunk(ctx context.Context, chunk []*models.FeedbackItem) error {
	texts := make([]string, len(chunk))
	for i, item := range chunk {
		texts[i] = item.OriginalText
	}

	started := time.Now()
	results, err := p.annotator.AnnotateBatch(ctx, texts)
	if err != nil {
		metrics.ObserveChunk(time.Since(started), 0, true)
		return fmt.Errorf("annotation call failed: %w", err)
	}

	// Results correlate to items strictly by position; re-check the
	// length before zipping rather than trusting the client.
	if len(results) != len(chunk) {
		metrics.ObserveChunk(time.Since(started), 0, true)
		return fmt.Errorf("annotation count mismatch: got %d results for %d items", len(results), len(chunk))
	}

	updates := make([]repository.ProcessedUpdate, len(chunk))
	for i, item := range chunk {
		updates[i] = repository.ProcessedUpdate{
			ItemID:     item.ID,
			Annotation: results[i],
		}
	}

	if err := p.store.MarkProcessedBatch(ctx, updates); err != nil {
		metrics.ObserveChunk(time.Since(started), 0, true)
		return &storeFailure{err: fmt.Errorf("failed to persist chunk: %w", err)}
	}

	metrics.ObserveChunk(time.Since(started), len(chunk), false)
	return nil
}
