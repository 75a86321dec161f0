// Package audit cross-checks LLM annotations against independent
// models: sentiment agreement with a dedicated classifier, and
// translation fidelity via back-translation plus embedding similarity.
package audit

import (
	"context"
	"fmt"
	"math"

	"civicsense/internal/models"
	"civicsense/internal/repository"

	"go.uber.org/zap"
)

const mismatchTextLimit = 200

// SentimentClassifier is the independent sentiment model boundary.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (models.SentimentPrediction, error)
}

// Translator is the back-translation boundary.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// SimilarityScorer is the embedding similarity boundary.
type SimilarityScorer interface {
	Similarity(ctx context.Context, textA, textB string) (float64, error)
}

// Auditor runs the consistency checks over processed feedback.
type Auditor struct {
	store              repository.FeedbackStore
	classifier         SentimentClassifier
	translator         Translator
	scorer             SimilarityScorer
	logger             *zap.Logger
	mismatchPreview    int
	samplesPerLanguage int
}

// NewAuditor wires the auditor with its injected collaborators.
func NewAuditor(
	store repository.FeedbackStore,
	classifier SentimentClassifier,
	translator Translator,
	scorer SimilarityScorer,
	logger *zap.Logger,
	mismatchPreview, samplesPerLanguage int,
) *Auditor {
	if mismatchPreview <= 0 {
		mismatchPreview = 5
	}
	if samplesPerLanguage <= 0 {
		samplesPerLanguage = 2
	}
	return &Auditor{
		store:              store,
		classifier:         classifier,
		translator:         translator,
		scorer:             scorer,
		logger:             logger,
		mismatchPreview:    mismatchPreview,
		samplesPerLanguage: samplesPerLanguage,
	}
}

// SentimentAgreement compares the LLM-assigned sentiment of processed
// items against the independent classifier. limit <= 0 audits every
// processed item. Items whose classification call fails are logged and
// skipped rather than failing the report.
func (a *Auditor) SentimentAgreement(ctx context.Context, limit int) (*models.AgreementReport, error) {
	items, err := a.store.FetchProcessed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch processed items: %w", err)
	}

	report := &models.AgreementReport{SampleMismatches: []models.MismatchSample{}}

	for _, item := range items {
		if item.Annotation == nil || item.Annotation.TranslatedText == "" {
			continue
		}

		prediction, err := a.classifier.Classify(ctx, item.Annotation.TranslatedText)
		if err != nil {
			a.logger.Warn("Classifier call failed, skipping item",
				zap.Int64("id", item.ID), zap.Error(err))
			report.Skipped++
			continue
		}

		report.TotalSamples++
		if prediction.Sentiment == item.Annotation.Sentiment {
			report.Matches++
			continue
		}

		report.Mismatches++
		if len(report.SampleMismatches) < a.mismatchPreview {
			report.SampleMismatches = append(report.SampleMismatches, models.MismatchSample{
				ID:             item.ID,
				LLMSentiment:   item.Annotation.Sentiment,
				ModelSentiment: prediction.Sentiment,
				Text:           truncate(item.Annotation.TranslatedText, mismatchTextLimit),
			})
		}
	}

	if report.TotalSamples > 0 {
		report.AgreementPercentage = round2(float64(report.Matches) / float64(report.TotalSamples) * 100)
	}

	return report, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
