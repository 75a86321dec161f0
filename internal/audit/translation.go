package audit

import (
	"context"
	"fmt"

	"civicsense/internal/config"
	"civicsense/internal/models"

	"go.uber.org/zap"
)

// TranslationConsistency spot-checks translation fidelity for each
// tracked language: the stored English translation is translated back
// into the original language and compared to the true original text by
// embedding similarity. The sample per language is deliberately small
// because back-translation is the expensive step.
func (a *Auditor) TranslationConsistency(ctx context.Context, languages []config.TrackedLanguage) (models.TranslationReport, error) {
	report := models.TranslationReport{}

	for _, lang := range languages {
		items, err := a.store.FetchProcessedByLanguage(ctx, lang.Name, a.samplesPerLanguage)
		if err != nil {
			return nil, fmt.Errorf("failed to sample %s items: %w", lang.Name, err)
		}

		samples := []models.SimilaritySample{}
		var sum float64

		for _, item := range items {
			if item.Annotation == nil || item.Annotation.TranslatedText == "" || item.OriginalText == "" {
				continue
			}

			backTranslated, err := a.translator.Translate(ctx, item.Annotation.TranslatedText, lang.Code)
			if err != nil {
				a.logger.Warn("Back-translation failed, skipping item",
					zap.Int64("id", item.ID),
					zap.String("language", lang.Name),
					zap.Error(err))
				continue
			}

			score, err := a.scorer.Similarity(ctx, item.OriginalText, backTranslated)
			if err != nil {
				a.logger.Warn("Similarity scoring failed, skipping item",
					zap.Int64("id", item.ID),
					zap.String("language", lang.Name),
					zap.Error(err))
				continue
			}

			score = round4(score)
			samples = append(samples, models.SimilaritySample{
				ContentID:  item.ID,
				Similarity: score,
			})
			sum += score
		}

		summary := models.LanguageConsistency{
			Count:   len(samples),
			Samples: samples,
		}
		if len(samples) > 0 {
			summary.AverageSimilarity = round4(sum / float64(len(samples)))
		}

		report[lang.Name] = summary
	}

	return report, nil
}
