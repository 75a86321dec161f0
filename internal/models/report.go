package models

// MismatchSample is a truncated preview of one disagreement between the
// LLM sentiment and the independent model.
type MismatchSample struct {
	ID             int64     `json:"id"`
	LLMSentiment   Sentiment `json:"llm_sentiment"`
	ModelSentiment Sentiment `json:"model_sentiment"`
	Text           string    `json:"text"`
}

// AgreementReport summarises LLM-vs-model sentiment agreement over a
// sample of processed items.
type AgreementReport struct {
	TotalSamples        int              `json:"total_samples"`
	Matches             int              `json:"matches"`
	Mismatches          int              `json:"mismatches"`
	Skipped             int              `json:"skipped,omitempty"`
	AgreementPercentage float64          `json:"agreement_percentage"`
	SampleMismatches    []MismatchSample `json:"sample_mismatches"`
}

// SimilaritySample is the back-translation similarity score for one
// sampled item.
type SimilaritySample struct {
	ContentID  int64   `json:"content_id"`
	Similarity float64 `json:"similarity"`
}

// LanguageConsistency is the translation fidelity summary for a single
// tracked language.
type LanguageConsistency struct {
	Count             int                `json:"count"`
	AverageSimilarity float64            `json:"average_similarity"`
	Samples           []SimilaritySample `json:"samples"`
}

// TranslationReport maps tracked language names to their consistency
// summaries.
type TranslationReport map[string]LanguageConsistency

// RunReport is the outcome of one batch annotation run.
type RunReport struct {
	RunID     string `json:"run_id"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Status    string `json:"status"`
}
