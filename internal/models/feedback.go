package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Status is the processing state of a feedback item.
type Status string

const (
	StatusUnprocessed Status = "unprocessed"
	StatusProcessed   Status = "processed"
)

// Sentiment labels used by both the LLM and the independent classifier.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Category classifies the intent of a feedback item.
type Category string

const (
	CategoryComplaint  Category = "Complaint"
	CategorySuggestion Category = "Suggestion"
	CategoryPraise     Category = "Praise"
	CategoryInquiry    Category = "Inquiry"
)

// Aspects is the closed vocabulary of infrastructure aspects the LLM
// may assign.
var Aspects = []string{
	"Roads", "Water", "Electricity", "Transport", "Sanitation",
	"Internet", "Governance", "Healthcare", "Education", "Housing",
	"Environment", "Other",
}

// ValidSentiment reports whether s is one of the three allowed labels.
func ValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// ValidCategory reports whether c is one of the allowed categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryComplaint, CategorySuggestion, CategoryPraise, CategoryInquiry:
		return true
	}
	return false
}

// ValidAspect reports whether a belongs to the closed aspect set.
func ValidAspect(a string) bool {
	for _, aspect := range Aspects {
		if a == aspect {
			return true
		}
	}
	return false
}

// Annotation holds the LLM output for a single feedback item. A
// FeedbackItem carries it only once the item is processed; the fields
// are always written together.
type Annotation struct {
	DetectedLanguage string    `json:"detected_language"`
	TranslatedText   string    `json:"translated_text"`
	Aspect           string    `json:"aspect"`
	Sentiment        Sentiment `json:"sentiment"`
	ConfidenceScore  float64   `json:"confidence_score"`
	Category         Category  `json:"category"`
}

// FeedbackItem is one unit of ingested public feedback.
type FeedbackItem struct {
	ID           int64          `json:"id"`
	Source       string         `json:"source"`
	SourceRef    string         `json:"source_ref"`
	OriginalText string         `json:"original_text"`
	Status       Status         `json:"status"`
	Annotation   *Annotation    `json:"annotation,omitempty"` // nil until processed
	ProcessedAt  *time.Time     `json:"processed_at,omitempty"`
	Timestamp    string         `json:"timestamp"` // source-native, opaque
	LocationName *string        `json:"location_name,omitempty"`
	RawMetadata  types.JSONText `json:"raw_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Processed reports whether the item has completed annotation.
func (f *FeedbackItem) Processed() bool {
	return f.Status == StatusProcessed
}

// SentimentPrediction is the output of the independent sentiment
// classifier.
type SentimentPrediction struct {
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
}
