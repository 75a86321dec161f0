package audit

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"civicsense/internal/models"

	"go.uber.org/zap"
)

func TestHistoryRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")

	history, err := NewHistory(dbPath, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHistory returned error: %v", err)
	}
	defer history.Close()

	agreement := &models.AgreementReport{
		TotalSamples:        10,
		Matches:             7,
		Mismatches:          3,
		AgreementPercentage: 70,
		SampleMismatches:    []models.MismatchSample{},
	}
	if err := history.Save(CheckSentimentAgreement, agreement); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	translation := models.TranslationReport{
		"Marathi": models.LanguageConsistency{Count: 2, AverageSimilarity: 0.91},
	}
	if err := history.Save(CheckTranslationConsistency, translation); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	entries, err := history.Recent(10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// Newest first.
	if entries[0].CheckType != CheckTranslationConsistency {
		t.Errorf("entry 0 check_type = %q, want %q", entries[0].CheckType, CheckTranslationConsistency)
	}
	if entries[1].CheckType != CheckSentimentAgreement {
		t.Errorf("entry 1 check_type = %q, want %q", entries[1].CheckType, CheckSentimentAgreement)
	}

	var restored models.AgreementReport
	if err := json.Unmarshal(entries[1].Report, &restored); err != nil {
		t.Fatalf("stored report is not valid JSON: %v", err)
	}
	if restored.AgreementPercentage != 70 || restored.Matches != 7 {
		t.Errorf("restored report = %+v", restored)
	}
}

func TestNewHistoryCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "data", "audit.db")

	history, err := NewHistory(dbPath, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHistory returned error: %v", err)
	}
	defer history.Close()

	if err := history.Save(CheckSentimentAgreement, map[string]int{"run": 1}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
}

func TestHistoryRecentLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")

	history, err := NewHistory(dbPath, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHistory returned error: %v", err)
	}
	defer history.Close()

	for i := 0; i < 5; i++ {
		if err := history.Save(CheckSentimentAgreement, map[string]int{"run": i}); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	entries, err := history.Recent(3)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
}
