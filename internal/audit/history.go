package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	CheckSentimentAgreement     = "sentiment_agreement"
	CheckTranslationConsistency = "translation_consistency"
)

// HistoryEntry is one archived audit run.
type HistoryEntry struct {
	ID        int64           `json:"id"`
	CheckType string          `json:"check_type"`
	RanAt     time.Time       `json:"ran_at"`
	Report    json.RawMessage `json:"report"`
}

// History keeps an append-only local archive of audit reports in
// SQLite, separate from the feedback store.
type History struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistory opens (or creates) the audit history database, creating
// the parent directory when it does not exist yet.
func NewHistory(dbPath string, logger *zap.Logger) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit history database: %w", err)
	}

	h := &History{db: db, logger: logger}
	if err := h.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate audit history database: %w", err)
	}

	logger.Info("Audit history initialized", zap.String("db_path", dbPath))
	return h, nil
}

func (h *History) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		check_type TEXT NOT NULL,
		ran_at DATETIME NOT NULL,
		report TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_check_type ON audit_runs(check_type);
	CREATE INDEX IF NOT EXISTS idx_audit_ran_at ON audit_runs(ran_at);
	`

	_, err := h.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Save archives one audit report.
func (h *History) Save(checkType string, report interface{}) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal audit report: %w", err)
	}

	_, err = h.db.Exec(
		`INSERT INTO audit_runs (check_type, ran_at, report) VALUES (?, ?, ?)`,
		checkType, time.Now().UTC(), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save audit report: %w", err)
	}

	return nil
}

// Recent returns the latest archived runs, newest first.
func (h *History) Recent(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.Query(
		`SELECT id, check_type, ran_at, report FROM audit_runs ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var payload string
		if err := rows.Scan(&entry.ID, &entry.CheckType, &entry.RanAt, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan audit history row: %w", err)
		}
		entry.Report = json.RawMessage(payload)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
