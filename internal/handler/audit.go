package handler

import (
	"net/http"
	"strconv"

	"civicsense/internal/audit"
	"civicsense/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditHandler exposes the consistency checking endpoints.
type AuditHandler struct {
	auditor   *audit.Auditor
	history   *audit.History
	languages []config.TrackedLanguage
	logger    *zap.Logger
}

// NewAuditHandler creates the audit handler.
func NewAuditHandler(auditor *audit.Auditor, history *audit.History, languages []config.TrackedLanguage, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditor:   auditor,
		history:   history,
		languages: languages,
		logger:    logger,
	}
}

// SentimentAgreement handles GET /api/checking-metric/sentiment/llm-vs-model.
func (h *AuditHandler) SentimentAgreement(c *gin.Context) {
	limit := intQuery(c, "limit", 0)

	report, err := h.auditor.SentimentAgreement(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Sentiment agreement check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sentiment agreement check failed"})
		return
	}

	if err := h.history.Save(audit.CheckSentimentAgreement, report); err != nil {
		h.logger.Warn("Failed to archive audit report", zap.Error(err))
	}

	c.JSON(http.StatusOK, report)
}

// TranslationConsistency handles GET /api/checking-metric/translation-consistency.
func (h *AuditHandler) TranslationConsistency(c *gin.Context) {
	report, err := h.auditor.TranslationConsistency(c.Request.Context(), h.languages)
	if err != nil {
		h.logger.Error("Translation consistency check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "translation consistency check failed"})
		return
	}

	if err := h.history.Save(audit.CheckTranslationConsistency, report); err != nil {
		h.logger.Warn("Failed to archive audit report", zap.Error(err))
	}

	c.JSON(http.StatusOK, report)
}

// History handles GET /api/checking-metric/history.
func (h *AuditHandler) History(c *gin.Context) {
	limit := intQuery(c, "limit", 20)

	entries, err := h.history.Recent(limit)
	if err != nil {
		h.logger.Error("Failed to load audit history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  entries,
		"total": len(entries),
	})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
