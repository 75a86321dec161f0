package handler

import (
	"net/http"
	"net/url"

	"civicsense/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ManageHandler exposes the administrative maintenance operations.
type ManageHandler struct {
	store  repository.FeedbackStore
	logger *zap.Logger
}

// NewManageHandler creates the management handler.
func NewManageHandler(store repository.FeedbackStore, logger *zap.Logger) *ManageHandler {
	return &ManageHandler{store: store, logger: logger}
}

// DeleteUnprocessedRequest identifies the source to purge.
type DeleteUnprocessedRequest struct {
	URL string `json:"url" binding:"required"`
}

// DeleteUnprocessed handles DELETE /api/manage/unprocessed. The
// reference must be a well-formed URL; the purge only ever removes
// items that have not been processed.
func (h *ManageHandler) DeleteUnprocessed(c *gin.Context) {
	var req DeleteUnprocessedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source reference URL"})
		return
	}

	result, err := h.store.PurgeUnprocessed(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Error("Failed to purge unprocessed items", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete unprocessed records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"url":             req.URL,
		"deleted_count":   result.DeletedCount,
		"remaining_count": result.RemainingCount,
	})
}
