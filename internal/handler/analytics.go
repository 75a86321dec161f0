package handler

import (
	"net/http"

	"civicsense/internal/models"
	"civicsense/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyticsHandler serves the read-only aggregation endpoints.
type AnalyticsHandler struct {
	store  repository.AnalyticsStore
	logger *zap.Logger
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(store repository.AnalyticsStore, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{store: store, logger: logger}
}

// GetSummary handles GET /api/analytics/summary.
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.store.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, "summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetSentiment handles GET /api/analytics/sentiment.
func (h *AnalyticsHandler) GetSentiment(c *gin.Context) {
	buckets, err := h.store.SentimentDistribution(c.Request.Context())
	if err != nil {
		h.fail(c, "sentiment distribution", err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// GetAspects handles GET /api/analytics/aspects.
func (h *AnalyticsHandler) GetAspects(c *gin.Context) {
	buckets, err := h.store.AspectDistribution(c.Request.Context())
	if err != nil {
		h.fail(c, "aspect distribution", err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// GetSources handles GET /api/analytics/sources.
func (h *AnalyticsHandler) GetSources(c *gin.Context) {
	buckets, err := h.store.SourceDistribution(c.Request.Context())
	if err != nil {
		h.fail(c, "source distribution", err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// GetLanguages handles GET /api/analytics/languages.
func (h *AnalyticsHandler) GetLanguages(c *gin.Context) {
	buckets, err := h.store.LanguageDistribution(c.Request.Context())
	if err != nil {
		h.fail(c, "language distribution", err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// GetTrends handles GET /api/analytics/trends.
func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	buckets, err := h.store.DailyVolume(c.Request.Context())
	if err != nil {
		h.fail(c, "volume trend", err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// GetContent handles GET /api/analytics/content with optional
// sentiment, aspect and source filters.
func (h *AnalyticsHandler) GetContent(c *gin.Context) {
	filter := repository.ContentFilter{
		Sentiment: c.Query("sentiment"),
		Aspect:    c.Query("aspect"),
		Source:    c.Query("source"),
		Limit:     intQuery(c, "limit", 50),
		Offset:    intQuery(c, "offset", 0),
	}

	items, err := h.store.ListProcessed(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "content listing", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetPositiveLocations handles GET /api/analytics/positive-locations.
func (h *AnalyticsHandler) GetPositiveLocations(c *gin.Context) {
	h.locations(c, models.SentimentPositive)
}

// GetNegativeLocations handles GET /api/analytics/negative-locations.
func (h *AnalyticsHandler) GetNegativeLocations(c *gin.Context) {
	h.locations(c, models.SentimentNegative)
}

func (h *AnalyticsHandler) locations(c *gin.Context, sentiment models.Sentiment) {
	buckets, err := h.store.LocationsBySentiment(c.Request.Context(), sentiment)
	if err != nil {
		h.fail(c, "location distribution", err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func (h *AnalyticsHandler) fail(c *gin.Context, what string, err error) {
	h.logger.Error("Analytics query failed", zap.String("query", what), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute " + what})
}
