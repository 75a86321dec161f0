package handler

import (
	"errors"
	"net/http"
	"strings"

	"civicsense/internal/metrics"
	"civicsense/internal/repository"
	"civicsense/internal/source"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngestHandler exposes the ingestion boundary for all sources.
type IngestHandler struct {
	store       repository.FeedbackStore
	fetcher     *source.RedditFetcher
	logger      *zap.Logger
	maxComments int
}

// NewIngestHandler creates the ingestion handler.
func NewIngestHandler(store repository.FeedbackStore, fetcher *source.RedditFetcher, logger *zap.Logger, maxComments int) *IngestHandler {
	return &IngestHandler{
		store:       store,
		fetcher:     fetcher,
		logger:      logger,
		maxComments: maxComments,
	}
}

// IngestReddit handles POST /api/ingest/reddit. The post listing is
// fetched, walked and stored; re-ingesting the same post is a no-op for
// comments already present.
func (h *IngestHandler) IngestReddit(c *gin.Context) {
	postURL := c.Query("post_url")
	if !strings.HasPrefix(postURL, "https://www.reddit.com") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Reddit post URL"})
		return
	}

	locationName := optionalQuery(c, "location_name")

	payload, err := h.fetcher.Fetch(c.Request.Context(), postURL)
	if err != nil {
		h.logger.Error("Failed to fetch reddit post", zap.String("post_url", postURL), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch reddit post"})
		return
	}

	items, err := source.ParseRedditThread(payload, postURL)
	if err != nil {
		var malformed *source.MalformedDataError
		if errors.As(err, &malformed) {
			h.logger.Error("Malformed reddit payload", zap.String("post_url", postURL), zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": malformed.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to parse reddit payload"})
		return
	}

	h.ingest(c, source.SourceReddit, items, locationName)
}

// YouTubeIngestRequest is the scraped payload posted by the collector.
type YouTubeIngestRequest struct {
	VideoURL     string                  `json:"video_url" binding:"required"`
	LocationName *string                 `json:"location_name"`
	Comments     []source.YouTubeComment `json:"comments" binding:"required"`
}

// IngestYouTube handles POST /api/ingest/youtube.
func (h *IngestHandler) IngestYouTube(c *gin.Context) {
	var req YouTubeIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := source.ParseYouTubeComments(req.Comments, req.VideoURL, h.maxComments)
	h.ingest(c, source.SourceYouTube, items, req.LocationName)
}

// MapsIngestRequest is the scraped review payload for one place.
type MapsIngestRequest struct {
	PlaceURL     string              `json:"place_url" binding:"required"`
	LocationName *string             `json:"location_name"`
	Reviews      []source.MapsReview `json:"reviews" binding:"required"`
}

// IngestMaps handles POST /api/ingest/maps.
func (h *IngestHandler) IngestMaps(c *gin.Context) {
	var req MapsIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := source.ParseMapsReviews(req.Reviews, req.PlaceURL, h.maxComments)
	h.ingest(c, source.SourceMaps, items, req.LocationName)
}

func (h *IngestHandler) ingest(c *gin.Context, sourceName string, items []source.RawItem, locationName *string) {
	result, err := h.store.Ingest(c.Request.Context(), items, locationName)
	if err != nil {
		h.logger.Error("Failed to store ingested items", zap.String("source", sourceName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store ingested items"})
		return
	}

	metrics.ObserveIngest(sourceName, result.Inserted, result.Skipped)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"source": sourceName,
		"result": result,
	})
}

func optionalQuery(c *gin.Context, key string) *string {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	return &value
}
