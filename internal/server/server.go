package server

import (
	"net/http"

	"civicsense/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Ingest     *handler.IngestHandler
	Processing *handler.ProcessingHandler
	Manage     *handler.ManageHandler
	Audit      *handler.AuditHandler
	Analytics  *handler.AnalyticsHandler
}

// Server owns the gin router.
type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

// NewServer builds the router and registers all routes.
func NewServer(h Handlers, registry *prometheus.Registry, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		ingest := api.Group("/ingest")
		ingest.POST("/reddit", h.Ingest.IngestReddit)
		ingest.POST("/youtube", h.Ingest.IngestYouTube)
		ingest.POST("/maps", h.Ingest.IngestMaps)

		api.POST("/process", h.Processing.RunProcessing)

		api.DELETE("/manage/unprocessed", h.Manage.DeleteUnprocessed)

		check := api.Group("/checking-metric")
		check.GET("/sentiment/llm-vs-model", h.Audit.SentimentAgreement)
		check.GET("/translation-consistency", h.Audit.TranslationConsistency)
		check.GET("/history", h.Audit.History)

		analytics := api.Group("/analytics")
		analytics.GET("/summary", h.Analytics.GetSummary)
		analytics.GET("/sentiment", h.Analytics.GetSentiment)
		analytics.GET("/aspects", h.Analytics.GetAspects)
		analytics.GET("/sources", h.Analytics.GetSources)
		analytics.GET("/languages", h.Analytics.GetLanguages)
		analytics.GET("/trends", h.Analytics.GetTrends)
		analytics.GET("/content", h.Analytics.GetContent)
		analytics.GET("/positive-locations", h.Analytics.GetPositiveLocations)
		analytics.GET("/negative-locations", h.Analytics.GetNegativeLocations)
	}

	return &Server{router: router, logger: logger}
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// HTTPServer wraps the router in an http.Server for graceful shutdown.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
