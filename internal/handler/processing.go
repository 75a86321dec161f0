package handler

import (
	"net/http"

	"civicsense/internal/processor"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProcessingHandler triggers annotation runs.
type ProcessingHandler struct {
	processor *processor.Processor
	logger    *zap.Logger
}

// NewProcessingHandler creates the processing handler.
func NewProcessingHandler(p *processor.Processor, logger *zap.Logger) *ProcessingHandler {
	return &ProcessingHandler{processor: p, logger: logger}
}

// RunProcessing handles POST /api/process. Chunk-level annotation
// failures are reflected in the report counts, not as an HTTP error;
// only a run that could not execute at all (store unavailable) fails.
func (h *ProcessingHandler) RunProcessing(c *gin.Context) {
	report, err := h.processor.Run(c.Request.Context())
	if err != nil {
		h.logger.Error("Annotation run aborted", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "annotation run aborted"})
		return
	}

	c.JSON(http.StatusOK, report)
}
