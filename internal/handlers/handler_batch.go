package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/SscSPs/rental_reconciler/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// batchHandler handles bulk operations over many transactions.
type batchHandler struct {
	batchService portssvc.BatchSvc
}

// newBatchHandler creates a new batchHandler.
func newBatchHandler(bs portssvc.BatchSvc) *batchHandler {
	return &batchHandler{
		batchService: bs,
	}
}

// registerBatchRoutes registers the batch endpoint. A nil limiter disables rate limiting.
func registerBatchRoutes(rg *gin.RouterGroup, batchService portssvc.BatchSvc, rateLimiter *limiter.Limiter) {
	h := newBatchHandler(batchService)

	handlersChain := []gin.HandlerFunc{}
	if rateLimiter != nil {
		handlersChain = append(handlersChain, middleware.RateLimit(rateLimiter))
	}
	handlersChain = append(handlersChain, h.runBatch)
	rg.POST("/transactions/batch", handlersChain...)
}

// runBatch godoc
// @Summary Run a batch operation
// @Description Applies one operation to each listed transaction independently. Item failures are reported per item and never abort the batch, so a well-formed request always answers 200.
// @Tags batch
// @Accept  json
// @Produce  json
// @Param   batch body dto.BatchRequest true "Operation, transaction ids and parameters"
// @Success 200 {object} domain.BatchResult
// @Failure 400 {object} map[string]string "Malformed batch request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to run batch"
// @Security BearerAuth
// @Router /transactions/batch [post]
func (h *batchHandler) runBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RunBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	middleware.AddAnalyticsProp(c, "operation", string(req.Operation))
	middleware.AddAnalyticsProp(c, "id_count", len(req.IDs))

	logger = logger.With(slog.String("operation", string(req.Operation)))
	logger.Info("Received batch request", slog.Int("count", len(req.IDs)))

	result, err := h.batchService.RunBatch(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to run batch")
		return
	}
	c.JSON(http.StatusOK, result)
}
