package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/SscSPs/rental_reconciler/internal/middleware"
	"github.com/gin-gonic/gin"
)

// allocationHandler handles HTTP requests for a transaction's allocation rows.
type allocationHandler struct {
	allocationService portssvc.AllocationSvcFacade
}

// newAllocationHandler creates a new allocationHandler.
func newAllocationHandler(as portssvc.AllocationSvcFacade) *allocationHandler {
	return &allocationHandler{
		allocationService: as,
	}
}

// registerAllocationRoutes registers the single-transaction editing routes.
func registerAllocationRoutes(rg *gin.RouterGroup, allocationService portssvc.AllocationSvcFacade) {
	h := newAllocationHandler(allocationService)

	allocation := rg.Group("/transactions/:transactionID/allocation")
	{
		allocation.GET("", h.getAllocation)
		allocation.PUT("", h.saveAllocation)
		allocation.POST("/rows", h.addRow)
		allocation.PATCH("/rows/:index", h.editRow)
		allocation.DELETE("/rows/:index", h.removeRow)
	}
}

func parseRowIndex(c *gin.Context, logger *slog.Logger) (int, bool) {
	raw := c.Param("index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		logger.Warn("Invalid row index", slog.String("value", raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid row index: " + raw})
		return 0, false
	}
	return index, true
}

// getAllocation godoc
// @Summary Get a transaction's allocation
// @Description Returns the transaction with its allocation rows. A transaction without rows gets a default row holding its full amount.
// @Tags allocation
// @Produce  json
// @Param   transactionID path int true "Transaction ID"
// @Success 200 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid transaction ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to load allocation"
// @Security BearerAuth
// @Router /transactions/{transactionID}/allocation [get]
func (h *allocationHandler) getAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := parseIDParam(c, logger, "transactionID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("transaction_id", transactionID))
	allocation, err := h.allocationService.GetAllocation(c.Request.Context(), transactionID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load allocation")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}

// saveAllocation godoc
// @Summary Save a transaction with its rows
// @Description Saves the transaction fields and the complete row list atomically. Row totals are authoritative; unit amounts are recomputed.
// @Tags allocation
// @Accept  json
// @Produce  json
// @Param   transactionID path int true "Transaction ID"
// @Param   allocation body dto.SaveAllocationRequest true "Transaction and rows"
// @Success 200 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to save allocation"
// @Security BearerAuth
// @Router /transactions/{transactionID}/allocation [put]
func (h *allocationHandler) saveAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := parseIDParam(c, logger, "transactionID")
	if !ok {
		return
	}
	var req dto.SaveAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("transaction_id", transactionID))
	logger.Info("Received request to save allocation", slog.Int("rows", len(req.Rows)))

	allocation, err := h.allocationService.SaveAllocation(c.Request.Context(), transactionID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to save allocation")
		return
	}

	logger.Info("Allocation saved successfully", slog.Int("rows", len(allocation.Rows)))
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}

// addRow godoc
// @Summary Add an allocation row
// @Description Appends a row holding the still unallocated remainder of the transaction amount.
// @Tags allocation
// @Produce  json
// @Param   transactionID path int true "Transaction ID"
// @Success 200 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid transaction ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to add row"
// @Security BearerAuth
// @Router /transactions/{transactionID}/allocation/rows [post]
func (h *allocationHandler) addRow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := parseIDParam(c, logger, "transactionID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("transaction_id", transactionID))
	allocation, err := h.allocationService.AddRow(c.Request.Context(), transactionID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add row")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}

// editRow godoc
// @Summary Edit one field of an allocation row
// @Description Applies the field named by lastEdited and recomputes the unit amount. Other rows are not rebalanced.
// @Tags allocation
// @Accept  json
// @Produce  json
// @Param   transactionID path int true "Transaction ID"
// @Param   index path int true "Zero-based row index"
// @Param   edit body dto.EditRowRequest true "Edited field and value"
// @Success 200 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid input format, row index or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to edit row"
// @Security BearerAuth
// @Router /transactions/{transactionID}/allocation/rows/{index} [patch]
func (h *allocationHandler) editRow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := parseIDParam(c, logger, "transactionID")
	if !ok {
		return
	}
	index, ok := parseRowIndex(c, logger)
	if !ok {
		return
	}
	var req dto.EditRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EditRow", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("transaction_id", transactionID), slog.Int("row_index", index))
	allocation, err := h.allocationService.EditRow(c.Request.Context(), transactionID, index, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to edit row")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}

// removeRow godoc
// @Summary Remove an allocation row
// @Description Removes the row at index. Removing the only remaining row leaves it in place.
// @Tags allocation
// @Produce  json
// @Param   transactionID path int true "Transaction ID"
// @Param   index path int true "Zero-based row index"
// @Success 200 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to remove row"
// @Security BearerAuth
// @Router /transactions/{transactionID}/allocation/rows/{index} [delete]
func (h *allocationHandler) removeRow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := parseIDParam(c, logger, "transactionID")
	if !ok {
		return
	}
	index, ok := parseRowIndex(c, logger)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("transaction_id", transactionID), slog.Int("row_index", index))
	allocation, err := h.allocationService.RemoveRow(c.Request.Context(), transactionID, index, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to remove row")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}
