package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error onto a JSON error response.
// Internal failures are logged in full and answered with failureMsg only.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, failureMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failureMsg})
	}
}

// parseIDParam reads a positive integer path parameter, answering 400 when it is malformed.
func parseIDParam(c *gin.Context, logger *slog.Logger, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.Warn("Invalid path parameter", slog.String("param", name), slog.String("value", raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ": " + raw})
		return 0, false
	}
	return id, true
}

// requireUserID reads the authenticated user, answering 401 when it is missing.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
