package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/SscSPs/rental_reconciler/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ruleHandler handles HTTP requests related to allocation rules.
type ruleHandler struct {
	ruleService portssvc.RuleSvcFacade
}

// newRuleHandler creates a new ruleHandler.
func newRuleHandler(rs portssvc.RuleSvcFacade) *ruleHandler {
	return &ruleHandler{
		ruleService: rs,
	}
}

// registerRuleRoutes registers routes related to allocation rules.
func registerRuleRoutes(rg *gin.RouterGroup, ruleService portssvc.RuleSvcFacade) {
	h := newRuleHandler(ruleService)

	rules := rg.Group("/rules")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.listRules)
		rules.POST("/reorder", h.reorderRules)
		rules.POST("/dry-run", h.dryRun)
		rules.GET("/:ruleID", h.getRule)
		rules.PUT("/:ruleID", h.updateRule)
		rules.DELETE("/:ruleID", h.deleteRule)
	}
}

// createRule godoc
// @Summary Create an allocation rule
// @Description Creates a rule. New rules are placed after all existing rules.
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRuleRequest true "Rule definition"
// @Success 201 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create rule"
// @Security BearerAuth
// @Router /rules [post]
func (h *ruleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create rule", slog.String("rule_name", req.Name), slog.String("transaction_type", string(req.TransactionType)))

	rule, err := h.ruleService.CreateRule(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create rule")
		return
	}

	logger.Info("Rule created successfully", slog.Int64("rule_id", rule.ID))
	c.JSON(http.StatusCreated, dto.ToRuleResponse(rule))
}

// listRules godoc
// @Summary List allocation rules
// @Description Lists rules in priority order, optionally filtered by transaction type.
// @Tags rules
// @Produce  json
// @Param   transactionType query string false "Transaction type filter" Enums(EXPENSE, INCOME, DEPOSIT, WITHDRAW)
// @Success 200 {object} dto.ListRulesResponse
// @Failure 400 {object} map[string]string "Invalid transaction type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list rules"
// @Security BearerAuth
// @Router /rules [get]
func (h *ruleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var txnType *domain.TransactionType
	if raw, ok := c.GetQuery("transactionType"); ok && raw != "" {
		t := domain.TransactionType(raw)
		txnType = &t
	}

	rules, err := h.ruleService.ListRules(c.Request.Context(), txnType)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list rules")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRulesResponse(rules))
}

// getRule godoc
// @Summary Get an allocation rule
// @Tags rules
// @Produce  json
// @Param   ruleID path int true "Rule ID"
// @Success 200 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string "Invalid rule ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to retrieve rule"
// @Security BearerAuth
// @Router /rules/{ruleID} [get]
func (h *ruleHandler) getRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ruleID, ok := parseIDParam(c, logger, "ruleID")
	if !ok {
		return
	}

	rule, err := h.ruleService.GetRuleByID(c.Request.Context(), ruleID)
	if err != nil {
		respondServiceError(c, logger.With(slog.Int64("rule_id", ruleID)), err, "Failed to retrieve rule")
		return
	}
	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

// updateRule godoc
// @Summary Update an allocation rule
// @Description Updates the provided fields. Priority is changed through the reorder endpoint only.
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   ruleID path int true "Rule ID"
// @Param   rule body dto.UpdateRuleRequest true "Fields to update"
// @Success 200 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to update rule"
// @Security BearerAuth
// @Router /rules/{ruleID} [put]
func (h *ruleHandler) updateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ruleID, ok := parseIDParam(c, logger, "ruleID")
	if !ok {
		return
	}
	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("rule_id", ruleID))
	rule, err := h.ruleService.UpdateRule(c.Request.Context(), ruleID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update rule")
		return
	}

	logger.Info("Rule updated successfully")
	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

// deleteRule godoc
// @Summary Delete an allocation rule
// @Tags rules
// @Param   ruleID path int true "Rule ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid rule ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to delete rule"
// @Security BearerAuth
// @Router /rules/{ruleID} [delete]
func (h *ruleHandler) deleteRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ruleID, ok := parseIDParam(c, logger, "ruleID")
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("rule_id", ruleID))
	if err := h.ruleService.DeleteRule(c.Request.Context(), ruleID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete rule")
		return
	}

	logger.Info("Rule deleted successfully")
	c.Status(http.StatusNoContent)
}

// reorderRules godoc
// @Summary Reorder allocation rules
// @Description Moves the given ids to the front in the given order. Unlisted rules keep their relative order behind them. Earlier rules win when several match.
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   order body dto.ReorderRulesRequest true "Rule ids in priority order"
// @Success 200 {object} dto.ListRulesResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to reorder rules"
// @Security BearerAuth
// @Router /rules/reorder [post]
func (h *ruleHandler) reorderRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReorderRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReorderRules", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rules, err := h.ruleService.ReorderRules(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reorder rules")
		return
	}

	logger.Info("Rules reordered successfully", slog.Int("count", len(req.RuleIDs)))
	c.JSON(http.StatusOK, dto.ToListRulesResponse(rules))
}

// dryRun godoc
// @Summary Evaluate rules without saving
// @Description Reports which active rule would categorize a stored transaction or an ad-hoc transaction snapshot.
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   request body dto.DryRunRequest true "Transaction id or snapshot"
// @Success 200 {object} dto.DryRunResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to evaluate rules"
// @Security BearerAuth
// @Router /rules/dry-run [post]
func (h *ruleHandler) dryRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DryRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DryRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.ruleService.DryRun(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to evaluate rules")
		return
	}
	c.JSON(http.StatusOK, resp)
}
