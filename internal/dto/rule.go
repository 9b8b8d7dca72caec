package dto

import (
	"time"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
)

// RuleConditionRequest is one condition of a rule in a create or update request.
type RuleConditionRequest struct {
	Field    domain.ConditionField    `json:"field" binding:"required,oneof=sender receiver description amount"`
	Operator domain.ConditionOperator `json:"operator" binding:"required,oneof=equals contains greaterThan lessThan"`
	Value    string                   `json:"value"`
}

// CreateRuleRequest defines the data needed to create an allocation rule.
type CreateRuleRequest struct {
	Name            string                 `json:"name" binding:"required"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=EXPENSE INCOME DEPOSIT WITHDRAW"`
	CategoryID      *int64                 `json:"categoryID"` // Required for EXPENSE/INCOME, forbidden otherwise
	Conditions      []RuleConditionRequest `json:"conditions" binding:"required,min=1,dive"`
	IsActive        *bool                  `json:"isActive"` // Defaults to true
}

// UpdateRuleRequest replaces a rule's definition. Nil fields are left unchanged.
type UpdateRuleRequest struct {
	Name            *string                 `json:"name"`
	TransactionType *domain.TransactionType `json:"transactionType" binding:"omitempty,oneof=EXPENSE INCOME DEPOSIT WITHDRAW"`
	CategoryID      *int64                  `json:"categoryID"`
	ClearCategory   bool                    `json:"clearCategory"`
	Conditions      []RuleConditionRequest  `json:"conditions" binding:"omitempty,min=1,dive"`
	IsActive        *bool                   `json:"isActive"`
}

// ReorderRulesRequest lists rule ids in their new priority order. Rules left out follow the listed ones.
type ReorderRulesRequest struct {
	RuleIDs []int64 `json:"ruleIDs" binding:"required,min=1,unique,dive,gt=0"`
}

// DryRunRequest asks which rule would apply to a stored transaction or to an ad-hoc snapshot.
type DryRunRequest struct {
	TransactionID *int64              `json:"transactionID"`
	Transaction   *TransactionPayload `json:"transaction"`
}

// DryRunResponse reports the rule that would win, if any.
type DryRunResponse struct {
	Matched    bool   `json:"matched"`
	RuleID     int64  `json:"ruleID,omitempty"`
	RuleName   string `json:"ruleName,omitempty"`
	CategoryID *int64 `json:"categoryID"`
}

// RuleResponse defines the data returned for a rule.
type RuleResponse struct {
	ID              int64                  `json:"id"`
	Name            string                 `json:"name"`
	TransactionType domain.TransactionType `json:"transactionType"`
	CategoryID      *int64                 `json:"categoryID"`
	Conditions      []domain.RuleCondition `json:"conditions"`
	IsActive        bool                   `json:"isActive"`
	Priority        int                    `json:"priority"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy   string                 `json:"lastUpdatedBy"`
}

// ListRulesResponse wraps a list of rules in priority order.
type ListRulesResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// ToDomainConditions converts request conditions to domain conditions.
func ToDomainConditions(reqs []RuleConditionRequest) []domain.RuleCondition {
	conditions := make([]domain.RuleCondition, len(reqs))
	for i, c := range reqs {
		conditions[i] = domain.RuleCondition{Field: c.Field, Operator: c.Operator, Value: c.Value}
	}
	return conditions
}

// ToRuleResponse converts a domain.AllocationRule to RuleResponse DTO.
func ToRuleResponse(r *domain.AllocationRule) RuleResponse {
	return RuleResponse{
		ID:              r.ID,
		Name:            r.Name,
		TransactionType: r.TransactionType,
		CategoryID:      r.CategoryID,
		Conditions:      r.Conditions,
		IsActive:        r.IsActive,
		Priority:        r.Priority,
		CreatedAt:       r.CreatedAt,
		CreatedBy:       r.CreatedBy,
		LastUpdatedAt:   r.LastUpdatedAt,
		LastUpdatedBy:   r.LastUpdatedBy,
	}
}

// ToListRulesResponse converts a slice of domain.AllocationRule to ListRulesResponse DTO.
func ToListRulesResponse(rules []domain.AllocationRule) ListRulesResponse {
	out := make([]RuleResponse, len(rules))
	for i := range rules {
		out[i] = ToRuleResponse(&rules[i])
	}
	return ListRulesResponse{Rules: out}
}
