package services

import (
	"context"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/SscSPs/rental_reconciler/internal/dto"
)

// RuleReaderSvc defines read operations for allocation rules.
type RuleReaderSvc interface {
	GetRuleByID(ctx context.Context, ruleID int64) (*domain.AllocationRule, error)

	// ListRules returns rules in priority order, optionally filtered by transaction type.
	ListRules(ctx context.Context, txnType *domain.TransactionType) ([]domain.AllocationRule, error)
}

// RuleWriterSvc defines write operations for allocation rules.
type RuleWriterSvc interface {
	CreateRule(ctx context.Context, req dto.CreateRuleRequest, userID string) (*domain.AllocationRule, error)
	UpdateRule(ctx context.Context, ruleID int64, req dto.UpdateRuleRequest, userID string) (*domain.AllocationRule, error)
	DeleteRule(ctx context.Context, ruleID int64) error

	// ReorderRules assigns priorities following the order of ruleIDs.
	ReorderRules(ctx context.Context, req dto.ReorderRulesRequest, userID string) ([]domain.AllocationRule, error)
}

// RuleEvaluatorSvc resolves rules against transactions without persisting anything.
type RuleEvaluatorSvc interface {
	DryRun(ctx context.Context, req dto.DryRunRequest) (*dto.DryRunResponse, error)
}

// RuleSvcFacade combines all rule-related service interfaces.
type RuleSvcFacade interface {
	RuleReaderSvc
	RuleWriterSvc
	RuleEvaluatorSvc
}
