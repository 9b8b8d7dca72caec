package repositories

import (
	"context"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
)

// RuleReader defines read operations for allocation rules
type RuleReader interface {
	// FindRuleByID retrieves a rule. Returns apperrors.ErrNotFound if it does not exist.
	FindRuleByID(ctx context.Context, ruleID int64) (*domain.AllocationRule, error)

	// ListActiveRulesFor returns the active rules of a transaction type ordered by priority.
	ListActiveRulesFor(ctx context.Context, txnType domain.TransactionType) ([]domain.AllocationRule, error)

	// ListRules returns all rules ordered by priority, optionally limited to one transaction type.
	ListRules(ctx context.Context, txnType *domain.TransactionType) ([]domain.AllocationRule, error)
}

// RuleWriter defines write operations for allocation rules
type RuleWriter interface {
	// SaveRule inserts a rule. A zero priority places it after every existing rule.
	SaveRule(ctx context.Context, rule domain.AllocationRule) (*domain.AllocationRule, error)

	// UpdateRule replaces a rule and its conditions.
	UpdateRule(ctx context.Context, rule domain.AllocationRule) error

	// DeleteRule removes a rule and its conditions.
	DeleteRule(ctx context.Context, ruleID int64) error

	// UpdateRulePriorities sets the priority of each rule to its position in ruleIDs.
	UpdateRulePriorities(ctx context.Context, ruleIDs []int64, updatedBy string) error
}

// RuleRepositoryFacade combines all rule-related repository interfaces
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}
