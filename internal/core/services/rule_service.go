package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/SscSPs/rental_reconciler/internal/utils/rules"
)

// ruleService manages allocation rules and evaluates them on demand.
type ruleService struct {
	BaseService
	ruleRepo     portsrepo.RuleRepositoryFacade
	txnRepo      portsrepo.TransactionReader
	categoryRepo portsrepo.CategoryReader
}

// RuleServiceOption is a functional option for configuring the rule service
type RuleServiceOption func(*ruleService)

// WithRuleTransactionReader lets DryRun resolve stored transactions by id.
func WithRuleTransactionReader(repo portsrepo.TransactionReader) RuleServiceOption {
	return func(s *ruleService) {
		s.txnRepo = repo
	}
}

// WithRuleCategoryReader enables category existence and kind checks on rule writes.
func WithRuleCategoryReader(repo portsrepo.CategoryReader) RuleServiceOption {
	return func(s *ruleService) {
		s.categoryRepo = repo
	}
}

// NewRuleService creates a new rule service with the provided options
func NewRuleService(ruleRepo portsrepo.RuleRepositoryFacade, options ...RuleServiceOption) portssvc.RuleSvcFacade {
	svc := &ruleService{ruleRepo: ruleRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

func (s *ruleService) GetRuleByID(ctx context.Context, ruleID int64) (*domain.AllocationRule, error) {
	return s.ruleRepo.FindRuleByID(ctx, ruleID)
}

func (s *ruleService) ListRules(ctx context.Context, txnType *domain.TransactionType) ([]domain.AllocationRule, error) {
	if txnType != nil && !txnType.IsValid() {
		return nil, fmt.Errorf("unknown transaction type %q: %w", *txnType, apperrors.ErrValidation)
	}
	return s.ruleRepo.ListRules(ctx, txnType)
}

// validateRule runs the domain checks and, when a category reader is configured,
// verifies that the assigned category exists and matches the rule's type.
func (s *ruleService) validateRule(ctx context.Context, rule domain.AllocationRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	if s.categoryRepo == nil || rule.CategoryID == nil {
		return nil
	}
	return newCategoryChecker(s.categoryRepo).checkRows(ctx, rule.TransactionType,
		[]domain.AllocationRow{{CategoryID: rule.CategoryID}})
}

func (s *ruleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest, userID string) (*domain.AllocationRule, error) {
	now := time.Now()
	rule := domain.AllocationRule{
		Name:            req.Name,
		TransactionType: req.TransactionType,
		CategoryID:      req.CategoryID,
		Conditions:      dto.ToDomainConditions(req.Conditions),
		IsActive:        req.IsActive == nil || *req.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.validateRule(ctx, rule); err != nil {
		return nil, err
	}

	created, err := s.ruleRepo.SaveRule(ctx, rule)
	if err != nil {
		s.LogError(ctx, err, "Failed to save rule", slog.String("name", rule.Name))
		return nil, err
	}
	s.LogInfo(ctx, "Rule created", slog.Int64("rule_id", created.ID), slog.Int("priority", created.Priority))
	return created, nil
}

func (s *ruleService) UpdateRule(ctx context.Context, ruleID int64, req dto.UpdateRuleRequest, userID string) (*domain.AllocationRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.TransactionType != nil {
		rule.TransactionType = *req.TransactionType
	}
	if req.ClearCategory {
		rule.CategoryID = nil
	} else if req.CategoryID != nil {
		rule.CategoryID = req.CategoryID
	}
	if req.Conditions != nil {
		rule.Conditions = dto.ToDomainConditions(req.Conditions)
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	rule.LastUpdatedAt = time.Now()
	rule.LastUpdatedBy = userID

	if err := s.validateRule(ctx, *rule); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.UpdateRule(ctx, *rule); err != nil {
		s.LogError(ctx, err, "Failed to update rule", slog.Int64("rule_id", ruleID))
		return nil, err
	}
	return rule, nil
}

func (s *ruleService) DeleteRule(ctx context.Context, ruleID int64) error {
	if err := s.ruleRepo.DeleteRule(ctx, ruleID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Rule deleted", slog.Int64("rule_id", ruleID))
	return nil
}

func (s *ruleService) ReorderRules(ctx context.Context, req dto.ReorderRulesRequest, userID string) ([]domain.AllocationRule, error) {
	if len(req.RuleIDs) == 0 {
		return nil, fmt.Errorf("rule order must not be empty: %w", apperrors.ErrValidation)
	}
	seen := make(map[int64]bool, len(req.RuleIDs))
	for _, id := range req.RuleIDs {
		if seen[id] {
			return nil, fmt.Errorf("rule %d listed twice: %w", id, apperrors.ErrValidation)
		}
		seen[id] = true
	}

	current, err := s.ruleRepo.ListRules(ctx, nil)
	if err != nil {
		return nil, err
	}
	order, err := completeRuleOrder(current, req.RuleIDs)
	if err != nil {
		return nil, err
	}

	if err := s.ruleRepo.UpdateRulePriorities(ctx, order, userID); err != nil {
		s.LogError(ctx, err, "Failed to reorder rules", slog.Int("count", len(order)))
		return nil, err
	}
	return s.ruleRepo.ListRules(ctx, nil)
}

// completeRuleOrder puts the listed rules first and keeps every other rule after
// them in its current order, so no two rules end up sharing a priority.
func completeRuleOrder(current []domain.AllocationRule, listed []int64) ([]int64, error) {
	known := make(map[int64]bool, len(current))
	for _, rule := range current {
		known[rule.ID] = true
	}
	order := make([]int64, 0, len(current))
	placed := make(map[int64]bool, len(listed))
	for _, id := range listed {
		if !known[id] {
			return nil, fmt.Errorf("rule %d: %w", id, apperrors.ErrNotFound)
		}
		order = append(order, id)
		placed[id] = true
	}
	for _, rule := range current {
		if !placed[rule.ID] {
			order = append(order, rule.ID)
		}
	}
	return order, nil
}

func (s *ruleService) DryRun(ctx context.Context, req dto.DryRunRequest) (*dto.DryRunResponse, error) {
	var txn domain.Transaction
	switch {
	case req.TransactionID != nil:
		if s.txnRepo == nil {
			return nil, fmt.Errorf("dry run by transaction id is not available: %w", apperrors.ErrValidation)
		}
		found, err := s.txnRepo.FindTransactionByID(ctx, *req.TransactionID)
		if err != nil {
			return nil, err
		}
		txn = *found
	case req.Transaction != nil:
		txn = domain.Transaction{
			Type:        req.Transaction.Type,
			Sender:      req.Transaction.Sender,
			Receiver:    req.Transaction.Receiver,
			Description: req.Transaction.Description,
			Amount:      req.Transaction.Amount,
		}
	default:
		return nil, fmt.Errorf("either transactionID or transaction is required: %w", apperrors.ErrValidation)
	}

	candidates, err := s.ruleRepo.ListActiveRulesFor(ctx, txn.Type)
	if err != nil {
		return nil, err
	}
	rule := rules.Resolve(txn, candidates)
	if rule == nil {
		return &dto.DryRunResponse{Matched: false}, nil
	}
	return &dto.DryRunResponse{
		Matched:    true,
		RuleID:     rule.ID,
		RuleName:   rule.Name,
		CategoryID: rule.CategoryID,
	}, nil
}
