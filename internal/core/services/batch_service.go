package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/SscSPs/rental_reconciler/internal/utils/allocation"
	"github.com/SscSPs/rental_reconciler/internal/utils/rules"
)

// DefaultBatchMaxItems caps the number of ids accepted by one batch request.
const DefaultBatchMaxItems = 500

const batchCompletedEvent = "transactions_batch_completed"

// EventTracker receives product analytics events.
type EventTracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}

// batchService applies one operation to many transactions, one at a time.
type batchService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	ruleRepo     portsrepo.RuleReader
	maxItems     int
	tracker      EventTracker
}

// BatchServiceOption is a functional option for configuring the batch service
type BatchServiceOption func(*batchService)

// WithBatchMaxItems overrides DefaultBatchMaxItems. Values below 1 are ignored.
func WithBatchMaxItems(maxItems int) BatchServiceOption {
	return func(s *batchService) {
		if maxItems > 0 {
			s.maxItems = maxItems
		}
	}
}

// WithBatchEventTracker sends a summary event after every completed batch.
func WithBatchEventTracker(tracker EventTracker) BatchServiceOption {
	return func(s *batchService) {
		s.tracker = tracker
	}
}

// NewBatchService creates a new batch service with the provided options
func NewBatchService(txnRepo portsrepo.TransactionRepositoryFacade, categoryRepo portsrepo.CategoryReader, ruleRepo portsrepo.RuleReader, options ...BatchServiceOption) portssvc.BatchSvc {
	svc := &batchService{
		txnRepo:      txnRepo,
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
		maxItems:     DefaultBatchMaxItems,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BatchSvc = (*batchService)(nil)

// validateRequest rejects malformed requests before any item is touched.
func (s *batchService) validateRequest(req dto.BatchRequest) error {
	if !req.Operation.IsValid() {
		return fmt.Errorf("unknown batch operation %q: %w", req.Operation, apperrors.ErrValidation)
	}
	if len(req.IDs) == 0 {
		return fmt.Errorf("ids must not be empty: %w", apperrors.ErrValidation)
	}
	if len(req.IDs) > s.maxItems {
		return fmt.Errorf("batch of %d ids exceeds the limit of %d: %w", len(req.IDs), s.maxItems, apperrors.ErrValidation)
	}

	p := req.Params
	switch req.Operation {
	case domain.OpRetype:
		if !p.NewType.IsValid() {
			return fmt.Errorf("retype needs a valid newType, got %q: %w", p.NewType, apperrors.ErrValidation)
		}
	case domain.OpRecategorize:
		if p.CategoryID == nil {
			return fmt.Errorf("recategorize needs categoryID: %w", apperrors.ErrValidation)
		}
	case domain.OpSplitLoanPayment:
		if p.PrincipalCategoryID == nil || p.InterestCategoryID == nil {
			return fmt.Errorf("splitLoanPayment needs principalCategoryID and interestCategoryID: %w", apperrors.ErrValidation)
		}
	}
	return nil
}

func (s *batchService) RunBatch(ctx context.Context, req dto.BatchRequest, userID string) (*domain.BatchResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.run(ctx, req.Operation, req.IDs, req.Params.ToDomainParams(), userID), nil
}

func (s *batchService) AutoAllocate(ctx context.Context, limit int, userID string) (*domain.BatchResult, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d: %w", limit, apperrors.ErrValidation)
	}
	ids, err := s.txnRepo.ListUncategorizedTransactionIDs(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list uncategorized transactions")
		return nil, err
	}
	return s.run(ctx, domain.OpApplyRules, ids, domain.BatchParams{}, userID), nil
}

// run processes ids sequentially in input order. It is detached from caller
// cancellation; writes made for earlier items are never rolled back.
func (s *batchService) run(ctx context.Context, op domain.BatchOperation, ids []int64, params domain.BatchParams, userID string) *domain.BatchResult {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	item := &batchItemProcessor{
		svc:         s,
		params:      params,
		userID:      userID,
		categories:  newCategoryChecker(s.categoryRepo),
		rulesByType: make(map[domain.TransactionType][]domain.AllocationRule),
	}

	outcomes := make([]domain.BatchItemResult, 0, len(ids))
	for _, id := range ids {
		message, err := item.process(ctx, op, id)
		outcomes = append(outcomes, s.outcome(ctx, op, id, message, err))
	}

	result := domain.AggregateBatchResult(outcomes)
	s.LogInfo(ctx, "Batch completed",
		slog.String("operation", string(op)),
		slog.Int("total", result.Total),
		slog.Int("success", result.Success),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", time.Since(start)))

	if s.tracker != nil && userID != "" {
		s.tracker.Enqueue(userID, batchCompletedEvent, map[string]any{
			"operation": string(op),
			"total":     result.Total,
			"success":   result.Success,
			"failed":    result.Failed,
		})
	}
	return &result
}

// outcome converts an item error into its result entry. Unexpected store errors are
// logged in full and reported with a generic message.
func (s *batchService) outcome(ctx context.Context, op domain.BatchOperation, id int64, message string, err error) domain.BatchItemResult {
	code := apperrors.StatusCode(err)
	switch {
	case err == nil:
	case code >= http.StatusInternalServerError:
		s.LogError(ctx, err, "Batch item failed",
			slog.String("operation", string(op)),
			slog.Int64("transaction_id", id))
		message = "internal error while processing transaction"
	default:
		s.LogWarn(ctx, err, "Batch item rejected",
			slog.String("operation", string(op)),
			slog.Int64("transaction_id", id),
			slog.Int("status", code))
		message = err.Error()
	}
	return domain.BatchItemResult{ID: id, StatusCode: code, Message: message}
}

// batchItemProcessor holds the per-run caches shared by all items of one batch.
type batchItemProcessor struct {
	svc         *batchService
	params      domain.BatchParams
	userID      string
	categories  *categoryChecker
	rulesByType map[domain.TransactionType][]domain.AllocationRule
}

func (p *batchItemProcessor) process(ctx context.Context, op domain.BatchOperation, id int64) (string, error) {
	if op == domain.OpDelete {
		if err := p.svc.txnRepo.DeleteTransaction(ctx, id); err != nil {
			return "", err
		}
		return "deleted", nil
	}

	txn, err := p.svc.txnRepo.FindTransactionByID(ctx, id)
	if err != nil {
		return "", err
	}

	switch op {
	case domain.OpRetype:
		return p.retype(ctx, *txn)
	case domain.OpRecategorize:
		return p.recategorize(ctx, *txn)
	case domain.OpSplitLoanPayment:
		return p.splitLoanPayment(ctx, *txn)
	case domain.OpApplyRules:
		return p.applyRules(ctx, *txn)
	}
	return "", fmt.Errorf("unknown batch operation %q: %w", op, apperrors.ErrValidation)
}

func (p *batchItemProcessor) retype(ctx context.Context, txn domain.Transaction) (string, error) {
	txn.Type = p.params.NewType
	txn.LastUpdatedAt = time.Now()
	txn.LastUpdatedBy = p.userID
	if err := p.svc.txnRepo.UpdateTransaction(ctx, txn); err != nil {
		return "", err
	}
	return fmt.Sprintf("type set to %s", txn.Type), nil
}

func (p *batchItemProcessor) recategorize(ctx context.Context, txn domain.Transaction) (string, error) {
	categoryID := *p.params.CategoryID
	if err := p.categories.check(ctx, txn.Type, categoryID); err != nil {
		return "", err
	}
	if err := p.assignToAllRows(ctx, txn, categoryID); err != nil {
		return "", err
	}
	return fmt.Sprintf("category set to %d", categoryID), nil
}

func (p *batchItemProcessor) splitLoanPayment(ctx context.Context, txn domain.Transaction) (string, error) {
	cats := allocation.LoanSplitCategories{
		Principal:   *p.params.PrincipalCategoryID,
		Interest:    *p.params.InterestCategoryID,
		HandlingFee: p.params.HandlingFeeCategoryID,
	}
	for _, id := range []*int64{&cats.Principal, &cats.Interest, cats.HandlingFee} {
		if id == nil {
			continue
		}
		if err := p.categories.check(ctx, txn.Type, *id); err != nil {
			return "", err
		}
	}

	rows, err := allocation.SplitLoanPayment(txn, cats)
	if err != nil {
		return "", err
	}
	if _, err := p.svc.txnRepo.ReplaceAllocationRows(ctx, txn.ID, rows); err != nil {
		return "", err
	}
	return fmt.Sprintf("split into %d rows", len(rows)), nil
}

func (p *batchItemProcessor) applyRules(ctx context.Context, txn domain.Transaction) (string, error) {
	candidates, ok := p.rulesByType[txn.Type]
	if !ok {
		var err error
		candidates, err = p.svc.ruleRepo.ListActiveRulesFor(ctx, txn.Type)
		if err != nil {
			return "", err
		}
		p.rulesByType[txn.Type] = candidates
	}

	rule := rules.Resolve(txn, candidates)
	if rule == nil {
		return "no matching rule", nil
	}
	categoryID := rule.CategoryID
	if categoryID == nil {
		return fmt.Sprintf("rule %q matched without a category", rule.Name), nil
	}

	rows, err := p.svc.txnRepo.FindAllocationRows(ctx, txn.ID)
	if err != nil {
		return "", err
	}
	rec := allocation.NewRowReconciler(txn, rows, domain.RowDefaults{})
	if rec.HasCategorizedRow() {
		return "already categorized", nil
	}
	if err := p.categories.check(ctx, txn.Type, *categoryID); err != nil {
		return "", err
	}
	if err := p.persistCategory(ctx, rec, *categoryID); err != nil {
		return "", err
	}
	return fmt.Sprintf("category %d assigned by rule %q", *categoryID, rule.Name), nil
}

func (p *batchItemProcessor) assignToAllRows(ctx context.Context, txn domain.Transaction, categoryID int64) error {
	rows, err := p.svc.txnRepo.FindAllocationRows(ctx, txn.ID)
	if err != nil {
		return err
	}
	return p.persistCategory(ctx, allocation.NewRowReconciler(txn, rows, domain.RowDefaults{}), categoryID)
}

func (p *batchItemProcessor) persistCategory(ctx context.Context, rec *allocation.RowReconciler, categoryID int64) error {
	if rec.EnsureNonEmpty() {
		rec.PropagateParentDescription(rec.Transaction().Description)
	}
	rec.AssignCategory(&categoryID)
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := p.svc.txnRepo.ReplaceAllocationRows(ctx, rec.Transaction().ID, rec.Rows())
	return err
}
