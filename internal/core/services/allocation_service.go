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
	"github.com/SscSPs/rental_reconciler/internal/utils/allocation"
)

// allocationService implements single-transaction allocation editing.
type allocationService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	categoryRepo portsrepo.CategoryReader
}

// NewAllocationService creates a new AllocationService.
func NewAllocationService(txnRepo portsrepo.TransactionRepositoryFacade, categoryRepo portsrepo.CategoryReader) portssvc.AllocationSvcFacade {
	return &allocationService{
		txnRepo:      txnRepo,
		categoryRepo: categoryRepo,
	}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// load reads the transaction and its stored rows into a reconciler.
func (s *allocationService) load(ctx context.Context, transactionID int64) (*allocation.RowReconciler, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	rows, err := s.txnRepo.FindAllocationRows(ctx, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load allocation rows", slog.Int64("transaction_id", transactionID))
		return nil, err
	}
	return allocation.NewRowReconciler(*txn, rows, domain.RowDefaults{}), nil
}

// persistRows validates the reconciler state and replaces the stored rows.
func (s *allocationService) persistRows(ctx context.Context, rec *allocation.RowReconciler) (*domain.TransactionAllocation, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	txn := rec.Transaction()
	persisted, err := s.txnRepo.ReplaceAllocationRows(ctx, txn.ID, rec.Rows())
	if err != nil {
		s.LogError(ctx, err, "Failed to replace allocation rows", slog.Int64("transaction_id", txn.ID))
		return nil, err
	}
	return &domain.TransactionAllocation{Transaction: txn, Rows: persisted}, nil
}

func (s *allocationService) GetAllocation(ctx context.Context, transactionID int64, userID string) (*domain.TransactionAllocation, error) {
	rec, err := s.load(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !rec.EnsureNonEmpty() {
		return &domain.TransactionAllocation{Transaction: rec.Transaction(), Rows: rec.Rows()}, nil
	}

	rec.PropagateParentDescription(rec.Transaction().Description)
	s.LogDebug(ctx, "Created default allocation row",
		slog.Int64("transaction_id", transactionID),
		slog.String("user_id", userID))
	return s.persistRows(ctx, rec)
}

func (s *allocationService) SaveAllocation(ctx context.Context, transactionID int64, req dto.SaveAllocationRequest, userID string) (*domain.TransactionAllocation, error) {
	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	storedRows, err := s.txnRepo.FindAllocationRows(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	payload := req.Transaction
	if !payload.Type.IsValid() {
		return nil, fmt.Errorf("unknown transaction type %q: %w", payload.Type, apperrors.ErrValidation)
	}
	if payload.Status != "" && !payload.Status.IsValid() {
		return nil, fmt.Errorf("unknown transaction status %q: %w", payload.Status, apperrors.ErrValidation)
	}
	if !domain.HasCentPrecision(payload.Amount) {
		return nil, fmt.Errorf("amount %s has more than two fractional digits: %w", payload.Amount, apperrors.ErrValidation)
	}

	stored := make(map[int64]bool, len(storedRows))
	for _, row := range storedRows {
		stored[row.ID] = true
	}
	seen := make(map[int64]bool, len(req.Rows))
	rows := make([]domain.AllocationRow, 0, len(req.Rows))
	for i, rp := range req.Rows {
		if rp.ID != 0 && !stored[rp.ID] {
			return nil, fmt.Errorf("row %d does not belong to transaction %d: %w", rp.ID, transactionID, apperrors.ErrValidation)
		}
		if rp.ID != 0 && seen[rp.ID] {
			return nil, fmt.Errorf("row %d listed twice: %w", rp.ID, apperrors.ErrValidation)
		}
		seen[rp.ID] = true
		row := domain.AllocationRow{
			ID:            rp.ID,
			TransactionID: transactionID,
			Description:   rp.Description,
			Quantity:      rp.Quantity,
			RowTotal:      rp.RowTotal,
			CategoryID:    rp.CategoryID,
		}
		if err := row.Normalize(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	updated := *existing
	updated.Amount = payload.Amount
	updated.Description = payload.Description

	// The first row follows the parent description and amount while it is still blank.
	rec := allocation.NewRowReconciler(updated, rows, domain.RowDefaults{})
	rec.EnsureNonEmpty()
	rec.PropagateParentDescription(payload.Description)
	rec.PropagateParentAmount(payload.Amount)

	updated.Type = payload.Type
	if payload.Status != "" {
		updated.Status = payload.Status
	}
	updated.Sender = payload.Sender
	updated.Receiver = payload.Receiver
	updated.TransactionDate = payload.TransactionDate
	updated.AccountingDate = payload.AccountingDate
	updated.Loan = payload.Loan
	updated.LastUpdatedAt = time.Now()
	updated.LastUpdatedBy = userID

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := newCategoryChecker(s.categoryRepo).checkRows(ctx, updated.Type, rec.Rows()); err != nil {
		return nil, err
	}

	persisted, err := s.txnRepo.SaveTransactionWithRows(ctx, updated, rec.Rows())
	if err != nil {
		s.LogError(ctx, err, "Failed to save transaction allocation", slog.Int64("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction allocation saved",
		slog.Int64("transaction_id", transactionID),
		slog.Int("rows", len(persisted)),
		slog.String("user_id", userID))
	return &domain.TransactionAllocation{Transaction: updated, Rows: persisted}, nil
}

func (s *allocationService) AddRow(ctx context.Context, transactionID int64, userID string) (*domain.TransactionAllocation, error) {
	rec, err := s.load(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	rec.AddRow()
	return s.persistRows(ctx, rec)
}

func (s *allocationService) EditRow(ctx context.Context, transactionID int64, index int, req dto.EditRowRequest, userID string) (*domain.TransactionAllocation, error) {
	rec, err := s.load(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	rec.EnsureNonEmpty()

	edit, err := req.ToRowEdit()
	if err != nil {
		return nil, err
	}
	if edit.LastEdited == domain.RowFieldCategory && edit.CategoryID != nil {
		err := newCategoryChecker(s.categoryRepo).checkRows(ctx, rec.Transaction().Type,
			[]domain.AllocationRow{{CategoryID: edit.CategoryID}})
		if err != nil {
			return nil, err
		}
	}
	if err := rec.EditRow(index, edit); err != nil {
		return nil, err
	}
	return s.persistRows(ctx, rec)
}

func (s *allocationService) RemoveRow(ctx context.Context, transactionID int64, index int, userID string) (*domain.TransactionAllocation, error) {
	rec, err := s.load(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	rec.EnsureNonEmpty()
	if err := rec.RemoveRow(index); err != nil {
		return nil, err
	}
	return s.persistRows(ctx, rec)
}
