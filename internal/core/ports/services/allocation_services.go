package services

import (
	"context"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/SscSPs/rental_reconciler/internal/dto"
)

// AllocationReaderSvc defines read operations for a transaction's allocation.
type AllocationReaderSvc interface {
	// GetAllocation returns the transaction with its rows. A transaction without rows
	// gets a single default row covering the whole amount.
	GetAllocation(ctx context.Context, transactionID int64, userID string) (*domain.TransactionAllocation, error)
}

// AllocationWriterSvc defines single-transaction edits.
type AllocationWriterSvc interface {
	// SaveAllocation validates and persists a full {transaction, rows} payload.
	SaveAllocation(ctx context.Context, transactionID int64, req dto.SaveAllocationRequest, userID string) (*domain.TransactionAllocation, error)

	// AddRow appends a row holding the unallocated remainder.
	AddRow(ctx context.Context, transactionID int64, userID string) (*domain.TransactionAllocation, error)

	// EditRow applies one field edit to the row at index.
	EditRow(ctx context.Context, transactionID int64, index int, req dto.EditRowRequest, userID string) (*domain.TransactionAllocation, error)

	// RemoveRow deletes the row at index unless it is the last one.
	RemoveRow(ctx context.Context, transactionID int64, index int, userID string) (*domain.TransactionAllocation, error)
}

// AllocationSvcFacade combines all allocation-related service interfaces.
type AllocationSvcFacade interface {
	AllocationReaderSvc
	AllocationWriterSvc
}
