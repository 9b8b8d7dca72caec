package repositories

import (
	"context"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
)

// TransactionReader defines read operations for transactions and their allocation rows
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction. Returns apperrors.ErrNotFound if it does not exist.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// FindAllocationRows retrieves the rows of a transaction in their stored order.
	FindAllocationRows(ctx context.Context, transactionID int64) ([]domain.AllocationRow, error)

	// ListUncategorizedTransactionIDs returns ids of income/expense transactions without any categorized row,
	// oldest first.
	ListUncategorizedTransactionIDs(ctx context.Context, limit int) ([]int64, error)
}

// TransactionWriter defines write operations for transactions and their allocation rows
type TransactionWriter interface {
	// UpdateTransaction updates the transaction's own fields. Rows are not touched.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// ReplaceAllocationRows makes rows the complete row list of the transaction within one DB transaction.
	// Rows with ID 0 are inserted, others are updated, missing ones are deleted.
	// The persisted rows are returned with their ids.
	ReplaceAllocationRows(ctx context.Context, transactionID int64, rows []domain.AllocationRow) ([]domain.AllocationRow, error)

	// SaveTransactionWithRows updates the transaction and replaces its rows atomically.
	SaveTransactionWithRows(ctx context.Context, txn domain.Transaction, rows []domain.AllocationRow) ([]domain.AllocationRow, error)

	// DeleteTransaction removes the transaction and its rows.
	DeleteTransaction(ctx context.Context, transactionID int64) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
