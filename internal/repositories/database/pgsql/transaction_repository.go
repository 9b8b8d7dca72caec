package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_reconciler/internal/core/ports/repositories"
	"github.com/SscSPs/rental_reconciler/internal/models"
	"github.com/SscSPs/rental_reconciler/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transactions and their allocation rows.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const selectTransactionQuery = `
	SELECT transaction_id, transaction_type, status, sender, receiver, description, amount,
	       transaction_date, accounting_date, loan_principal, loan_interest, loan_handling_fee,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM transactions
	WHERE transaction_id = $1;
`

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	var m models.Transaction
	err := r.Pool.QueryRow(ctx, selectTransactionQuery, transactionID).Scan(
		&m.TransactionID,
		&m.TransactionType,
		&m.Status,
		&m.Sender,
		&m.Receiver,
		&m.Description,
		&m.Amount,
		&m.TransactionDate,
		&m.AccountingDate,
		&m.LoanPrincipal,
		&m.LoanInterest,
		&m.LoanHandlingFee,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find transaction %d", transactionID), err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// FindAllocationRows retrieves the rows of a transaction in their stored order.
func (r *PgxTransactionRepository) FindAllocationRows(ctx context.Context, transactionID int64) ([]domain.AllocationRow, error) {
	query := `
		SELECT row_id, transaction_id, position, description, quantity, unit_amount, row_total, category_id
		FROM allocation_rows
		WHERE transaction_id = $1
		ORDER BY position, row_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to query allocation rows of transaction %d", transactionID), err)
	}
	defer rows.Close()

	result := make([]domain.AllocationRow, 0)
	for rows.Next() {
		var m models.AllocationRow
		if err := rows.Scan(
			&m.RowID,
			&m.TransactionID,
			&m.Position,
			&m.Description,
			&m.Quantity,
			&m.UnitAmount,
			&m.RowTotal,
			&m.CategoryID,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan allocation row", err)
		}
		result = append(result, mapping.ToDomainAllocationRow(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating allocation rows", err)
	}
	return result, nil
}

// ListUncategorizedTransactionIDs returns income and expense transactions without a categorized row, oldest first.
func (r *PgxTransactionRepository) ListUncategorizedTransactionIDs(ctx context.Context, limit int) ([]int64, error) {
	query := `
		SELECT t.transaction_id
		FROM transactions t
		WHERE t.transaction_type IN ('INCOME', 'EXPENSE')
		  AND NOT EXISTS (
		      SELECT 1 FROM allocation_rows r
		      WHERE r.transaction_id = t.transaction_id AND r.category_id IS NOT NULL
		  )
		ORDER BY t.transaction_date, t.transaction_id
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list uncategorized transactions", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan uncategorized transaction ids", err)
	}
	return ids, nil
}

// UpdateTransaction updates the transaction's own columns.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.updateTransaction(ctx, r.Pool, txn)
}

func (r *PgxTransactionRepository) updateTransaction(ctx context.Context, q dbExecutor, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET transaction_type = $2, status = $3, sender = $4, receiver = $5, description = $6, amount = $7,
		    transaction_date = $8, accounting_date = $9,
		    loan_principal = $10, loan_interest = $11, loan_handling_fee = $12,
		    last_updated_at = $13, last_updated_by = $14
		WHERE transaction_id = $1;
	`
	cmdTag, err := q.Exec(ctx, query,
		m.TransactionID,
		m.TransactionType,
		m.Status,
		m.Sender,
		m.Receiver,
		m.Description,
		m.Amount,
		m.TransactionDate,
		m.AccountingDate,
		m.LoanPrincipal,
		m.LoanInterest,
		m.LoanHandlingFee,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to update transaction %d", txn.ID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d: %w", txn.ID, apperrors.ErrNotFound)
	}
	return nil
}

// ReplaceAllocationRows makes rows the complete row list of the transaction.
func (r *PgxTransactionRepository) ReplaceAllocationRows(ctx context.Context, transactionID int64, rows []domain.AllocationRow) ([]domain.AllocationRow, error) {
	var persisted []domain.AllocationRow
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		persisted, err = r.replaceRows(ctx, tx, transactionID, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

// SaveTransactionWithRows updates the transaction and replaces its rows in one DB transaction.
func (r *PgxTransactionRepository) SaveTransactionWithRows(ctx context.Context, txn domain.Transaction, rows []domain.AllocationRow) ([]domain.AllocationRow, error) {
	var persisted []domain.AllocationRow
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := r.updateTransaction(ctx, tx, txn); err != nil {
			return err
		}
		var err error
		persisted, err = r.replaceRows(ctx, tx, txn.ID, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

// replaceRows locks the parent transaction, deletes rows that are no longer listed,
// then inserts new rows and updates kept ones with their new positions.
func (r *PgxTransactionRepository) replaceRows(ctx context.Context, tx pgx.Tx, transactionID int64, rows []domain.AllocationRow) ([]domain.AllocationRow, error) {
	var locked int64
	err := tx.QueryRow(ctx, `SELECT transaction_id FROM transactions WHERE transaction_id = $1 FOR UPDATE;`, transactionID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to lock transaction %d", transactionID), err)
	}

	keep := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.ID != 0 {
			keep = append(keep, row.ID)
		}
	}
	_, err = tx.Exec(ctx, `DELETE FROM allocation_rows WHERE transaction_id = $1 AND NOT (row_id = ANY($2));`, transactionID, keep)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to delete removed rows of transaction %d", transactionID), err)
	}

	insertQuery := `
		INSERT INTO allocation_rows (transaction_id, position, description, quantity, unit_amount, row_total, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING row_id;
	`
	updateQuery := `
		UPDATE allocation_rows
		SET position = $3, description = $4, quantity = $5, unit_amount = $6, row_total = $7, category_id = $8
		WHERE row_id = $1 AND transaction_id = $2
		RETURNING row_id;
	`
	batch := &pgx.Batch{}
	for i, row := range rows {
		m := mapping.ToModelAllocationRow(row, i)
		if m.RowID == 0 {
			batch.Queue(insertQuery, transactionID, m.Position, m.Description, m.Quantity, m.UnitAmount, m.RowTotal, m.CategoryID)
			continue
		}
		batch.Queue(updateQuery, m.RowID, transactionID, m.Position, m.Description, m.Quantity, m.UnitAmount, m.RowTotal, m.CategoryID)
	}

	br := tx.SendBatch(ctx, batch)
	persisted := make([]domain.AllocationRow, len(rows))
	for i, row := range rows {
		var rowID int64
		if err := br.QueryRow().Scan(&rowID); err != nil {
			_ = br.Close()
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("row %d does not belong to transaction %d: %w", row.ID, transactionID, apperrors.ErrValidation)
			}
			return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to write allocation row %d", i), err)
		}
		row.ID = rowID
		row.TransactionID = transactionID
		persisted[i] = row
	}
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to execute row batch for transaction %d", transactionID), err)
	}
	return persisted, nil
}

// DeleteTransaction removes the transaction; its rows are removed by cascade.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to delete transaction %d", transactionID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}
