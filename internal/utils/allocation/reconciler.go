package allocation

import (
	"fmt"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RowReconciler keeps the allocation rows of one transaction consistent while they are
// added, edited and removed. It is not safe for concurrent use.
type RowReconciler struct {
	transaction domain.Transaction
	rows        []domain.AllocationRow
	defaults    domain.RowDefaults
}

// NewRowReconciler wraps rows of txn. The rows slice is copied.
func NewRowReconciler(txn domain.Transaction, rows []domain.AllocationRow, defaults domain.RowDefaults) *RowReconciler {
	if defaults.TransactionID == 0 {
		defaults.TransactionID = txn.ID
	}
	copied := make([]domain.AllocationRow, len(rows))
	copy(copied, rows)
	return &RowReconciler{transaction: txn, rows: copied, defaults: defaults}
}

// Transaction returns the parent transaction as currently known to the reconciler.
func (r *RowReconciler) Transaction() domain.Transaction {
	return r.transaction
}

// Rows returns a copy of the current rows.
func (r *RowReconciler) Rows() []domain.AllocationRow {
	out := make([]domain.AllocationRow, len(r.rows))
	copy(out, r.rows)
	return out
}

// Len returns the number of rows.
func (r *RowReconciler) Len() int {
	return len(r.rows)
}

// Unallocated is the part of the transaction amount not covered by any row.
// Negative means the rows are over-allocated; that is reported, not rejected.
func (r *RowReconciler) Unallocated() decimal.Decimal {
	return r.transaction.Amount.Sub(domain.SumRowTotals(r.rows))
}

// EnsureNonEmpty creates the first row holding the unallocated remainder when there are no rows.
// It reports whether a row was created.
func (r *RowReconciler) EnsureNonEmpty() bool {
	if len(r.rows) > 0 {
		return false
	}
	r.appendRemainderRow()
	return true
}

// AddRow appends a row holding the unallocated remainder, which may be zero or negative.
func (r *RowReconciler) AddRow() domain.AllocationRow {
	return r.appendRemainderRow()
}

func (r *RowReconciler) appendRemainderRow() domain.AllocationRow {
	row := domain.NewAllocationRow(r.defaults)
	row.SetTotal(r.Unallocated())
	r.rows = append(r.rows, row)
	return row
}

// RemoveRow removes the row at index. Removing the last remaining row is a no-op.
func (r *RowReconciler) RemoveRow(index int) error {
	if index < 0 || index >= len(r.rows) {
		return fmt.Errorf("row index %d out of range [0,%d): %w", index, len(r.rows), apperrors.ErrValidation)
	}
	if len(r.rows) == 1 {
		return nil
	}
	r.rows = append(r.rows[:index], r.rows[index+1:]...)
	return nil
}

// EditRow applies a single-field edit to the row at index.
// Other rows are not rebalanced.
func (r *RowReconciler) EditRow(index int, edit domain.RowEdit) error {
	if index < 0 || index >= len(r.rows) {
		return fmt.Errorf("row index %d out of range [0,%d): %w", index, len(r.rows), apperrors.ErrValidation)
	}
	row := r.rows[index]
	if err := row.ApplyEdit(edit); err != nil {
		return err
	}
	r.rows[index] = row
	return nil
}

// PropagateParentDescription copies the parent description to the first row while that
// row's description is still empty. It reports whether the row changed.
func (r *RowReconciler) PropagateParentDescription(description string) bool {
	r.transaction.Description = description
	if len(r.rows) == 0 || r.rows[0].Description != "" {
		return false
	}
	r.rows[0].Description = description
	return true
}

// PropagateParentAmount copies the parent amount to the first row's total while that
// row's unit amount is still zero. It reports whether the row changed.
func (r *RowReconciler) PropagateParentAmount(amount decimal.Decimal) bool {
	r.transaction.Amount = amount
	if len(r.rows) == 0 || !r.rows[0].UnitAmount.IsZero() {
		return false
	}
	r.rows[0].SetTotal(amount)
	return true
}

// AssignCategory sets categoryID on every row.
func (r *RowReconciler) AssignCategory(categoryID *int64) {
	for i := range r.rows {
		if categoryID == nil {
			r.rows[i].CategoryID = nil
			continue
		}
		id := *categoryID
		r.rows[i].CategoryID = &id
	}
}

// HasCategorizedRow reports whether any row already references a category.
func (r *RowReconciler) HasCategorizedRow() bool {
	for _, row := range r.rows {
		if row.CategoryID != nil {
			return true
		}
	}
	return false
}

// Validate checks every row holds the total/unit/quantity invariant.
func (r *RowReconciler) Validate() error {
	if len(r.rows) == 0 {
		return fmt.Errorf("transaction %d has no allocation rows: %w", r.transaction.ID, apperrors.ErrValidation)
	}
	for i, row := range r.rows {
		if !row.HoldsInvariant() {
			return fmt.Errorf("row %d of transaction %d violates total invariant: %w", i, r.transaction.ID, apperrors.ErrValidation)
		}
	}
	return nil
}
