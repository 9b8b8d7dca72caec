package domain

import (
	"fmt"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AmountTolerance is the rounding slack allowed when comparing monetary totals.
var AmountTolerance = decimal.New(1, -2)

// HasCentPrecision reports whether amount has at most two fractional digits.
func HasCentPrecision(amount decimal.Decimal) bool {
	return amount.Round(2).Equal(amount)
}

// RowField names the field of an allocation row the user edited last.
// It decides which value is authoritative when the row is recomputed.
type RowField string

const (
	RowFieldDescription RowField = "description"
	RowFieldQuantity    RowField = "quantity"
	RowFieldRowTotal    RowField = "rowTotal"
	RowFieldCategory    RowField = "category"
)

// IsValid reports whether f names an editable row field.
func (f RowField) IsValid() bool {
	switch f {
	case RowFieldDescription, RowFieldQuantity, RowFieldRowTotal, RowFieldCategory:
		return true
	}
	return false
}

// AllocationRow is one categorized slice of a transaction's amount.
type AllocationRow struct {
	ID            int64           `json:"id"` // 0 until persisted
	TransactionID int64           `json:"transactionID"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	UnitAmount    decimal.Decimal `json:"unitAmount"`
	RowTotal      decimal.Decimal `json:"rowTotal"`
	CategoryID    *int64          `json:"categoryID"` // Expense or income type, by transaction type
}

// RowDefaults seeds newly created rows.
type RowDefaults struct {
	TransactionID int64
	CategoryID    *int64
}

// RowEdit carries a single-field edit of a row. Only the value belonging to LastEdited is read.
type RowEdit struct {
	LastEdited  RowField
	Description string
	Quantity    int
	RowTotal    decimal.Decimal
	CategoryID  *int64
}

// NewAllocationRow returns an empty row with quantity 1.
func NewAllocationRow(defaults RowDefaults) AllocationRow {
	row := AllocationRow{
		TransactionID: defaults.TransactionID,
		Quantity:      1,
		UnitAmount:    decimal.Zero,
		RowTotal:      decimal.Zero,
	}
	if defaults.CategoryID != nil {
		id := *defaults.CategoryID
		row.CategoryID = &id
	}
	return row
}

// SetTotal sets the row total and derives the unit amount from it.
func (r *AllocationRow) SetTotal(total decimal.Decimal) {
	r.RowTotal = total
	if r.Quantity > 0 {
		r.UnitAmount = total.Div(decimal.NewFromInt(int64(r.Quantity)))
	}
}

// SetQuantity sets the quantity and derives the unit amount from the current total.
// A zero quantity is coerced to 1.
func (r *AllocationRow) SetQuantity(quantity int) {
	if quantity == 0 {
		quantity = 1
	}
	r.Quantity = quantity
	r.UnitAmount = r.RowTotal.Div(decimal.NewFromInt(int64(quantity)))
}

// HoldsInvariant reports whether rowTotal == round(unitAmount*quantity, 2) within AmountTolerance.
func (r AllocationRow) HoldsInvariant() bool {
	if r.Quantity < 1 {
		return false
	}
	computed := r.UnitAmount.Mul(decimal.NewFromInt(int64(r.Quantity))).Round(2)
	return computed.Sub(r.RowTotal).Abs().LessThanOrEqual(AmountTolerance)
}

// ApplyEdit applies the edited field and recomputes the unit amount where needed.
func (r *AllocationRow) ApplyEdit(edit RowEdit) error {
	switch edit.LastEdited {
	case RowFieldDescription:
		r.Description = edit.Description
	case RowFieldQuantity:
		if edit.Quantity < 0 {
			return fmt.Errorf("quantity must not be negative, got %d: %w", edit.Quantity, apperrors.ErrValidation)
		}
		r.SetQuantity(edit.Quantity)
	case RowFieldRowTotal:
		if !HasCentPrecision(edit.RowTotal) {
			return fmt.Errorf("row total %s has more than two fractional digits: %w", edit.RowTotal, apperrors.ErrValidation)
		}
		r.SetTotal(edit.RowTotal)
	case RowFieldCategory:
		r.CategoryID = edit.CategoryID
	default:
		return fmt.Errorf("unknown edited field %q: %w", edit.LastEdited, apperrors.ErrValidation)
	}

	if !r.HoldsInvariant() {
		return fmt.Errorf("row total %s does not match %d x %s: %w", r.RowTotal, r.Quantity, r.UnitAmount, apperrors.ErrValidation)
	}
	return nil
}

// Normalize makes the row total authoritative: quantity is coerced to at least 1
// and the unit amount is recomputed. Negative quantities and sub-cent totals are rejected.
func (r *AllocationRow) Normalize() error {
	if r.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative, got %d: %w", r.Quantity, apperrors.ErrValidation)
	}
	if !HasCentPrecision(r.RowTotal) {
		return fmt.Errorf("row total %s has more than two fractional digits: %w", r.RowTotal, apperrors.ErrValidation)
	}
	r.SetQuantity(r.Quantity)
	if !r.HoldsInvariant() {
		return fmt.Errorf("row total %s does not match %d x %s: %w", r.RowTotal, r.Quantity, r.UnitAmount, apperrors.ErrValidation)
	}
	return nil
}

// SumRowTotals adds up the totals of rows.
func SumRowTotals(rows []AllocationRow) decimal.Decimal {
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.RowTotal)
	}
	return sum
}
