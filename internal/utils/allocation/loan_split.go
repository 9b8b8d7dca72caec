package allocation

import (
	"fmt"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	principalRowDescription = "Loan principal"
	interestRowDescription  = "Loan interest"
	feeRowDescription       = "Loan handling fee"
)

// LoanSplitCategories are the expense types a loan payment is split into.
type LoanSplitCategories struct {
	Principal   int64
	Interest    int64
	HandlingFee *int64 // Optional
}

// SplitLoanPayment builds the replacement rows for a loan payment from the transaction's
// stored breakdown. The fee row is only produced when a fee category is supplied and the
// breakdown carries a non-zero fee. The rows must add up to the transaction amount within
// domain.AmountTolerance, otherwise nothing is returned. Row totals take the sign of the amount.
func SplitLoanPayment(txn domain.Transaction, categories LoanSplitCategories) ([]domain.AllocationRow, error) {
	if txn.Loan == nil {
		return nil, fmt.Errorf("transaction %d has no loan breakdown: %w", txn.ID, apperrors.ErrValidation)
	}
	loan := txn.Loan
	if loan.Principal.IsNegative() || loan.Interest.IsNegative() || (loan.HandlingFee != nil && loan.HandlingFee.IsNegative()) {
		return nil, fmt.Errorf("transaction %d has a negative loan component: %w", txn.ID, apperrors.ErrValidation)
	}

	type part struct {
		description string
		amount      decimal.Decimal
		categoryID  int64
	}
	parts := []part{
		{principalRowDescription, loan.Principal, categories.Principal},
		{interestRowDescription, loan.Interest, categories.Interest},
	}
	if categories.HandlingFee != nil && loan.HandlingFee != nil && !loan.HandlingFee.IsZero() {
		parts = append(parts, part{feeRowDescription, *loan.HandlingFee, *categories.HandlingFee})
	}

	sum := decimal.Zero
	for _, p := range parts {
		if !domain.HasCentPrecision(p.amount) {
			return nil, fmt.Errorf("transaction %d loan component %s has more than two fractional digits: %w", txn.ID, p.amount, apperrors.ErrValidation)
		}
		sum = sum.Add(p.amount)
	}
	expected := txn.Amount.Abs()
	if sum.Sub(expected).Abs().GreaterThan(domain.AmountTolerance) {
		return nil, fmt.Errorf("loan split parts sum to %s but transaction %d amount is %s: %w",
			sum.StringFixed(2), txn.ID, expected.StringFixed(2), apperrors.ErrValidation)
	}

	rows := make([]domain.AllocationRow, 0, len(parts))
	for _, p := range parts {
		categoryID := p.categoryID
		row := domain.NewAllocationRow(domain.RowDefaults{TransactionID: txn.ID, CategoryID: &categoryID})
		row.Description = p.description
		total := p.amount
		if txn.Amount.IsNegative() {
			total = total.Neg()
		}
		row.SetTotal(total)
		rows = append(rows, row)
	}
	return rows, nil
}
