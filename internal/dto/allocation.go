package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionPayload carries the editable fields of a transaction in a single-record save.
type TransactionPayload struct {
	Type            domain.TransactionType   `json:"type" binding:"required,txntype"`
	Status          domain.TransactionStatus `json:"status" binding:"omitempty,txnstatus"`
	Sender          string                   `json:"sender"`
	Receiver        string                   `json:"receiver"`
	Description     string                   `json:"description"`
	Amount          decimal.Decimal          `json:"amount"`
	TransactionDate time.Time                `json:"transactionDate"`
	AccountingDate  time.Time                `json:"accountingDate"`
	Loan            *domain.LoanBreakdown    `json:"loan"` // Optional
}

// RowPayload is one allocation row in a single-record save. The row total is authoritative.
type RowPayload struct {
	ID          int64           `json:"id"` // 0 for new rows
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" binding:"min=0"`
	RowTotal    decimal.Decimal `json:"rowTotal"`
	CategoryID  *int64          `json:"categoryID"`
}

// SaveAllocationRequest is the full {transaction, rows} payload of a single-transaction edit.
type SaveAllocationRequest struct {
	Transaction TransactionPayload `json:"transaction" binding:"required"`
	Rows        []RowPayload       `json:"rows" binding:"dive"`
}

// EditRowRequest edits one field of one row; LastEdited selects which value is read.
type EditRowRequest struct {
	LastEdited  domain.RowField  `json:"lastEdited" binding:"required,rowfield"`
	Description string           `json:"description"`
	Quantity    int              `json:"quantity"`
	RowTotal    *decimal.Decimal `json:"rowTotal"`
	CategoryID  *int64           `json:"categoryID"`
}

// ToRowEdit converts the request to the domain edit. A rowTotal edit must carry a total.
func (r EditRowRequest) ToRowEdit() (domain.RowEdit, error) {
	edit := domain.RowEdit{
		LastEdited:  r.LastEdited,
		Description: r.Description,
		Quantity:    r.Quantity,
		CategoryID:  r.CategoryID,
	}
	if r.LastEdited == domain.RowFieldRowTotal {
		if r.RowTotal == nil {
			return domain.RowEdit{}, fmt.Errorf("rowTotal is required when it is the edited field: %w", apperrors.ErrValidation)
		}
		edit.RowTotal = *r.RowTotal
	}
	return edit, nil
}

// RowResponse defines the data returned for an allocation row.
type RowResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitAmount  decimal.Decimal `json:"unitAmount"`
	RowTotal    decimal.Decimal `json:"rowTotal"`
	CategoryID  *int64          `json:"categoryID"`
}

// AllocationResponse is a transaction with its rows. Unallocated is informational;
// a non-zero value never blocks saving.
type AllocationResponse struct {
	Transaction domain.Transaction `json:"transaction"`
	Rows        []RowResponse      `json:"rows"`
	Unallocated decimal.Decimal    `json:"unallocated"`
	Balanced    bool               `json:"balanced"`
}

// ToRowResponse converts a domain.AllocationRow to RowResponse DTO.
func ToRowResponse(row domain.AllocationRow) RowResponse {
	return RowResponse{
		ID:          row.ID,
		Description: row.Description,
		Quantity:    row.Quantity,
		UnitAmount:  row.UnitAmount.Round(2),
		RowTotal:    row.RowTotal,
		CategoryID:  row.CategoryID,
	}
}

// ToAllocationResponse converts a domain.TransactionAllocation to AllocationResponse DTO.
func ToAllocationResponse(a *domain.TransactionAllocation) AllocationResponse {
	rows := make([]RowResponse, len(a.Rows))
	for i, row := range a.Rows {
		rows[i] = ToRowResponse(row)
	}
	unallocated := a.Transaction.Amount.Sub(domain.SumRowTotals(a.Rows))
	return AllocationResponse{
		Transaction: a.Transaction,
		Rows:        rows,
		Unallocated: unallocated,
		Balanced:    unallocated.Abs().LessThanOrEqual(domain.AmountTolerance),
	}
}
