package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies an imported bank transaction for accounting purposes.
type TransactionType string

const (
	TypeUnknown  TransactionType = "UNKNOWN"
	TypeIncome   TransactionType = "INCOME"
	TypeExpense  TransactionType = "EXPENSE"
	TypeDeposit  TransactionType = "DEPOSIT"
	TypeWithdraw TransactionType = "WITHDRAW"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeUnknown, TypeIncome, TypeExpense, TypeDeposit, TypeWithdraw:
		return true
	}
	return false
}

// CategoryKind returns the category kind rows of this transaction type may reference.
// Deposit, withdraw and unknown transactions carry no category.
func (t TransactionType) CategoryKind() (CategoryKind, bool) {
	switch t {
	case TypeExpense:
		return CategoryExpense, true
	case TypeIncome:
		return CategoryIncome, true
	}
	return "", false
}

// TransactionStatus tracks whether the landlord has reviewed an imported transaction.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusAccepted TransactionStatus = "ACCEPTED"
)

// LoanBreakdown is the principal/interest/fee split of a loan payment as supplied by the bank
// or the user. It is stored with the transaction and consumed when splitting the payment.
type LoanBreakdown struct {
	Principal   decimal.Decimal  `json:"principal"`
	Interest    decimal.Decimal  `json:"interest"`
	HandlingFee *decimal.Decimal `json:"handlingFee,omitempty"`
}

// Transaction is a single imported bank transaction.
type Transaction struct {
	ID              int64             `json:"id"`
	Type            TransactionType   `json:"type"`
	Status          TransactionStatus `json:"status"`
	Sender          string            `json:"sender"`
	Receiver        string            `json:"receiver"`
	Description     string            `json:"description"`
	Amount          decimal.Decimal   `json:"amount"` // Signed, two fractional digits
	TransactionDate time.Time         `json:"transactionDate"`
	AccountingDate  time.Time         `json:"accountingDate"`
	Loan            *LoanBreakdown    `json:"loan,omitempty"` // Nullable
	AuditFields
}

// TransactionAllocation is a transaction together with its ordered allocation rows.
type TransactionAllocation struct {
	Transaction Transaction     `json:"transaction"`
	Rows        []AllocationRow `json:"rows"`
}

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	return s == StatusPending || s == StatusAccepted
}
