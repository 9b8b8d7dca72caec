package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a row of the transactions table.
type Transaction struct {
	TransactionID   int64
	TransactionType string
	Status          string
	Sender          string
	Receiver        string
	Description     string
	Amount          decimal.Decimal
	TransactionDate time.Time
	AccountingDate  time.Time
	LoanPrincipal   decimal.NullDecimal // Null when no loan breakdown is stored
	LoanInterest    decimal.NullDecimal
	LoanHandlingFee decimal.NullDecimal
	AuditFields
}

// AllocationRow represents a row of the allocation_rows table.
type AllocationRow struct {
	RowID         int64
	TransactionID int64
	Position      int
	Description   string
	Quantity      int
	UnitAmount    decimal.Decimal
	RowTotal      decimal.Decimal
	CategoryID    *int64
}
