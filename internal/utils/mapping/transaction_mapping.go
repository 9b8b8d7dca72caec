package mapping

import (
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/SscSPs/rental_reconciler/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:   d.ID,
		TransactionType: string(d.Type),
		Status:          string(d.Status),
		Sender:          d.Sender,
		Receiver:        d.Receiver,
		Description:     d.Description,
		Amount:          d.Amount,
		TransactionDate: d.TransactionDate,
		AccountingDate:  d.AccountingDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.Loan != nil {
		m.LoanPrincipal = decimal.NewNullDecimal(d.Loan.Principal)
		m.LoanInterest = decimal.NewNullDecimal(d.Loan.Interest)
		if d.Loan.HandlingFee != nil {
			m.LoanHandlingFee = decimal.NewNullDecimal(*d.Loan.HandlingFee)
		}
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
// A loan breakdown is only present when both principal and interest are stored.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		ID:              m.TransactionID,
		Type:            domain.TransactionType(m.TransactionType),
		Status:          domain.TransactionStatus(m.Status),
		Sender:          m.Sender,
		Receiver:        m.Receiver,
		Description:     m.Description,
		Amount:          m.Amount,
		TransactionDate: m.TransactionDate,
		AccountingDate:  m.AccountingDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if m.LoanPrincipal.Valid && m.LoanInterest.Valid {
		d.Loan = &domain.LoanBreakdown{
			Principal: m.LoanPrincipal.Decimal,
			Interest:  m.LoanInterest.Decimal,
		}
		if m.LoanHandlingFee.Valid {
			fee := m.LoanHandlingFee.Decimal
			d.Loan.HandlingFee = &fee
		}
	}
	return d
}

// ToModelAllocationRow converts a domain AllocationRow at position to a model AllocationRow
func ToModelAllocationRow(d domain.AllocationRow, position int) models.AllocationRow {
	return models.AllocationRow{
		RowID:         d.ID,
		TransactionID: d.TransactionID,
		Position:      position,
		Description:   d.Description,
		Quantity:      d.Quantity,
		UnitAmount:    d.UnitAmount,
		RowTotal:      d.RowTotal,
		CategoryID:    d.CategoryID,
	}
}

// ToDomainAllocationRow converts a model AllocationRow to a domain AllocationRow
func ToDomainAllocationRow(m models.AllocationRow) domain.AllocationRow {
	return domain.AllocationRow{
		ID:            m.RowID,
		TransactionID: m.TransactionID,
		Description:   m.Description,
		Quantity:      m.Quantity,
		UnitAmount:    m.UnitAmount,
		RowTotal:      m.RowTotal,
		CategoryID:    m.CategoryID,
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		ID:       m.CategoryID,
		Kind:     domain.CategoryKind(m.Kind),
		Name:     m.Name,
		IsActive: m.IsActive,
	}
}
