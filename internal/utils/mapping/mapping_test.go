package mapping_test

import (
	"testing"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/SscSPs/rental_reconciler/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionLoanBreakdown(t *testing.T) {
	fee := decimal.RequireFromString("2.50")
	withLoan := domain.Transaction{
		ID:     4,
		Type:   domain.TypeExpense,
		Amount: decimal.RequireFromString("-300.00"),
		Loan: &domain.LoanBreakdown{
			Principal:   decimal.RequireFromString("250.00"),
			Interest:    decimal.RequireFromString("47.50"),
			HandlingFee: &fee,
		},
	}

	back := mapping.ToDomainTransaction(mapping.ToModelTransaction(withLoan))
	require.NotNil(t, back.Loan)
	require.NotNil(t, back.Loan.HandlingFee)
	assert.True(t, back.Loan.HandlingFee.Equal(fee))

	withoutLoan := mapping.ToModelTransaction(domain.Transaction{ID: 5})
	assert.False(t, withoutLoan.LoanPrincipal.Valid)
	assert.Nil(t, mapping.ToDomainTransaction(withoutLoan).Loan)
}

func TestRuleConditionPositions(t *testing.T) {
	rule := domain.AllocationRule{
		ID: 9,
		Conditions: []domain.RuleCondition{
			{Field: domain.FieldSender, Operator: domain.OpEquals, Value: "a"},
			{Field: domain.FieldAmount, Operator: domain.OpLessThan, Value: "0"},
		},
	}

	m, conditions := mapping.ToModelAllocationRule(rule)
	require.Len(t, conditions, 2)
	assert.Equal(t, 1, conditions[1].Position)
	assert.Equal(t, rule.Conditions, mapping.ToDomainAllocationRule(m, conditions).Conditions)
}
