package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ConditionField is the transaction attribute a rule condition inspects.
type ConditionField string

const (
	FieldSender      ConditionField = "sender"
	FieldReceiver    ConditionField = "receiver"
	FieldDescription ConditionField = "description"
	FieldAmount      ConditionField = "amount"
)

// ConditionOperator is the comparison a rule condition performs.
type ConditionOperator string

const (
	OpEquals      ConditionOperator = "equals"
	OpContains    ConditionOperator = "contains"
	OpGreaterThan ConditionOperator = "greaterThan"
	OpLessThan    ConditionOperator = "lessThan"
)

// RuleCondition is one field/operator/value test.
type RuleCondition struct {
	Field    ConditionField    `json:"field" yaml:"field"`
	Operator ConditionOperator `json:"operator" yaml:"operator"`
	Value    string            `json:"value" yaml:"value"`
}

// AllocationRule assigns a category to transactions whose fields satisfy all of its conditions.
// Rules are tried in ascending Priority; the first full match wins.
type AllocationRule struct {
	ID              int64           `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	TransactionType TransactionType `json:"transactionType" yaml:"transactionType"`
	CategoryID      *int64          `json:"categoryID" yaml:"categoryID"` // Null for deposit/withdraw rules
	Conditions      []RuleCondition `json:"conditions" yaml:"conditions"`
	IsActive        bool            `json:"isActive" yaml:"isActive"`
	Priority        int             `json:"priority" yaml:"priority"`
	AuditFields     `yaml:"-"`
}

// Validate checks the rule's shape. Category existence is checked by the service.
func (r AllocationRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required: %w", apperrors.ErrValidation)
	}
	switch r.TransactionType {
	case TypeExpense, TypeIncome:
		if r.CategoryID == nil {
			return fmt.Errorf("rule for %s transactions needs a category: %w", r.TransactionType, apperrors.ErrValidation)
		}
	case TypeDeposit, TypeWithdraw:
		if r.CategoryID != nil {
			return fmt.Errorf("rule for %s transactions cannot have a category: %w", r.TransactionType, apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("rule transaction type %q is not supported: %w", r.TransactionType, apperrors.ErrValidation)
	}
	if len(r.Conditions) == 0 {
		return fmt.Errorf("rule must have at least one condition: %w", apperrors.ErrValidation)
	}
	for i, c := range r.Conditions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i+1, err)
		}
	}
	return nil
}

// AmountValue parses the value of an amount condition. Surrounding whitespace is ignored.
func (c RuleCondition) AmountValue() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(c.Value))
}

// Validate checks that the field/operator combination is meaningful.
func (c RuleCondition) Validate() error {
	switch c.Field {
	case FieldSender, FieldReceiver, FieldDescription:
		switch c.Operator {
		case OpEquals, OpContains:
			return nil
		case OpGreaterThan, OpLessThan:
			return fmt.Errorf("operator %s only applies to amount: %w", c.Operator, apperrors.ErrValidation)
		}
	case FieldAmount:
		switch c.Operator {
		case OpEquals, OpGreaterThan, OpLessThan:
			if _, err := c.AmountValue(); err != nil {
				return fmt.Errorf("amount value %q is not a number: %w", c.Value, apperrors.ErrValidation)
			}
			return nil
		case OpContains:
			return fmt.Errorf("operator contains does not apply to amount: %w", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown condition field %q: %w", c.Field, apperrors.ErrValidation)
	}
	return fmt.Errorf("unknown condition operator %q: %w", c.Operator, apperrors.ErrValidation)
}
