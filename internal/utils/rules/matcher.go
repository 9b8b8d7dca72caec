package rules

import (
	"strings"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Matches evaluates a single condition against a transaction.
// Text comparisons are case-sensitive. Ordering operators only apply to the amount,
// and contains never matches the amount.
func Matches(condition domain.RuleCondition, txn domain.Transaction) bool {
	if condition.Field == domain.FieldAmount {
		return matchesAmount(condition, txn.Amount)
	}

	text, ok := textField(condition.Field, txn)
	if !ok {
		return false
	}
	switch condition.Operator {
	case domain.OpEquals:
		return text == condition.Value
	case domain.OpContains:
		return strings.Contains(text, condition.Value)
	default:
		return false
	}
}

func textField(field domain.ConditionField, txn domain.Transaction) (string, bool) {
	switch field {
	case domain.FieldSender:
		return txn.Sender, true
	case domain.FieldReceiver:
		return txn.Receiver, true
	case domain.FieldDescription:
		return txn.Description, true
	}
	return "", false
}

func matchesAmount(condition domain.RuleCondition, amount decimal.Decimal) bool {
	want, err := condition.AmountValue()
	if err != nil {
		return false
	}
	switch condition.Operator {
	case domain.OpEquals:
		return amount.Equal(want)
	case domain.OpGreaterThan:
		return amount.GreaterThan(want)
	case domain.OpLessThan:
		return amount.LessThan(want)
	default:
		return false
	}
}

// MatchesAll reports whether every condition of rule matches. A rule without conditions never matches.
func MatchesAll(rule domain.AllocationRule, txn domain.Transaction) bool {
	if len(rule.Conditions) == 0 {
		return false
	}
	for _, c := range rule.Conditions {
		if !Matches(c, txn) {
			return false
		}
	}
	return true
}
