package mapping

import (
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/SscSPs/rental_reconciler/internal/models"
)

// ToModelAllocationRule converts a domain AllocationRule to its model row and condition rows
func ToModelAllocationRule(d domain.AllocationRule) (models.AllocationRule, []models.RuleCondition) {
	rule := models.AllocationRule{
		RuleID:          d.ID,
		Name:            d.Name,
		TransactionType: string(d.TransactionType),
		CategoryID:      d.CategoryID,
		IsActive:        d.IsActive,
		Priority:        d.Priority,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	conditions := make([]models.RuleCondition, len(d.Conditions))
	for i, c := range d.Conditions {
		conditions[i] = models.RuleCondition{
			RuleID:   d.ID,
			Position: i,
			Field:    string(c.Field),
			Operator: string(c.Operator),
			Value:    c.Value,
		}
	}
	return rule, conditions
}

// ToDomainAllocationRule converts a model AllocationRule and its ordered conditions to a domain AllocationRule
func ToDomainAllocationRule(m models.AllocationRule, conditions []models.RuleCondition) domain.AllocationRule {
	d := domain.AllocationRule{
		ID:              m.RuleID,
		Name:            m.Name,
		TransactionType: domain.TransactionType(m.TransactionType),
		CategoryID:      m.CategoryID,
		IsActive:        m.IsActive,
		Priority:        m.Priority,
		Conditions:      make([]domain.RuleCondition, len(conditions)),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	for i, c := range conditions {
		d.Conditions[i] = domain.RuleCondition{
			Field:    domain.ConditionField(c.Field),
			Operator: domain.ConditionOperator(c.Operator),
			Value:    c.Value,
		}
	}
	return d
}
