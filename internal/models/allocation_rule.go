package models

// AllocationRule represents a row of the allocation_rules table.
type AllocationRule struct {
	RuleID          int64
	Name            string
	TransactionType string
	CategoryID      *int64
	IsActive        bool
	Priority        int
	AuditFields
}

// RuleCondition represents a row of the rule_conditions table.
type RuleCondition struct {
	RuleID   int64
	Position int
	Field    string
	Operator string
	Value    string
}
