package rules

import "github.com/SscSPs/rental_reconciler/internal/core/domain"

// Resolve returns the first active rule for the transaction's type whose conditions all match.
// The order of candidates is the priority; ids and timestamps are never consulted.
// It returns nil when nothing matches.
func Resolve(txn domain.Transaction, candidates []domain.AllocationRule) *domain.AllocationRule {
	for i := range candidates {
		rule := candidates[i]
		if !rule.IsActive || rule.TransactionType != txn.Type {
			continue
		}
		if MatchesAll(rule, txn) {
			return &rule
		}
	}
	return nil
}
