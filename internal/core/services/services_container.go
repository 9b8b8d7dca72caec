package services

import (
	portsrepo "github.com/SscSPs/rental_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// tracker may be nil when analytics are disabled.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, tracker EventTracker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Allocation = NewAllocationService(repos.TransactionRepo, repos.CategoryRepo)

	container.Rule = NewRuleService(
		repos.RuleRepo,
		WithRuleTransactionReader(repos.TransactionRepo),
		WithRuleCategoryReader(repos.CategoryRepo),
	)

	batchOptions := []BatchServiceOption{WithBatchMaxItems(cfg.BatchMaxItems)}
	if tracker != nil {
		batchOptions = append(batchOptions, WithBatchEventTracker(tracker))
	}
	container.Batch = NewBatchService(repos.TransactionRepo, repos.CategoryRepo, repos.RuleRepo, batchOptions...)

	return container
}
