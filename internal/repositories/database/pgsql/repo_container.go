package pgsql

import (
	portsrepo "github.com/SscSPs/rental_reconciler/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		RuleRepo:        newPgxRuleRepository(dbPool),
	}
}
