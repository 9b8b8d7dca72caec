package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_reconciler/internal/core/ports/repositories"
	"github.com/SscSPs/rental_reconciler/internal/models"
	"github.com/SscSPs/rental_reconciler/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryReader {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryReader = (*PgxCategoryRepository)(nil)

// FindCategoryByID retrieves an expense or income type by its ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID int64) (*domain.Category, error) {
	query := `SELECT category_id, kind, name, is_active FROM categories WHERE category_id = $1;`
	var m models.Category
	err := r.Pool.QueryRow(ctx, query, categoryID).Scan(&m.CategoryID, &m.Kind, &m.Name, &m.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find category %d", categoryID), err)
	}
	category := mapping.ToDomainCategory(m)
	return &category, nil
}
