package repositories

import (
	"context"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
)

// CategoryReader looks up expense and income types. Categories are read-only here.
type CategoryReader interface {
	// FindCategoryByID retrieves a category. Returns apperrors.ErrNotFound if it does not exist.
	FindCategoryByID(ctx context.Context, categoryID int64) (*domain.Category, error)
}
