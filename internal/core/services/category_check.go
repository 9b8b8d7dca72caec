package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_reconciler/internal/core/ports/repositories"
)

// categoryChecker verifies that a category exists and fits a transaction type.
// Lookups are cached for the lifetime of the checker, so one checker is used per request.
type categoryChecker struct {
	repo  portsrepo.CategoryReader
	cache map[int64]*domain.Category
}

func newCategoryChecker(repo portsrepo.CategoryReader) *categoryChecker {
	return &categoryChecker{repo: repo, cache: make(map[int64]*domain.Category)}
}

func (c *categoryChecker) find(ctx context.Context, categoryID int64) (*domain.Category, error) {
	if cat, ok := c.cache[categoryID]; ok {
		return cat, nil
	}
	cat, err := c.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("category %d: %w", categoryID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	c.cache[categoryID] = cat
	return cat, nil
}

// check fails with ErrValidation when txnType cannot be categorized or the category kind
// does not match it, and with ErrNotFound when the category does not exist.
func (c *categoryChecker) check(ctx context.Context, txnType domain.TransactionType, categoryID int64) error {
	kind, ok := txnType.CategoryKind()
	if !ok {
		return fmt.Errorf("transactions of type %s cannot be categorized: %w", txnType, apperrors.ErrValidation)
	}
	cat, err := c.find(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat.Kind != kind {
		return fmt.Errorf("category %d is %s but transaction type %s needs %s: %w",
			categoryID, cat.Kind, txnType, kind, apperrors.ErrValidation)
	}
	return nil
}

func (c *categoryChecker) checkRows(ctx context.Context, txnType domain.TransactionType, rows []domain.AllocationRow) error {
	for i, row := range rows {
		if row.CategoryID == nil {
			continue
		}
		err := c.check(ctx, txnType, *row.CategoryID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("row %d references unknown category %d: %w", i, *row.CategoryID, apperrors.ErrValidation)
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}
