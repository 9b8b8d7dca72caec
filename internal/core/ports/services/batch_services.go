package services

import (
	"context"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/SscSPs/rental_reconciler/internal/dto"
)

// BatchSvc applies one operation to many transactions, reporting per-item outcomes.
type BatchSvc interface {
	// RunBatch returns an error only when the request itself is malformed.
	// Item failures are reported in the result.
	RunBatch(ctx context.Context, req dto.BatchRequest, userID string) (*domain.BatchResult, error)

	// AutoAllocate applies rules to up to limit transactions that have no categorized row.
	AutoAllocate(ctx context.Context, limit int, userID string) (*domain.BatchResult, error)
}
